package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"splitkb/firmware/matrix"
	"splitkb/firmware/remote"
	"splitkb/firmware/translate"
	"splitkb/hal"
	"splitkb/internal/config"
)

type lineLog struct {
	lines []string
}

func (l *lineLog) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *lineLog) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

func (l *lineLog) has(s string) bool {
	for _, line := range l.lines {
		if line == s {
			return true
		}
	}
	return false
}

type fakeLED struct{ lit bool }

func (l *fakeLED) High() { l.lit = true }
func (l *fakeLED) Low()  { l.lit = false }

type fakeClock struct {
	now    uint32
	idles  int
	onIdle func(n int)
}

func (c *fakeClock) Idle(ms int) {
	c.now += uint32(ms)
	c.idles++
	if c.onIdle != nil {
		c.onIdle(c.idles)
	}
}

func (c *fakeClock) NowMilliseconds() uint32 { return c.now }

// keyStrobe reports pressed rows per local column, in compact row bits.
// pressAt delays the presses until that scan pass.
type keyStrobe struct {
	pressed [matrix.LocalColumns]byte
	pressAt int
	pass    int
	cur     int
}

func (s *keyStrobe) Columns() int { return matrix.LocalColumns }
func (s *keyStrobe) Assert(col int) {
	if col == 0 {
		s.pass++
	}
	s.cur = col
}
func (s *keyStrobe) Settle()     {}
func (s *keyStrobe) Release(int) {}
func (s *keyStrobe) Sample() byte {
	if s.pass < s.pressAt {
		return 0xFF
	}
	k := s.pressed[s.cur]
	return ^(k&0x03 | (k&0x3C)<<2)
}

type fixedRemote struct {
	cols []byte
	ok   bool
}

func (r *fixedRemote) Poll(cols []byte) bool {
	if !r.ok {
		return false
	}
	copy(cols, r.cols)
	return true
}

type readyLink struct{}

func (readyLink) Ready() bool           { return true }
func (readyLink) ReducedProtocol() bool { return false }

type fakeFB struct {
	w, h      int
	buf       []byte
	presented bool
}

func newFakeFB(w, h int) *fakeFB { return &fakeFB{w: w, h: h, buf: make([]byte, w*h*2)} }

func (f *fakeFB) Width() int              { return f.w }
func (f *fakeFB) Height() int             { return f.h }
func (f *fakeFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *fakeFB) StrideBytes() int        { return f.w * 2 }
func (f *fakeFB) Buffer() []byte          { return f.buf }
func (f *fakeFB) Present() error          { f.presented = true; return nil }
func (f *fakeFB) ClearRGB(r, g, b uint8) {
	px := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = byte(px)
		f.buf[i+1] = byte(px >> 8)
	}
}

type fakeDisplay struct{ fb *fakeFB }

func (d fakeDisplay) Framebuffer() hal.Framebuffer { return d.fb }

type fakeHAL struct {
	log       *lineLog
	leds      []*fakeLED
	fb        *fakeFB
	strobe    *keyStrobe
	remote    *fixedRemote
	clock     *fakeClock
	fault     error
	published []byte
}

func newFakeHAL() *fakeHAL {
	h := &fakeHAL{
		log:    &lineLog{},
		fb:     newFakeFB(64, 32),
		strobe: &keyStrobe{},
		remote: &fixedRemote{cols: make([]byte, matrix.RemoteColumns), ok: true},
		clock:  &fakeClock{},
	}
	for i := 0; i < 3; i++ {
		h.leds = append(h.leds, &fakeLED{})
	}
	return h
}

func (h *fakeHAL) Logger() hal.Logger { return h.log }
func (h *fakeHAL) LEDs() []hal.LED {
	leds := make([]hal.LED, len(h.leds))
	for i, l := range h.leds {
		leds[i] = l
	}
	return leds
}
func (h *fakeHAL) Display() hal.Display     { return fakeDisplay{fb: h.fb} }
func (h *fakeHAL) Strobe() hal.ColumnStrobe { return h.strobe }
func (h *fakeHAL) Remote() remote.Poller    { return h.remote }
func (h *fakeHAL) Clock() hal.Clock         { return h.clock }
func (h *fakeHAL) Link() hal.Link           { return readyLink{} }
func (h *fakeHAL) Fault() error             { return h.fault }
func (h *fakeHAL) Publish(snapshot []byte)  { h.published = append(h.published[:0], snapshot...) }

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Scan.LogEdges = true
	return cfg
}

func TestNewLightsEveryIndicator(t *testing.T) {
	h := newFakeHAL()
	New(h, testConfig(), Options{})
	for i, l := range h.leds {
		if !l.lit {
			t.Fatalf("LED %d off before readiness", i)
		}
	}
}

func TestRunScansAndTranslates(t *testing.T) {
	h := newFakeHAL()
	h.remote.cols[0] = 1
	h.strobe.pressed[2] = 1 << 3
	h.strobe.pressAt = 2

	var consumed int
	f := New(h, testConfig(), Options{
		MaxIterations: 3,
		Translator:    translate.Func(func(*matrix.Snapshot) { consumed++ }),
	})
	if err := f.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if consumed != 3 {
		t.Fatalf("translator saw %d snapshots, want 3", consumed)
	}
	if !strings.HasPrefix(h.log.lines[0], "Ready") {
		t.Fatalf("banner: %v", h.log.lines)
	}
	if !h.log.has("down c=9 r=3") {
		t.Fatalf("missing edge: %v", h.log.lines)
	}
	if len(h.published) != matrix.Columns || h.published[0] != 1 || h.published[9] != 1<<3 {
		t.Fatalf("published %v", h.published)
	}
	for i, l := range h.leds {
		if l.lit {
			t.Fatalf("LED %d lit while connected", i)
		}
	}
}

func TestRunDisconnectedLightsLinkIndicator(t *testing.T) {
	h := newFakeHAL()
	h.remote.ok = false

	f := New(h, testConfig(), Options{MaxIterations: 2})
	if err := f.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !h.leds[0].lit || h.leds[1].lit || h.leds[2].lit {
		t.Fatalf("leds: %v %v %v", h.leds[0].lit, h.leds[1].lit, h.leds[2].lit)
	}
}

func TestRunFaultHalts(t *testing.T) {
	h := newFakeHAL()
	h.fault = errors.New("hal: linux: gpio: request gpiochip0:4: busy")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.clock.onIdle = func(n int) {
		if n == 3 {
			cancel()
		}
	}

	f := New(h, testConfig(), Options{})
	if err := f.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run: %v", err)
	}

	msg := "fatal: hal: linux: gpio: request gpiochip0:4: busy"
	if len(h.log.lines) != 3 || h.log.lines[0] != msg {
		t.Fatalf("log: %v", h.log.lines)
	}
	ind := f.Indicators()
	if ind.Flash() != 0xFF || ind.Steady() != 0 || ind.On() != 0 {
		t.Fatalf("halt masks: on=%08b steady=%08b flash=%08b", ind.On(), ind.Steady(), ind.Flash())
	}
	if !h.fb.presented {
		t.Fatal("halt screen not presented")
	}
	if h.fb.buf[0] != 0x00 || h.fb.buf[1] != 0xA0 {
		t.Fatalf("background %02x%02x", h.fb.buf[1], h.fb.buf[0])
	}
	if f.Loop().State().String() != "init" {
		t.Fatalf("loop ran on a faulted HAL: %s", f.Loop().State())
	}
}

func TestRunPanicHalts(t *testing.T) {
	h := newFakeHAL()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := New(h, testConfig(), Options{
		Translator: translate.Func(func(*matrix.Snapshot) { panic("boom") }),
	})
	h.clock.onIdle = func(int) {
		if h.log.has("panic: boom") {
			cancel()
		}
	}
	if err := f.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run: %v", err)
	}
	if !h.log.has("panic: boom") {
		t.Fatalf("log: %v", h.log.lines)
	}
	if f.Indicators().Flash() != 0xFF {
		t.Fatalf("flash = %08b", f.Indicators().Flash())
	}
}

func TestTakeRunes(t *testing.T) {
	cases := []struct {
		s          string
		n          int16
		head, tail string
	}{
		{"abcdef", 4, "abcd", "ef"},
		{"abc", 4, "abc", ""},
		{"äöüß", 2, "äö", "üß"},
		{"", 3, "", ""},
	}
	for _, tc := range cases {
		head, tail := takeRunes(tc.s, tc.n)
		if head != tc.head || tail != tc.tail {
			t.Fatalf("takeRunes(%q, %d) = %q, %q", tc.s, tc.n, head, tail)
		}
	}
}
