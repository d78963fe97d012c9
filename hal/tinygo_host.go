//go:build tinygo && !baremetal

package hal

import (
	"fmt"
	"time"

	"splitkb/firmware/remote"
	"splitkb/internal/config"
)

type tinyGoHostHAL struct {
	logger *tinyGoHostLogger
	leds   []LED
	fb     *tinyGoHostFramebuffer
	board  *virtualBoard
	strobe ColumnStrobe
	clock  *tinyGoHostClock
	fault  error
}

// New returns a TinyGo-on-host HAL implementation backed by the virtual
// keyboard.
//
// This is used by `tinygo run` targets like linux/wasm where there is no MCU pin mapping.
func New(cfg config.Config) HAL {
	h := &tinyGoHostHAL{
		logger: &tinyGoHostLogger{},
		fb:     newTinyGoHostFramebuffer(320, 240),
		board:  newVirtualBoard(nil),
		clock:  &tinyGoHostClock{start: time.Now()},
	}
	h.board.SetConnected(cfg.Virtual.RemoteConnected)
	h.board.SetReduced(cfg.Virtual.ReducedProtocol)
	for i := 0; i < 3; i++ {
		pin := newVirtualPin(fmt.Sprintf("LED%d", i), GPIOCapOutput)
		_ = pin.Configure(GPIOModeOutput, GPIOPullNone)
		h.leds = append(h.leds, newPinLED(pin))
	}
	s, err := newPinStrobe(h.board.columnPins(), h.board.rows, nil)
	if err != nil {
		h.fault = err
		return h
	}
	h.strobe = s
	return h
}

func (h *tinyGoHostHAL) Logger() Logger        { return h.logger }
func (h *tinyGoHostHAL) LEDs() []LED           { return h.leds }
func (h *tinyGoHostHAL) Display() Display      { return tinyGoHostDisplay{fb: h.fb} }
func (h *tinyGoHostHAL) Strobe() ColumnStrobe  { return h.strobe }
func (h *tinyGoHostHAL) Remote() remote.Poller { return h.board }
func (h *tinyGoHostHAL) Clock() Clock          { return h.clock }
func (h *tinyGoHostHAL) Link() Link            { return h.board }
func (h *tinyGoHostHAL) Fault() error          { return h.fault }

type tinyGoHostDisplay struct {
	fb Framebuffer
}

func (d tinyGoHostDisplay) Framebuffer() Framebuffer { return d.fb }

type tinyGoHostClock struct {
	start time.Time
}

func (c *tinyGoHostClock) Idle(ms int) {
	if ms > 0 {
		time.Sleep(time.Duration(ms) * time.Millisecond)
	}
}

func (c *tinyGoHostClock) NowMilliseconds() uint32 {
	return uint32(time.Since(c.start) / time.Millisecond)
}

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

type tinyGoHostFramebuffer struct {
	w      int
	h      int
	stride int
	buf    []byte
}

func newTinyGoHostFramebuffer(w, h int) *tinyGoHostFramebuffer {
	stride := w * 2
	return &tinyGoHostFramebuffer{
		w:      w,
		h:      h,
		stride: stride,
		buf:    make([]byte, stride*h),
	}
}

func (f *tinyGoHostFramebuffer) Width() int          { return f.w }
func (f *tinyGoHostFramebuffer) Height() int         { return f.h }
func (f *tinyGoHostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *tinyGoHostFramebuffer) StrideBytes() int    { return f.stride }
func (f *tinyGoHostFramebuffer) Buffer() []byte      { return f.buf }

func (f *tinyGoHostFramebuffer) ClearRGB(r, g, b uint8) {
	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *tinyGoHostFramebuffer) Present() error {
	// No-op by default for tinygo host targets.
	return nil
}
