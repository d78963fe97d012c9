//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"splitkb/firmware/remote"
	"splitkb/internal/config"
)

const (
	hostScreenWidth  = 320
	hostScreenHeight = 240
	hostLEDs         = 3
)

type hostHAL struct {
	logger *hostLogger
	leds   []LED
	fb     *hostFramebuffer
	strobe ColumnStrobe
	remote remote.Poller
	clock  *hostClock
	link   Link

	// board is the in-memory keyboard of the virtual backend (nil otherwise).
	board   *virtualBoard
	ledPins []*pinLED
	closers []io.Closer
	fault   error

	seenMu sync.Mutex
	seen   [boardColumns]byte
}

// New returns a host HAL for the backend selected in cfg.
//
// Bring-up failures do not make New fail: they are reported through Fault
// so the firmware can halt with the message on its indicators and screen.
func New(cfg config.Config) HAL {
	return newHost(cfg)
}

func newHost(cfg config.Config) *hostHAL {
	h := &hostHAL{
		logger: &hostLogger{w: os.Stdout},
		fb:     newHostFramebuffer(hostScreenWidth, hostScreenHeight),
		clock:  newHostClock(),
		remote: remote.Disconnected{},
		link:   staticLink{},
	}
	settle := settleFor(time.Duration(cfg.Scan.SettleUs) * time.Microsecond)

	var err error
	switch cfg.Backend {
	case config.BackendVirtual, "":
		err = h.openVirtual(cfg.Virtual, settle)
	case config.BackendLinux:
		err = h.openLinux(cfg.Linux, settle)
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		h.fault = fmt.Errorf("hal: %s: %w", cfg.Backend, err)
	}
	for _, l := range h.ledPins {
		h.leds = append(h.leds, l)
	}
	return h
}

func (h *hostHAL) openVirtual(cfg config.VirtualConfig, settle func()) error {
	b := newVirtualBoard(nil)
	b.SetConnected(cfg.RemoteConnected)
	b.SetReduced(cfg.ReducedProtocol)
	if cfg.ReadyAfterMs > 0 {
		b.SetReadyAfter(time.Duration(cfg.ReadyAfterMs) * time.Millisecond)
	}
	for _, k := range cfg.Pressed {
		col, row, err := config.ParseKey(k)
		if err != nil {
			return err
		}
		b.SetKey(col, row, true)
	}

	s, err := newPinStrobe(b.columnPins(), b.rows, settle)
	if err != nil {
		return err
	}
	for i := 0; i < hostLEDs; i++ {
		pin := newVirtualPin(fmt.Sprintf("LED%d", i), GPIOCapOutput)
		if err := pin.Configure(GPIOModeOutput, GPIOPullNone); err != nil {
			return err
		}
		h.ledPins = append(h.ledPins, newPinLED(pin))
	}

	h.board = b
	h.strobe = s
	h.remote = b
	h.link = b
	return nil
}

func (h *hostHAL) Logger() Logger        { return h.logger }
func (h *hostHAL) LEDs() []LED           { return h.leds }
func (h *hostHAL) Display() Display      { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Strobe() ColumnStrobe  { return h.strobe }
func (h *hostHAL) Remote() remote.Poller { return h.remote }
func (h *hostHAL) Clock() Clock          { return h.clock }
func (h *hostHAL) Link() Link            { return h.link }
func (h *hostHAL) Fault() error          { return h.fault }

// Close releases the backend devices.
func (h *hostHAL) Close() error {
	var errs []error
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	h.closers = nil
	return errors.Join(errs...)
}

// Publish records the snapshot the firmware merged last.
func (h *hostHAL) Publish(snapshot []byte) {
	h.seenMu.Lock()
	copy(h.seen[:], snapshot)
	h.seenMu.Unlock()
}

func (h *hostHAL) published() [boardColumns]byte {
	h.seenMu.Lock()
	defer h.seenMu.Unlock()
	return h.seen
}

// ledState reports which indicators are lit, bit i for LED i.
func (h *hostHAL) ledState() byte {
	var mask byte
	for i, l := range h.ledPins {
		if l.Lit() {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

// staticLink is a host link that is always configured for the full protocol.
type staticLink struct{}

func (staticLink) Ready() bool           { return true }
func (staticLink) ReducedProtocol() bool { return false }

func settleFor(d time.Duration) func() {
	if d <= 0 {
		return nil
	}
	return func() {
		deadline := time.Now().Add(d)
		for time.Now().Before(deadline) {
		}
	}
}
