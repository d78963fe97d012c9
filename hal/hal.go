package hal

import (
	"errors"

	"splitkb/firmware/remote"
)

// Logger writes newline-delimited log lines (the debug output).
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// ColumnStrobe reads the locally wired half one column at a time.
//
// Sample returns the raw, active-low row port: rows 0-1 at bits 0-1 and
// rows 2-5 at bits 4-7. Unused bits read high.
type ColumnStrobe interface {
	Columns() int
	Assert(col int)
	Settle()
	Sample() byte
	Release(col int)
}

// Clock provides the time/yield service.
type Clock interface {
	Idle(ms int)
	NowMilliseconds() uint32
}

// Link reports the state of the host connection.
type Link interface {
	Ready() bool
	ReducedProtocol() bool
}

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	LEDs() []LED
	Display() Display
	Strobe() ColumnStrobe
	Remote() remote.Poller
	Clock() Clock
	Link() Link

	// Fault returns the error that prevented full bring-up, if any. The
	// remaining devices are usable enough to report it.
	Fault() error
}

// Monitor is implemented by HALs that can show the matrix snapshot the
// firmware has merged.
type Monitor interface {
	Publish(snapshot []byte)
}
