//go:build tinygo && baremetal

package hal

import (
	"device/arm"
	"machine"
	"time"
)

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

// machinePin adapts a machine.Pin to GPIOPin.
type machinePin struct {
	name string
	pin  machine.Pin
	mode GPIOMode
}

func newMachinePin(name string, pin machine.Pin) *machinePin {
	return &machinePin{name: name, pin: pin}
}

func (p *machinePin) Name() string { return p.name }

func (p *machinePin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkConfig(p.name, p.Caps(), mode, pull); err != nil {
		return err
	}
	var m machine.PinMode
	switch {
	case mode == GPIOModeOutput:
		m = machine.PinOutput
	case pull == GPIOPullUp:
		m = machine.PinInputPullup
	case pull == GPIOPullDown:
		m = machine.PinInputPulldown
	default:
		m = machine.PinInput
	}
	p.pin.Configure(machine.PinConfig{Mode: m})
	p.mode = mode
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	if p.mode != GPIOModeOutput {
		return ErrNotImplemented
	}
	p.pin.Set(level)
	return nil
}

// settleCycles busy-waits n no-ops between strobe and sample.
func settleCycles(n int) func() {
	if n <= 0 {
		return nil
	}
	return func() {
		for i := 0; i < n; i++ {
			arm.Asm("nop")
		}
	}
}

type tinyGoClock struct {
	start time.Time
}

func newTinyGoClock() *tinyGoClock { return &tinyGoClock{start: time.Now()} }

func (c *tinyGoClock) Idle(ms int) {
	if ms > 0 {
		time.Sleep(time.Duration(ms) * time.Millisecond)
	}
}

func (c *tinyGoClock) NowMilliseconds() uint32 {
	return uint32(time.Since(c.start) / time.Millisecond)
}

// usbLink is the Pico's host link. The machine package exposes neither
// enumeration state nor the boot/report protocol selection to firmware, so
// the link is always ready and on the full protocol; the WAIT_READY gate
// and the reduced-protocol flash only engage on hosted backends.
type usbLink struct{}

func (usbLink) Ready() bool           { return true }
func (usbLink) ReducedProtocol() bool { return false }
