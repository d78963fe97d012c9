//go:build linux && !tinygo

package hal

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"splitkb/firmware/remote"
	"splitkb/internal/config"
)

const gpioConsumer = "splitkb"

// openLinux wires the local half to GPIO character device lines and the
// remote half to an MCP23018 on an I2C bus.
func (h *hostHAL) openLinux(cfg config.LinuxConfig, settle func()) error {
	var cols, rows []GPIOPin
	for _, off := range cfg.Columns {
		p, err := h.requestPin(cfg.Chip, off, false)
		if err != nil {
			return err
		}
		cols = append(cols, p)
	}
	for _, off := range cfg.Rows {
		p, err := h.requestPin(cfg.Chip, off, false)
		if err != nil {
			return err
		}
		rows = append(rows, p)
	}
	for _, off := range cfg.LEDs {
		p, err := h.requestPin(cfg.Chip, off, true)
		if err != nil {
			return err
		}
		h.ledPins = append(h.ledPins, newPinLED(p))
	}

	s, err := newPinStrobe(cols, rows, settle)
	if err != nil {
		return err
	}
	h.strobe = s

	if cfg.NoRemote {
		return nil
	}
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph: %w", err)
	}
	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("i2c %q: %w", cfg.I2CBus, err)
	}
	h.closers = append(h.closers, bus)
	h.remote = remote.NewMCP23018(bus, cfg.RemoteAddr)
	return nil
}

func (h *hostHAL) requestPin(chip string, offset int, output bool) (*cdevPin, error) {
	p, err := requestCdevPin(chip, offset, output)
	if err != nil {
		return nil, err
	}
	h.closers = append(h.closers, p)
	return p, nil
}

// cdevPin is a GPIOPin backed by a gpiocdev line request.
type cdevPin struct {
	mu   sync.Mutex
	name string
	line *gpiocdev.Line
	mode GPIOMode
}

func requestCdevPin(chip string, offset int, output bool) (*cdevPin, error) {
	name := fmt.Sprintf("%s:%d", chip, offset)
	mode := GPIOModeInput
	var l *gpiocdev.Line
	var err error
	if output {
		mode = GPIOModeOutput
		l, err = gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(gpioConsumer))
	} else {
		l, err = gpiocdev.RequestLine(chip, offset, gpiocdev.AsInput, gpiocdev.WithConsumer(gpioConsumer))
	}
	if err != nil {
		return nil, fmt.Errorf("gpio: request %s: %w", name, err)
	}
	return &cdevPin{name: name, line: l, mode: mode}, nil
}

func (p *cdevPin) Name() string { return p.name }

func (p *cdevPin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p *cdevPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkConfig(p.name, p.Caps(), mode, pull); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	switch {
	case mode == GPIOModeOutput:
		err = p.line.Reconfigure(gpiocdev.AsOutput(0))
	case pull == GPIOPullUp:
		err = p.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp)
	case pull == GPIOPullDown:
		err = p.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown)
	default:
		err = p.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithBiasDisabled)
	}
	if err != nil {
		return fmt.Errorf("gpio: %s: %w", p.name, err)
	}
	p.mode = mode
	return nil
}

func (p *cdevPin) Read() (bool, error) {
	v, err := p.line.Value()
	if err != nil {
		return false, fmt.Errorf("gpio: %s: %w", p.name, err)
	}
	return v != 0, nil
}

func (p *cdevPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	v := 0
	if level {
		v = 1
	}
	return p.line.SetValue(v)
}

func (p *cdevPin) Close() error {
	return p.line.Close()
}
