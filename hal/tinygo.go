//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"

	"splitkb/firmware/remote"
	"splitkb/internal/config"
)

type tinyGoHAL struct {
	logger *uartLogger
	leds   []LED
	strobe ColumnStrobe
	remote remote.Poller
	clock  *tinyGoClock
	fault  error
}

// New returns a Pico (RP2040) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// Local columns GP2..GP8, rows GP9..GP14, indicators LED/GP17/GP18.
// Remote half: MCP23018 on I2C0, SDA GP20 / SCL GP21, 400 kHz.
func New(cfg config.Config) HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	h := &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		clock:  newTinyGoClock(),
	}

	for i, p := range []machine.Pin{machine.LED, machine.GP17, machine.GP18} {
		pin := newMachinePin(fmt.Sprintf("LED%d", i), p)
		_ = pin.Configure(GPIOModeOutput, GPIOPullNone)
		h.leds = append(h.leds, newPinLED(pin))
	}

	var cols, rows []GPIOPin
	for i, p := range []machine.Pin{machine.GP2, machine.GP3, machine.GP4, machine.GP5, machine.GP6, machine.GP7, machine.GP8} {
		cols = append(cols, newMachinePin(fmt.Sprintf("COL%d", i), p))
	}
	for i, p := range []machine.Pin{machine.GP9, machine.GP10, machine.GP11, machine.GP12, machine.GP13, machine.GP14} {
		rows = append(rows, newMachinePin(fmt.Sprintf("ROW%d", i), p))
	}
	s, err := newPinStrobe(cols, rows, settleCycles(cfg.Scan.SettleCycles))
	if err != nil {
		h.fault = err
		return h
	}
	h.strobe = s

	bus := machine.I2C0
	if err := bus.Configure(machine.I2CConfig{
		SDA:       machine.GP20,
		SCL:       machine.GP21,
		Frequency: 400 * machine.KHz,
	}); err != nil {
		h.fault = fmt.Errorf("i2c0: %w", err)
		return h
	}
	h.remote = remote.NewMCP23018(bus, remote.DefaultAddress)
	return h
}

func (h *tinyGoHAL) Logger() Logger        { return h.logger }
func (h *tinyGoHAL) LEDs() []LED           { return h.leds }
func (h *tinyGoHAL) Display() Display      { return nil }
func (h *tinyGoHAL) Strobe() ColumnStrobe  { return h.strobe }
func (h *tinyGoHAL) Remote() remote.Poller { return h.remote }
func (h *tinyGoHAL) Clock() Clock          { return h.clock }
func (h *tinyGoHAL) Link() Link            { return usbLink{} }
func (h *tinyGoHAL) Fault() error          { return h.fault }
