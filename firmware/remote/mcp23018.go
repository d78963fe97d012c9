package remote

import (
	"fmt"

	"tinygo.org/x/drivers"
)

// DefaultAddress is the MCP23018 address with ADDR tied to ground.
const DefaultAddress uint16 = 0x20

// MCP23018 register map (IOCON.BANK = 0).
const (
	regIODIRA = 0x00
	regIODIRB = 0x01
	regGPPUA  = 0x0C
	regGPPUB  = 0x0D
	regGPIOB  = 0x13
	regOLATA  = 0x14
)

const (
	expanderColumns = 7
	expanderRowMask = 0x3F
)

// MCP23018 scans the remote half through an MCP23018 I/O expander.
//
// Port A drives the columns (open-drain, low when strobed), port B reads
// the rows with the internal pull-ups enabled.
type MCP23018 struct {
	bus  drivers.I2C
	addr uint16

	ready bool
	w     [2]byte
	r     [1]byte
}

// NewMCP23018 returns a poller on bus at addr.
func NewMCP23018(bus drivers.I2C, addr uint16) *MCP23018 {
	if addr == 0 {
		addr = DefaultAddress
	}
	return &MCP23018{bus: bus, addr: addr}
}

// Begin configures the expander. Poll calls it again after a bus error.
func (m *MCP23018) Begin() error {
	if m == nil || m.bus == nil {
		return fmt.Errorf("mcp23018: no bus")
	}
	m.ready = false
	for _, kv := range [...][2]byte{
		{regIODIRA, 0xFF},
		{regIODIRB, 0xFF},
		{regGPPUA, 0x00},
		{regGPPUB, 0xFF},
		{regOLATA, 0x00},
	} {
		if err := m.write(kv[0], kv[1]); err != nil {
			return fmt.Errorf("mcp23018: init reg 0x%02x: %w", kv[0], err)
		}
	}
	m.ready = true
	return nil
}

func (m *MCP23018) Poll(cols []byte) bool {
	if m == nil || m.bus == nil {
		return false
	}
	if !m.ready {
		if err := m.Begin(); err != nil {
			return false
		}
	}
	for i := 0; i < expanderColumns && i < len(cols); i++ {
		if err := m.write(regIODIRA, ^byte(1<<uint(i))); err != nil {
			m.ready = false
			return false
		}
		rows, err := m.read(regGPIOB)
		if err != nil {
			m.ready = false
			return false
		}
		cols[i] = ^rows & expanderRowMask
	}
	if err := m.write(regIODIRA, 0xFF); err != nil {
		m.ready = false
		return false
	}
	return true
}

func (m *MCP23018) write(reg, v byte) error {
	m.w[0] = reg
	m.w[1] = v
	return m.bus.Tx(m.addr, m.w[:2], nil)
}

func (m *MCP23018) read(reg byte) (byte, error) {
	m.w[0] = reg
	if err := m.bus.Tx(m.addr, m.w[:1], m.r[:]); err != nil {
		return 0, err
	}
	return m.r[0], nil
}
