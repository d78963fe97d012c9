package remote

import (
	"errors"
	"testing"
)

// fakeExpander models the register file of an MCP23018 wired to a matrix.
type fakeExpander struct {
	regs    [0x16]byte
	pressed [expanderColumns]byte // row bits per column
	failTx  int                   // fail the n-th transaction (1-based), 0 = never
	txCount int
	writes  int
}

var errBus = errors.New("nack")

func (f *fakeExpander) Tx(addr uint16, w, r []byte) error {
	f.txCount++
	if f.failTx != 0 && f.txCount == f.failTx {
		return errBus
	}
	if addr != DefaultAddress {
		return errBus
	}
	if len(w) == 0 {
		return errors.New("empty write")
	}
	reg := w[0]
	if len(w) == 2 {
		f.regs[reg] = w[1]
		f.writes++
	}
	if len(r) > 0 {
		r[0] = f.readReg(reg)
	}
	return nil
}

func (f *fakeExpander) readReg(reg byte) byte {
	if reg != regGPIOB {
		return f.regs[reg]
	}
	rows := byte(0xFF)
	for col := 0; col < expanderColumns; col++ {
		if f.regs[regIODIRA]&(1<<uint(col)) == 0 {
			rows &^= f.pressed[col]
		}
	}
	return rows
}

func TestMCP23018Poll(t *testing.T) {
	f := &fakeExpander{}
	f.pressed[0] = 0b000001
	f.pressed[3] = 0b100100
	m := NewMCP23018(f, 0)

	cols := make([]byte, expanderColumns)
	if !m.Poll(cols) {
		t.Fatal("expected poll to succeed")
	}
	want := []byte{0b000001, 0, 0, 0b100100, 0, 0, 0}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("col %d: got %06b, want %06b", i, cols[i], want[i])
		}
	}
	if f.regs[regGPPUB] != 0xFF {
		t.Fatalf("row pull-ups not enabled: %02x", f.regs[regGPPUB])
	}
	if f.regs[regIODIRA] != 0xFF {
		t.Fatalf("columns left driven: IODIRA=%08b", f.regs[regIODIRA])
	}
}

func TestMCP23018PollFailureReinitialises(t *testing.T) {
	f := &fakeExpander{}
	m := NewMCP23018(f, DefaultAddress)

	cols := make([]byte, expanderColumns)
	if !m.Poll(cols) {
		t.Fatal("expected first poll to succeed")
	}

	f.failTx = f.txCount + 3
	if m.Poll(cols) {
		t.Fatal("expected poll to fail on bus error")
	}
	if m.ready {
		t.Fatal("expected device to be marked for re-init")
	}

	f.failTx = 0
	before := f.writes
	if !m.Poll(cols) {
		t.Fatal("expected poll to recover")
	}
	// 5 init writes + 7 strobes + 1 release.
	if got := f.writes - before; got != 13 {
		t.Fatalf("expected re-init before scanning, got %d writes", got)
	}
}

func TestMCP23018NoBus(t *testing.T) {
	m := NewMCP23018(nil, 0)
	if err := m.Begin(); err == nil {
		t.Fatal("expected error without bus")
	}
	if m.Poll(make([]byte, expanderColumns)) {
		t.Fatal("expected poll to fail without bus")
	}
}

func TestDisconnected(t *testing.T) {
	if (Disconnected{}).Poll(make([]byte, 7)) {
		t.Fatal("expected disconnected poller to fail")
	}
}
