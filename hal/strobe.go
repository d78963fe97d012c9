package hal

import "fmt"

// Row lines land on the raw port layout used by the scan core: rows 0-1
// at bits 0-1, rows 2-5 at bits 4-7.
var rowRawBit = [...]byte{1 << 0, 1 << 1, 1 << 4, 1 << 5, 1 << 6, 1 << 7}

// pinStrobe implements ColumnStrobe over generic GPIO pins.
//
// Idle columns float as inputs; the strobed column is driven low. Rows are
// inputs with pull-ups, so a closed switch on the strobed column reads low.
type pinStrobe struct {
	cols   []GPIOPin
	rows   []GPIOPin
	settle func()
}

func newPinStrobe(cols, rows []GPIOPin, settle func()) (*pinStrobe, error) {
	if len(rows) > len(rowRawBit) {
		return nil, fmt.Errorf("strobe: %d rows, at most %d supported", len(rows), len(rowRawBit))
	}
	for _, c := range cols {
		if c == nil {
			return nil, fmt.Errorf("strobe: nil column pin")
		}
		if err := c.Configure(GPIOModeInput, GPIOPullNone); err != nil {
			return nil, fmt.Errorf("strobe: column: %w", err)
		}
	}
	for _, r := range rows {
		if r == nil {
			return nil, fmt.Errorf("strobe: nil row pin")
		}
		if err := r.Configure(GPIOModeInput, GPIOPullUp); err != nil {
			return nil, fmt.Errorf("strobe: row: %w", err)
		}
	}
	return &pinStrobe{cols: cols, rows: rows, settle: settle}, nil
}

func (s *pinStrobe) Columns() int { return len(s.cols) }

func (s *pinStrobe) Assert(col int) {
	if col < 0 || col >= len(s.cols) {
		return
	}
	p := s.cols[col]
	if err := p.Configure(GPIOModeOutput, GPIOPullNone); err != nil {
		return
	}
	_ = p.Write(false)
}

func (s *pinStrobe) Settle() {
	if s.settle != nil {
		s.settle()
	}
}

func (s *pinStrobe) Sample() byte {
	raw := byte(0xFF)
	for i, r := range s.rows {
		level, err := r.Read()
		if err != nil {
			continue
		}
		if !level {
			raw &^= rowRawBit[i]
		}
	}
	return raw
}

func (s *pinStrobe) Release(col int) {
	if col < 0 || col >= len(s.cols) {
		return
	}
	_ = s.cols[col].Configure(GPIOModeInput, GPIOPullNone)
}
