package hal

import (
	"fmt"
	"sync"
	"time"
)

const (
	boardColumns  = 14
	remoteColumns = 7
	localColumns  = boardColumns - remoteColumns
	boardRows     = 6
)

// virtualBoard is an in-memory split keyboard: a switch matrix whose local
// half is wired to virtual column/row pins and whose remote half answers
// polls while "connected".
type virtualBoard struct {
	mu        sync.Mutex
	closed    [boardColumns]byte
	connected bool
	reduced   bool

	cols []*virtualPin
	rows []GPIOPin

	readyAt time.Time
	now     func() time.Time
}

func newVirtualBoard(now func() time.Time) *virtualBoard {
	if now == nil {
		now = time.Now
	}
	b := &virtualBoard{now: now, readyAt: now()}
	for i := 0; i < localColumns; i++ {
		b.cols = append(b.cols, newVirtualPin(fmt.Sprintf("COL%d", remoteColumns+i), GPIOCapInput|GPIOCapOutput))
	}
	for r := 0; r < boardRows; r++ {
		b.rows = append(b.rows, &switchRowPin{b: b, row: r})
	}
	return b
}

func (b *virtualBoard) columnPins() []GPIOPin {
	pins := make([]GPIOPin, len(b.cols))
	for i, p := range b.cols {
		pins[i] = p
	}
	return pins
}

// SetKey closes or opens the switch at (col, row).
func (b *virtualBoard) SetKey(col, row int, down bool) {
	if col < 0 || col >= boardColumns || row < 0 || row >= boardRows {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	bit := byte(1) << uint(row)
	if down {
		b.closed[col] |= bit
	} else {
		b.closed[col] &^= bit
	}
}

// ToggleKey flips the switch at (col, row).
func (b *virtualBoard) ToggleKey(col, row int) {
	if col < 0 || col >= boardColumns || row < 0 || row >= boardRows {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed[col] ^= 1 << uint(row)
}

// Keys returns the switch state.
func (b *virtualBoard) Keys() [boardColumns]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *virtualBoard) SetConnected(v bool) {
	b.mu.Lock()
	b.connected = v
	b.mu.Unlock()
}

func (b *virtualBoard) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

func (b *virtualBoard) SetReduced(v bool) {
	b.mu.Lock()
	b.reduced = v
	b.mu.Unlock()
}

// SetReadyAfter delays link readiness by d from now.
func (b *virtualBoard) SetReadyAfter(d time.Duration) {
	b.mu.Lock()
	b.readyAt = b.now().Add(d)
	b.mu.Unlock()
}

// Poll implements remote.Poller for the remote-owned columns.
func (b *virtualBoard) Poll(cols []byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return false
	}
	copy(cols, b.closed[:remoteColumns])
	return true
}

func (b *virtualBoard) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.now().Before(b.readyAt)
}

func (b *virtualBoard) ReducedProtocol() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reduced
}

// switchRowPin reads low while a driven column closes a switch on its row.
type switchRowPin struct {
	b    *virtualBoard
	row  int
	mu   sync.Mutex
	pull GPIOPull
}

func (p *switchRowPin) Name() string   { return fmt.Sprintf("ROW%d", p.row) }
func (p *switchRowPin) Caps() GPIOCaps { return GPIOCapInput | GPIOCapPullUp }

func (p *switchRowPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkConfig(p.Name(), p.Caps(), mode, pull); err != nil {
		return err
	}
	p.mu.Lock()
	p.pull = pull
	p.mu.Unlock()
	return nil
}

// A floating row (no pull-up) also reads high.
func (p *switchRowPin) Read() (bool, error) {
	p.b.mu.Lock()
	defer p.b.mu.Unlock()
	bit := byte(1) << uint(p.row)
	for i, col := range p.b.cols {
		if p.b.closed[remoteColumns+i]&bit != 0 && col.drivenLow() {
			return false, nil
		}
	}
	return true, nil
}

func (p *switchRowPin) Write(bool) error {
	return fmt.Errorf("gpio: pin %s: output unsupported", p.Name())
}
