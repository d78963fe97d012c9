// Package translate holds the hand-off point from scanning to key handling.
package translate

import (
	"fmt"

	"splitkb/firmware/matrix"
	"splitkb/hal"
)

// Translator consumes one merged snapshot per iteration.
//
// The snapshot is rewritten on the next iteration; implementations must
// copy anything they keep.
type Translator interface {
	Consume(snap *matrix.Snapshot)
}

// Func adapts a function to Translator.
type Func func(snap *matrix.Snapshot)

func (f Func) Consume(snap *matrix.Snapshot) { f(snap) }

// EdgeLogger reports key transitions on the debug output.
type EdgeLogger struct {
	log  hal.Logger
	prev matrix.Snapshot
	seen bool
}

func NewEdgeLogger(log hal.Logger) *EdgeLogger {
	return &EdgeLogger{log: log}
}

func (e *EdgeLogger) Consume(snap *matrix.Snapshot) {
	if snap == nil {
		return
	}
	if !e.seen {
		e.prev = *snap
		e.seen = true
		return
	}
	for c := 0; c < matrix.Columns; c++ {
		changed := e.prev[c] ^ snap[c]
		if changed == 0 {
			continue
		}
		for r := 0; r < 8; r++ {
			bit := byte(1) << uint(r)
			if changed&bit == 0 {
				continue
			}
			dir := "up"
			if snap[c]&bit != 0 {
				dir = "down"
			}
			if e.log != nil {
				e.log.WriteLineString(fmt.Sprintf("%s c=%d r=%d", dir, c, r))
			}
		}
	}
	e.prev = *snap
}

// Fanout forwards every snapshot to each translator in order.
type Fanout []Translator

func (f Fanout) Consume(snap *matrix.Snapshot) {
	for _, t := range f {
		if t != nil {
			t.Consume(snap)
		}
	}
}
