package translate

import (
	"strings"
	"testing"

	"splitkb/firmware/matrix"
)

type lineLog struct {
	lines []string
}

func (l *lineLog) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *lineLog) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

func TestEdgeLogger(t *testing.T) {
	log := &lineLog{}
	e := NewEdgeLogger(log)

	var snap matrix.Snapshot
	snap[2] = 0b1
	e.Consume(&snap)
	if len(log.lines) != 0 {
		t.Fatalf("first snapshot must only prime state, got %v", log.lines)
	}

	snap[2] = 0
	snap[12] = 0b100
	e.Consume(&snap)

	got := strings.Join(log.lines, ";")
	if want := "up c=2 r=0;down c=12 r=2"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEdgeLoggerCopiesSnapshot(t *testing.T) {
	log := &lineLog{}
	e := NewEdgeLogger(log)

	var snap matrix.Snapshot
	e.Consume(&snap)
	snap[0] = 0b10
	e.Consume(&snap)
	snap[0] = 0b10
	e.Consume(&snap)
	if len(log.lines) != 1 {
		t.Fatalf("expected a single edge, got %v", log.lines)
	}
}

func TestFanout(t *testing.T) {
	var calls int
	f := Fanout{Func(func(*matrix.Snapshot) { calls++ }), nil, Func(func(*matrix.Snapshot) { calls++ })}
	f.Consume(&matrix.Snapshot{})
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}
