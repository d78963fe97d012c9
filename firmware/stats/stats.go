// Package stats accumulates scan-loop timing for periodic diagnostics.
package stats

import (
	"fmt"
	"strings"
)

// WindowMs is the combined idle+active time covered by one report.
const WindowMs = 10000

// Report is one statistics window.
type Report struct {
	Scans     uint32
	IdleMs    uint32
	ActiveMs  uint32
	Connected bool
}

func (r Report) totalMs() uint32 { return r.IdleMs + r.ActiveMs }

// ScansPerSecond assumes the report covers WindowMs.
func (r Report) ScansPerSecond() uint32 {
	return r.Scans / (WindowMs / 1000)
}

// MicrosPerScan is the average wall time of one iteration.
func (r Report) MicrosPerScan() uint32 {
	if r.Scans == 0 {
		return 0
	}
	return uint32(1000 * uint64(r.totalMs()) / uint64(r.Scans))
}

// IdlePercent is the share of the window spent in the idle branch.
func (r Report) IdlePercent() uint32 {
	t := 1000 * uint64(r.totalMs())
	if t == 0 {
		return 0
	}
	return uint32(100000 * uint64(r.IdleMs) / t)
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d scans/sec. %dus/scan. Sleep:%d%%.", r.ScansPerSecond(), r.MicrosPerScan(), r.IdlePercent())
	if !r.Connected {
		b.WriteString(" LH not connected.")
	}
	return b.String()
}

// Sink receives completed reports in addition to the debug line.
type Sink interface {
	Observe(Report)
}

// Accumulator measures idle and active time per iteration.
type Accumulator struct {
	now  func() uint32
	last uint32

	scans    uint32
	idleMs   uint32
	activeMs uint32
}

// New starts measuring from now().
func New(now func() uint32) *Accumulator {
	a := &Accumulator{now: now}
	if now != nil {
		a.last = now()
	}
	return a
}

// MarkIdle closes the poll/idle phase of an iteration and charges its
// elapsed time to idle, whether or not the poll succeeded. Waiting for the
// remote half is time the controller spends doing nothing.
func (a *Accumulator) MarkIdle() {
	a.idleMs += a.elapsed()
}

// MarkActive closes the scan/translate/status phase and counts the scan.
//
// It returns a report and resets the counters once WindowMs is reached.
func (a *Accumulator) MarkActive(connected bool) (Report, bool) {
	a.activeMs += a.elapsed()
	a.scans++
	if a.idleMs+a.activeMs < WindowMs {
		return Report{}, false
	}
	r := Report{
		Scans:     a.scans,
		IdleMs:    a.idleMs,
		ActiveMs:  a.activeMs,
		Connected: connected,
	}
	a.Reset()
	return r, true
}

// Counters returns the running totals.
func (a *Accumulator) Counters() (scans, idleMs, activeMs uint32) {
	return a.scans, a.idleMs, a.activeMs
}

// Reset zeroes the counters without moving the time mark.
func (a *Accumulator) Reset() {
	a.scans = 0
	a.idleMs = 0
	a.activeMs = 0
}

func (a *Accumulator) elapsed() uint32 {
	if a.now == nil {
		return 0
	}
	t := a.now()
	d := t - a.last
	a.last = t
	return d
}
