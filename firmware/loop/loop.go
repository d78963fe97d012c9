// Package loop sequences one scan iteration after another.
package loop

import (
	"context"
	"fmt"

	"splitkb/firmware/matrix"
	"splitkb/firmware/power"
	"splitkb/firmware/remote"
	"splitkb/firmware/stats"
	"splitkb/firmware/status"
	"splitkb/firmware/translate"
	"splitkb/hal"
)

// DefaultReadyDelayMs is the pause between link readiness and scanning.
const DefaultReadyDelayMs = 1000

// State is the orchestrator's lifecycle state.
type State uint8

const (
	StateInit State = iota
	StateWaitReady
	StateSteady
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateWaitReady:
		return "wait-ready"
	case StateSteady:
		return "steady"
	default:
		return "unknown"
	}
}

// Link is the host communication link.
type Link interface {
	// Ready reports whether the host has configured the device.
	Ready() bool
	// ReducedProtocol reports whether the host selected the boot protocol.
	ReducedProtocol() bool
}

// Indicators is the indicator driver used by the loop.
type Indicators interface {
	status.Indicators
	SetOn(mask byte)
}

// Beginner is implemented by remote pollers that need bring-up after the
// readiness wait.
type Beginner interface {
	Begin() error
}

// Config wires the loop to its collaborators.
type Config struct {
	Remote     remote.Poller
	Local      *matrix.Reader
	Translator translate.Translator
	Indicators Indicators
	Clock      power.Clock
	Log        hal.Logger
	Link       Link

	IdleMs int
	// ReadyDelayMs follows link readiness: 0 selects DefaultReadyDelayMs,
	// negative skips the delay.
	ReadyDelayMs int

	// Stats enables the statistics accumulator; Sink optionally receives
	// each report.
	Stats bool
	Sink  stats.Sink

	// Banner is written once the link is ready.
	Banner string

	// MaxIterations stops Run after that many steady iterations (0 = never).
	MaxIterations uint64
}

// Loop is the scan-loop orchestrator. It is not safe for concurrent use.
type Loop struct {
	cfg Config

	snap   matrix.Snapshot
	merger *matrix.Merger
	polled [matrix.RemoteColumns]byte
	local  [matrix.LocalColumns]byte

	status *status.Aggregator
	power  *power.Policy
	stats  *stats.Accumulator

	state      State
	connected  bool
	iterations uint64
}

func New(cfg Config) *Loop {
	if cfg.Remote == nil {
		cfg.Remote = remote.Disconnected{}
	}
	switch {
	case cfg.ReadyDelayMs == 0:
		cfg.ReadyDelayMs = DefaultReadyDelayMs
	case cfg.ReadyDelayMs < 0:
		cfg.ReadyDelayMs = 0
	}
	l := &Loop{cfg: cfg}
	l.merger = matrix.NewMerger(&l.snap)
	if cfg.Indicators != nil {
		l.status = status.New(cfg.Indicators)
	}
	l.power = power.New(cfg.Clock, cfg.IdleMs)
	return l
}

// Snapshot returns the shared matrix snapshot.
func (l *Loop) Snapshot() *matrix.Snapshot { return &l.snap }

// Connected reports the connectivity flag of the last iteration.
func (l *Loop) Connected() bool { return l.connected }

func (l *Loop) State() State { return l.state }

// Iterations returns the number of completed steady iterations.
func (l *Loop) Iterations() uint64 { return l.iterations }

// Stats returns the accumulator, or nil when statistics are disabled.
func (l *Loop) Stats() *stats.Accumulator { return l.stats }

// WaitReady blocks until the link is ready, then prepares steady scanning.
func (l *Loop) WaitReady(ctx context.Context) error {
	l.state = StateWaitReady
	if l.cfg.Link != nil {
		for !l.cfg.Link.Ready() {
			if err := ctx.Err(); err != nil {
				return err
			}
			l.idle(1)
		}
	}
	if l.cfg.ReadyDelayMs > 0 {
		l.idle(l.cfg.ReadyDelayMs)
	}

	l.println(l.cfg.Banner)
	if l.cfg.Indicators != nil {
		l.cfg.Indicators.SetOn(0)
	}

	// A missing remote half is not fatal: polling retries every iteration.
	if b, ok := l.cfg.Remote.(Beginner); ok {
		if err := b.Begin(); err != nil {
			l.println(fmt.Sprintf("remote: %v", err))
		}
	}

	if l.cfg.Stats && l.cfg.Clock != nil {
		l.stats = stats.New(l.cfg.Clock.NowMilliseconds)
	}
	l.state = StateSteady
	return nil
}

// Step runs one steady iteration.
func (l *Loop) Step() {
	copy(l.polled[:], l.snap.Remote())
	ok := l.cfg.Remote.Poll(l.polled[:])
	l.connected = ok

	l.power.After(ok)
	if l.stats != nil {
		l.stats.MarkIdle()
	}

	if l.cfg.Local != nil {
		l.cfg.Local.Scan(l.local[:])
	}
	snap := l.merger.Merge(l.polled[:], ok, l.local[:])

	if l.cfg.Translator != nil {
		l.cfg.Translator.Consume(snap)
	}

	reduced := false
	if l.cfg.Link != nil {
		reduced = l.cfg.Link.ReducedProtocol()
	}
	l.status.Update(reduced, ok)

	if l.stats != nil {
		if r, done := l.stats.MarkActive(ok); done {
			l.println(r.String())
			if l.cfg.Sink != nil {
				l.cfg.Sink.Observe(r)
			}
		}
	}
	l.iterations++
}

// Run waits for readiness and then steps until ctx is done or
// MaxIterations is reached.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.WaitReady(ctx); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.cfg.MaxIterations > 0 && l.iterations >= l.cfg.MaxIterations {
			return nil
		}
		l.Step()
	}
}

func (l *Loop) idle(ms int) {
	if l.cfg.Clock != nil {
		l.cfg.Clock.Idle(ms)
	}
}

func (l *Loop) println(s string) {
	if l.cfg.Log != nil && s != "" {
		l.cfg.Log.WriteLineString(s)
	}
}
