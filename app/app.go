// Package app assembles the scan firmware from a HAL and a configuration.
package app

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"splitkb/firmware/halt"
	"splitkb/firmware/indicator"
	"splitkb/firmware/loop"
	"splitkb/firmware/matrix"
	"splitkb/firmware/remote"
	"splitkb/firmware/stats"
	"splitkb/firmware/translate"
	"splitkb/hal"
	"splitkb/internal/buildinfo"
	"splitkb/internal/config"
)

// Options are run-time additions that do not belong in the config file.
type Options struct {
	// Translator receives every merged snapshot after the built-in ones.
	Translator translate.Translator
	// Sink receives statistics reports.
	Sink stats.Sink
	// MaxIterations stops the loop after that many iterations (0 = never).
	MaxIterations uint64
}

// Firmware is the assembled controller.
type Firmware struct {
	h    hal.HAL
	cfg  config.Config
	ind  *indicator.Driver
	loop *loop.Loop
	halt *halt.Handler
}

// New wires the firmware to h. Every indicator is lit until the link is
// ready.
func New(h hal.HAL, cfg config.Config, opts Options) *Firmware {
	clock := h.Clock()
	ind := indicator.New(h.LEDs(), clock.NowMilliseconds)
	ind.SetHalfPeriod(uint32(cfg.Indicator.FlashHalfPeriodMs))
	ind.Tick()

	f := &Firmware{h: h, cfg: cfg, ind: ind}

	f.halt = halt.New(ind, h.Logger(), clock)
	f.halt.SetRepeat(cfg.Scan.HaltRepeatMs)
	f.halt.OnEnter = f.paintHalt

	var chain translate.Fanout
	if cfg.Scan.LogEdges {
		chain = append(chain, translate.NewEdgeLogger(h.Logger()))
	}
	if m, ok := h.(hal.Monitor); ok {
		chain = append(chain, translate.Func(func(snap *matrix.Snapshot) {
			m.Publish(snap[:])
		}))
	}
	if opts.Translator != nil {
		chain = append(chain, opts.Translator)
	}

	var local *matrix.Reader
	if s := h.Strobe(); s != nil {
		cols := make([]int, min(s.Columns(), matrix.LocalColumns))
		for i := range cols {
			cols[i] = i
		}
		local = matrix.NewReader(s, cols)
	}

	var poller remote.Poller = remote.Disconnected{}
	if r := h.Remote(); r != nil {
		poller = r
	}

	f.loop = loop.New(loop.Config{
		Remote:        poller,
		Local:         local,
		Translator:    chain,
		Indicators:    ind,
		Clock:         clock,
		Log:           h.Logger(),
		Link:          h.Link(),
		IdleMs:        cfg.Scan.IdleMs,
		ReadyDelayMs:  cfg.Scan.ReadyDelayMs,
		Stats:         cfg.Stats.Enabled,
		Sink:          opts.Sink,
		Banner:        buildinfo.Banner(),
		MaxIterations: opts.MaxIterations,
	})
	return f
}

// Loop exposes the orchestrator.
func (f *Firmware) Loop() *loop.Loop { return f.loop }

// Indicators exposes the indicator driver.
func (f *Firmware) Indicators() *indicator.Driver { return f.ind }

// Run scans until ctx is done or the iteration limit is reached. A HAL
// fault or a panic in the loop ends in the halt pattern, which only
// returns once ctx is done.
func (f *Firmware) Run(ctx context.Context) error {
	if err := f.h.Fault(); err != nil {
		return f.halt.HangContext(ctx, "fatal: "+err.Error())
	}

	msg, err := f.runLoop(ctx)
	if msg != "" {
		return f.halt.HangContext(ctx, msg)
	}
	return err
}

func (f *Firmware) runLoop(ctx context.Context) (panicMsg string, err error) {
	defer func() {
		if v := recover(); v != nil {
			panicMsg = fmt.Sprintf("panic: %v", v)
			f.logStack(debug.Stack())
		}
	}()
	return "", f.loop.Run(ctx)
}

func (f *Firmware) logStack(stack []byte) {
	l := f.h.Logger()
	if l == nil {
		return
	}
	for _, line := range strings.Split(string(stack), "\n") {
		if line == "" {
			continue
		}
		l.WriteLineString(line)
	}
}

// Run starts the firmware and blocks forever (TinyGo/native entrypoint).
func Run(h hal.HAL, cfg config.Config) {
	_ = New(h, cfg, Options{}).Run(context.Background())
	select {}
}
