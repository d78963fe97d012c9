//go:build !tinygo

package hal

import (
	"context"
	"sort"
	"time"

	"splitkb/internal/config"
)

// RunFunc runs the firmware on h until ctx is done or it gives up.
type RunFunc func(ctx context.Context, h HAL) error

// RunHeadless runs the firmware without opening a window. On the virtual
// backend the configured script drives the keyboard in the background.
func RunHeadless(ctx context.Context, cfg config.Config, run RunFunc) error {
	h := newHost(cfg)
	defer h.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if h.board != nil && len(cfg.Virtual.Script) > 0 {
		go playScript(ctx, h.board, cfg.Virtual.Script)
	}
	return run(ctx, h)
}

// playScript applies steps at their offsets from now.
func playScript(ctx context.Context, b *virtualBoard, steps []config.ScriptStep) {
	steps = append([]config.ScriptStep(nil), steps...)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].AtMs < steps[j].AtMs })

	start := time.Now()
	t := time.NewTimer(0)
	defer t.Stop()
	<-t.C

	for _, st := range steps {
		wait := time.Until(start.Add(time.Duration(st.AtMs) * time.Millisecond))
		if wait > 0 {
			t.Reset(wait)
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
		} else if ctx.Err() != nil {
			return
		}
		applyStep(b, st)
	}
}

func applyStep(b *virtualBoard, st config.ScriptStep) {
	switch st.Action {
	case config.ActionPress, config.ActionRelease:
		col, row, err := config.ParseKey(st.Key)
		if err != nil {
			return
		}
		b.SetKey(col, row, st.Action == config.ActionPress)
	case config.ActionConnect:
		b.SetConnected(true)
	case config.ActionDisconnect:
		b.SetConnected(false)
	case config.ActionReduced:
		b.SetReduced(true)
	case config.ActionFull:
		b.SetReduced(false)
	}
}
