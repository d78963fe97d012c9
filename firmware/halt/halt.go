// Package halt is the terminal state entered on unrecoverable errors.
package halt

import (
	"context"

	"splitkb/hal"
)

// DefaultRepeatMs is the pause between repeated diagnostic lines.
const DefaultRepeatMs = 100

// Indicators is the part of the indicator driver used by the halt pattern.
type Indicators interface {
	SetOn(mask byte)
	SetSteady(mask byte)
	SetFlash(mask byte)
	Tick()
}

// Sleeper yields for a number of milliseconds.
type Sleeper interface {
	Idle(ms int)
}

// Handler shows a fatal condition until power is removed.
type Handler struct {
	ind   Indicators
	log   hal.Logger
	sleep Sleeper

	repeatMs int

	// OnEnter runs once with the message before the repeat loop, e.g. to
	// paint it on a display.
	OnEnter func(msg string)
}

func New(ind Indicators, log hal.Logger, sleep Sleeper) *Handler {
	return &Handler{ind: ind, log: log, sleep: sleep, repeatMs: DefaultRepeatMs}
}

// SetRepeat changes the pause between diagnostic lines.
func (h *Handler) SetRepeat(ms int) {
	if ms <= 0 {
		ms = DefaultRepeatMs
	}
	h.repeatMs = ms
}

// Hang never returns.
func (h *Handler) Hang(msg string) {
	h.enter(msg)
	for {
		h.step(msg)
	}
}

// HangContext behaves like Hang but returns ctx.Err() once ctx is done.
//
// Hosted builds use it so an interrupt can still end the process.
func (h *Handler) HangContext(ctx context.Context, msg string) error {
	h.enter(msg)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		h.step(msg)
	}
}

func (h *Handler) enter(msg string) {
	if h.ind != nil {
		h.ind.SetSteady(0)
		h.ind.SetOn(0)
		h.ind.SetFlash(0xFF)
	}
	if h.OnEnter != nil {
		h.OnEnter(msg)
	}
}

func (h *Handler) step(msg string) {
	if h.log != nil {
		h.log.WriteLineString(msg)
	}
	if h.sleep != nil {
		h.sleep.Idle(h.repeatMs)
	}
	if h.ind != nil {
		h.ind.Tick()
	}
}
