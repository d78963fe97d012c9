// Package power decides when the scan loop yields the CPU.
package power

// DefaultIdleMs is the yield taken after a failed remote poll.
const DefaultIdleMs = 1

// Clock is the time/yield service.
type Clock interface {
	// Idle sleeps in the platform's low-power wait for ms milliseconds.
	Idle(ms int)
	// NowMilliseconds returns a free-running millisecond counter.
	NowMilliseconds() uint32
}

// Policy yields after iterations in which the remote half did not answer.
//
// A successful poll already paced the loop, so no yield is taken then.
type Policy struct {
	clk    Clock
	idleMs int
}

func New(clk Clock, idleMs int) *Policy {
	if idleMs <= 0 {
		idleMs = DefaultIdleMs
	}
	return &Policy{clk: clk, idleMs: idleMs}
}

// After applies the policy for this iteration's poll outcome and reports
// whether it yielded.
func (p *Policy) After(connected bool) bool {
	if connected || p == nil || p.clk == nil {
		return false
	}
	p.clk.Idle(p.idleMs)
	return true
}
