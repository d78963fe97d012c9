// Package status folds per-iteration conditions into the indicator masks.
package status

// Bit 0 of both masks belongs to this package; bits 1-7 belong to other
// owners and are preserved.
const (
	// ProtocolBit flashes while the host link runs the reduced (boot) protocol.
	ProtocolBit byte = 1 << 0
	// LinkBit is lit steadily while the remote half is disconnected.
	LinkBit byte = 1 << 0
)

// Indicators is the indicator driver seen by the aggregator.
type Indicators interface {
	Flash() byte
	SetFlash(mask byte)
	Steady() byte
	SetSteady(mask byte)
	Tick()
}

// Aggregator updates the status bits once per loop iteration.
type Aggregator struct {
	ind Indicators
}

func New(ind Indicators) *Aggregator {
	return &Aggregator{ind: ind}
}

// Update applies both conditions and ticks the indicator driver.
//
// It runs every iteration, changed or not, so the driver's blink phase
// keeps advancing.
func (a *Aggregator) Update(reducedProtocol, connected bool) {
	if a == nil || a.ind == nil {
		return
	}
	if reducedProtocol {
		a.ind.SetFlash(a.ind.Flash() | ProtocolBit)
	} else {
		a.ind.SetFlash(a.ind.Flash() &^ ProtocolBit)
	}
	if !connected {
		a.ind.SetSteady(a.ind.Steady() | LinkBit)
	} else {
		a.ind.SetSteady(a.ind.Steady() &^ LinkBit)
	}
	a.ind.Tick()
}
