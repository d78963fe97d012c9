package indicator

import (
	"testing"

	"splitkb/hal"
)

type recLED struct {
	on     bool
	writes int
}

func (l *recLED) High() { l.on = true; l.writes++ }
func (l *recLED) Low()  { l.on = false; l.writes++ }

func newTestDriver(now *uint32) (*Driver, []*recLED) {
	leds := []*recLED{{}, {}, {}}
	d := New([]hal.LED{leds[0], leds[1], leds[2]}, func() uint32 { return *now })
	return d, leds
}

func TestDriverStartsAllOn(t *testing.T) {
	var now uint32
	d, leds := newTestDriver(&now)
	d.Tick()
	for i, l := range leds {
		if !l.on {
			t.Fatalf("led %d: expected on before readiness", i)
		}
	}
}

func TestDriverSteadyAndFlash(t *testing.T) {
	var now uint32
	d, leds := newTestDriver(&now)
	d.SetOn(0)
	d.SetSteady(0b001)
	d.SetFlash(0b100)

	d.Tick()
	if !leds[0].on || leds[1].on || !leds[2].on {
		t.Fatalf("phase on: got %03b", d.Lit())
	}

	now = DefaultHalfPeriodMs
	d.Tick()
	if !leds[0].on || leds[2].on {
		t.Fatalf("phase off: got %03b", d.Lit())
	}

	now = 2 * DefaultHalfPeriodMs
	d.Tick()
	if !leds[2].on {
		t.Fatalf("phase on again: got %03b", d.Lit())
	}
}

func TestDriverWritesOnlyChanges(t *testing.T) {
	var now uint32
	d, leds := newTestDriver(&now)
	d.SetOn(0)
	d.SetSteady(0b010)
	d.Tick()
	d.Tick()
	d.Tick()
	for i, l := range leds {
		if l.writes != 1 {
			t.Fatalf("led %d: expected 1 write, got %d", i, l.writes)
		}
	}
}
