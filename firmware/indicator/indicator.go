// Package indicator renders status bitmasks onto indicator LEDs.
package indicator

import "splitkb/hal"

// DefaultHalfPeriodMs is the blink half period for flashing indicators.
const DefaultHalfPeriodMs = 250

// Driver owns three independent bitmasks per indicator:
//
//   - on: lit unconditionally
//   - steady: lit constantly (status conditions)
//   - flash: blinks with the driver's phase
//
// Bit i of every mask addresses leds[i].
type Driver struct {
	leds []hal.LED
	now  func() uint32

	halfPeriod uint32

	on     byte
	steady byte
	flash  byte

	lit      byte
	rendered bool
}

// New returns a driver with every indicator switched on.
//
// now returns a millisecond clock used for the blink phase.
func New(leds []hal.LED, now func() uint32) *Driver {
	return &Driver{
		leds:       leds,
		now:        now,
		halfPeriod: DefaultHalfPeriodMs,
		on:         0xFF,
	}
}

// SetHalfPeriod changes the blink half period.
func (d *Driver) SetHalfPeriod(ms uint32) {
	if ms == 0 {
		ms = DefaultHalfPeriodMs
	}
	d.halfPeriod = ms
}

func (d *Driver) On() byte         { return d.on }
func (d *Driver) SetOn(mask byte)  { d.on = mask }
func (d *Driver) Steady() byte     { return d.steady }
func (d *Driver) SetSteady(m byte) { d.steady = m }
func (d *Driver) Flash() byte      { return d.flash }
func (d *Driver) SetFlash(m byte)  { d.flash = m }

// Lit returns the mask rendered by the last Tick.
func (d *Driver) Lit() byte { return d.lit }

// Tick advances the blink phase and writes LEDs whose state changed.
func (d *Driver) Tick() {
	want := d.on | d.steady
	if d.flashPhase() {
		want |= d.flash
	}

	for i, led := range d.leds {
		if i >= 8 {
			break
		}
		bit := byte(1) << uint(i)
		if d.rendered && (d.lit^want)&bit == 0 {
			continue
		}
		if led == nil {
			continue
		}
		if want&bit != 0 {
			led.High()
		} else {
			led.Low()
		}
	}
	d.lit = want
	d.rendered = true
}

func (d *Driver) flashPhase() bool {
	if d.now == nil || d.halfPeriod == 0 {
		return true
	}
	return (d.now()/d.halfPeriod)%2 == 0
}
