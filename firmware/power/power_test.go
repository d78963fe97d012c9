package power

import "testing"

type fakeClock struct {
	now   uint32
	idles []int
}

func (c *fakeClock) Idle(ms int) {
	c.idles = append(c.idles, ms)
	c.now += uint32(ms)
}

func (c *fakeClock) NowMilliseconds() uint32 { return c.now }

func TestPolicyIdlesOnlyWhenDisconnected(t *testing.T) {
	clk := &fakeClock{}
	p := New(clk, 0)

	if p.After(true) {
		t.Fatal("expected no yield after successful poll")
	}
	if !p.After(false) {
		t.Fatal("expected yield after failed poll")
	}
	if len(clk.idles) != 1 || clk.idles[0] != DefaultIdleMs {
		t.Fatalf("unexpected idles: %v", clk.idles)
	}
}
