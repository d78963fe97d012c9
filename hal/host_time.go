//go:build !tinygo

package hal

import "time"

type hostClock struct {
	start time.Time
	sleep func(time.Duration)
}

func newHostClock() *hostClock {
	return &hostClock{start: time.Now(), sleep: time.Sleep}
}

func (c *hostClock) Idle(ms int) {
	if ms <= 0 {
		return
	}
	c.sleep(time.Duration(ms) * time.Millisecond)
}

// NowMilliseconds wraps after about 49 days, like the MCU tick counter.
func (c *hostClock) NowMilliseconds() uint32 {
	return uint32(time.Since(c.start) / time.Millisecond)
}
