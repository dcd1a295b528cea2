package sim

import "time"

// Clock turns wall-clock time into frame deltas clamped to a maximum.
type Clock struct {
	max     float64
	now     func() time.Time
	last    time.Time
	started bool
}

func NewClock(max float64) *Clock {
	return &Clock{max: max, now: time.Now}
}

// WithSource replaces the time source.
func (c *Clock) WithSource(now func() time.Time) *Clock {
	c.now = now
	return c
}

// Tick returns the seconds since the previous tick, at most max. The first
// tick after creation or Reset returns 0.
func (c *Clock) Tick() float64 {
	t := c.now()
	if !c.started {
		c.last = t
		c.started = true
		return 0
	}
	dt := t.Sub(c.last).Seconds()
	c.last = t
	if dt < 0 {
		return 0
	}
	if dt > c.max {
		return c.max
	}
	return dt
}

func (c *Clock) Reset() { c.started = false }
