package engine

import "time"

// Clock measures the time between frames in seconds.
type Clock struct {
	now     func() time.Time
	last    time.Time
	started bool
	elapsed float64
}

// NewClock returns a clock on the wall time.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// FixedClock returns a clock that advances exactly step seconds per tick,
// for headless renders that must not depend on how fast frames are drawn.
func FixedClock(step float64) *Clock {
	t := time.Unix(0, 0)
	d := time.Duration(step * float64(time.Second))
	return &Clock{now: func() time.Time {
		t = t.Add(d)
		return t
	}}
}

// Tick returns the seconds since the previous tick. The first tick after
// creation or Reset returns 0.
func (c *Clock) Tick() float64 {
	now := c.now()
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	c.elapsed += dt
	return dt
}

// Elapsed returns the total seconds ticked so far.
func (c *Clock) Elapsed() float64 { return c.elapsed }

// Reset makes the next tick report 0 again.
func (c *Clock) Reset() {
	c.started = false
	c.elapsed = 0
}
