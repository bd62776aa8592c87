package engine

import (
	"math"
	"testing"
	"time"
)

func TestClockFirstTickIsZero(t *testing.T) {
	c := FixedClock(0.25)
	if dt := c.Tick(); dt != 0 {
		t.Errorf("first tick = %v, want 0", dt)
	}
	for i := range 3 {
		if dt := c.Tick(); math.Abs(dt-0.25) > 1e-9 {
			t.Errorf("tick %d = %v, want 0.25", i+1, dt)
		}
	}
	if e := c.Elapsed(); math.Abs(e-0.75) > 1e-9 {
		t.Errorf("elapsed = %v, want 0.75", e)
	}

	c.Reset()
	if dt := c.Tick(); dt != 0 {
		t.Errorf("tick after reset = %v, want 0", dt)
	}
	if c.Elapsed() != 0 {
		t.Errorf("elapsed after reset = %v", c.Elapsed())
	}
}

func TestWallClock(t *testing.T) {
	c := NewClock()
	c.Tick()
	time.Sleep(5 * time.Millisecond)
	if dt := c.Tick(); dt < 0.004 {
		t.Errorf("tick = %v, want at least the sleep", dt)
	}
}
