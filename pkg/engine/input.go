package engine

import (
	"sync"
	"time"
)

// DefaultHoldTimeout is how long a key counts as held after its last press
// when the terminal never reports the release. Auto-repeat refreshes it.
const DefaultHoldTimeout = 600 * time.Millisecond

// Input collects key and mouse events from the terminal goroutine for the
// frame loop. It is safe for concurrent use.
type Input struct {
	mu          sync.Mutex
	pressed     map[string]time.Time
	dx, dy      float64
	HoldTimeout time.Duration
}

// NewInput returns an empty input state.
func NewInput() *Input {
	return &Input{
		pressed:     make(map[string]time.Time),
		HoldTimeout: DefaultHoldTimeout,
	}
}

// Press marks key as held.
func (in *Input) Press(key string) {
	in.mu.Lock()
	in.pressed[key] = time.Now()
	in.mu.Unlock()
}

// Release marks key as up.
func (in *Input) Release(key string) {
	in.mu.Lock()
	delete(in.pressed, key)
	in.mu.Unlock()
}

// MoveMouse accumulates a pointer delta in terminal cells.
func (in *Input) MoveMouse(dx, dy float64) {
	in.mu.Lock()
	in.dx += dx
	in.dy += dy
	in.mu.Unlock()
}

// Snapshot returns the keys held at now and the mouse movement since the
// previous snapshot, which it resets.
func (in *Input) Snapshot(now time.Time) InputState {
	in.mu.Lock()
	defer in.mu.Unlock()

	s := InputState{Keys: make(map[string]bool, len(in.pressed)), MouseDX: in.dx, MouseDY: in.dy}
	for k, at := range in.pressed {
		if now.Sub(at) > in.HoldTimeout {
			delete(in.pressed, k)
			continue
		}
		s.Keys[k] = true
	}
	in.dx, in.dy = 0, 0
	return s
}

// InputState is one frame's view of the input.
type InputState struct {
	Keys             map[string]bool
	MouseDX, MouseDY float64
}

// Down reports whether any of keys is held.
func (s InputState) Down(keys ...string) bool {
	for _, k := range keys {
		if s.Keys[k] {
			return true
		}
	}
	return false
}

// Axis returns -1, 0 or 1 from a pair of opposing keys.
func (s InputState) Axis(neg, pos string) float64 {
	var v float64
	if s.Keys[neg] {
		v--
	}
	if s.Keys[pos] {
		v++
	}
	return v
}
