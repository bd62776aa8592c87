package scene

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/taigrr/cubist/pkg/math3d"
)

// TweenTarget selects the transform field a Tween animates.
type TweenTarget int

const (
	TargetPosition TweenTarget = iota
	TargetScale
)

// Tween animates an entity's local position or scale toward a target.
// The entity's world transform and descendants follow on every update.
type Tween struct {
	Target TweenTarget
	Done   bool

	tweens [3]*gween.Tween
}

func newTween(target TweenTarget, from, to math3d.Vec3, duration float32, fn ease.TweenFunc) *Tween {
	if fn == nil {
		fn = ease.Linear
	}
	return &Tween{
		Target: target,
		tweens: [3]*gween.Tween{
			gween.New(float32(from.X), float32(to.X), duration, fn),
			gween.New(float32(from.Y), float32(to.Y), duration, fn),
			gween.New(float32(from.Z), float32(to.Z), duration, fn),
		},
	}
}

// update advances by dt seconds and returns the current value.
func (t *Tween) update(dt float32) math3d.Vec3 {
	var v [3]float64
	done := true
	for i, tw := range t.tweens {
		val, finished := tw.Update(dt)
		v[i] = float64(val)
		if !finished {
			done = false
		}
	}
	t.Done = done
	return math3d.V3(v[0], v[1], v[2])
}

// TweenPosition starts moving the entity's local position to the target.
func (e *Entity) TweenPosition(to math3d.Vec3, duration float32, fn ease.TweenFunc) {
	e.Tween = newTween(TargetPosition, e.local.Position, to, duration, fn)
}

// TweenScale starts scaling the entity toward the target.
func (e *Entity) TweenScale(to math3d.Vec3, duration float32, fn ease.TweenFunc) {
	e.Tween = newTween(TargetScale, e.local.Scale, to, duration, fn)
}

// AdvanceTweens steps every running tween by dt seconds and drops the
// finished ones.
func (w *World) AdvanceTweens(dt float64) {
	for e := range w.All() {
		t := e.Tween
		if t == nil {
			continue
		}
		v := t.update(float32(dt))
		switch t.Target {
		case TargetPosition:
			e.SetPosition(v)
		case TargetScale:
			e.SetScale(v)
		}
		if t.Done {
			e.Tween = nil
		}
	}
}
