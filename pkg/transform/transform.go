// Package transform implements the forward/up rigid transform used by every
// entity and the camera, and its composition onto a parent.
package transform

import (
	"math"

	"github.com/taigrr/cubist/pkg/math3d"
)

// Guards for the direction setters. Rotations smaller than these are
// skipped, and SetForward also refuses to flip through a near-180° turn
// where the rotation axis is undefined.
const (
	forwardGuard = 0.001
	upGuard      = 0.01
)

// Transform is a position, an orthonormal forward/up pair and a
// per-axis scale. Right is derived from the pair.
type Transform struct {
	Position math3d.Vec3
	Forward  math3d.Vec3
	Up       math3d.Vec3
	Scale    math3d.Vec3
}

// Identity returns the transform at the origin facing +Z with +Y up and
// unit scale.
func Identity() Transform {
	return Transform{
		Forward: math3d.Forward(),
		Up:      math3d.Up(),
		Scale:   math3d.One3(),
	}
}

// At returns an identity transform positioned at p.
func At(p math3d.Vec3) Transform {
	t := Identity()
	t.Position = p
	return t
}

// Right returns the derived right vector, -normalize(forward × up).
// The basis is left-handed: the identity transform's right is +X.
func (t Transform) Right() math3d.Vec3 {
	return t.Forward.Cross(t.Up).Normalize().Negate()
}

// Orientation returns the two-stage rotation taking the canonical basis
// onto this transform's forward/up pair.
func (t Transform) Orientation() math3d.Orientation {
	return math3d.OrientationOf(t.Forward, t.Up)
}

// Apply maps a mesh-space point into the space this transform lives in:
// scale, then rotate, then translate.
func (t Transform) Apply(p math3d.Vec3) math3d.Vec3 {
	return t.Orientation().Apply(p.Mul(t.Scale)).Add(t.Position)
}

// Unapply maps a point into this transform's local frame, undoing the
// translation and rotation. Scale is left untouched.
func (t Transform) Unapply(p math3d.Vec3) math3d.Vec3 {
	return t.Orientation().Unapply(p.Sub(t.Position))
}

// Rotate returns t with forward and up rotated by angle radians around
// axis. Both vectors receive the same rotation so they stay orthonormal.
func (t Transform) Rotate(axis math3d.Vec3, angle float64) Transform {
	axis = axis.Normalize()
	if axis.IsZero() || angle == 0 {
		return t
	}
	t.Forward = t.Forward.RotateAround(axis, angle).Normalize()
	t.Up = t.Up.RotateAround(axis, angle).Normalize()
	return t
}

// SetForward turns t so that forward points along dir. Turns of less than
// a milliradian, or within a milliradian of a half turn, are ignored.
func (t Transform) SetForward(dir math3d.Vec3) Transform {
	angle := t.Forward.AngleTo(dir)
	if angle <= forwardGuard || angle >= math.Pi-forwardGuard {
		return t
	}
	return t.Rotate(t.Forward.Cross(dir), angle)
}

// SetUp turns t so that up points along dir. Turns under 0.01 rad are
// ignored. A half turn rolls around forward.
func (t Transform) SetUp(dir math3d.Vec3) Transform {
	angle := t.Up.AngleTo(dir)
	if angle <= upGuard {
		return t
	}
	axis := t.Up.Cross(dir)
	if axis.LenSq() < 1e-12 {
		axis = t.Forward
	}
	return t.Rotate(axis, angle)
}

// Compose places local in the frame of parent and returns the resulting
// world transform.
//
// Position is an offset along the parent's right, up and forward axes.
// Orientation is re-derived in two stages: the rotation taking +Z onto
// local.Forward is applied to parent.Forward; the rotation taking the
// once-rotated +Y onto local.Up is then applied on top of the once-rotated
// parent.Up.
func Compose(local, parent Transform) Transform {
	world := Transform{Scale: local.Scale.Mul(parent.Scale)}

	lp := local.Position
	world.Position = parent.Position.
		Add(parent.Right().Scale(lp.X)).
		Add(parent.Up.Scale(lp.Y)).
		Add(parent.Forward.Scale(lp.Z))

	first := math3d.Between(math3d.Forward(), local.Forward, math3d.Up())
	world.Forward = first.Rotate(parent.Forward)

	second := math3d.Between(first.Rotate(math3d.Up()), local.Up, first.Rotate(math3d.Forward()))
	world.Up = second.Rotate(first.Rotate(parent.Up))

	return world
}
