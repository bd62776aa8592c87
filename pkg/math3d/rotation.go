package math3d

// degenerateAxisSq is the squared cross-product length below which two
// directions are treated as parallel and a fallback axis is used.
const degenerateAxisSq = 1e-12

// AxisAngle is a rotation of Angle radians around a unit Axis.
type AxisAngle struct {
	Axis  Vec3
	Angle float64
}

// Rotate applies the rotation to v.
func (r AxisAngle) Rotate(v Vec3) Vec3 {
	if r.Angle == 0 {
		return v
	}
	return v.RotateAround(r.Axis, r.Angle)
}

// Inverse returns the rotation that undoes r.
func (r AxisAngle) Inverse() AxisAngle {
	return AxisAngle{Axis: r.Axis, Angle: -r.Angle}
}

// Between returns the rotation carrying direction from onto direction to.
// If the two are already aligned the rotation is a no-op around to. If they
// are anti-parallel the cross product vanishes and fallback is used as the
// axis.
func Between(from, to, fallback Vec3) AxisAngle {
	angle := from.AngleTo(to)
	if angle <= 0 {
		return AxisAngle{Axis: to.Normalize(), Angle: 0}
	}
	axis := from.Cross(to)
	if axis.LenSq() < degenerateAxisSq {
		return AxisAngle{Axis: fallback.Normalize(), Angle: angle}
	}
	return AxisAngle{Axis: axis.Normalize(), Angle: angle}
}

// Orientation is the two-stage rotation described by a forward/up pair:
// First carries +Z onto forward, Second carries the rotated +Y onto up.
type Orientation struct {
	First  AxisAngle
	Second AxisAngle
}

// OrientationOf derives the rotation that maps the canonical basis
// (+Z forward, +Y up) onto the given forward and up directions.
func OrientationOf(forward, up Vec3) Orientation {
	first := Between(Forward(), forward, Up())
	rotatedUp := first.Rotate(Up())
	second := Between(rotatedUp, up, first.Rotate(Forward()))
	return Orientation{First: first, Second: second}
}

// Apply rotates v from canonical space into the oriented frame.
func (o Orientation) Apply(v Vec3) Vec3 {
	return o.Second.Rotate(o.First.Rotate(v))
}

// Unapply rotates v from the oriented frame back into canonical space.
func (o Orientation) Unapply(v Vec3) Vec3 {
	return o.First.Inverse().Rotate(o.Second.Inverse().Rotate(v))
}
