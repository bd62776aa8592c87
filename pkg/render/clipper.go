package render

import "github.com/taigrr/cubist/pkg/math3d"

// NearPlane is the camera-relative depth triangles are clipped against.
const NearPlane = 0.01

// ClipKind records how a triangle was treated by ClipTriangle. The states
// debug view colours fragments by it.
type ClipKind int

const (
	Unclipped ClipKind = iota
	TwoBehind          // trimmed to one smaller triangle
	OneBehind          // trimmed to a quad, emitted as two triangles
	Culled             // entirely behind the camera
)

// ClipVertex is a triangle corner as seen by the clipper and rasterizer.
type ClipVertex struct {
	Camera math3d.Vec3
	Screen math3d.Vec3
	UV     math3d.Vec2
}

func inFront(v ClipVertex) bool { return v.Camera.Z > 0 }

// ClipState says where a triangle lies relative to the camera plane.
type ClipState int

const (
	InFront ClipState = iota
	Behind
	Straddling
)

// Classify reports whether all, none or some of the corners are in front
// of the camera.
func Classify(tri [3]ClipVertex) ClipState {
	front := 0
	for _, v := range tri {
		if inFront(v) {
			front++
		}
	}
	switch front {
	case 3:
		return InFront
	case 0:
		return Behind
	}
	return Straddling
}

// ClipTriangle trims tri against the near plane. It returns up to two
// triangles in out, the count n, and how the triangle was classified.
// Winding is preserved. Vertices created on the plane are re-projected
// with proj; surviving vertices keep their screen positions.
func ClipTriangle(tri [3]ClipVertex, proj Projection) (out [2][3]ClipVertex, n int, kind ClipKind) {
	switch Classify(tri) {
	case Behind:
		return out, 0, Culled
	case InFront:
		out[0] = tri
		return out, 1, Unclipped
	}

	var poly [4]ClipVertex
	m := 0
	for i := range 3 {
		cur, next := tri[i], tri[(i+1)%3]
		if inFront(cur) {
			poly[m] = cur
			m++
		}
		if inFront(cur) != inFront(next) {
			poly[m] = intersectNear(cur, next, proj)
			m++
		}
	}

	if m == 3 {
		out[0] = [3]ClipVertex{poly[0], poly[1], poly[2]}
		return out, 1, TwoBehind
	}
	out[0] = [3]ClipVertex{poly[0], poly[1], poly[2]}
	out[1] = [3]ClipVertex{poly[0], poly[2], poly[3]}
	return out, 2, OneBehind
}

// intersectNear returns the point on segment a-b at depth NearPlane,
// interpolating position and UV.
func intersectNear(a, b ClipVertex, proj Projection) ClipVertex {
	good, bad := a, b
	if !inFront(a) {
		good, bad = b, a
	}
	t := (NearPlane - bad.Camera.Z) / (good.Camera.Z - bad.Camera.Z)
	c := bad.Camera.Lerp(good.Camera, t)
	c.Z = NearPlane
	return ClipVertex{
		Camera: c,
		Screen: proj.Project(c),
		UV:     bad.UV.Lerp(good.UV, t),
	}
}
