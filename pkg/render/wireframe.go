package render

import (
	"math"

	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/transform"
)

// Debug outline colours.
var (
	ColliderColor = ColorGreen
	TriggerColor  = ColorRed
)

// cubeEdges index the corners returned by AABB.Corners.
var cubeEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Wireframe draws debug lines in world space on top of a frame. It ignores
// the depth buffer.
type Wireframe struct {
	view View
	fb   *Framebuffer
}

// NewWireframe creates a wireframe renderer for one frame.
func NewWireframe(view View, fb *Framebuffer) *Wireframe {
	return &Wireframe{view: view, fb: fb}
}

// DrawLine3D draws a world-space segment, trimmed at the near plane.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	a := w.view.Relative(p1)
	b := w.view.Relative(p2)
	if a.Z < NearPlane && b.Z < NearPlane {
		return
	}
	if a.Z < NearPlane {
		a = a.Lerp(b, (NearPlane-a.Z)/(b.Z-a.Z))
	} else if b.Z < NearPlane {
		b = b.Lerp(a, (NearPlane-b.Z)/(a.Z-b.Z))
	}
	sa := w.view.Projection.Project(a)
	sb := w.view.Projection.Project(b)
	w.fb.DrawLine(int(sa.X), int(sa.Y), int(sb.X), int(sb.Y), color)
}

// DrawBox draws an oriented box of the given world size centred on
// center, aligned with the axes of tr.
func (w *Wireframe) DrawBox(tr transform.Transform, center, size math3d.Vec3, color Color) {
	half := size.Scale(0.5)
	local := NewAABB(half.Negate(), half).Corners()
	orient := tr.Orientation()
	var world [8]math3d.Vec3
	for i, c := range local {
		world[i] = orient.Apply(c).Add(center)
	}
	for _, e := range cubeEdges {
		w.DrawLine3D(world[e[0]], world[e[1]], color)
	}
}

// DrawSphere draws three great circles of a sphere.
func (w *Wireframe) DrawSphere(center math3d.Vec3, radius float64, color Color) {
	const segments = 24
	axes := [3][2]math3d.Vec3{
		{math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
		{math3d.V3(0, 1, 0), math3d.V3(0, 0, 1)},
		{math3d.V3(0, 0, 1), math3d.V3(1, 0, 0)},
	}
	for _, ax := range axes {
		prev := center.Add(ax[0].Scale(radius))
		for i := 1; i <= segments; i++ {
			a := 2 * math.Pi * float64(i) / segments
			p := center.Add(ax[0].Scale(radius * math.Cos(a))).Add(ax[1].Scale(radius * math.Sin(a)))
			w.DrawLine3D(prev, p, color)
			prev = p
		}
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen)
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)
}

// DrawGrid draws a grid on the XZ plane at y=0.
func (w *Wireframe) DrawGrid(size, step float64, color Color) {
	half := size / 2
	for x := -half; x <= half; x += step {
		w.DrawLine3D(math3d.V3(x, 0, -half), math3d.V3(x, 0, half), color)
	}
	for z := -half; z <= half; z += step {
		w.DrawLine3D(math3d.V3(-half, 0, z), math3d.V3(half, 0, z), color)
	}
}
