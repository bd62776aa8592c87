package render

import (
	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/models"
	"github.com/taigrr/cubist/pkg/transform"
)

// Vertex is the per-frame working record of one mesh point.
type Vertex struct {
	Object math3d.Vec3 // mesh space, never modified
	Camera math3d.Vec3 // camera-relative
	Screen math3d.Vec3 // pixel x, pixel y, signed camera-relative depth
}

// Project runs every point of mesh through object → world → camera →
// screen and stores the result in out, which is grown as needed and
// returned.
func Project(mesh *models.Mesh, world transform.Transform, view View, out []Vertex) []Vertex {
	n := len(mesh.Points)
	if cap(out) < n {
		out = make([]Vertex, n)
	}
	out = out[:n]

	orient := world.Orientation()
	for i, p := range mesh.Points {
		w := orient.Apply(p.Mul(world.Scale)).Add(world.Position)
		c := view.Relative(w)
		out[i] = Vertex{
			Object: p,
			Camera: c,
			Screen: view.Projection.Project(c),
		}
	}
	return out
}
