package models

import (
	"math"

	"github.com/taigrr/cubist/pkg/math3d"
)

// face describes one side of a box: its outward normal and the in-plane
// direction that maps to the top of the texture.
type face struct {
	normal, up math3d.Vec3
}

var boxFaces = []face{
	{math3d.V3(1, 0, 0), math3d.Up()},
	{math3d.V3(-1, 0, 0), math3d.Up()},
	{math3d.V3(0, 0, 1), math3d.Up()},
	{math3d.V3(0, 0, -1), math3d.Up()},
	{math3d.V3(0, 1, 0), math3d.V3(0, 0, 1)},
	{math3d.V3(0, -1, 0), math3d.V3(0, 0, -1)},
}

// NewBox builds an axis-aligned box around center with the given half
// extents. Each side carries a full 0..1 texture.
func NewBox(name string, center, half math3d.Vec3) *Mesh {
	m := NewMesh(name)
	for _, f := range boxFaces {
		addQuad(m, center.Add(f.normal.Mul(half)), f, half)
	}
	m.CalculateBounds()
	return m
}

// NewCube returns the 2×2×2 cube centred on the origin.
func NewCube() *Mesh {
	return NewBox("cube", math3d.Zero3(), math3d.One3())
}

// NewSlab returns a 2×1×2 box whose top face lies at y = 0. Spawned with
// scale (5, 1, 5) it is the classic 10×1×10 platform.
func NewSlab() *Mesh {
	return NewBox("platform", math3d.V3(0, -0.5, 0), math3d.V3(1, 0.5, 1))
}

// NewPlane returns a 2×2 upward-facing square on the XZ plane.
func NewPlane() *Mesh {
	m := NewMesh("plane")
	addQuad(m, math3d.Zero3(), face{math3d.Up(), math3d.V3(0, 0, 1)}, math3d.One3())
	m.CalculateBounds()
	return m
}

// NewQuad returns a 2×2 square on the XY plane facing -Z, toward a
// default camera placed behind it.
func NewQuad() *Mesh {
	m := NewMesh("quad")
	addQuad(m, math3d.Zero3(), face{math3d.V3(0, 0, -1), math3d.Up()}, math3d.One3())
	m.CalculateBounds()
	return m
}

// addQuad appends two triangles wound so that (p1-p0)×(p2-p0) points
// along the face normal.
func addQuad(m *Mesh, center math3d.Vec3, f face, half math3d.Vec3) {
	side := f.up.Cross(f.normal)
	a := side.Mul(half)
	b := f.up.Mul(half)

	base := len(m.Points)
	m.Points = append(m.Points,
		center.Sub(a).Sub(b),
		center.Add(a).Sub(b),
		center.Add(a).Add(b),
		center.Sub(a).Add(b),
	)
	uvBase := len(m.UVs)
	m.UVs = append(m.UVs,
		math3d.V2(0, 1),
		math3d.V2(1, 1),
		math3d.V2(1, 0),
		math3d.V2(0, 0),
	)
	m.Triangles = append(m.Triangles,
		[3]int{base, base + 1, base + 2},
		[3]int{base, base + 2, base + 3},
	)
	m.UVMap = append(m.UVMap,
		[3]int{uvBase, uvBase + 1, uvBase + 2},
		[3]int{uvBase, uvBase + 2, uvBase + 3},
	)
}

// NewSphere returns a unit-radius UV sphere with the given number of
// rings (latitude bands) and segments (longitude slices). Triangles face
// outward and the texture wraps once around the equator.
func NewSphere(rings, segments int) *Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)
	m := NewMesh("sphere")

	for i := 0; i <= rings; i++ {
		theta := math.Pi * float64(i) / float64(rings)
		for j := 0; j <= segments; j++ {
			phi := 2 * math.Pi * float64(j) / float64(segments)
			m.Points = append(m.Points, math3d.V3(
				math.Sin(theta)*math.Cos(phi),
				math.Cos(theta),
				math.Sin(theta)*math.Sin(phi),
			))
			m.UVs = append(m.UVs, math3d.V2(float64(j)/float64(segments), float64(i)/float64(rings)))
		}
	}

	idx := func(i, j int) int { return i*(segments+1) + j }
	for i := range rings {
		for j := range segments {
			a, b := idx(i, j), idx(i, j+1)
			c, d := idx(i+1, j), idx(i+1, j+1)
			if i > 0 {
				m.addOutward([3]int{a, b, d})
			}
			if i < rings-1 {
				m.addOutward([3]int{a, d, c})
			}
		}
	}
	m.CalculateBounds()
	return m
}

// addOutward appends tri (sharing point and UV indices), flipping it if
// its normal points toward the origin.
func (m *Mesh) addOutward(tri [3]int) {
	p0, p1, p2 := m.Points[tri[0]], m.Points[tri[1]], m.Points[tri[2]]
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Dot(p0.Add(p1).Add(p2)) < 0 {
		tri[1], tri[2] = tri[2], tri[1]
	}
	m.Triangles = append(m.Triangles, tri)
	m.UVMap = append(m.UVMap, tri)
}
