// Package models provides mesh data and loaders for the cubist engine.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/cubist/pkg/math3d"
)

// ErrNoGeometry is returned by loaders when a file contains no triangles.
var ErrNoGeometry = errors.New("no geometry")

// Mesh is immutable triangle geometry owned by an entity.
//
// UVs and UVMap are optional. When present, UVMap runs parallel to
// Triangles and indexes into UVs, and V is already flipped so that 0 is
// the top row of the texture.
type Mesh struct {
	Name      string
	Points    []math3d.Vec3
	Triangles [][3]int
	UVs       []math3d.Vec2
	UVMap     [][3]int

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// Textured reports whether every triangle has texture coordinates.
func (m *Mesh) Textured() bool {
	return len(m.UVMap) > 0 && len(m.UVMap) == len(m.Triangles)
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Points) == 0 {
		return
	}

	m.BoundsMin = m.Points[0]
	m.BoundsMax = m.Points[0]

	for _, p := range m.Points[1:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// Midpoint returns the mean of all points in mesh space.
func (m *Mesh) Midpoint() math3d.Vec3 {
	if len(m.Points) == 0 {
		return math3d.Vec3{}
	}
	var sum math3d.Vec3
	for _, p := range m.Points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(m.Points)))
}

// Radius returns the distance from the bounding-box center to its
// farthest point.
func (m *Mesh) Radius() float64 {
	c := m.Center()
	var r float64
	for _, p := range m.Points {
		r = max(r, p.Distance(c))
	}
	return r
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// VertexCount returns the number of points.
func (m *Mesh) VertexCount() int {
	return len(m.Points)
}

// Validate checks that every index is in range.
func (m *Mesh) Validate() error {
	if len(m.Triangles) == 0 {
		return ErrNoGeometry
	}
	for i, tri := range m.Triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= len(m.Points) {
				return fmt.Errorf("triangle %d: point index %d out of range", i, idx)
			}
		}
	}
	if len(m.UVMap) > 0 && len(m.UVMap) != len(m.Triangles) {
		return fmt.Errorf("uv map has %d entries for %d triangles", len(m.UVMap), len(m.Triangles))
	}
	for i, tri := range m.UVMap {
		for _, idx := range tri {
			if idx < 0 || idx >= len(m.UVs) {
				return fmt.Errorf("triangle %d: uv index %d out of range", i, idx)
			}
		}
	}
	return nil
}

// Transform bakes a matrix into the points. Mirroring matrices also flip
// triangle winding so front faces stay front faces.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Points {
		m.Points[i] = mat.MulPoint(m.Points[i])
	}
	if mat.Determinant3() < 0 {
		for i := range m.Triangles {
			m.Triangles[i][1], m.Triangles[i][2] = m.Triangles[i][2], m.Triangles[i][1]
		}
		for i := range m.UVMap {
			m.UVMap[i][1], m.UVMap[i][2] = m.UVMap[i][2], m.UVMap[i][1]
		}
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Name:      m.Name,
		Points:    append([]math3d.Vec3(nil), m.Points...),
		Triangles: append([][3]int(nil), m.Triangles...),
		UVs:       append([]math3d.Vec2(nil), m.UVs...),
		UVMap:     append([][3]int(nil), m.UVMap...),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
}
