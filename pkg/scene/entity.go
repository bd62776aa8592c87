package scene

import (
	"slices"

	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/models"
	"github.com/taigrr/cubist/pkg/render"
	"github.com/taigrr/cubist/pkg/transform"
)

// Entity is a mesh placed in the world. Transform mutators update the
// local transform, re-derive the world transform and propagate it to
// every descendant.
type Entity struct {
	Name     string
	Mesh     *models.Mesh
	Texture  *render.Texture
	Color    render.Color
	Blend    render.Blend
	Velocity math3d.Vec3

	ShouldBeDrawn   bool
	ShouldBePhysics bool

	BoxCollider    *BoxCollider
	SphereCollider *SphereCollider
	BoxTrigger     *BoxTrigger
	SphereTrigger  *SphereTrigger
	Particle       *Particle
	Tween          *Tween

	// Verts is the projector's scratch buffer, reused across frames.
	Verts []render.Vertex

	handle     Handle
	tags       []string
	local      transform.Transform
	global     transform.Transform
	parent     Handle
	children   []Handle
	childLevel int
	owner      *World
}

// Handle returns the entity's handle.
func (e *Entity) Handle() Handle { return e.handle }

// Local returns the transform relative to the parent.
func (e *Entity) Local() transform.Transform { return e.local }

// World returns the derived world transform.
func (e *Entity) World() transform.Transform { return e.global }

// Parent returns the parent handle, or None for a root.
func (e *Entity) Parent() Handle { return e.parent }

// Children returns a copy of the child handles.
func (e *Entity) Children() []Handle { return slices.Clone(e.children) }

// ChildLevel is 0 for roots and one more than the parent's otherwise.
func (e *Entity) ChildLevel() int { return e.childLevel }

// Material returns the rasterizer material for the entity.
func (e *Entity) Material() render.Material {
	return render.Material{Texture: e.Texture, Tint: e.Color, Blend: e.Blend}
}

// Midpoint returns the mesh's mean point in world space.
func (e *Entity) Midpoint() math3d.Vec3 {
	return e.global.Apply(e.Mesh.Midpoint())
}

// SetLocal replaces the local transform.
func (e *Entity) SetLocal(t transform.Transform) {
	e.local = t
	e.sync()
}

func (e *Entity) SetPosition(p math3d.Vec3) {
	e.local.Position = p
	e.sync()
}

func (e *Entity) AddPosition(d math3d.Vec3) {
	e.local.Position = e.local.Position.Add(d)
	e.sync()
}

// Rotate turns the entity by angle radians around axis.
func (e *Entity) Rotate(axis math3d.Vec3, angle float64) {
	e.local = e.local.Rotate(axis, angle)
	e.sync()
}

func (e *Entity) SetForward(dir math3d.Vec3) {
	e.local = e.local.SetForward(dir)
	e.sync()
}

func (e *Entity) SetUp(dir math3d.Vec3) {
	e.local = e.local.SetUp(dir)
	e.sync()
}

func (e *Entity) SetScale(s math3d.Vec3) {
	e.local.Scale = s
	e.sync()
}

func (e *Entity) AddScale(d math3d.Vec3) {
	e.local.Scale = e.local.Scale.Add(d)
	e.sync()
}

func (e *Entity) SetVelocity(v math3d.Vec3) { e.Velocity = v }

func (e *Entity) AddVelocity(d math3d.Vec3) { e.Velocity = e.Velocity.Add(d) }

func (e *Entity) Show() { e.ShouldBeDrawn = true }

func (e *Entity) Hide() { e.ShouldBeDrawn = false }

func (e *Entity) EnablePhysics() { e.ShouldBePhysics = true }

func (e *Entity) DisablePhysics() { e.ShouldBePhysics = false }

// SetOpaque draws every texel, black included.
func (e *Entity) SetOpaque() { e.Blend = render.BlendOpaque }

// SetTransparent treats pure black texels as holes.
func (e *Entity) SetTransparent() { e.Blend = render.BlendAlphaClip }

// AddTag adds tag if it is not already present.
func (e *Entity) AddTag(tag string) {
	if !e.HasTag(tag) {
		e.tags = append(e.tags, tag)
	}
}

func (e *Entity) RemoveTag(tag string) {
	e.tags = slices.DeleteFunc(e.tags, func(t string) bool { return t == tag })
}

func (e *Entity) HasTag(tag string) bool {
	return slices.Contains(e.tags, tag)
}

// Tags returns the tags in the order they were added.
func (e *Entity) Tags() []string { return slices.Clone(e.tags) }

// SetParent parents e under p, or detaches it when p is nil.
func (e *Entity) SetParent(p *Entity) error {
	if p == nil {
		return e.owner.SetParent(e.handle, None)
	}
	return e.owner.SetParent(e.handle, p.handle)
}

// sync re-derives the world transform and pushes it down the subtree.
func (e *Entity) sync() {
	e.syncWithParent()
	e.syncChildren()
}

func (e *Entity) syncWithParent() {
	if p := e.owner.entity(e.parent); p != nil {
		e.global = transform.Compose(e.local, p.global)
		return
	}
	e.global = e.local
}

func (e *Entity) syncChildren() {
	for _, h := range e.children {
		c := e.owner.entity(h)
		if c == nil {
			continue
		}
		c.childLevel = e.childLevel + 1
		c.syncWithParent()
		c.syncChildren()
	}
}

func (e *Entity) removeChild(h Handle) {
	e.children = slices.DeleteFunc(e.children, func(c Handle) bool { return c == h })
}
