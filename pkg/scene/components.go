package scene

import "github.com/taigrr/cubist/pkg/math3d"

// Collider and trigger sizes are full edge lengths in world units, centred
// on the entity's world midpoint and aligned with its world orientation.
// They ignore the entity's scale.

// BoxCollider makes an entity solid to the physics step.
type BoxCollider struct {
	Size math3d.Vec3
}

// SphereCollider makes an entity a solid ball.
type SphereCollider struct {
	Radius float64
}

// BoxTrigger fires when an interacting entity's position is inside it.
type BoxTrigger struct {
	Size math3d.Vec3
}

// SphereTrigger fires on distance checks against other entities.
type SphereTrigger struct {
	Radius float64
}

// AddBoxCollider attaches a box collider of the given size.
func (e *Entity) AddBoxCollider(size math3d.Vec3) {
	e.BoxCollider = &BoxCollider{Size: size}
}

// AddSphereCollider attaches a sphere collider.
func (e *Entity) AddSphereCollider(radius float64) {
	e.SphereCollider = &SphereCollider{Radius: radius}
}

// AddBoxTrigger attaches a box trigger of the given size.
func (e *Entity) AddBoxTrigger(size math3d.Vec3) {
	e.BoxTrigger = &BoxTrigger{Size: size}
}

// AddSphereTrigger attaches a sphere trigger.
func (e *Entity) AddSphereTrigger(radius float64) {
	e.SphereTrigger = &SphereTrigger{Radius: radius}
}

// HasCollider reports whether the entity is solid.
func (e *Entity) HasCollider() bool {
	return e.BoxCollider != nil || e.SphereCollider != nil
}
