// Package physics implements the toy collision step: gravity, push-out
// against box and sphere colliders, and trigger checks.
package physics

import (
	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/scene"
)

// Tags read by the step and the trigger checks.
const (
	TagPhysics  = "physics"
	TagGravity  = "gravity"
	TagInteract = "interact"
)

const (
	// DefaultGravity is the downward acceleration in units per second².
	DefaultGravity = 9.81
	// ContactDistance is how close two colliders must be to touch.
	ContactDistance = 0.01
	// probeDepth is how far below the contact point the push-out probe
	// starts when finding the mover's lowest point.
	probeDepth = 100
)

// Step advances every simulated entity tagged "physics" by dt seconds.
//
// Gravity is added to the velocity of entities also tagged "gravity".
// Each mover is then tested against every other solid entity: when the
// two closest points are within ContactDistance the mover is lifted so its
// lowest point sits on the contact and its velocity is zeroed. Finally the
// velocity is integrated into the local position.
func Step(w *scene.World, dt, gravity float64) {
	solids := solidEntities(w)
	for _, e := range w.Tagged(TagPhysics) {
		if !e.ShouldBePhysics {
			continue
		}
		if e.HasTag(TagGravity) {
			e.Velocity.Y -= gravity * dt
		}
		for _, other := range solids {
			if other == e || !other.ShouldBePhysics {
				continue
			}
			onOther := ClosestPoint(other, e.Midpoint())
			onSelf := ClosestPoint(e, onOther)
			if onOther.Distance(onSelf) >= ContactDistance {
				continue
			}
			lowest := ClosestPoint(e, onSelf.Add(math3d.V3(0, -probeDepth, 0)))
			e.AddPosition(onSelf.Sub(lowest))
			e.Velocity = math3d.Vec3{}
		}
		if !e.Velocity.IsZero() {
			e.AddPosition(e.Velocity.Scale(dt))
		}
	}
}

func solidEntities(w *scene.World) []*scene.Entity {
	var out []*scene.Entity
	for e := range w.All() {
		if e.HasCollider() {
			out = append(out, e)
		}
	}
	return out
}

// ClosestPoint returns the point of e's collider nearest to p. Points
// inside the collider are returned unchanged. An entity without a
// collider is treated as its midpoint.
func ClosestPoint(e *scene.Entity, p math3d.Vec3) math3d.Vec3 {
	mid := e.Midpoint()
	switch {
	case e.BoxCollider != nil:
		return closestOnBox(e, mid, e.BoxCollider.Size, p)
	case e.SphereCollider != nil:
		return closestOnSphere(mid, e.SphereCollider.Radius, p)
	}
	return mid
}

// closestOnBox clamps p into the box in the entity's rotated frame.
func closestOnBox(e *scene.Entity, mid, size, p math3d.Vec3) math3d.Vec3 {
	orient := e.World().Orientation()
	local := orient.Unapply(p.Sub(mid))
	return orient.Apply(local.ClampBox(math3d.Zero3(), size)).Add(mid)
}

func closestOnSphere(mid math3d.Vec3, r float64, p math3d.Vec3) math3d.Vec3 {
	d := p.Sub(mid)
	if d.Len() <= r {
		return p
	}
	return mid.Add(d.Normalize().Scale(r))
}

// IsColliding reports whether any other simulated solid touches e.
func IsColliding(w *scene.World, e *scene.Entity) bool {
	for other := range w.All() {
		if other == e || !other.HasCollider() || !other.ShouldBePhysics {
			continue
		}
		onOther := ClosestPoint(other, e.Midpoint())
		if onOther.Distance(ClosestPoint(e, onOther)) < ContactDistance {
			return true
		}
	}
	return false
}
