package physics

import (
	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/scene"
)

// IsTriggeredCheap reports whether the world position of any simulated
// entity tagged "interact" lies inside e's box trigger. Only positions are
// tested, not volumes.
func IsTriggeredCheap(w *scene.World, e *scene.Entity) bool {
	if e.BoxTrigger == nil {
		return false
	}
	mid := e.Midpoint()
	orient := e.World().Orientation()
	for _, other := range w.Tagged(TagInteract) {
		if other == e || !other.ShouldBePhysics {
			continue
		}
		local := orient.Unapply(other.World().Position.Sub(mid))
		if local.InBox(math3d.Zero3(), e.BoxTrigger.Size) {
			return true
		}
	}
	return false
}

// IsTriggeredSphereCheap reports whether any simulated "interact" entity's
// position is within e's sphere trigger radius of e's position.
func IsTriggeredSphereCheap(w *scene.World, e *scene.Entity) bool {
	if e.SphereTrigger == nil {
		return false
	}
	pos := e.World().Position
	for _, other := range w.Tagged(TagInteract) {
		if other == e || !other.ShouldBePhysics {
			continue
		}
		if other.World().Position.Distance(pos) < e.SphereTrigger.Radius {
			return true
		}
	}
	return false
}

// IsTriggeredSphereOnly reports whether e's sphere trigger overlaps any
// other sphere trigger, measured between midpoints.
func IsTriggeredSphereOnly(w *scene.World, e *scene.Entity) bool {
	return len(sphereOverlaps(w, e, 1)) > 0
}

// TriggeredSphereOnly returns every entity whose sphere trigger overlaps
// e's, in spawn order.
func TriggeredSphereOnly(w *scene.World, e *scene.Entity) []*scene.Entity {
	return sphereOverlaps(w, e, 0)
}

// sphereOverlaps collects overlapping sphere triggers, stopping after
// limit hits when limit is positive.
func sphereOverlaps(w *scene.World, e *scene.Entity, limit int) []*scene.Entity {
	if e.SphereTrigger == nil {
		return nil
	}
	mid := e.Midpoint()
	var out []*scene.Entity
	for other := range w.All() {
		if other == e || other.SphereTrigger == nil || !other.ShouldBePhysics {
			continue
		}
		if other.Midpoint().Distance(mid) < e.SphereTrigger.Radius+other.SphereTrigger.Radius {
			out = append(out, other)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}
