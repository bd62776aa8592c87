package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/transform"
)

// Camera is the viewpoint. While parented its local transform is an offset
// in the parent's frame; otherwise it is the world placement.
type Camera struct {
	local  transform.Transform
	global transform.Transform
	parent Handle
	owner  *World
}

func newCamera(w *World) *Camera {
	return &Camera{
		local:  transform.Identity(),
		global: transform.Identity(),
		owner:  w,
	}
}

// Local returns the camera's own transform.
func (c *Camera) Local() transform.Transform { return c.local }

// World returns the derived world transform as of the last update.
func (c *Camera) World() transform.Transform { return c.global }

// Parent returns the followed entity, or None.
func (c *Camera) Parent() Handle { return c.parent }

// Update re-derives the world transform from the parent's current world
// transform. The compositor calls it once per frame.
func (c *Camera) Update() {
	if p := c.owner.entity(c.parent); p != nil {
		c.global = transform.Compose(c.local, p.global)
		return
	}
	c.global = c.local
}

func (c *Camera) SetLocal(t transform.Transform) {
	c.local = t
	c.Update()
}

func (c *Camera) SetPosition(p math3d.Vec3) {
	c.local.Position = p
	c.Update()
}

// Move shifts the camera by d in its parent's frame (world frame when
// unparented).
func (c *Camera) Move(d math3d.Vec3) {
	c.local.Position = c.local.Position.Add(d)
	c.Update()
}

// Rotate turns the camera by angle radians around axis.
func (c *Camera) Rotate(axis math3d.Vec3, angle float64) {
	c.local = c.local.Rotate(axis, angle)
	c.Update()
}

func (c *Camera) SetForward(dir math3d.Vec3) {
	c.local = c.local.SetForward(dir)
	c.Update()
}

// ResetRotation restores the +Z forward, +Y up orientation.
func (c *Camera) ResetRotation() {
	c.local.Forward = math3d.Forward()
	c.local.Up = math3d.Up()
	c.Update()
}

// detach unparents the camera, leaving it where it currently is.
func (c *Camera) detach() {
	c.parent = None
	c.local = c.global
	c.local.Scale = math3d.One3()
}

// ParentCamera makes the camera follow an entity at the given offset in
// the entity's frame.
func (w *World) ParentCamera(h Handle, offset math3d.Vec3) error {
	e, err := w.Get(h)
	if err != nil {
		return fmt.Errorf("parent camera: %w", err)
	}
	w.Camera.parent = h
	w.Camera.local.Position = offset
	w.Camera.local.Scale = math3d.One3()
	w.Camera.Update()
	w.log.Debug("camera parented", zap.String("parent", e.Name))
	return nil
}

// ParentCameraNamed is ParentCamera by entity name.
func (w *World) ParentCameraNamed(name string, offset math3d.Vec3) error {
	e, err := w.Lookup(name)
	if err != nil {
		return fmt.Errorf("parent camera: %w", err)
	}
	return w.ParentCamera(e.handle, offset)
}

// UnparentCamera stops following the parent. The camera stays at its
// current world placement.
func (w *World) UnparentCamera() {
	w.Camera.Update()
	w.Camera.detach()
}
