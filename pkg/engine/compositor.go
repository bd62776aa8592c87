package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/taigrr/cubist/pkg/render"
	"github.com/taigrr/cubist/pkg/scene"
)

// State is the compositor's position in the frame cycle.
type State int

const (
	Idle State = iota
	BuildingFrame
	Composited
)

func (s State) String() string {
	switch s {
	case BuildingFrame:
		return "building"
	case Composited:
		return "composited"
	}
	return "idle"
}

// BackgroundMode selects what fills the frame behind the scene.
type BackgroundMode int

const (
	BackgroundSolid BackgroundMode = iota
	BackgroundSkybox
)

// ParseBackground converts a config string into a BackgroundMode.
func ParseBackground(s string) (BackgroundMode, error) {
	switch s {
	case "", "solid":
		return BackgroundSolid, nil
	case "skybox":
		return BackgroundSkybox, nil
	}
	return 0, fmt.Errorf("unknown background %q", s)
}

func (m BackgroundMode) String() string {
	if m == BackgroundSkybox {
		return "skybox"
	}
	return "solid"
}

// Background describes the frame fill.
type Background struct {
	Mode    BackgroundMode
	Color   render.Color
	Palette render.SkyPalette
	// Tint multiplies the sky panorama by Color.
	Tint bool
}

// Compositor turns a world into one frame: background, then every drawn
// entity projected, clipped and rasterized in hierarchy order.
type Compositor struct {
	fb            *render.Framebuffer
	raster        *render.Rasterizer
	frustum       render.Frustum
	fov           float64
	background    Background
	sky           *render.Skybox
	ShowColliders bool
	Culling       render.CullingStats

	overlays []Overlay
	state    State
	log      *zap.Logger
}

// NewCompositor creates a compositor for a width×height frame with the
// given vertical field of view in degrees.
func NewCompositor(width, height int, fov float64, opts render.Options, bg Background, log *zap.Logger) (*Compositor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Compositor{
		fov:        fov,
		background: bg,
		raster:     render.NewRasterizer(nil, render.Projection{}, opts),
		log:        log,
	}
	if err := c.Resize(width, height); err != nil {
		return nil, err
	}
	return c, nil
}

// Resize reallocates the frame and depth buffers and rebuilds the sky.
func (c *Compositor) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize compositor to %dx%d: invalid size", width, height)
	}
	proj := render.NewProjection(width, height, c.fov)
	c.fb = render.NewFramebuffer(width, height)
	c.raster.Resize(c.fb, proj)
	c.frustum = render.NewFrustum(proj)
	c.log.Debug("frame resized", zap.Int("width", width), zap.Int("height", height))
	return c.SetBackground(c.background)
}

// SetBackground replaces the frame fill.
func (c *Compositor) SetBackground(bg Background) error {
	c.background = bg
	c.sky = nil
	if bg.Mode != BackgroundSkybox {
		return nil
	}
	sky, err := render.NewGradientSkybox(c.fb.Width, c.fb.Height, bg.Palette)
	if err != nil {
		return fmt.Errorf("build skybox: %w", err)
	}
	if bg.Tint {
		sky = sky.Tinted(bg.Color)
	}
	c.sky = sky
	return nil
}

// Overlay draws over a finished frame. view is the frame's camera.
type Overlay func(fb *render.Framebuffer, view render.View)

// AddOverlay appends o to the overlays drawn after every frame, in order.
func (c *Compositor) AddOverlay(o Overlay) {
	c.overlays = append(c.overlays, o)
}

// Background returns the current frame fill.
func (c *Compositor) Background() Background { return c.background }

// Framebuffer returns the frame written by the last Composite.
func (c *Compositor) Framebuffer() *render.Framebuffer { return c.fb }

// Rasterizer exposes the rasterizer so its options can change between
// frames.
func (c *Compositor) Rasterizer() *render.Rasterizer { return c.raster }

// State reports where the compositor is in the frame cycle.
func (c *Compositor) State() State { return c.state }

// Stats returns the rasterizer counters of the last frame.
func (c *Compositor) Stats() render.Stats { return c.raster.Stats }

// Composite renders w into the framebuffer and returns it.
func (c *Compositor) Composite(w *scene.World) *render.Framebuffer {
	c.state = BuildingFrame
	c.raster.ClearDepth()
	c.raster.ResetStats()
	c.Culling = render.CullingStats{}

	w.Camera.Update()
	cam := w.Camera.World()
	view := render.NewView(cam, c.raster.Projection())

	if c.sky != nil {
		c.sky.Draw(c.fb, cam.Forward)
	} else {
		c.fb.Clear(c.background.Color)
	}

	for e := range w.Ordered() {
		if !e.ShouldBeDrawn || e.Mesh == nil {
			continue
		}
		c.Culling.Tested++
		world := e.World()
		center := view.Relative(world.Apply(e.Mesh.Center()))
		radius := e.Mesh.Radius() * world.Scale.Abs().MaxComponent()
		if !c.frustum.IntersectsSphere(center, radius) {
			c.Culling.Culled++
			continue
		}
		e.Verts = render.Project(e.Mesh, world, view, e.Verts)
		c.raster.DrawMesh(e.Mesh, e.Verts, e.Material())
		c.Culling.Drawn++
	}

	if c.ShowColliders {
		c.drawColliders(w, view)
	}
	for _, o := range c.overlays {
		o(c.fb, view)
	}

	c.state = Composited
	return c.fb
}

// drawColliders outlines colliders in green and triggers in red over the
// finished frame.
func (c *Compositor) drawColliders(w *scene.World, view render.View) {
	wf := render.NewWireframe(view, c.fb)
	for e := range w.Ordered() {
		if e.Mesh == nil {
			continue
		}
		mid := e.Midpoint()
		if b := e.BoxCollider; b != nil {
			wf.DrawBox(e.World(), mid, b.Size, render.ColliderColor)
		}
		if s := e.SphereCollider; s != nil {
			wf.DrawSphere(mid, s.Radius, render.ColliderColor)
		}
		if b := e.BoxTrigger; b != nil {
			wf.DrawBox(e.World(), mid, b.Size, render.TriggerColor)
		}
		if s := e.SphereTrigger; s != nil {
			wf.DrawSphere(mid, s.Radius, render.TriggerColor)
		}
	}
}
