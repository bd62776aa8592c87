package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/taigrr/cubist/internal/config"
	"github.com/taigrr/cubist/pkg/engine"
	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/models"
	"github.com/taigrr/cubist/pkg/physics"
	"github.com/taigrr/cubist/pkg/render"
	"github.com/taigrr/cubist/pkg/scene"
)

const defaultScene = "platformer"

type sceneBuilder func(e *engine.Engine, cfg *config.Config) error

var scenes = map[string]sceneBuilder{
	"cube":       buildCubeScene,
	"platformer": buildPlatformer,
}

func sceneNames() string {
	return strings.Join(slices.Sorted(maps.Keys(scenes)), ", ")
}

func buildScene(name string, e *engine.Engine, cfg *config.Config) error {
	build, ok := scenes[name]
	if !ok {
		return fmt.Errorf("unknown scene %q (have %s)", name, sceneNames())
	}
	if err := build(e, cfg); err != nil {
		return fmt.Errorf("build scene %s: %w", name, err)
	}
	e.Logger().Info("scene ready", zap.String("scene", name), zap.Int("entities", e.World.Len()))
	return nil
}

// buildCubeScene is a parent cube carrying a larger child, orbited by a
// free camera. Two levels swap the child between a cube and a sphere.
func buildCubeScene(e *engine.Engine, cfg *config.Config) error {
	w := e.World
	e.Compositor.Rasterizer().Options.BackfaceCulling = false

	parent, err := w.SpawnCube("cube", math3d.Zero3())
	if err != nil {
		return err
	}
	child, err := w.SpawnCube("cube 2", math3d.V3(0, 2, 0))
	if err != nil {
		return err
	}
	child.SetScale(math3d.V3(2, 2, 2))
	if err := child.SetParent(parent); err != nil {
		return err
	}
	ball, err := w.SpawnSphere("ball", math3d.V3(0, 2, 0))
	if err != nil {
		return err
	}
	if err := ball.SetParent(parent); err != nil {
		return err
	}

	for level, h := range map[string]scene.Handle{"cubes": child.Handle(), "spheres": ball.Handle()} {
		if _, err := w.CreateLevel(level); err != nil {
			return err
		}
		if err := w.AddToLevel(h, level); err != nil {
			return err
		}
	}
	if err := w.SwitchToLevel("cubes"); err != nil {
		return err
	}

	w.Camera.SetPosition(math3d.V3(0, 1, -8))
	e.AddSystem(engine.NewFreeCam(10))
	e.Compositor.AddOverlay(func(fb *render.Framebuffer, view render.View) {
		wf := render.NewWireframe(view, fb)
		wf.DrawGrid(20, 2, render.RGB(60, 60, 80))
		wf.DrawAxes(3)
	})

	// Spin the parent; the child follows through the hierarchy. The child
	// breathes with a scale tween that restarts when it finishes.
	big := true
	e.AddSystem(engine.SystemFunc(func(e *engine.Engine, _ engine.InputState, dt float64) {
		parent.Rotate(math3d.Up(), 0.8*dt)
		if child.Tween == nil {
			to := math3d.V3(1.5, 1.5, 1.5)
			if !big {
				to = math3d.V3(2, 2, 2)
			}
			big = !big
			child.TweenScale(to, 1.5, ease.InOutSine)
		}
	}))
	return nil
}

// Platformer layout.
const (
	platformCount   = 5
	platformSpacing = 15.0
	playerStartY    = 50.0
	fallLimit       = -40.0
)

// buildPlatformer is a row of platforms with a coin on the last one. The
// hidden player cube carries the camera; touching the coin collects it.
func buildPlatformer(e *engine.Engine, cfg *config.Config) error {
	w := e.World
	bg := e.Compositor.Background()
	bg.Mode = engine.BackgroundSkybox
	if err := e.Compositor.SetBackground(bg); err != nil {
		return err
	}
	e.Compositor.Rasterizer().Options.BackfaceCulling = false

	for i := range platformCount {
		p, err := w.SpawnPlatform(fmt.Sprintf("platform%d", i+1), math3d.V3(float64(i)*platformSpacing, 0, 0))
		if err != nil {
			return err
		}
		p.Color = render.ColorGreen
		p.AddBoxCollider(math3d.V3(10, 1, 10))
	}

	coinTex := render.NewCheckerTexture(16, 16, 4, render.RGB(255, 215, 0), render.RGB(200, 160, 0))
	coin, err := w.SpawnAt("coin", models.NewSphere(8, 12), coinTex, math3d.V3(platformSpacing*(platformCount-1), 2, 0))
	if err != nil {
		return err
	}
	coin.SetScale(math3d.V3(1, 1, 0.3))
	coin.AddBoxTrigger(math3d.V3(2, 2, 2))
	coin.SetTransparent()

	player, err := w.SpawnCube("cube", math3d.V3(0, playerStartY, 0),
		physics.TagPhysics, physics.TagInteract, physics.TagGravity)
	if err != nil {
		return err
	}
	player.AddBoxCollider(math3d.V3(2, 2, 2))
	player.Hide()
	if err := w.ParentCamera(player.Handle(), math3d.V3(0, 4, 0)); err != nil {
		return err
	}

	pickup := &coinPickup{coin: coin.Handle(), player: player.Handle()}
	e.AddSystem(engine.NewFirstPerson(10, 6))
	e.AddSystem(pickup)
	e.Compositor.AddOverlay(pickup.draw)
	return nil
}

// coinPickup spins the coin and collects it when the player walks into
// its trigger. A player that falls off the course restarts at the top.
type coinPickup struct {
	coin, player scene.Handle
	collected    bool
}

func (c *coinPickup) Update(e *engine.Engine, _ engine.InputState, dt float64) {
	w := e.World
	if player, err := w.Get(c.player); err == nil && player.World().Position.Y < fallLimit {
		player.SetPosition(math3d.V3(0, playerStartY, 0))
		player.SetVelocity(math3d.Zero3())
	}

	coin, err := w.Get(c.coin)
	if err != nil {
		return
	}
	coin.Rotate(math3d.Up(), 6*dt)
	if !physics.IsTriggeredCheap(w, coin) {
		return
	}

	pos := coin.Midpoint()
	if err := w.Destroy(c.coin); err != nil {
		e.Logger().Warn("destroy coin", zap.Error(err))
		return
	}
	bg := e.Compositor.Background()
	bg.Color = render.ColorWhite
	if err := e.Compositor.SetBackground(bg); err != nil {
		e.Logger().Warn("background", zap.Error(err))
	}
	if _, err := w.SpawnParticle("sparkle", pos, sparkle()); err != nil {
		e.Logger().Warn("spawn sparkle", zap.Error(err))
	}
	c.collected = true
	e.Logger().Info("coin collected", zap.Float64("time", e.Clock.Elapsed()))
}

// draw puts a crosshair in the middle of the frame and a coin marker in
// the top right corner once the coin is collected.
func (c *coinPickup) draw(fb *render.Framebuffer, _ render.View) {
	cx, cy := fb.Width/2, fb.Height/2
	fb.DrawRect(cx, cy, 5, 1, render.ColorWhite)
	fb.DrawRect(cx, cy, 1, 5, render.ColorWhite)
	if c.collected {
		r := max(fb.Height/30, 2)
		fb.DrawCircle(fb.Width-2*r, 2*r, r, render.RGB(255, 215, 0))
	}
}

// sparkle is a one-shot burst of shrinking checker frames. Black texels
// are holes.
func sparkle() scene.Particle {
	gold := render.RGB(255, 215, 0)
	frames := make([]*render.Texture, 0, 4)
	for _, cell := range []int{8, 4, 2, 1} {
		frames = append(frames, render.NewCheckerTexture(16, 16, cell, gold, render.ColorBlack))
	}
	return scene.Particle{Frames: frames, FrameTime: 0.12, DestroyWhenDone: true}
}
