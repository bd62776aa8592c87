// Package engine runs the frame loop: it advances animations and physics
// on a scene.World, lets controllers and game systems react to input, and
// composites the world into a framebuffer.
package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/cubist/pkg/physics"
	"github.com/taigrr/cubist/pkg/render"
	"github.com/taigrr/cubist/pkg/scene"
)

// Options configure an Engine.
type Options struct {
	Width, Height int
	FOV           float64 // vertical, degrees
	Render        render.Options
	Background    Background
	ShowColliders bool

	Physics bool
	Gravity float64
	// MaxStep caps the dt handed to the update, in seconds.
	MaxStep float64
}

// DefaultOptions returns a 200×150, 70° engine with physics on.
func DefaultOptions() Options {
	return Options{
		Width:  200,
		Height: 150,
		FOV:    70,
		Render: render.DefaultOptions(),
		Background: Background{
			Mode:    BackgroundSolid,
			Color:   render.RGB(0, 100, 200),
			Palette: render.DefaultSkyPalette,
		},
		Physics: true,
		Gravity: physics.DefaultGravity,
		MaxStep: 0.1,
	}
}

// System is per-frame game logic.
type System interface {
	Update(e *Engine, in InputState, dt float64)
}

// SystemFunc adapts a function to System.
type SystemFunc func(e *Engine, in InputState, dt float64)

func (f SystemFunc) Update(e *Engine, in InputState, dt float64) { f(e, in, dt) }

// Engine ties a world to its compositor, clock and input.
type Engine struct {
	World      *scene.World
	Compositor *Compositor
	Clock      *Clock
	Input      *Input

	opts    Options
	systems []System
	frames  int
	log     *zap.Logger
}

// New creates an engine with an empty world.
func New(opts Options, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	comp, err := NewCompositor(opts.Width, opts.Height, opts.FOV, opts.Render, opts.Background, log)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	comp.ShowColliders = opts.ShowColliders

	e := &Engine{
		World:      scene.NewWorld(scene.WithLogger(log)),
		Compositor: comp,
		Clock:      NewClock(),
		Input:      NewInput(),
		opts:       opts,
		log:        log,
	}
	log.Info("engine started",
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height),
		zap.Float64("fov", opts.FOV),
		zap.Stringer("mode", opts.Render.Mode),
		zap.Stringer("background", opts.Background.Mode),
		zap.Bool("physics", opts.Physics),
	)
	return e, nil
}

// Options returns the options the engine was created with.
func (e *Engine) Options() Options { return e.opts }

// Logger returns the engine's logger.
func (e *Engine) Logger() *zap.Logger { return e.log }

// AddSystem appends s to the systems run every frame, in order.
func (e *Engine) AddSystem(s System) {
	e.systems = append(e.systems, s)
}

// SetPhysics turns the physics step on or off.
func (e *Engine) SetPhysics(on bool) { e.opts.Physics = on }

// Frames returns the number of frames composited.
func (e *Engine) Frames() int { return e.frames }

// Update advances the world by dt seconds: particles, tweens, the physics
// step, then every system. dt is capped at MaxStep.
func (e *Engine) Update(dt float64) {
	if e.opts.MaxStep > 0 && dt > e.opts.MaxStep {
		dt = e.opts.MaxStep
	}
	in := e.Input.Snapshot(time.Now())

	e.World.AdvanceParticles(dt)
	e.World.AdvanceTweens(dt)
	if e.opts.Physics {
		physics.Step(e.World, dt, e.opts.Gravity)
	}
	for _, s := range e.systems {
		s.Update(e, in, dt)
	}
}

// Frame ticks the clock, updates the world and composites it.
func (e *Engine) Frame() *render.Framebuffer {
	e.Update(e.Clock.Tick())
	fb := e.Compositor.Composite(e.World)
	e.frames++
	return fb
}

// Resize changes the render resolution.
func (e *Engine) Resize(width, height int) error {
	if err := e.Compositor.Resize(width, height); err != nil {
		return err
	}
	e.opts.Width, e.opts.Height = width, height
	return nil
}
