package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/models"
	"github.com/taigrr/cubist/pkg/render"
)

// Particle flips an entity's texture through a list of frames.
type Particle struct {
	Frames []*render.Texture
	// FrameTime is the number of seconds each frame is shown.
	FrameTime float64
	Loop      bool
	// DestroyWhenDone removes the entity after the last frame. It takes
	// precedence over Loop.
	DestroyWhenDone bool

	frame    int
	elapsed  float64
	finished bool
}

// Frame returns the index of the frame being shown.
func (p *Particle) Frame() int { return p.frame }

// Finished reports whether a non-looping animation has stopped on its
// last frame.
func (p *Particle) Finished() bool { return p.finished }

// advance moves the animation forward by dt seconds.
func (p *Particle) advance(dt float64) (changed, destroy bool) {
	if p.finished || len(p.Frames) == 0 || p.FrameTime <= 0 {
		return false, false
	}
	p.elapsed += dt
	for p.elapsed >= p.FrameTime {
		p.elapsed -= p.FrameTime
		if p.frame+1 < len(p.Frames) {
			p.frame++
			changed = true
			continue
		}
		switch {
		case p.DestroyWhenDone:
			return changed, true
		case p.Loop:
			p.frame = 0
			changed = true
		default:
			p.finished = true
			return changed, false
		}
	}
	return changed, false
}

// SpawnParticle spawns a quad facing -Z that shows frames[0]. Black texels
// are transparent.
func (w *World) SpawnParticle(name string, pos math3d.Vec3, p Particle, tags ...string) (*Entity, error) {
	if len(p.Frames) == 0 {
		return nil, errors.New("spawn particle: no frames")
	}
	e, err := w.SpawnAt(name, models.NewQuad(), p.Frames[0], pos, tags...)
	if err != nil {
		return nil, fmt.Errorf("spawn particle: %w", err)
	}
	e.Particle = &p
	e.SetTransparent()
	return e, nil
}

// AdvanceParticles steps every particle animation by dt seconds,
// swapping textures and destroying finished one-shot particles.
func (w *World) AdvanceParticles(dt float64) {
	for e := range w.All() {
		if e.Particle == nil {
			continue
		}
		changed, destroy := e.Particle.advance(dt)
		if destroy {
			_ = w.Destroy(e.handle)
			continue
		}
		if changed {
			e.Texture = e.Particle.Frames[e.Particle.frame]
		}
	}
}
