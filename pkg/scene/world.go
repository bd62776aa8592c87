// Package scene holds the entity arena, the transform hierarchy, levels and
// the camera that the compositor and physics step operate on.
package scene

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/models"
	"github.com/taigrr/cubist/pkg/render"
	"github.com/taigrr/cubist/pkg/transform"
)

var (
	// ErrNotFound is returned when a name or handle resolves to nothing.
	ErrNotFound = errors.New("entity not found")
	// ErrStaleHandle is returned for a handle whose entity was destroyed.
	// It wraps ErrNotFound.
	ErrStaleHandle = fmt.Errorf("%w: stale handle", ErrNotFound)
	// ErrInvalidName is returned for empty names and names containing "(".
	ErrInvalidName = errors.New("invalid name")
	// ErrCycle is returned when a parent change would make an entity its
	// own ancestor.
	ErrCycle = errors.New("parent cycle")
)

type slot struct {
	entity     *Entity
	generation uint32
}

// World owns every entity, the level list and the camera. It is not safe
// for concurrent use; all edits happen between frames.
type World struct {
	slots     []slot
	free      []uint32
	names     map[string]Handle
	order     []Handle
	hierarchy []Handle
	levels    []*Level

	// Camera is the single scene camera.
	Camera *Camera
	// DefaultTexture is given to primitives spawned without one.
	DefaultTexture *render.Texture

	log *zap.Logger
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for spawn, destroy and parent events.
func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithDefaultTexture replaces the grid texture used by the primitive
// spawners.
func WithDefaultTexture(t *render.Texture) Option {
	return func(w *World) {
		w.DefaultTexture = t
	}
}

// NewWorld creates an empty world with an unparented identity camera.
func NewWorld(opts ...Option) *World {
	w := &World{
		names:          make(map[string]Handle),
		DefaultTexture: render.NewGridTexture(16, 4),
		log:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.Camera = newCamera(w)
	return w
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return len(w.order)
}

// Spawn adds an entity with the given mesh and optional texture at the
// origin. The name is made unique by appending "(n)", where n counts the
// existing entities sharing the stem.
func (w *World) Spawn(name string, mesh *models.Mesh, tex *render.Texture, tags ...string) (*Entity, error) {
	if mesh == nil {
		return nil, fmt.Errorf("spawn %q: %w", name, models.ErrNoGeometry)
	}
	unique, err := w.uniqueName(name)
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}

	e := &Entity{
		Name:            unique,
		Mesh:            mesh,
		Texture:         tex,
		Color:           render.ColorWhite,
		ShouldBeDrawn:   true,
		ShouldBePhysics: true,
		local:           transform.Identity(),
		global:          transform.Identity(),
		owner:           w,
	}
	for _, tag := range tags {
		e.AddTag(tag)
	}
	e.handle = w.alloc(e)
	w.names[unique] = e.handle
	w.order = append(w.order, e.handle)
	w.hierarchy = append(w.hierarchy, e.handle)
	if len(w.hierarchy) > 1 && w.entity(w.hierarchy[len(w.hierarchy)-2]).childLevel > 0 {
		w.reorder()
	}

	w.log.Debug("spawned entity",
		zap.String("name", unique),
		zap.Stringer("handle", e.handle),
		zap.Int("triangles", mesh.TriangleCount()),
	)
	return e, nil
}

// SpawnAt spawns an entity and moves it to pos.
func (w *World) SpawnAt(name string, mesh *models.Mesh, tex *render.Texture, pos math3d.Vec3, tags ...string) (*Entity, error) {
	e, err := w.Spawn(name, mesh, tex, tags...)
	if err != nil {
		return nil, err
	}
	e.SetPosition(pos)
	return e, nil
}

// SpawnColored spawns an untextured entity drawn in a flat colour.
func (w *World) SpawnColored(name string, mesh *models.Mesh, c render.Color, pos math3d.Vec3, tags ...string) (*Entity, error) {
	e, err := w.SpawnAt(name, mesh, nil, pos, tags...)
	if err != nil {
		return nil, err
	}
	e.Color = c
	return e, nil
}

// SpawnCube spawns a 2×2×2 cube at pos.
func (w *World) SpawnCube(name string, pos math3d.Vec3, tags ...string) (*Entity, error) {
	return w.SpawnAt(name, models.NewCube(), w.DefaultTexture, pos, tags...)
}

// SpawnPlane spawns a 2×2 upward-facing plane at pos.
func (w *World) SpawnPlane(name string, pos math3d.Vec3, tags ...string) (*Entity, error) {
	return w.SpawnAt(name, models.NewPlane(), w.DefaultTexture, pos, tags...)
}

// SpawnSphere spawns a unit sphere at pos.
func (w *World) SpawnSphere(name string, pos math3d.Vec3, tags ...string) (*Entity, error) {
	return w.SpawnAt(name, models.NewSphere(8, 12), w.DefaultTexture, pos, tags...)
}

// SpawnPlatform spawns the 10×1×10 platform with its top face at pos.Y.
func (w *World) SpawnPlatform(name string, pos math3d.Vec3, tags ...string) (*Entity, error) {
	e, err := w.SpawnAt(name, models.NewSlab(), w.DefaultTexture, pos, tags...)
	if err != nil {
		return nil, err
	}
	e.SetScale(math3d.V3(5, 1, 5))
	return e, nil
}

// Get resolves a handle.
func (w *World) Get(h Handle) (*Entity, error) {
	if h.IsNone() || int(h.Index) >= len(w.slots) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, h)
	}
	s := w.slots[h.Index]
	if s.generation != h.Generation || s.entity == nil {
		return nil, fmt.Errorf("%w: %v", ErrStaleHandle, h)
	}
	return s.entity, nil
}

// Lookup finds an entity by its exact name.
func (w *World) Lookup(name string) (*Entity, error) {
	h, ok := w.names[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return w.Get(h)
}

// Valid reports whether h still refers to a live entity.
func (w *World) Valid(h Handle) bool {
	return w.entity(h) != nil
}

// All iterates the live entities in spawn order. Entities destroyed during
// iteration are skipped.
func (w *World) All() iter.Seq[*Entity] {
	order := slices.Clone(w.order)
	return func(yield func(*Entity) bool) {
		for _, h := range order {
			e := w.entity(h)
			if e == nil {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Ordered iterates the live entities root first, then by increasing
// child level, which is the order world transforms are recomputed in.
func (w *World) Ordered() iter.Seq[*Entity] {
	order := slices.Clone(w.hierarchy)
	return func(yield func(*Entity) bool) {
		for _, h := range order {
			if e := w.entity(h); e != nil && !yield(e) {
				return
			}
		}
	}
}

// Tagged returns the entities carrying tag, in spawn order.
func (w *World) Tagged(tag string) []*Entity {
	var out []*Entity
	for e := range w.All() {
		if e.HasTag(tag) {
			out = append(out, e)
		}
	}
	return out
}

// Destroy removes an entity. Its children become roots and it leaves every
// level. A camera following it is unparented in place.
func (w *World) Destroy(h Handle) error {
	e, err := w.Get(h)
	if err != nil {
		return fmt.Errorf("destroy: %w", err)
	}

	for _, ch := range e.children {
		if c := w.entity(ch); c != nil {
			c.parent = None
			c.childLevel = 0
			c.sync()
		}
	}
	e.children = nil
	if p := w.entity(e.parent); p != nil {
		p.removeChild(h)
	}

	for _, l := range w.levels {
		l.remove(h)
	}
	if w.Camera.parent == h {
		w.UnparentCamera()
	}

	delete(w.names, e.Name)
	w.order = slices.DeleteFunc(w.order, func(o Handle) bool { return o == h })
	w.release(h)
	w.reorder()

	w.log.Debug("destroyed entity", zap.String("name", e.Name), zap.Stringer("handle", h))
	return nil
}

// DestroyNamed destroys the entity called name.
func (w *World) DestroyNamed(name string) error {
	e, err := w.Lookup(name)
	if err != nil {
		return fmt.Errorf("destroy: %w", err)
	}
	return w.Destroy(e.handle)
}

func (w *World) entity(h Handle) *Entity {
	if h.IsNone() || int(h.Index) >= len(w.slots) {
		return nil
	}
	s := w.slots[h.Index]
	if s.generation != h.Generation {
		return nil
	}
	return s.entity
}

func (w *World) alloc(e *Entity) Handle {
	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		idx = uint32(len(w.slots))
		w.slots = append(w.slots, slot{generation: 1})
	}
	w.slots[idx].entity = e
	return Handle{Index: idx, Generation: w.slots[idx].generation}
}

func (w *World) release(h Handle) {
	s := &w.slots[h.Index]
	s.entity = nil
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	w.free = append(w.free, h.Index)
}

// uniqueName validates a requested name and disambiguates it against the
// registry.
func (w *World) uniqueName(name string) (string, error) {
	if name == "" || strings.Contains(name, "(") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	n := 0
	for other := range w.names {
		if stem, _, _ := strings.Cut(other, "("); stem == name {
			n++
		}
	}
	if n == 0 {
		return name, nil
	}
	// After a destroy the count can collide with a surviving suffix.
	for {
		candidate := fmt.Sprintf("%s(%d)", name, n)
		if _, taken := w.names[candidate]; !taken {
			return candidate, nil
		}
		n++
	}
}
