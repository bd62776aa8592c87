package scene

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Level is a named group of entities that are shown and hidden together.
// Showing a level sets ShouldBeDrawn and ShouldBePhysics on its members;
// when an entity belongs to several levels the last one created wins.
type Level struct {
	Name    string
	members []Handle
	active  bool
	owner   *World
}

// Members returns the member handles in insertion order.
func (l *Level) Members() []Handle { return slices.Clone(l.members) }

// Active reports whether the level is shown.
func (l *Level) Active() bool { return l.active }

// Contains reports whether h is a member.
func (l *Level) Contains(h Handle) bool { return slices.Contains(l.members, h) }

// Show enables drawing and physics for every member.
func (l *Level) Show() {
	l.active = true
	l.owner.refreshLevels()
}

// Hide disables drawing and physics for every member.
func (l *Level) Hide() {
	l.active = false
	l.owner.refreshLevels()
}

func (l *Level) remove(h Handle) {
	l.members = slices.DeleteFunc(l.members, func(m Handle) bool { return m == h })
}

// CreateLevel adds an empty, shown level.
func (w *World) CreateLevel(name string) (*Level, error) {
	if name == "" {
		return nil, fmt.Errorf("create level: %w: empty name", ErrInvalidName)
	}
	if _, err := w.Level(name); err == nil {
		return nil, fmt.Errorf("create level: %w: %q already exists", ErrInvalidName, name)
	}
	l := &Level{Name: name, active: true, owner: w}
	w.levels = append(w.levels, l)
	w.log.Debug("created level", zap.String("level", name))
	return l, nil
}

// Level finds a level by name.
func (w *World) Level(name string) (*Level, error) {
	for _, l := range w.levels {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, fmt.Errorf("level %q: %w", name, ErrNotFound)
}

// Levels returns the levels in creation order.
func (w *World) Levels() []*Level { return slices.Clone(w.levels) }

// AddToLevel adds an entity to a level and applies the level's visibility
// to it.
func (w *World) AddToLevel(h Handle, level string) error {
	l, err := w.Level(level)
	if err != nil {
		return fmt.Errorf("add to level: %w", err)
	}
	if _, err := w.Get(h); err != nil {
		return fmt.Errorf("add to level %q: %w", level, err)
	}
	if !l.Contains(h) {
		l.members = append(l.members, h)
	}
	w.refreshLevels()
	return nil
}

// SwitchToLevel shows the named level and hides every other one.
func (w *World) SwitchToLevel(name string) error {
	target, err := w.Level(name)
	if err != nil {
		return fmt.Errorf("switch level: %w", err)
	}
	for _, l := range w.levels {
		l.active = l == target
	}
	w.refreshLevels()
	w.log.Debug("switched level", zap.String("level", name))
	return nil
}

// SwitchToNextLevel hides the single active level and shows the one after
// it, wrapping to the first. It does nothing unless exactly one level is
// active.
func (w *World) SwitchToNextLevel() {
	current := -1
	for i, l := range w.levels {
		if !l.active {
			continue
		}
		if current >= 0 {
			return
		}
		current = i
	}
	if current < 0 {
		return
	}
	next := w.levels[(current+1)%len(w.levels)]
	_ = w.SwitchToLevel(next.Name)
}

func (w *World) refreshLevels() {
	for _, l := range w.levels {
		for _, h := range l.members {
			if e := w.entity(h); e != nil {
				e.ShouldBeDrawn = l.active
				e.ShouldBePhysics = l.active
			}
		}
	}
}
