package scene

import (
	"fmt"

	"go.uber.org/zap"
)

// SetParent makes child a child of parent, or a root when parent is None.
// The local transform is kept, so the child's world placement becomes its
// local transform composed onto the parent. Every world transform is then
// recomputed root first.
func (w *World) SetParent(child, parent Handle) error {
	c, err := w.Get(child)
	if err != nil {
		return fmt.Errorf("set parent: %w", err)
	}

	if parent.IsNone() {
		w.detach(c)
		w.reorder()
		w.log.Debug("detached entity", zap.String("name", c.Name))
		return nil
	}

	p, err := w.Get(parent)
	if err != nil {
		return fmt.Errorf("set parent: %w", err)
	}
	if w.isAncestor(child, p) {
		return fmt.Errorf("set parent %q under %q: %w", c.Name, p.Name, ErrCycle)
	}

	w.detach(c)
	c.parent = parent
	c.childLevel = p.childLevel + 1
	p.children = append(p.children, child)
	c.syncChildren()
	w.reorder()

	w.log.Debug("parented entity",
		zap.String("child", c.Name),
		zap.String("parent", p.Name),
		zap.Int("level", c.childLevel),
	)
	return nil
}

// isAncestor reports whether h is e or one of e's ancestors.
func (w *World) isAncestor(h Handle, e *Entity) bool {
	for e != nil {
		if e.handle == h {
			return true
		}
		e = w.entity(e.parent)
	}
	return false
}

func (w *World) detach(c *Entity) {
	if p := w.entity(c.parent); p != nil {
		p.removeChild(c.handle)
	}
	c.parent = None
	c.childLevel = 0
	c.syncChildren()
}

// reorder rebuilds the hierarchy order by scanning the registry once per
// child level until a pass finds nothing, then recomputes every world
// transform in that order.
func (w *World) reorder() {
	w.hierarchy = w.hierarchy[:0]
	for level := 0; ; level++ {
		found := false
		for _, h := range w.order {
			if e := w.entity(h); e != nil && e.childLevel == level {
				w.hierarchy = append(w.hierarchy, h)
				found = true
			}
		}
		if !found {
			break
		}
	}
	for _, h := range w.hierarchy {
		w.entity(h).syncWithParent()
	}
}
