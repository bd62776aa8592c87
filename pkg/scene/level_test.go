package scene

import (
	"errors"
	"testing"

	"github.com/taigrr/cubist/pkg/math3d"
)

func setupLevels(t *testing.T) (*World, [3]*Entity) {
	t.Helper()
	w := NewWorld()
	var ents [3]*Entity
	for i, name := range []string{"first", "second", "third"} {
		if _, err := w.CreateLevel(name); err != nil {
			t.Fatal(err)
		}
		ents[i] = mustCube(t, w, name+"_cube", math3d.Zero3())
		if err := w.AddToLevel(ents[i].Handle(), name); err != nil {
			t.Fatal(err)
		}
	}
	return w, ents
}

func visible(t *testing.T, ents [3]*Entity) [3]bool {
	t.Helper()
	var out [3]bool
	for i, e := range ents {
		out[i] = e.ShouldBeDrawn
		if e.ShouldBeDrawn != e.ShouldBePhysics {
			t.Errorf("%s: drawn %v but physics %v", e.Name, e.ShouldBeDrawn, e.ShouldBePhysics)
		}
	}
	return out
}

func TestLevelShowHide(t *testing.T) {
	w, ents := setupLevels(t)
	loose := mustCube(t, w, "loose", math3d.Zero3())
	loose.Hide()

	l, err := w.Level("second")
	if err != nil {
		t.Fatal(err)
	}
	l.Hide()
	if got := visible(t, ents); got != [3]bool{true, false, true} {
		t.Errorf("after Hide: %v", got)
	}
	if l.Active() {
		t.Error("hidden level reports active")
	}
	l.Show()
	if got := visible(t, ents); got != [3]bool{true, true, true} {
		t.Errorf("after Show: %v", got)
	}
	if loose.ShouldBeDrawn {
		t.Error("level refresh touched an entity outside every level")
	}
}

func TestSwitchToLevel(t *testing.T) {
	w, ents := setupLevels(t)
	if err := w.SwitchToLevel("third"); err != nil {
		t.Fatal(err)
	}
	if got := visible(t, ents); got != [3]bool{false, false, true} {
		t.Errorf("got %v", got)
	}
	if err := w.SwitchToLevel("fourth"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing level: got %v", err)
	}
}

func TestSwitchToNextLevel(t *testing.T) {
	w, ents := setupLevels(t)

	// Several active levels: nothing to advance from.
	w.SwitchToNextLevel()
	if got := visible(t, ents); got != [3]bool{true, true, true} {
		t.Errorf("with every level active: %v", got)
	}

	if err := w.SwitchToLevel("second"); err != nil {
		t.Fatal(err)
	}
	steps := [][3]bool{
		{false, false, true},
		{true, false, false},
		{false, true, false},
	}
	for i, want := range steps {
		w.SwitchToNextLevel()
		if got := visible(t, ents); got != want {
			t.Errorf("step %d: got %v, want %v", i, got, want)
		}
	}
}

func TestLevelMembership(t *testing.T) {
	w, ents := setupLevels(t)
	if _, err := w.CreateLevel("first"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("duplicate level: got %v", err)
	}
	if err := w.AddToLevel(ents[0].Handle(), "first"); err != nil {
		t.Fatal(err)
	}
	l, _ := w.Level("first")
	if len(l.Members()) != 1 {
		t.Errorf("members = %v, want one entry", l.Members())
	}
	if err := w.AddToLevel(None, "first"); !errors.Is(err, ErrNotFound) {
		t.Errorf("None handle: got %v", err)
	}

	// A hidden level hides entities as they join.
	l.Hide()
	late := mustCube(t, w, "late", math3d.Zero3())
	if err := w.AddToLevel(late.Handle(), "first"); err != nil {
		t.Fatal(err)
	}
	if late.ShouldBeDrawn || late.ShouldBePhysics {
		t.Error("entity joined a hidden level but stays visible")
	}
	if len(w.Levels()) != 3 {
		t.Errorf("levels = %d", len(w.Levels()))
	}
}
