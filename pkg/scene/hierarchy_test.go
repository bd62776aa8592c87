package scene

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/transform"
)

func sameTransform(a, b transform.Transform, eps float64) bool {
	return a.Position.ApproxEqual(b.Position, eps) &&
		a.Forward.ApproxEqual(b.Forward, eps) &&
		a.Up.ApproxEqual(b.Up, eps) &&
		a.Scale.ApproxEqual(b.Scale, eps)
}

func TestParentPropagation(t *testing.T) {
	w := NewWorld()
	parent := mustCube(t, w, "parent", math3d.V3(10, 0, 0))
	child := mustCube(t, w, "child", math3d.V3(0, 0, 2))

	if err := child.SetParent(parent); err != nil {
		t.Fatal(err)
	}
	if child.ChildLevel() != 1 || child.Parent() != parent.Handle() {
		t.Fatalf("level %d parent %v", child.ChildLevel(), child.Parent())
	}
	// The local offset is now along the parent's forward.
	if !child.World().Position.ApproxEqual(math3d.V3(10, 0, 2), 1e-9) {
		t.Errorf("child world = %v, want (10, 0, 2)", child.World().Position)
	}

	parent.Rotate(math3d.Up(), math.Pi/2)
	want := transform.Compose(child.Local(), parent.World())
	if !sameTransform(child.World(), want, 1e-9) {
		t.Errorf("child world %v not recomputed after parent rotate", child.World())
	}
	if d := child.World().Position.Sub(parent.World().Position).Len(); math.Abs(d-2) > 1e-9 {
		t.Error("child drifted from its parent")
	}

	parent.SetPosition(math3d.V3(0, 5, 0))
	if got := child.World().Position.Y; math.Abs(got-5) > 1e-9 {
		t.Errorf("child y = %v after parent move, want 5", got)
	}
}

func TestIdentityLocalFollowsParent(t *testing.T) {
	w := NewWorld()
	parent := mustCube(t, w, "parent", math3d.V3(1, 2, 3))
	parent.Rotate(math3d.V3(1, 1, 0), 0.8)
	parent.SetScale(math3d.V3(2, 3, 4))
	child := mustCube(t, w, "child", math3d.Zero3())
	if err := child.SetParent(parent); err != nil {
		t.Fatal(err)
	}
	if !sameTransform(child.World(), parent.World(), 1e-9) {
		t.Errorf("identity child %v != parent %v", child.World(), parent.World())
	}
}

func TestGrandchildLevels(t *testing.T) {
	w := NewWorld()
	// Spawned leaf first so spawn order and hierarchy order differ.
	leaf := mustCube(t, w, "leaf", math3d.V3(0, 1, 0))
	mid := mustCube(t, w, "mid", math3d.V3(0, 1, 0))
	root := mustCube(t, w, "root", math3d.V3(0, 1, 0))

	if err := leaf.SetParent(mid); err != nil {
		t.Fatal(err)
	}
	if err := mid.SetParent(root); err != nil {
		t.Fatal(err)
	}
	if leaf.ChildLevel() != 2 {
		t.Errorf("leaf level = %d, want 2 after re-levelling", leaf.ChildLevel())
	}
	if got := leaf.World().Position.Y; math.Abs(got-3) > 1e-9 {
		t.Errorf("leaf y = %v, want 3", got)
	}

	var order []string
	for e := range w.Ordered() {
		order = append(order, e.Name)
	}
	if want := []string{"root", "mid", "leaf"}; !slices.Equal(order, want) {
		t.Errorf("hierarchy order = %v, want %v", order, want)
	}

	var spawn []string
	for e := range w.All() {
		spawn = append(spawn, e.Name)
	}
	if want := []string{"leaf", "mid", "root"}; !slices.Equal(spawn, want) {
		t.Errorf("registry order = %v, want %v", spawn, want)
	}
}

func TestParentCycle(t *testing.T) {
	w := NewWorld()
	a := mustCube(t, w, "a", math3d.Zero3())
	b := mustCube(t, w, "b", math3d.Zero3())
	c := mustCube(t, w, "c", math3d.Zero3())

	if err := b.SetParent(a); err != nil {
		t.Fatal(err)
	}
	if err := c.SetParent(b); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name          string
		child, parent *Entity
	}{
		{"self", a, a},
		{"direct", a, b},
		{"indirect", a, c},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.child.SetParent(tc.parent); !errors.Is(err, ErrCycle) {
				t.Errorf("got %v, want ErrCycle", err)
			}
		})
	}
	if a.Parent() != None || a.ChildLevel() != 0 {
		t.Error("rejected parent change modified the entity")
	}
}

func TestDetach(t *testing.T) {
	w := NewWorld()
	a := mustCube(t, w, "a", math3d.V3(5, 0, 0))
	b := mustCube(t, w, "b", math3d.V3(1, 0, 0))
	if err := b.SetParent(a); err != nil {
		t.Fatal(err)
	}
	if err := b.SetParent(nil); err != nil {
		t.Fatal(err)
	}
	if b.Parent() != None || b.ChildLevel() != 0 || len(a.Children()) != 0 {
		t.Errorf("detach left parent %v level %d siblings %v", b.Parent(), b.ChildLevel(), a.Children())
	}
	if !b.World().Position.ApproxEqual(math3d.V3(1, 0, 0), 1e-12) {
		t.Errorf("detached world = %v, want its local", b.World().Position)
	}
}

func TestReparentMovesChild(t *testing.T) {
	w := NewWorld()
	a := mustCube(t, w, "a", math3d.Zero3())
	b := mustCube(t, w, "b", math3d.Zero3())
	c := mustCube(t, w, "c", math3d.Zero3())
	if err := c.SetParent(a); err != nil {
		t.Fatal(err)
	}
	if err := c.SetParent(b); err != nil {
		t.Fatal(err)
	}
	if len(a.Children()) != 0 || len(b.Children()) != 1 {
		t.Errorf("children a=%v b=%v", a.Children(), b.Children())
	}
}

func TestDestroyTeardown(t *testing.T) {
	w := NewWorld()
	root := mustCube(t, w, "root", math3d.V3(0, 10, 0))
	mid := mustCube(t, w, "mid", math3d.V3(0, 1, 0))
	leaf := mustCube(t, w, "leaf", math3d.V3(0, 1, 0))
	if err := mid.SetParent(root); err != nil {
		t.Fatal(err)
	}
	if err := leaf.SetParent(mid); err != nil {
		t.Fatal(err)
	}

	lvl, err := w.CreateLevel("one")
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range []*Entity{root, mid, leaf} {
		if err := w.AddToLevel(e.Handle(), "one"); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.ParentCamera(mid.Handle(), math3d.V3(0, 2, 0)); err != nil {
		t.Fatal(err)
	}
	camBefore := w.Camera.World()

	if err := w.Destroy(mid.Handle()); err != nil {
		t.Fatal(err)
	}

	if leaf.Parent() != None || leaf.ChildLevel() != 0 {
		t.Errorf("orphan parent %v level %d, want root", leaf.Parent(), leaf.ChildLevel())
	}
	if slices.Contains(root.Children(), mid.Handle()) {
		t.Error("destroyed entity still listed as a child")
	}
	if !leaf.World().Position.ApproxEqual(math3d.V3(0, 1, 0), 1e-9) {
		t.Errorf("orphan world = %v, want its local (0, 1, 0)", leaf.World().Position)
	}
	if lvl.Contains(mid.Handle()) || len(lvl.Members()) != 2 {
		t.Errorf("level members = %v", lvl.Members())
	}
	if w.Camera.Parent() != None {
		t.Error("camera still parented to destroyed entity")
	}
	if !sameTransform(w.Camera.World(), camBefore, 1e-9) {
		t.Errorf("camera moved on unparent: %v -> %v", camBefore, w.Camera.World())
	}
	w.Camera.Update()
	if !w.Camera.World().Position.ApproxEqual(camBefore.Position, 1e-9) {
		t.Error("camera jumped after update")
	}
}

func TestCameraParent(t *testing.T) {
	w := NewWorld()
	player := mustCube(t, w, "player", math3d.V3(3, 0, 0))
	if err := w.ParentCameraNamed("player", math3d.V3(0, 4, 0)); err != nil {
		t.Fatal(err)
	}
	if !w.Camera.World().Position.ApproxEqual(math3d.V3(3, 4, 0), 1e-9) {
		t.Errorf("camera = %v, want (3, 4, 0)", w.Camera.World().Position)
	}

	player.SetPosition(math3d.V3(0, 0, 7))
	w.Camera.Update()
	if !w.Camera.World().Position.ApproxEqual(math3d.V3(0, 4, 7), 1e-9) {
		t.Errorf("camera did not follow: %v", w.Camera.World().Position)
	}

	w.Camera.Rotate(math3d.Up(), 0.5)
	w.Camera.ResetRotation()
	if !w.Camera.World().Forward.ApproxEqual(math3d.Forward(), 1e-9) {
		t.Errorf("reset forward = %v", w.Camera.World().Forward)
	}

	w.UnparentCamera()
	if w.Camera.Parent() != None {
		t.Error("camera still parented")
	}
	if !w.Camera.Local().Position.ApproxEqual(math3d.V3(0, 4, 7), 1e-9) {
		t.Errorf("unparented camera local = %v", w.Camera.Local().Position)
	}
	if err := w.ParentCameraNamed("nobody", math3d.Zero3()); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRandomRotationsStayOrthonormal(t *testing.T) {
	w := NewWorld()
	parent := mustCube(t, w, "parent", math3d.Zero3())
	child := mustCube(t, w, "child", math3d.V3(0, 0, 1))
	if err := child.SetParent(parent); err != nil {
		t.Fatal(err)
	}
	for i := range 1000 {
		a := float64(i)
		parent.Rotate(math3d.V3(math.Sin(a), math.Cos(a*1.3), math.Sin(a*0.7)), 0.37)
		child.Rotate(math3d.V3(math.Cos(a), 1, math.Sin(a*2)), 0.21)
	}
	for name, tr := range map[string]transform.Transform{"parent": parent.World(), "child local": child.Local()} {
		if math.Abs(tr.Forward.Len()-1) > 1e-6 || math.Abs(tr.Up.Len()-1) > 1e-6 {
			t.Errorf("%s basis not unit: |f|=%v |u|=%v", name, tr.Forward.Len(), tr.Up.Len())
		}
		if d := tr.Forward.Dot(tr.Up); math.Abs(d) > 1e-6 {
			t.Errorf("%s forward·up = %v", name, d)
		}
	}
}
