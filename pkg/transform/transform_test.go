package transform

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/cubist/pkg/math3d"
)

const tolerance = 1e-6

func assertOrthonormal(t *testing.T, tr Transform) {
	t.Helper()
	if math.Abs(tr.Forward.Len()-1) > tolerance {
		t.Fatalf("|forward| = %v, want 1", tr.Forward.Len())
	}
	if math.Abs(tr.Up.Len()-1) > tolerance {
		t.Fatalf("|up| = %v, want 1", tr.Up.Len())
	}
	if d := tr.Forward.Dot(tr.Up); math.Abs(d) > tolerance {
		t.Fatalf("forward·up = %v, want 0", d)
	}
}

func assertSame(t *testing.T, got, want Transform) {
	t.Helper()
	if !got.Position.ApproxEqual(want.Position, tolerance) {
		t.Errorf("Position = %v, want %v", got.Position, want.Position)
	}
	if !got.Forward.ApproxEqual(want.Forward, tolerance) {
		t.Errorf("Forward = %v, want %v", got.Forward, want.Forward)
	}
	if !got.Up.ApproxEqual(want.Up, tolerance) {
		t.Errorf("Up = %v, want %v", got.Up, want.Up)
	}
	if !got.Scale.ApproxEqual(want.Scale, tolerance) {
		t.Errorf("Scale = %v, want %v", got.Scale, want.Scale)
	}
}

func randomUnit(r *rand.Rand) math3d.Vec3 {
	for {
		v := math3d.V3(r.Float64()*2-1, r.Float64()*2-1, r.Float64()*2-1)
		if v.LenSq() > 0.01 {
			return v.Normalize()
		}
	}
}

func TestRightIsPlusXForIdentity(t *testing.T) {
	got := Identity().Right()
	if !got.ApproxEqual(math3d.V3(1, 0, 0), tolerance) {
		t.Errorf("Right() = %v, want (1,0,0)", got)
	}
}

func TestRotateKeepsOrthonormal(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	tr := Identity()
	for range 1000 {
		tr = tr.Rotate(randomUnit(r), (r.Float64()*2-1)*math.Pi)
		assertOrthonormal(t, tr)
	}
}

func TestComposeIdentityLocal(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 9))
	for range 50 {
		parent := At(math3d.V3(r.Float64()*10, r.Float64()*10, r.Float64()*10)).
			Rotate(randomUnit(r), r.Float64()*math.Pi)
		parent.Scale = math3d.V3(1+r.Float64(), 1+r.Float64(), 1+r.Float64())

		assertSame(t, Compose(Identity(), parent), parent)
	}
}

func TestComposeOffsetAlongParentAxes(t *testing.T) {
	// Parent yawed 90° so its forward is +X and its right is -Z.
	parent := At(math3d.V3(1, 2, 3)).SetForward(math3d.V3(1, 0, 0))
	local := At(math3d.V3(1, 0, 2))

	got := Compose(local, parent)
	want := math3d.V3(1, 2, 3).
		Add(parent.Right().Scale(1)).
		Add(parent.Forward.Scale(2))
	if !got.Position.ApproxEqual(want, tolerance) {
		t.Errorf("Position = %v, want %v", got.Position, want)
	}
	if !got.Position.ApproxEqual(math3d.V3(3, 2, 2), tolerance) {
		t.Errorf("Position = %v, want (3,2,2)", got.Position)
	}
}

func TestComposeRotationOntoIdentityParent(t *testing.T) {
	local := Identity().Rotate(math3d.V3(1, 1, 0), 0.7)
	got := Compose(local, Identity())
	if !got.Forward.ApproxEqual(local.Forward, tolerance) {
		t.Errorf("Forward = %v, want %v", got.Forward, local.Forward)
	}
	if !got.Up.ApproxEqual(local.Up, tolerance) {
		t.Errorf("Up = %v, want %v", got.Up, local.Up)
	}
}

func TestComposeScale(t *testing.T) {
	local := Identity()
	local.Scale = math3d.V3(2, 3, 4)
	parent := Identity()
	parent.Scale = math3d.V3(0.5, 2, 1)

	got := Compose(local, parent).Scale
	if !got.ApproxEqual(math3d.V3(1, 6, 4), tolerance) {
		t.Errorf("Scale = %v, want (1,6,4)", got)
	}
}

func TestSetForwardGuards(t *testing.T) {
	tests := []struct {
		name    string
		dir     math3d.Vec3
		changes bool
	}{
		{"tiny turn", math3d.V3(0.0001, 0, 1), false},
		{"half turn", math3d.V3(0, 0, -1), false},
		{"quarter turn", math3d.V3(1, 0, 0), true},
		{"down", math3d.V3(0, -1, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Identity().SetForward(tt.dir)
			changed := !got.Forward.ApproxEqual(math3d.Forward(), 1e-12)
			if changed != tt.changes {
				t.Fatalf("changed = %v, want %v", changed, tt.changes)
			}
			if tt.changes && !got.Forward.ApproxEqual(tt.dir.Normalize(), tolerance) {
				t.Errorf("Forward = %v, want %v", got.Forward, tt.dir.Normalize())
			}
			assertOrthonormal(t, got)
		})
	}
}

func TestSetUpGuards(t *testing.T) {
	got := Identity().SetUp(math3d.V3(0.001, 1, 0))
	if got.Up != math3d.Up() {
		t.Errorf("Up = %v, want unchanged", got.Up)
	}

	got = Identity().SetUp(math3d.V3(1, 0, 0))
	if !got.Up.ApproxEqual(math3d.V3(1, 0, 0), tolerance) {
		t.Errorf("Up = %v, want (1,0,0)", got.Up)
	}
	assertOrthonormal(t, got)

	got = Identity().SetUp(math3d.V3(0, -1, 0))
	if !got.Up.ApproxEqual(math3d.V3(0, -1, 0), tolerance) {
		t.Errorf("Up = %v, want (0,-1,0)", got.Up)
	}
	if !got.Forward.ApproxEqual(math3d.Forward(), tolerance) {
		t.Errorf("Forward = %v, want unchanged after roll", got.Forward)
	}
}

func TestApplyUnapply(t *testing.T) {
	tr := At(math3d.V3(4, -2, 7)).Rotate(math3d.V3(0, 1, 0), math.Pi/2)
	tr.Scale = math3d.V3(2, 2, 2)

	got := tr.Apply(math3d.V3(0, 0, 1))
	// +Z scaled to 2, yawed onto +X, then translated.
	want := math3d.V3(6, -2, 7)
	if !got.ApproxEqual(want, tolerance) {
		t.Errorf("Apply = %v, want %v", got, want)
	}

	back := tr.Unapply(got)
	if !back.ApproxEqual(math3d.V3(0, 0, 2), tolerance) {
		t.Errorf("Unapply = %v, want (0,0,2)", back)
	}
}

func BenchmarkCompose(b *testing.B) {
	parent := At(math3d.V3(1, 2, 3)).Rotate(math3d.V3(0, 1, 0), 0.4)
	local := At(math3d.V3(0, 1, 0)).Rotate(math3d.V3(1, 0, 0), 0.3)

	for b.Loop() {
		_ = Compose(local, parent)
	}
}
