package main

import (
	"errors"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/taigrr/cubist/internal/config"
	"github.com/taigrr/cubist/pkg/engine"
	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/render"
	"github.com/taigrr/cubist/pkg/scene"
)

// writeConfig saves the default config so tests never pick up a user file.
func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	cfg := config.Default()
	cfg.Logging.Level = "error"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func TestRenderCommand(t *testing.T) {
	cfgPath := writeConfig(t)
	dir := t.TempDir()

	tests := []struct {
		name  string
		scene string
	}{
		{"cube", "cube"},
		{"platformer", "platformer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, tt.name+".png")
			err := execute(t, "render", tt.scene, "--config", cfgPath,
				"-o", out, "--frames", "3", "--width", "64", "--height", "48")
			if err != nil {
				t.Fatalf("render: %v", err)
			}

			f, err := os.Open(out)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, err := png.Decode(f)
			if err != nil {
				t.Fatal(err)
			}
			if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
				t.Errorf("image %dx%d, want 64x48", b.Dx(), b.Dy())
			}
		})
	}
}

func TestRenderEveryFrame(t *testing.T) {
	cfgPath := writeConfig(t)
	dir := t.TempDir()
	pattern := filepath.Join(dir, "frame%02d.png")

	if err := execute(t, "render", "cube", "--config", cfgPath, "-o", pattern,
		"--frames", "3", "--width", "32", "--height", "24"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"frame00.png", "frame01.png", "frame02.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	cfgPath := writeConfig(t)
	out := filepath.Join(t.TempDir(), "x.png")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown scene", []string{"render", "nope", "--config", cfgPath, "-o", out}},
		{"zero frames", []string{"render", "cube", "--config", cfgPath, "-o", out, "--frames", "0"}},
		{"bad mode", []string{"render", "cube", "--config", cfgPath, "-o", out, "--mode", "sepia"}},
		{"bad width", []string{"render", "cube", "--config", cfgPath, "-o", out, "--width=-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if _, err := os.Stat(out); err == nil {
		t.Error("failed renders wrote an image")
	}
}

func createPlatformer(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := config.Default()
	e, err := newEngine(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := buildScene("platformer", e, cfg); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestPlatformerCoinPickup(t *testing.T) {
	e := createPlatformer(t)
	player, err := e.World.Lookup("cube")
	if err != nil {
		t.Fatal(err)
	}
	coin, err := e.World.Lookup("coin")
	if err != nil {
		t.Fatal(err)
	}

	e.Update(1.0 / 60)
	if _, err := e.World.Lookup("coin"); err != nil {
		t.Fatalf("coin gone before the player reached it: %v", err)
	}

	player.SetPosition(coin.Midpoint())
	e.Update(1.0 / 60)
	if _, err := e.World.Lookup("coin"); !errors.Is(err, scene.ErrNotFound) {
		t.Errorf("coin still present: %v", err)
	}
	if _, err := e.World.Lookup("sparkle"); err != nil {
		t.Errorf("no sparkle after pickup: %v", err)
	}
	if c := e.Compositor.Background().Color; c != render.ColorWhite {
		t.Errorf("background = %v, want white", c)
	}
}

func TestPlatformerRespawn(t *testing.T) {
	e := createPlatformer(t)
	player, err := e.World.Lookup("cube")
	if err != nil {
		t.Fatal(err)
	}
	player.SetPosition(math3d.V3(30, fallLimit-10, 0))
	player.SetVelocity(math3d.V3(0, -20, 0))
	e.Update(1.0 / 60)

	if y := player.World().Position.Y; y != playerStartY {
		t.Errorf("player at y=%v, want respawn at %v", y, playerStartY)
	}
	if !player.Velocity.IsZero() {
		t.Errorf("velocity = %v after respawn", player.Velocity)
	}
}

func TestUnknownScene(t *testing.T) {
	cfg := config.Default()
	e, err := newEngine(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := buildScene("nope", e, cfg); err == nil {
		t.Error("expected an error")
	}
}

const triangleOBJ = `v 0 0 0
v 10 0 0
v 0 4 0
f 1 2 3
`

func TestViewer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	if err := os.WriteFile(path, []byte(triangleOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	e, err := newEngine(cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	v, err := setupViewer(e, cfg, path, "")
	if err != nil {
		t.Fatal(err)
	}
	if v.title != "tri.obj" {
		t.Errorf("title = %q", v.title)
	}

	model, err := e.World.Get(v.model)
	if err != nil {
		t.Fatal(err)
	}
	size := model.Mesh.Size()
	if math.Abs(size.X-modelSize) > 1e-9 || math.Abs(size.Y-0.8) > 1e-9 {
		t.Errorf("normalised size = %v, want (2, 0.8, 0)", size)
	}
	if c := model.Mesh.Center(); !c.ApproxEqual(math3d.Zero3(), 1e-9) {
		t.Errorf("normalised centre = %v", c)
	}

	v.zoom(1)
	v.spin.ApplyImpulse(0, 0.5, 0)
	e.Update(1.0 / 60)
	w := model.World()
	if math.Abs(w.Position.Z-(defaultDistance-0.5)) > 1e-9 {
		t.Errorf("model at z=%v after zooming in", w.Position.Z)
	}
	if math.Abs(w.Forward.X) < 0.1 {
		t.Errorf("forward = %v, want the model turned", w.Forward)
	}

	v.toggleTexture()
	if model.Texture != v.grid {
		t.Error("texture toggle did not show the grid")
	}
	v.toggleTexture()
	if model.Texture != v.texture {
		t.Error("texture toggle did not restore the model texture")
	}
}

func TestViewerUnsupportedFormat(t *testing.T) {
	cfg := config.Default()
	e, err := newEngine(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := setupViewer(e, cfg, "model.fbx", ""); err == nil {
		t.Error("expected an error for .fbx")
	}
}

func TestRotationAxisDecays(t *testing.T) {
	a := NewRotationAxis(60)
	a.Velocity = 1
	for range 300 {
		a.Update()
	}
	if math.Abs(a.Velocity) > 1e-3 {
		t.Errorf("velocity = %v after 5s, want near zero", a.Velocity)
	}
	if a.Position < 1 {
		t.Errorf("position = %v, want the spin carried forward", a.Position)
	}
}

func TestZoomClamps(t *testing.T) {
	v := &viewer{distance: defaultDistance}
	for range 100 {
		v.zoom(1)
	}
	if v.distance != minDistance {
		t.Errorf("distance = %v, want %v", v.distance, minDistance)
	}
	for range 100 {
		v.zoom(-1)
	}
	if v.distance != maxDistance {
		t.Errorf("distance = %v, want %v", v.distance, maxDistance)
	}
}
