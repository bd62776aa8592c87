package render

import (
	"math"
	"testing"

	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/models"
	"github.com/taigrr/cubist/pkg/transform"
)

var testBackground = RGB(0, 100, 200)

// createTestRasterizer creates a rasterizer for a camera at the origin
// looking down +Z, with the framebuffer filled with testBackground.
func createTestRasterizer(width, height int) (*Rasterizer, View) {
	fb := NewFramebuffer(width, height)
	fb.Clear(testBackground)
	proj := NewProjection(width, height, 70)
	r := NewRasterizer(fb, proj, DefaultOptions())
	r.ClearDepth()
	return r, NewView(transform.Identity(), proj)
}

func drawQuad(r *Rasterizer, view View, world transform.Transform, mat Material) {
	mesh := models.NewQuad()
	verts := Project(mesh, world, view, nil)
	r.DrawMesh(mesh, verts, mat)
}

func colorEq(a, b Color) bool {
	return a.R == b.R && a.G == b.G && a.B == b.B
}

func TestQuadBlob(t *testing.T) {
	r, view := createTestRasterizer(200, 150)
	fb := r.Framebuffer()
	drawQuad(r, view, transform.At(math3d.V3(0, 0, 10)), Material{Tint: ColorRed})

	if got := fb.GetPixel(100, 75); !colorEq(got, ColorRed) {
		t.Errorf("centre pixel = %v, want quad colour", got)
	}
	for _, p := range [][2]int{{0, 0}, {199, 0}, {0, 149}, {199, 149}, {80, 75}, {100, 60}} {
		if got := fb.GetPixel(p[0], p[1]); !colorEq(got, testBackground) {
			t.Errorf("pixel %v = %v, want background", p, got)
		}
	}

	// The blob is centred: its extents mirror around the centre within a pixel.
	minX, maxX, minY, maxY := fb.Width, -1, fb.Height, -1
	for y := range fb.Height {
		for x := range fb.Width {
			if colorEq(fb.GetPixel(x, y), ColorRed) {
				minX, maxX = min(minX, x), max(maxX, x)
				minY, maxY = min(minY, y), max(maxY, y)
			}
		}
	}
	if maxX < 0 {
		t.Fatal("quad drew no pixels")
	}
	if d := (minX + maxX) - 2*100; d < -2 || d > 2 {
		t.Errorf("blob x range [%d, %d] not centred", minX, maxX)
	}
	if d := (minY + maxY) - 2*75; d < -2 || d > 2 {
		t.Errorf("blob y range [%d, %d] not centred", minY, maxY)
	}
}

func TestReverseDepth(t *testing.T) {
	r, view := createTestRasterizer(200, 150)
	if d := r.Depth(100, 75); d != 0 {
		t.Fatalf("cleared depth = %v, want 0", d)
	}

	drawQuad(r, view, transform.At(math3d.V3(0, 0, 5)), Material{Tint: ColorRed})
	if d := r.Depth(100, 75); math.Abs(d-0.2) > 1e-3 {
		t.Errorf("depth at centre = %v, want 1/z = 0.2", d)
	}

	r.ClearDepth()
	if d := r.Depth(100, 75); d != 0 {
		t.Errorf("depth after clear = %v, want 0", d)
	}
	if d := r.Depth(-1, 0); d != 0 {
		t.Errorf("out of range depth = %v, want 0", d)
	}
}

func TestDepthOrderIndependent(t *testing.T) {
	near := transform.At(math3d.V3(0, 0, 5))
	far := transform.At(math3d.V3(0, 0, 10))
	far.Scale = math3d.V3(3, 3, 1)

	orders := []struct {
		name  string
		first transform.Transform
		c1    Color
		next  transform.Transform
		c2    Color
	}{
		{"near first", near, ColorRed, far, ColorBlue},
		{"far first", far, ColorBlue, near, ColorRed},
	}

	var frames [][]Color
	for _, o := range orders {
		t.Run(o.name, func(t *testing.T) {
			r, view := createTestRasterizer(200, 150)
			drawQuad(r, view, o.first, Material{Tint: o.c1})
			drawQuad(r, view, o.next, Material{Tint: o.c2})
			if got := r.Framebuffer().GetPixel(100, 75); !colorEq(got, ColorRed) {
				t.Errorf("centre = %v, want near quad", got)
			}
			frames = append(frames, append([]Color(nil), r.Framebuffer().Pixels...))
		})
	}
	if len(frames) == 2 {
		for i := range frames[0] {
			if frames[0][i] != frames[1][i] {
				t.Fatalf("frames differ at pixel %d", i)
			}
		}
	}
}

func TestBackfaceCulling(t *testing.T) {
	away := transform.At(math3d.V3(0, 0, 10)).Rotate(math3d.Up(), math.Pi)

	t.Run("culled", func(t *testing.T) {
		r, view := createTestRasterizer(200, 150)
		drawQuad(r, view, away, Material{Tint: ColorRed})
		if got := r.Framebuffer().GetPixel(100, 75); !colorEq(got, testBackground) {
			t.Errorf("back face drew %v", got)
		}
		if r.Stats.Culled != 2 {
			t.Errorf("culled = %d, want 2", r.Stats.Culled)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		r, view := createTestRasterizer(200, 150)
		r.Options.BackfaceCulling = false
		drawQuad(r, view, away, Material{Tint: ColorRed})
		if got := r.Framebuffer().GetPixel(100, 75); !colorEq(got, ColorRed) {
			t.Errorf("back face with culling off = %v, want quad colour", got)
		}
	})
}

func TestAlphaClip(t *testing.T) {
	black := NewSolidTexture(ColorBlack)

	t.Run("clip", func(t *testing.T) {
		r, view := createTestRasterizer(200, 150)
		drawQuad(r, view, transform.At(math3d.V3(0, 0, 10)),
			Material{Texture: black, Tint: ColorWhite, Blend: BlendAlphaClip})
		if got := r.Framebuffer().GetPixel(100, 75); !colorEq(got, testBackground) {
			t.Errorf("clipped texel drew %v", got)
		}
		if d := r.Depth(100, 75); d != 0 {
			t.Errorf("clipped texel wrote depth %v", d)
		}
	})

	t.Run("opaque", func(t *testing.T) {
		r, view := createTestRasterizer(200, 150)
		drawQuad(r, view, transform.At(math3d.V3(0, 0, 10)),
			Material{Texture: black, Tint: ColorWhite})
		if got := r.Framebuffer().GetPixel(100, 75); !colorEq(got, ColorBlack) {
			t.Errorf("opaque black texel = %v", got)
		}
	})
}

func TestTextureTint(t *testing.T) {
	r, view := createTestRasterizer(200, 150)
	drawQuad(r, view, transform.At(math3d.V3(0, 0, 10)),
		Material{Texture: NewSolidTexture(RGB(200, 200, 200)), Tint: RGB(255, 0, 128)})
	got := r.Framebuffer().GetPixel(100, 75)
	want := RGB(200, 0, 100)
	if !colorEq(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDebugModes(t *testing.T) {
	world := transform.At(math3d.V3(0, 0, 10))

	t.Run("uv", func(t *testing.T) {
		r, view := createTestRasterizer(200, 150)
		r.Options.Mode = ModeUV
		drawQuad(r, view, world, Material{Tint: ColorRed})
		got := r.Framebuffer().GetPixel(100, 75)
		if got.R < 110 || got.R > 150 || got.G < 110 || got.G > 150 || got.B != 0 {
			t.Errorf("centre uv colour = %v, want about (128, 128, 0)", got)
		}
	})

	t.Run("states", func(t *testing.T) {
		r, view := createTestRasterizer(200, 150)
		r.Options.Mode = ModeStates
		drawQuad(r, view, world, Material{Tint: ColorRed})
		if got := r.Framebuffer().GetPixel(100, 75); !colorEq(got, stateUnclipped) {
			t.Errorf("unclipped state colour = %v", got)
		}
	})

	t.Run("wireframe", func(t *testing.T) {
		r, view := createTestRasterizer(200, 150)
		r.Options.Mode = ModeWireframe
		r.Options.WireframeColor = ColorWhite
		drawQuad(r, view, world, Material{Tint: ColorRed})
		fb := r.Framebuffer()
		if got := fb.GetPixel(94, 70); colorEq(got, ColorWhite) {
			t.Error("wireframe filled the interior")
		}
		var edges int
		for _, p := range fb.Pixels {
			if colorEq(p, ColorWhite) {
				edges++
			}
		}
		if edges == 0 {
			t.Error("wireframe drew no edges")
		}
		if d := r.Depth(100, 75); d != 0 {
			t.Errorf("wireframe wrote depth %v", d)
		}
	})
}

func TestStatesClipColours(t *testing.T) {
	r, _ := createTestRasterizer(200, 150)
	r.Options.Mode = ModeStates
	r.Options.BackfaceCulling = false
	proj := r.Projection()

	// A large floor triangle under the camera with one corner behind it.
	tri := clipTri(proj, math3d.V3(-50, -1, 50), math3d.V3(50, -1, 50), math3d.V3(0, -1, -5))
	for i := range tri {
		tri[i].UV = math3d.V2(0.5, 0.5)
	}
	r.DrawTriangle(tri, Material{})
	if r.Stats.Clipped != 1 {
		t.Fatalf("clipped = %d, want 1", r.Stats.Clipped)
	}
	var red int
	for _, p := range r.Framebuffer().Pixels {
		if colorEq(p, stateOneBehind) {
			red++
		}
	}
	if red == 0 {
		t.Error("one-behind clip drew no pixels in its state colour")
	}
}

func TestTexelSampling(t *testing.T) {
	tex := NewTexture(4, 2)
	cols := []Color{ColorRed, ColorGreen, ColorBlue, ColorWhite}
	for x, c := range cols {
		tex.SetPixel(x, 0, c)
		tex.SetPixel(x, 1, c)
	}

	tests := []struct {
		name string
		u    float64
		mode Sampling
		want Color
	}{
		{"corrected left", 0, SamplingCorrected, ColorRed},
		{"legacy left", 0, SamplingLegacy, ColorGreen},
		{"corrected right", 1, SamplingCorrected, ColorWhite},
		{"legacy right clamps", 1, SamplingLegacy, ColorWhite},
		{"corrected middle", 0.5, SamplingCorrected, ColorGreen},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tex.Texel(tc.u, 0, tc.mode); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseOptions(t *testing.T) {
	for _, m := range []Mode{ModeTexture, ModeUV, ModeWireframe, ModeStates} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("phong"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if s, err := ParseSampling("legacy"); err != nil || s != SamplingLegacy {
		t.Errorf("ParseSampling(legacy) = %v, %v", s, err)
	}
	if _, err := ParseSampling("bilinear"); err == nil {
		t.Error("expected error for unknown sampling")
	}
}

func TestDegenerateTriangle(t *testing.T) {
	r, _ := createTestRasterizer(200, 150)
	r.Options.BackfaceCulling = false
	tri := clipTri(r.Projection(), math3d.V3(0, 0, 5), math3d.V3(0, 0, 5), math3d.V3(0, 0, 5))
	r.DrawTriangle(tri, Material{Tint: ColorRed})
	for i, d := range r.depth {
		if math.IsNaN(d) {
			t.Fatalf("NaN depth at %d", i)
		}
	}
}
