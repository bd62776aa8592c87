package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
)

// Sampling selects the UV to texel mapping.
type Sampling int

const (
	// SamplingCorrected maps u to column floor(u*(W-1)).
	SamplingCorrected Sampling = iota
	// SamplingLegacy shifts the column one texel right, clamped to the
	// last column, matching older renders pixel for pixel.
	SamplingLegacy
)

// ParseSampling converts a config string into a Sampling.
func ParseSampling(s string) (Sampling, error) {
	switch s {
	case "", "corrected":
		return SamplingCorrected, nil
	case "legacy":
		return SamplingLegacy, nil
	}
	return 0, fmt.Errorf("unknown sampling %q", s)
}

func (s Sampling) String() string {
	if s == SamplingLegacy {
		return "legacy"
	}
	return "corrected"
}

// Texture holds a 2D image for texture mapping. Pixels are row-major with
// row 0 at the top; u selects the column and v the row.
type Texture struct {
	Width  int
	Height int
	Pixels []Color
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture loads a texture from an image file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())

	for y := range tex.Height {
		for x := range tex.Width {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			tex.Pixels[y*tex.Width+x] = Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			}
		}
	}
	return tex
}

// NewSolidTexture returns a 1×1 texture of a single colour.
func NewSolidTexture(c Color) *Texture {
	tex := NewTexture(1, 1)
	tex.Pixels[0] = c
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// NewGridTexture draws a light grid with dark lines every cell pixels, the
// default look of spawned primitives.
func NewGridTexture(size, cell int) *Texture {
	tex := NewTexture(size, size)
	for y := range size {
		for x := range size {
			c := RGB(200, 200, 200)
			if x%cell == 0 || y%cell == 0 || x == size-1 || y == size-1 {
				c = RGB(60, 60, 60)
			}
			tex.SetPixel(x, y, c)
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Texel returns the nearest texel for u, v in [0, 1].
func (t *Texture) Texel(u, v float64, mode Sampling) Color {
	x := int(u * float64(t.Width-1))
	y := int(v * float64(t.Height-1))
	if mode == SamplingLegacy {
		x = min(x+1, t.Width-1)
	}
	return t.GetPixel(x, y)
}

// Tinted returns a copy of t with every texel multiplied by c.
func (t *Texture) Tinted(c Color) *Texture {
	out := NewTexture(t.Width, t.Height)
	for i, p := range t.Pixels {
		out.Pixels[i] = ModulateColor(p, c)
	}
	return out
}

// IsBlack reports whether the colour channels are all zero. Alpha-clip
// materials treat such texels as holes.
func IsBlack(c Color) bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// ModulateColor modulates one color by another (texture * tint). The
// result is opaque.
func ModulateColor(a, b Color) Color {
	return Color{
		R: uint8((int(a.R) * int(b.R)) / 255),
		G: uint8((int(a.G) * int(b.G)) / 255),
		B: uint8((int(a.B) * int(b.B)) / 255),
		A: 255,
	}
}
