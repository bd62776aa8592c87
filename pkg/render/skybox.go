package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/cubist/pkg/math3d"
)

// Skybox is a vertical panorama three frames tall. The visible strip
// slides with the camera pitch.
type Skybox struct {
	Panorama *Texture
	height   int // frame height
}

// NewSkybox wraps a W×3H panorama for frames of height h.
func NewSkybox(panorama *Texture, h int) *Skybox {
	return &Skybox{Panorama: panorama, height: h}
}

// SkyPalette names the gradient stops of a procedural sky.
type SkyPalette struct {
	Zenith  string
	Horizon string
	Ground  string
	Nadir   string
}

// DefaultSkyPalette is a daytime sky over dark ground.
var DefaultSkyPalette = SkyPalette{
	Zenith:  "#0b3d91",
	Horizon: "#9fd3f5",
	Ground:  "#6b5b45",
	Nadir:   "#2b241b",
}

// NewGradientSkybox paints a w×3h panorama: zenith at the top row,
// horizon in the middle, ground below. Gradients are blended in Lab.
func NewGradientSkybox(w, h int, pal SkyPalette) (*Skybox, error) {
	stops := make([]colorful.Color, 0, 4)
	for _, hex := range []string{pal.Zenith, pal.Horizon, pal.Ground, pal.Nadir} {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, err
		}
		stops = append(stops, c)
	}

	tex := NewTexture(w, 3*h)
	horizon := tex.Height / 2
	for y := range tex.Height {
		var c colorful.Color
		if y < horizon {
			c = stops[0].BlendLab(stops[1], float64(y)/float64(horizon))
		} else {
			t := float64(y-horizon) / float64(max(1, tex.Height-1-horizon))
			c = stops[2].BlendLab(stops[3], t)
		}
		r, g, b := c.Clamped().RGB255()
		px := RGB(r, g, b)
		row := tex.Pixels[y*w : (y+1)*w]
		for x := range row {
			row[x] = px
		}
	}
	return NewSkybox(tex, h), nil
}

// StartRow returns the first panorama row shown for a camera forward
// vector, clamped so a full frame fits.
func (s *Skybox) StartRow(forward math3d.Vec3) int {
	y := int(math3d.V3(0, -1, 0).Dot(forward)*float64(s.height)) + s.height
	return max(0, min(y, s.Panorama.Height-s.height))
}

// Draw copies the visible strip into fb.
func (s *Skybox) Draw(fb *Framebuffer, forward math3d.Vec3) {
	fb.CopyRows(s.Panorama, s.StartRow(forward))
}

// Tinted returns a skybox whose panorama is multiplied by c.
func (s *Skybox) Tinted(c Color) *Skybox {
	return &Skybox{Panorama: s.Panorama.Tinted(c), height: s.height}
}
