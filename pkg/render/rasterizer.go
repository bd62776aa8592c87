package render

import (
	"fmt"
	"math"

	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/models"
)

// Mode selects how covered pixels are coloured.
type Mode int

const (
	ModeTexture   Mode = iota // sampled texture times tint, or flat tint
	ModeUV                    // (u*255, v*255, 0)
	ModeWireframe             // triangle edges only, no depth test
	ModeStates                // colour by clip classification
)

// ParseMode converts a config string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "texture":
		return ModeTexture, nil
	case "uv":
		return ModeUV, nil
	case "wireframe":
		return ModeWireframe, nil
	case "states":
		return ModeStates, nil
	}
	return 0, fmt.Errorf("unknown render mode %q", s)
}

func (m Mode) String() string {
	switch m {
	case ModeUV:
		return "uv"
	case ModeWireframe:
		return "wireframe"
	case ModeStates:
		return "states"
	}
	return "texture"
}

// Blend controls how texels are written.
type Blend int

const (
	BlendOpaque Blend = iota
	// BlendAlphaClip treats pure black texels as holes: neither colour nor
	// depth is written.
	BlendAlphaClip
)

// Material is what an entity contributes to the rasterizer.
type Material struct {
	Texture *Texture // nil draws Tint flat
	Tint    Color
	Blend   Blend
}

// Options tune the rasterizer. They may be changed between frames.
type Options struct {
	Mode            Mode
	BackfaceCulling bool
	CullThreshold   float64
	Sampling        Sampling
	WireframeColor  Color
	WireframeWidth  float64 // barycentric distance from an edge
}

// DefaultOptions returns the options used when no config is given.
func DefaultOptions() Options {
	return Options{
		Mode:            ModeTexture,
		BackfaceCulling: true,
		CullThreshold:   0.5,
		Sampling:        SamplingCorrected,
		WireframeColor:  ColorWhite,
		WireframeWidth:  0.03,
	}
}

// Stats counts the work done since the last ResetStats.
type Stats struct {
	Triangles int // submitted
	Culled    int // rejected by backface culling or fully behind
	Clipped   int // trimmed at the near plane
	Pixels    int // written
}

// State colours for ModeStates.
var (
	stateUnclipped = ColorGreen
	stateTwoBehind = ColorBlue
	stateOneBehind = ColorRed
)

// Rasterizer fills triangles into a framebuffer with a reverse-Z depth
// buffer: it stores 1/z, is cleared to 0 and the greater value wins.
type Rasterizer struct {
	fb         *Framebuffer
	depth      []float64
	projection Projection
	Options    Options
	Stats      Stats
}

// NewRasterizer creates a rasterizer drawing into fb.
func NewRasterizer(fb *Framebuffer, proj Projection, opts Options) *Rasterizer {
	r := &Rasterizer{Options: opts}
	r.Resize(fb, proj)
	return r
}

// Resize points the rasterizer at a new framebuffer and projection.
func (r *Rasterizer) Resize(fb *Framebuffer, proj Projection) {
	r.fb = fb
	r.projection = proj
	if fb == nil {
		r.depth = nil
		return
	}
	r.depth = make([]float64, fb.Width*fb.Height)
}

// Framebuffer returns the target framebuffer.
func (r *Rasterizer) Framebuffer() *Framebuffer { return r.fb }

// Projection returns the projection used for re-projecting clipped vertices.
func (r *Rasterizer) Projection() Projection { return r.projection }

// ClearDepth resets the depth buffer to 0, the farthest value.
func (r *Rasterizer) ClearDepth() {
	clear(r.depth)
}

// Depth returns the stored 1/z at (x, y), or 0 outside the buffer.
func (r *Rasterizer) Depth(x, y int) float64 {
	if r.fb == nil || x < 0 || x >= r.fb.Width || y < 0 || y >= r.fb.Height {
		return 0
	}
	return r.depth[y*r.fb.Width+x]
}

// ResetStats zeroes the counters (call once per frame).
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// DrawMesh rasterizes every triangle of mesh from its projected vertices.
// verts must come from Project on the same mesh.
func (r *Rasterizer) DrawMesh(mesh *models.Mesh, verts []Vertex, mat Material) {
	textured := mesh.Textured()
	for i, t := range mesh.Triangles {
		var tri [3]ClipVertex
		for k, idx := range t {
			tri[k] = ClipVertex{Camera: verts[idx].Camera, Screen: verts[idx].Screen}
			if textured {
				tri[k].UV = mesh.UVs[mesh.UVMap[i][k]]
			}
		}
		r.DrawTriangle(tri, mat)
	}
}

// DrawTriangle culls, clips and fills one camera-space triangle.
func (r *Rasterizer) DrawTriangle(tri [3]ClipVertex, mat Material) {
	if r.fb == nil {
		return
	}
	r.Stats.Triangles++

	if r.Options.BackfaceCulling && r.facingAway(tri) {
		r.Stats.Culled++
		return
	}

	out, n, kind := ClipTriangle(tri, r.projection)
	switch kind {
	case Culled:
		r.Stats.Culled++
		return
	case TwoBehind, OneBehind:
		r.Stats.Clipped++
	}
	for i := range n {
		r.fill(out[i], kind, mat)
	}
}

// facingAway reports whether the camera-space face normal points along +Z
// by more than the cull threshold.
func (r *Rasterizer) facingAway(tri [3]ClipVertex) bool {
	a := tri[1].Camera.Sub(tri[0].Camera)
	b := tri[2].Camera.Sub(tri[0].Camera)
	n := a.Cross(b).Normalize()
	return n.Dot(math3d.Forward()) > r.Options.CullThreshold
}

// edge is the signed area of (a, b, p) scaled by two.
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (px-ax)*(by-ay) - (py-ay)*(bx-ax)
}

func (r *Rasterizer) fill(tri [3]ClipVertex, kind ClipKind, mat Material) {
	x0, y0 := tri[0].Screen.X, tri[0].Screen.Y
	x1, y1 := tri[1].Screen.X, tri[1].Screen.Y
	x2, y2 := tri[2].Screen.X, tri[2].Screen.Y

	minX := max(0, int(math.Floor(min(x0, x1, x2))))
	maxX := min(r.fb.Width-1, int(math.Ceil(max(x0, x1, x2))))
	minY := max(0, int(math.Floor(min(y0, y1, y2))))
	maxY := min(r.fb.Height-1, int(math.Ceil(max(y0, y1, y2))))
	if minX > maxX || minY > maxY {
		return
	}

	// Perspective-correct attributes are interpolated as attr/z.
	var invZ [3]float64
	var uOverZ, vOverZ [3]float64
	for i, v := range tri {
		invZ[i] = 1 / v.Camera.Z
		uOverZ[i] = v.UV.X * invZ[i]
		vOverZ[i] = v.UV.Y * invZ[i]
	}

	opts := r.Options
	width := r.fb.Width
	pixels := r.fb.Pixels
	depth := r.depth

	for y := minY; y <= maxY; y++ {
		py := float64(y)
		row := y * width
		for x := minX; x <= maxX; x++ {
			px := float64(x)
			ab := edge(x0, y0, x1, y1, px, py)
			bc := edge(x1, y1, x2, y2, px, py)
			ca := edge(x2, y2, x0, y0, px, py)
			if !(ab >= 0 && bc >= 0 && ca >= 0) && !(ab <= 0 && bc <= 0 && ca <= 0) {
				continue
			}

			w0, w1, w2 := 1.0, 0.0, 0.0
			if sum := ab + bc + ca; math.Abs(sum) >= 1e-12 {
				w0, w1, w2 = bc/sum, ca/sum, ab/sum
			}

			idx := row + x
			if opts.Mode == ModeWireframe {
				if min(w0, w1, w2) < opts.WireframeWidth {
					pixels[idx] = opts.WireframeColor
					r.Stats.Pixels++
				}
				continue
			}

			z := w0*invZ[0] + w1*invZ[1] + w2*invZ[2]
			if z <= depth[idx] {
				continue
			}

			corr := 1/z + 0.0001
			u := (w0*uOverZ[0] + w1*uOverZ[1] + w2*uOverZ[2]) * corr
			v := (w0*vOverZ[0] + w1*vOverZ[1] + w2*vOverZ[2]) * corr
			if u < 0 || u > 1 || v < 0 || v > 1 {
				continue
			}

			var c Color
			switch opts.Mode {
			case ModeUV:
				c = RGB(uint8(u*255), uint8(v*255), 0)
			case ModeStates:
				c = stateColor(kind)
			default:
				if mat.Texture == nil {
					c = mat.Tint
					c.A = 255
					break
				}
				texel := mat.Texture.Texel(u, v, opts.Sampling)
				if mat.Blend == BlendAlphaClip && IsBlack(texel) {
					continue
				}
				c = ModulateColor(texel, mat.Tint)
			}

			depth[idx] = z
			pixels[idx] = c
			r.Stats.Pixels++
		}
	}
}

func stateColor(kind ClipKind) Color {
	switch kind {
	case TwoBehind:
		return stateTwoBehind
	case OneBehind:
		return stateOneBehind
	}
	return stateUnclipped
}
