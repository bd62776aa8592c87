package render

import (
	"math"

	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/transform"
)

// maxHorizontalFOV caps the derived horizontal field of view below a half
// turn, where tan(h/2) would change sign on very wide render targets.
const maxHorizontalFOV = 170 * math.Pi / 180

// Projection holds the constants of the perspective divide for one render
// resolution and field of view.
type Projection struct {
	Width, Height int
	VerticalFOV   float64 // radians
	HorizontalFOV float64 // radians, derived from the aspect ratio
	HAdj, VAdj    float64
}

// NewProjection derives the projection for a W×H target and a vertical
// field of view in degrees. The horizontal field of view scales with the
// aspect ratio.
func NewProjection(width, height int, verticalFOVDeg float64) Projection {
	v := verticalFOVDeg * math.Pi / 180
	h := min(v*float64(width)/float64(height), maxHorizontalFOV)
	return Projection{
		Width:         width,
		Height:        height,
		VerticalFOV:   v,
		HorizontalFOV: h,
		HAdj:          0.5 * float64(width) / math.Tan(h/2),
		VAdj:          0.5 * float64(height) / math.Tan(v/2),
	}
}

// Project maps a camera-relative point to screen space. X and Y are
// truncated to whole pixels; Z keeps the signed camera-relative depth.
// Camera +X lands left of centre and +Y above it.
func (p Projection) Project(c math3d.Vec3) math3d.Vec3 {
	z := math.Max(math.Abs(c.Z), 1e-9)
	sx := -p.HAdj*c.X/z + 0.5*float64(p.Width)
	sy := -p.VAdj*c.Y/z + 0.5*float64(p.Height)
	return math3d.Vec3{X: truncate(sx), Y: truncate(sy), Z: c.Z}
}

// truncate drops the fraction like an int32 cast, saturating far outside
// any realistic screen.
func truncate(v float64) float64 {
	return math.Trunc(math3d.Clamp(v, math.MinInt32, math.MaxInt32))
}

// View is the camera for one frame: its world transform, the cached
// inverse orientation and the projection.
type View struct {
	Transform  transform.Transform
	Projection Projection
	orient     math3d.Orientation
}

// NewView prepares a view for the camera's world transform.
func NewView(cam transform.Transform, proj Projection) View {
	return View{
		Transform:  cam,
		Projection: proj,
		orient:     cam.Orientation(),
	}
}

// Relative returns p in camera-relative space: the camera at the origin
// looking down +Z with +Y up.
func (v View) Relative(p math3d.Vec3) math3d.Vec3 {
	return v.orient.Unapply(p.Sub(v.Transform.Position))
}

// WorldToScreen transforms a world point to screen space.
// visible is false when the point is not in front of the camera.
func (v View) WorldToScreen(p math3d.Vec3) (screen math3d.Vec3, visible bool) {
	c := v.Relative(p)
	return v.Projection.Project(c), c.Z > 0
}
