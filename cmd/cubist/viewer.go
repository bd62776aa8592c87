package main

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/cubist/internal/config"
	"github.com/taigrr/cubist/pkg/engine"
	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/models"
	"github.com/taigrr/cubist/pkg/render"
	"github.com/taigrr/cubist/pkg/scene"
	"github.com/taigrr/cubist/pkg/transform"
)

// Viewer tuning.
const (
	modelSize       = 2.0 // largest extent after normalising
	defaultDistance = 5.0
	minDistance     = 1.0
	maxDistance     = 20.0
	torqueStrength  = 3.0
	dragImpulse     = 0.03
)

// RotationAxis tracks position and velocity for one rotation axis. The
// velocity decays to zero through a critically damped spring.
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances one frame.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState is the model's spin.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	fps              int
}

func NewRotationState(fps int) *RotationState {
	return &RotationState{
		Pitch: NewRotationAxis(fps),
		Yaw:   NewRotationAxis(fps),
		Roll:  NewRotationAxis(fps),
		fps:   fps,
	}
}

func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}

// Orient returns t turned by the accumulated roll, yaw and pitch, in that
// order, starting from the identity orientation.
func (r *RotationState) Orient(t transform.Transform) transform.Transform {
	base := transform.Identity()
	base.Position, base.Scale = t.Position, t.Scale
	return base.
		Rotate(math3d.V3(0, 0, 1), r.Roll.Position).
		Rotate(math3d.V3(0, 1, 0), r.Yaw.Position).
		Rotate(math3d.V3(1, 0, 0), r.Pitch.Position)
}

// viewer spins a single loaded model in front of the camera.
type viewer struct {
	title    string
	e        *engine.Engine
	model    scene.Handle
	texture  *render.Texture
	grid     *render.Texture
	spin     *RotationState
	distance float64
}

// setupViewer loads the model at path, normalises it to modelSize and
// spawns it in front of the camera. texturePath overrides any embedded
// texture.
func setupViewer(e *engine.Engine, cfg *config.Config, path, texturePath string) (*viewer, error) {
	log := e.Logger()

	var (
		texture *render.Texture
		err     error
	)
	if texturePath != "" {
		texture, err = render.LoadTexture(texturePath)
		if err != nil {
			log.Warn("could not load texture", zap.String("path", texturePath), zap.Error(err))
		}
	}

	mesh, embedded, err := loadModel(path)
	if err != nil {
		return nil, err
	}
	if texture == nil && embedded != nil {
		texture = render.TextureFromImage(embedded)
		log.Info("using embedded texture",
			zap.Int("width", embedded.Bounds().Dx()),
			zap.Int("height", embedded.Bounds().Dy()),
		)
	}
	if texture == nil {
		texture = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
	}
	normalize(mesh)

	name := filepath.Base(path)
	log.Info("model loaded",
		zap.String("model", name),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
	)

	ent, err := e.World.SpawnAt(strings.ReplaceAll(name, "(", "["), mesh, texture, math3d.V3(0, 0, defaultDistance))
	if err != nil {
		return nil, err
	}
	// Imported winding is not always consistent.
	e.Compositor.Rasterizer().Options.BackfaceCulling = false
	e.SetPhysics(false)

	v := &viewer{
		title:    name,
		e:        e,
		model:    ent.Handle(),
		texture:  texture,
		grid:     render.NewGridTexture(64, 8),
		spin:     NewRotationState(cfg.Display.FPS),
		distance: defaultDistance,
	}
	e.AddSystem(v)
	return v, nil
}

func loadModel(path string) (*models.Mesh, image.Image, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
		mesh, img, err := models.LoadGLBWithTexture(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load model: %w", err)
		}
		return mesh, img, nil
	case ".obj":
		mesh, err := models.LoadOBJ(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load model: %w", err)
		}
		return mesh, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported format: %s (use .obj or .glb)", ext)
	}
}

// normalize centres mesh on the origin and scales its largest extent to
// modelSize.
func normalize(mesh *models.Mesh) {
	mesh.CalculateBounds()
	center := mesh.Center()
	size := mesh.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim <= 0 {
		return
	}
	scale := modelSize / maxDim
	mesh.Transform(math3d.Scale(math3d.V3(scale, scale, scale)).Mul(math3d.Translate(center.Scale(-1))))
}

// Update applies held-key torque and mouse drag to the spin, then writes
// the spin and zoom into the model's transform.
func (v *viewer) Update(e *engine.Engine, in engine.InputState, dt float64) {
	model, err := e.World.Get(v.model)
	if err != nil {
		return
	}
	v.spin.ApplyImpulse(
		in.Axis(engine.KeyForward, engine.KeyBack)*torqueStrength*dt,
		in.Axis(engine.KeyLeft, engine.KeyRight)*torqueStrength*dt,
		in.Axis(engine.KeyDown, engine.KeyUp)*torqueStrength*dt,
	)
	v.spin.ApplyImpulse(in.MouseDY*dragImpulse, in.MouseDX*dragImpulse, 0)
	v.spin.Update()

	t := v.spin.Orient(model.Local())
	t.Position = math3d.V3(0, 0, v.distance)
	model.SetLocal(t)
}

// handleKey runs viewer-only keys on the frame loop.
func (v *viewer) handleKey(ev uv.KeyPressEvent) {
	switch {
	case ev.MatchString("space"):
		v.spin.ApplyImpulse(
			(rand.Float64()-0.5)*1.5,
			(rand.Float64()-0.5)*1.5,
			(rand.Float64()-0.5)*1.5,
		)
	case ev.MatchString("r"):
		v.spin.Reset()
		v.distance = defaultDistance
	case ev.MatchString("t"):
		v.toggleTexture()
	case ev.MatchString("x"):
		opts := &v.e.Compositor.Rasterizer().Options
		if opts.Mode == render.ModeWireframe {
			opts.Mode = render.ModeTexture
		} else {
			opts.Mode = render.ModeWireframe
		}
	case ev.MatchString("+", "="):
		v.zoom(1)
	case ev.MatchString("-", "_"):
		v.zoom(-1)
	}
}

// zoom moves the model half a unit toward the camera for dir > 0.
func (v *viewer) zoom(dir float64) {
	v.distance = math3d.Clamp(v.distance-0.5*dir, minDistance, maxDistance)
}

// toggleTexture swaps between the model's texture and a UV grid.
func (v *viewer) toggleTexture() {
	model, err := v.e.World.Get(v.model)
	if err != nil {
		return
	}
	if model.Texture == v.grid {
		model.Texture = v.texture
	} else {
		model.Texture = v.grid
	}
}
