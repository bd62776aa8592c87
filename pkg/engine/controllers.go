package engine

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/cubist/pkg/math3d"
	"github.com/taigrr/cubist/pkg/physics"
	"github.com/taigrr/cubist/pkg/scene"
)

// Key names the controllers read. They match ultraviolet key strings.
const (
	KeyForward  = "w"
	KeyBack     = "s"
	KeyLeft     = "a"
	KeyRight    = "d"
	KeyUp       = "e"
	KeyDown     = "q"
	KeyJump     = "space"
	KeyLookUp   = "up"
	KeyLookDown = "down"
	KeyTurnL    = "left"
	KeyTurnR    = "right"
)

// MovementKeys lists every key a controller may poll.
var MovementKeys = []string{
	KeyForward, KeyBack, KeyLeft, KeyRight, KeyUp, KeyDown, KeyJump,
	KeyLookUp, KeyLookDown, KeyTurnL, KeyTurnR,
}

// look returns the yaw and pitch requested this frame. Mouse movement to
// the right and the right arrow both turn right; moving down looks down.
func look(in InputState, lookSpeed, turnSpeed, dt float64) (yaw, pitch float64) {
	yaw = -in.MouseDX*lookSpeed + in.Axis(KeyTurnR, KeyTurnL)*turnSpeed*dt
	pitch = in.MouseDY*lookSpeed + in.Axis(KeyLookUp, KeyLookDown)*turnSpeed*dt
	return yaw, pitch
}

// FreeCam flies the camera along its own axes.
type FreeCam struct {
	Speed     float64 // units per second
	LookSpeed float64 // radians per mouse cell
	TurnSpeed float64 // radians per second on the arrow keys
}

// NewFreeCam returns a free camera with terminal-friendly speeds.
func NewFreeCam(speed float64) *FreeCam {
	return &FreeCam{Speed: speed, LookSpeed: 0.05, TurnSpeed: 1.5}
}

func (f *FreeCam) Update(e *Engine, in InputState, dt float64) {
	cam := e.World.Camera
	t := cam.Local()
	move := t.Forward.Scale(in.Axis(KeyBack, KeyForward)).
		Add(t.Right().Scale(in.Axis(KeyRight, KeyLeft))).
		Add(t.Up.Scale(in.Axis(KeyDown, KeyUp)))
	if !move.IsZero() {
		cam.Move(move.Scale(f.Speed * dt))
	}

	yaw, pitch := look(in, f.LookSpeed, f.TurnSpeed, dt)
	cam.Rotate(cam.Local().Up, yaw)
	cam.Rotate(cam.Local().Right(), pitch)
}

// FirstPerson walks the entity the camera is parented to over the ground
// plane and turns the camera around the world vertical.
type FirstPerson struct {
	Speed     float64
	LookSpeed float64
	TurnSpeed float64
	// JumpSpeed is the upward velocity given on the jump key while the
	// body touches a solid. Zero disables jumping.
	JumpSpeed float64
}

// jumpLift raises a jumping body clear of the contact distance so the
// next physics step does not zero its velocity again.
const jumpLift = 5 * physics.ContactDistance

// NewFirstPerson returns a first-person controller.
func NewFirstPerson(speed, jumpSpeed float64) *FirstPerson {
	return &FirstPerson{Speed: speed, LookSpeed: 0.05, TurnSpeed: 1.5, JumpSpeed: jumpSpeed}
}

func (f *FirstPerson) Update(e *Engine, in InputState, dt float64) {
	cam := e.World.Camera
	body, err := e.World.Get(cam.Parent())
	if err != nil {
		return
	}

	world := cam.World()
	fwd := math3d.V3(world.Forward.X, 0, world.Forward.Z).Normalize()
	right := world.Right()
	move := fwd.Scale(in.Axis(KeyBack, KeyForward)).Add(right.Scale(in.Axis(KeyRight, KeyLeft)))
	if !move.IsZero() {
		body.AddPosition(move.Scale(f.Speed * dt))
	}

	if f.JumpSpeed > 0 && in.Down(KeyJump) && physics.IsColliding(e.World, body) {
		body.AddPosition(math3d.V3(0, jumpLift, 0))
		body.SetVelocity(math3d.V3(body.Velocity.X, f.JumpSpeed, body.Velocity.Z))
	}

	yaw, pitch := look(in, f.LookSpeed, f.TurnSpeed, dt)
	cam.Rotate(math3d.Up(), yaw)
	cam.Rotate(cam.Local().Right(), pitch)
}

// FollowCamera trails an entity from an offset, easing the camera
// position with a critically damped spring and keeping the target in view.
// The camera must not be parented.
type FollowCamera struct {
	Target scene.Handle
	Offset math3d.Vec3

	spring  harmonica.Spring
	vel     math3d.Vec3
	started bool
}

// NewFollowCamera follows target at offset, springing at the given frame
// rate.
func NewFollowCamera(target scene.Handle, offset math3d.Vec3, fps int) *FollowCamera {
	return &FollowCamera{
		Target: target,
		Offset: offset,
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

func (f *FollowCamera) Update(e *Engine, _ InputState, _ float64) {
	target, err := e.World.Get(f.Target)
	if err != nil {
		return
	}
	cam := e.World.Camera
	focus := target.Midpoint()
	goal := focus.Add(f.Offset)

	pos := cam.Local().Position
	if !f.started {
		pos, f.started = goal, true
	} else {
		pos.X, f.vel.X = f.spring.Update(pos.X, f.vel.X, goal.X)
		pos.Y, f.vel.Y = f.spring.Update(pos.Y, f.vel.Y, goal.Y)
		pos.Z, f.vel.Z = f.spring.Update(pos.Z, f.vel.Z, goal.Z)
	}

	t := cam.Local()
	t.Position = pos
	if fwd, up, ok := lookAt(pos, focus); ok {
		t.Forward, t.Up = fwd, up
	}
	cam.SetLocal(t)
}

// lookAt returns the forward/up pair looking from eye to focus with up as
// close to +Y as possible. ok is false when the direction is degenerate.
func lookAt(eye, focus math3d.Vec3) (fwd, up math3d.Vec3, ok bool) {
	fwd = focus.Sub(eye).Normalize()
	if fwd.IsZero() {
		return fwd, up, false
	}
	up = math3d.Up().Sub(fwd.Scale(fwd.Dot(math3d.Up()))).Normalize()
	if up.IsZero() {
		return fwd, up, false
	}
	return fwd, up, true
}
