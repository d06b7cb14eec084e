package editor

import (
	"elypso/internal/engine"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	maxPitch     = 89
	yawLimit     = 359.99
	lookFactor   = 0.1
	minMoveSpeed = 1
	maxMoveSpeed = 100
)

// flyInput is one frame of camera input.
type flyInput struct {
	// Look is the mouse delta while the look button is held.
	Look                       rl.Vector2
	Forward, Back, Left, Right bool
	Up, Down                   bool
	// Scroll changes the move speed. It is only read with Shift held.
	Scroll                     float32
}

func readFlyInput() (flyInput, bool) {
	if !rl.IsMouseButtonDown(rl.MouseRightButton) {
		in := flyInput{}
		if rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) {
			in.Scroll = rl.GetMouseWheelMove()
		}
		return in, false
	}
	return flyInput{
		Look:    rl.GetMouseDelta(),
		Forward: rl.IsKeyDown(rl.KeyW),
		Back:    rl.IsKeyDown(rl.KeyS),
		Left:    rl.IsKeyDown(rl.KeyA),
		Right:   rl.IsKeyDown(rl.KeyD),
		Up:      rl.IsKeyDown(rl.KeyE),
		Down:    rl.IsKeyDown(rl.KeyQ),
	}, true
}

// directions returns the view and strafe vectors for a camera rotation of
// pitch (X) and yaw (Y) in degrees.
func directions(rot rl.Vector3) (forward, right rl.Vector3) {
	yawRad := float64(rot.Y) * math.Pi / 180
	pitchRad := float64(rot.X) * math.Pi / 180

	forward = rl.Vector3{
		X: float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		Y: float32(math.Sin(pitchRad)),
		Z: float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}
	right = rl.Vector3{
		X: float32(math.Sin(yawRad)),
		Y: 0,
		Z: float32(-math.Cos(yawRad)),
	}
	return
}

// fly moves cam for one frame and returns the new move speed. Pitch is
// clamped and yaw wrapped so the rotation always stays inside the camRot
// bounds.
func fly(cam *engine.Camera, in flyInput, moveSpeed, dt float32) float32 {
	if in.Scroll != 0 {
		moveSpeed += in.Scroll * 2
		moveSpeed = min(max(moveSpeed, minMoveSpeed), maxMoveSpeed)
	}

	cam.Rotation.Y += in.Look.X * lookFactor
	cam.Rotation.X -= in.Look.Y * lookFactor
	cam.Rotation.X = min(max(cam.Rotation.X, -maxPitch), maxPitch)
	cam.Rotation.Y = wrapYaw(cam.Rotation.Y)

	forward, right := directions(cam.Rotation)
	speed := moveSpeed * dt

	if in.Forward {
		cam.Position = rl.Vector3Add(cam.Position, rl.Vector3Scale(forward, speed))
	}
	if in.Back {
		cam.Position = rl.Vector3Add(cam.Position, rl.Vector3Scale(forward, -speed))
	}
	if in.Left {
		cam.Position = rl.Vector3Add(cam.Position, rl.Vector3Scale(right, speed))
	}
	if in.Right {
		cam.Position = rl.Vector3Add(cam.Position, rl.Vector3Scale(right, -speed))
	}
	if in.Up {
		cam.Position.Y += speed
	}
	if in.Down {
		cam.Position.Y -= speed
	}
	return moveSpeed
}

func wrapYaw(yaw float32) float32 {
	w := float32(math.Mod(float64(yaw), 360))
	if w > yawLimit {
		w -= 360
	} else if w < -yawLimit {
		w += 360
	}
	return w
}

// raylibCamera builds the render camera from the live state.
func raylibCamera(st *engine.State) rl.Camera3D {
	forward, _ := directions(st.Camera.Rotation)
	return rl.Camera3D{
		Position:   st.Camera.Position,
		Target:     rl.Vector3Add(st.Camera.Position, forward),
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       st.FOV,
		Projection: rl.CameraPerspective,
	}
}

// spawnPoint is where new objects appear: a few units in front of the
// camera.
func spawnPoint(cam engine.Camera) rl.Vector3 {
	forward, _ := directions(cam.Rotation)
	return rl.Vector3Add(cam.Position, rl.Vector3Scale(forward, 5))
}
