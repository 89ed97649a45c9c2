package components

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/math"
)

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

// 89 degrees, keeps the look-at basis away from the up vector.
const pitchLimit float32 = 89.0

/**
 * @brief Represents a camera. Position, Target, Yaw and Pitch are
 * authoritative; everything else is recomputed by Update every frame.
 */
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	/** @brief Yaw in degrees, 0 looks down -Z. */
	Yaw float32
	/** @brief Pitch in degrees, clamped to +-89. */
	Pitch float32
	/** @brief In orbital mode the camera circles Target at Distance. */
	Orbital  bool
	Distance float32
	/** @brief Vertical field of view in degrees. */
	FOV  float32
	Near float32
	Far  float32

	Front mgl32.Vec3
	Right mgl32.Vec3
	Up    mgl32.Vec3

	View       mgl32.Mat4
	Projection mgl32.Mat4
	Ortho      mgl32.Mat4
}

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Position = mgl32.Vec3{0, 2, 10}
	c.Target = mgl32.Vec3{}
	c.Yaw = 0
	c.Pitch = 0
	c.Orbital = false
	c.Distance = 10
	c.FOV = 45
	c.Near = 0.1
	c.Far = 500
	c.Update(1, 1)
}

// LookAt points the camera at target, deriving yaw and pitch.
func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Target = target
	dir := target.Sub(c.Position)
	if dir.Len() <= math.K_FLOAT_EPSILON {
		return
	}
	dir = dir.Normalize()
	c.Pitch = mgl32.RadToDeg(float32(gomath.Asin(float64(math.Clamp(dir.Y(), -1, 1)))))
	c.Yaw = mgl32.RadToDeg(float32(gomath.Atan2(float64(dir.X()), float64(-dir.Z()))))
	c.Distance = target.Sub(c.Position).Len()
}

func (c *Camera) Rotate(yaw, pitch float32) {
	c.Yaw += yaw
	c.Pitch += pitch
}

// Update recomputes every derived field for a viewport of the given size.
func (c *Camera) Update(width, height uint32) {
	c.Pitch = math.Clamp(c.Pitch, -pitchLimit, pitchLimit)

	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	c.Front = mgl32.Vec3{
		float32(gomath.Sin(yaw) * gomath.Cos(pitch)),
		float32(gomath.Sin(pitch)),
		float32(-gomath.Cos(yaw) * gomath.Cos(pitch)),
	}.Normalize()
	c.Right = c.Front.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()

	if c.Orbital {
		c.Position = c.Target.Sub(c.Front.Mul(c.Distance))
	} else {
		c.Target = c.Position.Add(c.Front)
	}

	c.View = mgl32.LookAtV(c.Position, c.Target, c.Up)

	if height == 0 {
		height = 1
	}
	aspect := float32(width) / float32(height)
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
	c.Ortho = mgl32.Ortho(0, float32(width), 0, float32(height), -1, 1)
}

// Reflected returns the camera mirrored below a horizontal plane at the given
// height: vertical position and pitch are negated relative to the plane.
func (c *Camera) Reflected(height float32, width, viewportHeight uint32) *Camera {
	r := *c
	r.Orbital = false
	r.Position = mgl32.Vec3{c.Position.X(), 2*height - c.Position.Y(), c.Position.Z()}
	r.Pitch = -c.Pitch
	r.Update(width, viewportHeight)
	return &r
}
