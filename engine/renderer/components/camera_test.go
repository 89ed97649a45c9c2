package components

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// closeTo compares component-wise with an absolute tolerance.
func closeTo(got []float32, tolerance float32, want ...float32) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		d := got[i] - want[i]
		if d > tolerance || d < -tolerance {
			return false
		}
	}
	return true
}

func TestCameraFreeLookDerivesTarget(t *testing.T) {
	c := NewCamera()
	c.Position = mgl32.Vec3{0, 0, 5}
	c.Yaw, c.Pitch = 0, 0
	c.Update(800, 600)

	if !closeTo(c.Front[:], 1e-5, 0, 0, -1) {
		t.Errorf("Front = %v, want -Z", c.Front)
	}
	if !closeTo(c.Target[:], 1e-5, 0, 0, 4) {
		t.Errorf("Target = %v, want position+front", c.Target)
	}
	p := c.View.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !closeTo(p[:], 1e-5, 0, 0, -5, 1) {
		t.Errorf("origin in view space = %v, want [0 0 -5 1]", p)
	}
}

func TestCameraPitchClamped(t *testing.T) {
	c := NewCamera()
	c.Pitch = 120
	c.Update(800, 600)
	if c.Pitch != pitchLimit {
		t.Errorf("Pitch = %f, want %f", c.Pitch, pitchLimit)
	}
}

func TestCameraOrbital(t *testing.T) {
	c := NewCamera()
	c.Orbital = true
	c.Target = mgl32.Vec3{1, 0, 0}
	c.Distance = 4
	c.Yaw, c.Pitch = 90, 0
	c.Update(800, 600)
	if !closeTo(c.Position[:], 1e-5, -3, 0, 0) {
		t.Errorf("orbital Position = %v, want [-3 0 0]", c.Position)
	}
}

func TestCameraReflected(t *testing.T) {
	c := NewCamera()
	c.Position = mgl32.Vec3{1, 5, 2}
	c.Pitch = -30
	c.Update(800, 600)

	r := c.Reflected(1, 800, 600)
	if r.Position.Y() != -3 {
		t.Errorf("reflected Y = %f, want -3", r.Position.Y())
	}
	if r.Pitch != 30 {
		t.Errorf("reflected pitch = %f, want 30", r.Pitch)
	}
	if c.Position.Y() != 5 || c.Pitch != -30 {
		t.Error("Reflected modified the original camera")
	}
}

func TestCameraLookAt(t *testing.T) {
	c := NewCamera()
	c.Position = mgl32.Vec3{0, 0, 0}
	c.LookAt(mgl32.Vec3{10, 0, 0})
	c.Update(800, 600)
	if !closeTo(c.Front[:], 1e-4, 1, 0, 0) {
		t.Errorf("Front after LookAt = %v, want +X", c.Front)
	}
}
