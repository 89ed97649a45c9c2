package math

import "github.com/go-gl/mathgl/mgl32"

// Transform is a local placement: position, Euler rotation in degrees and scale.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// World returns translate * rotateX * rotateY * rotateZ * scale.
func (t Transform) World() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotation := mgl32.HomogRotate3DX(mgl32.DegToRad(t.Rotation.X())).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(t.Rotation.Y()))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(t.Rotation.Z())))
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translation.Mul4(rotation).Mul4(scale)
}
