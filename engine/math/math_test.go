package math

import (
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAlignUp(t *testing.T) {
	tests := []struct {
		value, alignment, want uint64
	}{
		{0, 256, 0},
		{1, 256, 256},
		{256, 256, 256},
		{257, 256, 512},
		{12, 16, 16},
		{7, 0, 7},
		{7, 1, 7},
	}
	for _, tt := range tests {
		if got := AlignUp(tt.value, tt.alignment); got != tt.want {
			t.Errorf("AlignUp(%d, %d) = %d, want %d", tt.value, tt.alignment, got, tt.want)
		}
	}
}

func TestClampAndMax(t *testing.T) {
	if got := Clamp(float32(2), -1, 1); got != 1 {
		t.Errorf("Clamp() = %f, want 1", got)
	}
	if got := Max(float32(0.2), 0.9, 0.5); got != 0.9 {
		t.Errorf("Max() = %f, want 0.9", got)
	}
}

func TestVertex3DLayout(t *testing.T) {
	var v Vertex3D
	if got := uint32(unsafe.Sizeof(v)); got != Vertex3DStride {
		t.Errorf("sizeof(Vertex3D) = %d, want %d", got, Vertex3DStride)
	}
	if got := uint32(unsafe.Offsetof(v.Tangent)); got != Vertex3DTangentOffset {
		t.Errorf("tangent offset = %d, want %d", got, Vertex3DTangentOffset)
	}
	if got := uint32(unsafe.Offsetof(v.Texcoord)); got != Vertex3DTexcoordOffset {
		t.Errorf("texcoord offset = %d, want %d", got, Vertex3DTexcoordOffset)
	}
}

func TestTransformWorldTranslatesAndScales(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Scale = mgl32.Vec3{2, 2, 2}
	p := tr.World().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !p.ApproxEqual(mgl32.Vec4{3, 2, 3, 1}) {
		t.Errorf("World()*p = %v, want [3 2 3 1]", p)
	}
}

func TestGeometryGenerateNormals(t *testing.T) {
	verts := []Vertex3D{
		{Position: mgl32.Vec3{0, 0, 0}},
		{Position: mgl32.Vec3{1, 0, 0}},
		{Position: mgl32.Vec3{0, 1, 0}},
	}
	GeometryGenerateNormals(verts, []uint32{0, 1, 2})
	for i, v := range verts {
		if !v.Normal.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
			t.Errorf("vertex %d normal = %v, want +Z", i, v.Normal)
		}
	}
}
