package math

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 0 */
const K_FLOAT_EPSILON float32 = 1.192092896e-07

// Vertex3D is the packed vertex layout used by every engine mesh.
type Vertex3D struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Texcoord mgl32.Vec2
	Tangent  mgl32.Vec3
}

// Vertex3D field offsets in bytes, matching the struct memory layout.
const (
	Vertex3DPositionOffset uint32 = 0
	Vertex3DNormalOffset   uint32 = 12
	Vertex3DTexcoordOffset uint32 = 24
	Vertex3DTangentOffset  uint32 = 32
	Vertex3DStride         uint32 = 44
)

// VertexBytes returns the raw memory of the vertices, ready to be uploaded.
func VertexBytes(vertices []Vertex3D) []byte {
	if len(vertices) == 0 {
		return nil
	}
	size := len(vertices) * int(Vertex3DStride)
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), size))
	return out
}
