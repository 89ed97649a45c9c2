package metadata

import "github.com/spaghettifunk/shoreline/engine/math"

/**
 * @brief One attribute of a packed vertex: where it lives inside a vertex
 * and which shader location it feeds.
 */
type VertexAttribute struct {
	Location   uint32
	Components int32
	/** @brief Byte offset of the attribute inside one vertex. */
	Offset uint32
}

/** @brief The raw layout of the vertices of a submesh. */
type VertexLayout struct {
	Attributes []VertexAttribute
	/** @brief Size in bytes of one vertex. */
	Stride uint32
}

// Find returns the attribute bound to the given location.
func (l VertexLayout) Find(location uint32) (VertexAttribute, bool) {
	for _, a := range l.Attributes {
		if a.Location == location {
			return a, true
		}
	}
	return VertexAttribute{}, false
}

/** @brief A vertex array built for one program. */
type VertexArrayBinding struct {
	Program     ProgramHandle
	VertexArray VertexArrayHandle
}

/**
 * @brief A drawable subset of a mesh.
 */
type Submesh struct {
	Layout VertexLayout
	/** @brief The index list, kept on the CPU side. */
	Indices []uint32
	/** @brief Byte offset of the first vertex in the mesh vertex buffer. */
	VertexOffset uint64
	/** @brief Byte offset of the first index in the mesh index buffer. */
	IndexOffset uint64
	/** @brief Vertex arrays already built for this submesh, one per program. */
	VertexArrays []VertexArrayBinding
}

func (s *Submesh) IndexCount() uint32 {
	return uint32(len(s.Indices))
}

/**
 * @brief An ordered sequence of submeshes sharing one vertex buffer and
 * one index buffer. The mesh exclusively owns both buffers.
 */
type Mesh struct {
	Name         string
	VertexBuffer BufferHandle
	IndexBuffer  BufferHandle
	Submeshes    []*Submesh
}

/** @brief CPU-side geometry for one submesh, before upload. */
type SubmeshData struct {
	/** @brief Packed vertex bytes laid out according to Layout. */
	Vertices []byte
	Indices  []uint32
	Layout   VertexLayout
}

/** @brief Shader input locations of the engine vertex layout. */
const (
	AttributeLocationPosition uint32 = 0
	AttributeLocationNormal   uint32 = 1
	AttributeLocationTexcoord uint32 = 2
	AttributeLocationTangent  uint32 = 3
)

// Vertex3DLayout describes math.Vertex3D for the vertex array cache.
func Vertex3DLayout() VertexLayout {
	return VertexLayout{
		Attributes: []VertexAttribute{
			{Location: AttributeLocationPosition, Components: 3, Offset: math.Vertex3DPositionOffset},
			{Location: AttributeLocationNormal, Components: 3, Offset: math.Vertex3DNormalOffset},
			{Location: AttributeLocationTexcoord, Components: 2, Offset: math.Vertex3DTexcoordOffset},
			{Location: AttributeLocationTangent, Components: 3, Offset: math.Vertex3DTangentOffset},
		},
		Stride: math.Vertex3DStride,
	}
}

// NewSubmeshData packs engine vertices into a submesh ready for upload.
func NewSubmeshData(vertices []math.Vertex3D, indices []uint32) SubmeshData {
	return SubmeshData{
		Vertices: math.VertexBytes(vertices),
		Indices:  indices,
		Layout:   Vertex3DLayout(),
	}
}
