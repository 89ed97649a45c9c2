package systems

import (
	"fmt"
	"unsafe"

	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

/**
 * @brief Uploads the submeshes into one shared vertex buffer and one shared
 * index buffer owned by the new mesh. Indices stay relative to their submesh:
 * the vertex array of each submesh starts at its own vertex offset.
 */
func (r *Registry) AddMesh(name string, submeshes []metadata.SubmeshData) (metadata.MeshID, error) {
	if len(submeshes) == 0 {
		return -1, fmt.Errorf("mesh %q has no submeshes", name)
	}

	mesh := &metadata.Mesh{Name: name}
	var vertices []byte
	var indices []uint32
	for i, data := range submeshes {
		if data.Layout.Stride == 0 || len(data.Vertices)%int(data.Layout.Stride) != 0 {
			return -1, fmt.Errorf("mesh %q submesh %d: %d vertex bytes don't match stride %d", name, i, len(data.Vertices), data.Layout.Stride)
		}
		vertexCount := uint32(len(data.Vertices)) / data.Layout.Stride
		for _, idx := range data.Indices {
			if idx >= vertexCount {
				return -1, fmt.Errorf("mesh %q submesh %d: index %d out of range (%d vertices)", name, i, idx, vertexCount)
			}
		}

		submesh := &metadata.Submesh{
			Layout:       data.Layout,
			Indices:      append([]uint32(nil), data.Indices...),
			VertexOffset: uint64(len(vertices)),
			IndexOffset:  uint64(len(indices)) * uint64(unsafe.Sizeof(uint32(0))),
		}
		vertices = append(vertices, data.Vertices...)
		indices = append(indices, data.Indices...)
		mesh.Submeshes = append(mesh.Submeshes, submesh)
	}

	if len(indices) == 0 {
		return -1, fmt.Errorf("mesh %q has no indices", name)
	}

	vbo, err := r.backend.BufferCreate(metadata.RENDERBUFFER_TYPE_VERTEX, uint64(len(vertices)), vertices)
	if err != nil {
		return -1, fmt.Errorf("mesh %q: failed to create vertex buffer: %w", name, err)
	}
	indexBytes := unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*int(unsafe.Sizeof(uint32(0))))
	ibo, err := r.backend.BufferCreate(metadata.RENDERBUFFER_TYPE_INDEX, uint64(len(indexBytes)), indexBytes)
	if err != nil {
		r.backend.BufferDestroy(vbo)
		return -1, fmt.Errorf("mesh %q: failed to create index buffer: %w", name, err)
	}
	mesh.VertexBuffer = vbo
	mesh.IndexBuffer = ibo

	id := metadata.MeshID(len(r.Meshes))
	r.Meshes = append(r.Meshes, mesh)
	return id, nil
}

func (r *Registry) Mesh(id metadata.MeshID) (*metadata.Mesh, error) {
	if id < 0 || int(id) >= len(r.Meshes) {
		return nil, fmt.Errorf("%w: mesh %d", ErrInvalidHandle, id)
	}
	return r.Meshes[id], nil
}

func (r *Registry) destroyMesh(mesh *metadata.Mesh) {
	for _, s := range mesh.Submeshes {
		for _, vao := range s.VertexArrays {
			r.backend.VertexArrayDestroy(vao.VertexArray)
		}
		s.VertexArrays = nil
	}
	if mesh.VertexBuffer != 0 {
		r.backend.BufferDestroy(mesh.VertexBuffer)
	}
	if mesh.IndexBuffer != 0 {
		r.backend.BufferDestroy(mesh.IndexBuffer)
	}
	mesh.VertexBuffer, mesh.IndexBuffer = 0, 0
}
