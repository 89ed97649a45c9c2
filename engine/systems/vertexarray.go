package systems

import (
	"fmt"

	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

/**
 * @brief Returns the vertex array linking a submesh to a program, building
 * and caching it on first use. Every attribute the program declares must
 * exist in the submesh layout, otherwise ErrIncompatibleLayout is returned;
 * callers treat that as a content error and stop.
 */
func (r *Registry) FindVAO(meshID metadata.MeshID, submeshIndex int, programID metadata.ProgramID) (metadata.VertexArrayHandle, error) {
	mesh, err := r.Mesh(meshID)
	if err != nil {
		return 0, err
	}
	if submeshIndex < 0 || submeshIndex >= len(mesh.Submeshes) {
		return 0, fmt.Errorf("%w: submesh %d of mesh %q", ErrInvalidHandle, submeshIndex, mesh.Name)
	}
	program, err := r.Program(programID)
	if err != nil {
		return 0, err
	}
	submesh := mesh.Submeshes[submeshIndex]

	for _, binding := range submesh.VertexArrays {
		if binding.Program == program.Handle {
			return binding.VertexArray, nil
		}
	}

	attributes := make([]metadata.VertexAttribute, 0, len(program.Attributes))
	for _, input := range program.Attributes {
		attr, ok := submesh.Layout.Find(input.Location)
		if !ok {
			return 0, fmt.Errorf("%w: %s needs %q at location %d, mesh %q submesh %d has none",
				ErrIncompatibleLayout, program.Name, input.Name, input.Location, mesh.Name, submeshIndex)
		}
		attributes = append(attributes, metadata.VertexAttribute{
			Location:   attr.Location,
			Components: attr.Components,
			Offset:     uint32(submesh.VertexOffset) + attr.Offset,
		})
	}

	vao, err := r.backend.VertexArrayCreate(mesh.VertexBuffer, mesh.IndexBuffer, submesh.Layout.Stride, attributes)
	if err != nil {
		return 0, fmt.Errorf("mesh %q submesh %d: failed to create vertex array: %w", mesh.Name, submeshIndex, err)
	}
	submesh.VertexArrays = append(submesh.VertexArrays, metadata.VertexArrayBinding{
		Program:     program.Handle,
		VertexArray: vao,
	})
	return vao, nil
}

// InvalidateProgram releases every cached vertex array built for the program.
func (r *Registry) InvalidateProgram(program metadata.ProgramHandle) int {
	released := 0
	for _, mesh := range r.Meshes {
		for _, s := range mesh.Submeshes {
			kept := s.VertexArrays[:0]
			for _, b := range s.VertexArrays {
				if b.Program == program {
					r.backend.VertexArrayDestroy(b.VertexArray)
					released++
					continue
				}
				kept = append(kept, b)
			}
			s.VertexArrays = kept
		}
	}
	return released
}
