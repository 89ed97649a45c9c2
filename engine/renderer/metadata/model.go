package metadata

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/math"
)

/**
 * @brief A placed instance of a mesh. MaterialIdx is parallel to the
 * submeshes of the mesh and always has the same length.
 */
type Model struct {
	Name      string
	Mesh      MeshID
	Transform math.Transform
	/** @brief Derived from Transform by the frame updater. */
	World mgl32.Mat4
	/** @brief This model's slice of the per-frame transform buffer. */
	TransformRange MemoryRange

	materialIdx []MaterialID
}

// NewModel places a mesh with one material per submesh.
func NewModel(name string, meshID MeshID, mesh *Mesh, materials []MaterialID) (*Model, error) {
	if len(materials) != len(mesh.Submeshes) {
		return nil, fmt.Errorf("model %q: %d materials for %d submeshes", name, len(materials), len(mesh.Submeshes))
	}
	idx := make([]MaterialID, len(materials))
	copy(idx, materials)
	return &Model{
		Name:        name,
		Mesh:        meshID,
		Transform:   math.NewTransform(),
		World:       mgl32.Ident4(),
		materialIdx: idx,
	}, nil
}

// MaterialIdx returns the material used by each submesh.
func (m *Model) MaterialIdx() []MaterialID {
	return m.materialIdx
}

func (m *Model) Material(submesh int) MaterialID {
	return m.materialIdx[submesh]
}

// SetMaterial swaps the material of one submesh; the length never changes.
func (m *Model) SetMaterial(submesh int, id MaterialID) error {
	if submesh < 0 || submesh >= len(m.materialIdx) {
		return fmt.Errorf("model %q: submesh %d out of range (%d)", m.Name, submesh, len(m.materialIdx))
	}
	m.materialIdx[submesh] = id
	return nil
}

/**
 * @brief A model as produced by the model importer: packed geometry per
 * submesh, the materials it references and which material each submesh uses.
 */
type ModelData struct {
	Name      string
	Submeshes []SubmeshData
	Materials []MaterialConfig
	/** @brief Index into Materials, one per submesh. */
	SubmeshMaterials []int
}
