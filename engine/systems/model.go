package systems

import (
	"fmt"

	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

// AddModel places a registered mesh with one material per submesh.
func (r *Registry) AddModel(name string, meshID metadata.MeshID, materials []metadata.MaterialID) (metadata.ModelID, error) {
	mesh, err := r.Mesh(meshID)
	if err != nil {
		return -1, err
	}
	model, err := metadata.NewModel(name, meshID, mesh, materials)
	if err != nil {
		return -1, err
	}
	id := metadata.ModelID(len(r.Models))
	r.Models = append(r.Models, model)
	return id, nil
}

/**
 * @brief Imports a model file: every material is created (and its maps
 * loaded), the submeshes are uploaded as one mesh and a model placing
 * it is registered.
 */
func (r *Registry) LoadModel(path string) (metadata.ModelID, error) {
	if r.config.Models == nil {
		return -1, fmt.Errorf("no model importer configured, can't load %s", path)
	}
	data, err := r.config.Models.Import(path)
	if err != nil {
		return -1, fmt.Errorf("failed to import model %s: %w", path, err)
	}
	if len(data.SubmeshMaterials) != len(data.Submeshes) {
		return -1, fmt.Errorf("model %s: %d material indices for %d submeshes", path, len(data.SubmeshMaterials), len(data.Submeshes))
	}

	paths := make([]string, 0, len(data.Materials)*4)
	for _, m := range data.Materials {
		paths = append(paths, m.AlbedoMap, m.SpecularMap, m.NormalMap, m.BumpMap)
	}
	r.PrefetchTextures(paths)

	created := make([]metadata.MaterialID, len(data.Materials))
	for i, cfg := range data.Materials {
		created[i] = r.CreateMaterial(cfg)
	}
	materials := make([]metadata.MaterialID, len(data.Submeshes))
	for i, idx := range data.SubmeshMaterials {
		if idx < 0 || idx >= len(created) {
			core.LogWarn("model %s: submesh %d references material %d, using the default", path, i, idx)
			materials[i] = 0
			continue
		}
		materials[i] = created[idx]
	}

	meshID, err := r.AddMesh(data.Name, data.Submeshes)
	if err != nil {
		return -1, err
	}
	return r.AddModel(data.Name, meshID, materials)
}

func (r *Registry) Model(id metadata.ModelID) (*metadata.Model, error) {
	if id < 0 || int(id) >= len(r.Models) {
		return nil, fmt.Errorf("%w: model %d", ErrInvalidHandle, id)
	}
	return r.Models[id], nil
}
