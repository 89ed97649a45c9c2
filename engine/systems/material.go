package systems

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

func (r *Registry) AddMaterial(material *metadata.Material) (metadata.MaterialID, error) {
	if material == nil {
		return -1, fmt.Errorf("func AddMaterial - material is nil")
	}
	id := metadata.MaterialID(len(r.Materials))
	r.Materials = append(r.Materials, material)
	return id, nil
}

/**
 * @brief Creates a material from an importer description, loading its maps.
 * A map that fails to load leaves the material without it.
 */
func (r *Registry) CreateMaterial(config metadata.MaterialConfig) metadata.MaterialID {
	material := metadata.NewDefaultMaterial()
	if config.Name != "" {
		material.Name = config.Name
	}
	if config.AlbedoTint != (mgl32.Vec4{}) {
		material.AlbedoTint = config.AlbedoTint
	}
	if config.SpecularExponent > 0 {
		material.SpecularExponent = config.SpecularExponent
	}
	if config.BumpStrength > 0 {
		material.BumpStrength = config.BumpStrength
	}

	material.Albedo = r.loadMap(config.AlbedoMap)
	material.Specular = r.loadMap(config.SpecularMap)
	material.Normal = r.loadMap(config.NormalMap)
	material.Bump = r.loadMap(config.BumpMap)

	id, _ := r.AddMaterial(material)
	return id
}

func (r *Registry) loadMap(path string) metadata.OptionalTexture {
	if path == "" {
		return metadata.NoTexture()
	}
	id := r.LoadTexture2D(path)
	if id == metadata.InvalidTextureID {
		core.LogWarn("material map %s is unavailable", path)
		return metadata.NoTexture()
	}
	return metadata.SomeTexture(id)
}

// Material returns the material, or the default material for an unknown id.
func (r *Registry) Material(id metadata.MaterialID) *metadata.Material {
	if id < 0 || int(id) >= len(r.Materials) {
		if len(r.Materials) == 0 {
			return metadata.NewDefaultMaterial()
		}
		return r.Materials[0]
	}
	return r.Materials[id]
}
