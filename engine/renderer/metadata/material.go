package metadata

import "github.com/go-gl/mathgl/mgl32"

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief A material, the fixed surface model shared by every pipeline:
 * a tint, a specular exponent, a bump strength and up to four maps.
 */
type Material struct {
	/** @brief The material name. */
	Name string
	/** @brief Multiplied with the albedo map, or used alone without one. */
	AlbedoTint mgl32.Vec4
	/** @brief The shininess, determines how concentrated the specular lighting is. */
	SpecularExponent float32
	/** @brief Scales the normal perturbation from the normal or bump map. */
	BumpStrength float32

	Albedo   OptionalTexture
	Specular OptionalTexture
	Normal   OptionalTexture
	Bump     OptionalTexture
}

func NewDefaultMaterial() *Material {
	return &Material{
		Name:             DefaultMaterialName,
		AlbedoTint:       mgl32.Vec4{1, 1, 1, 1},
		SpecularExponent: 32,
		BumpStrength:     1,
	}
}

func (m *Material) HasAlbedo() bool   { return m.Albedo.Present() }
func (m *Material) HasSpecular() bool { return m.Specular.Present() }
func (m *Material) HasNormals() bool  { return m.Normal.Present() }
func (m *Material) HasBump() bool     { return m.Bump.Present() }

/** @brief Material description as produced by the model importer. */
type MaterialConfig struct {
	Name             string
	AlbedoTint       mgl32.Vec4
	SpecularExponent float32
	BumpStrength     float32
	/** @brief Texture paths; empty means the map is absent. */
	AlbedoMap   string
	SpecularMap string
	NormalMap   string
	BumpMap     string
}
