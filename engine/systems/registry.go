package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/shoreline/engine/assets"
	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/renderer"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

var (
	ErrInvalidHandle      = errors.New("invalid registry handle")
	ErrIncompatibleLayout = errors.New("mesh layout is missing an attribute required by the program")
)

/** @brief The collaborators the registry loads resources through. */
type RegistryConfig struct {
	Images  assets.ImageDecoder
	Models  assets.ModelImporter
	Sources assets.SourceReader
	/** @brief Optional. Without it, prefetching decodes on the calling goroutine. */
	Jobs *JobSystem
	/** @brief GLSL version line prepended to every stage. */
	ShaderVersion string
}

/**
 * @brief Owns every texture, program, mesh, material, model and light.
 * Handles are indices into the arrays; entries are never removed before
 * Shutdown, which releases every GPU object the registry created.
 * Must only be used from the goroutine owning the rendering context.
 */
type Registry struct {
	config  RegistryConfig
	backend renderer.Backend

	Textures  []*metadata.Texture
	Programs  []*metadata.Program
	Meshes    []*metadata.Mesh
	Materials []*metadata.Material
	Models    []*metadata.Model
	Lights    []*metadata.Light

	texturePaths map[string]metadata.TextureID

	// decoded images waiting for upload, filled by prefetch jobs
	prefetchMu sync.Mutex
	prefetched map[string]*metadata.ImageData

	initialized bool
}

func NewRegistry(backend renderer.Backend, config RegistryConfig) (*Registry, error) {
	if backend == nil {
		err := fmt.Errorf("func NewRegistry - a renderer backend is required")
		core.LogError(err.Error())
		return nil, err
	}
	if config.ShaderVersion == "" {
		config.ShaderVersion = "#version 410 core"
	}
	return &Registry{
		config:       config,
		backend:      backend,
		texturePaths: make(map[string]metadata.TextureID),
		prefetched:   make(map[string]*metadata.ImageData),
	}, nil
}

// Initialize creates the built-in resources. The white texture always gets index 0.
func (r *Registry) Initialize() error {
	if r.initialized {
		return nil
	}
	white := &metadata.ImageData{
		ChannelCount: 4,
		Width:        1,
		Height:       1,
		Pixels:       []uint8{255, 255, 255, 255},
	}
	id := r.CreateTexture(metadata.DefaultTexturePath, white)
	if id == metadata.InvalidTextureID {
		return fmt.Errorf("failed to create the default texture")
	}
	if _, err := r.AddMaterial(metadata.NewDefaultMaterial()); err != nil {
		return err
	}
	r.initialized = true
	return nil
}

// Shutdown releases every GPU object owned by the registry.
func (r *Registry) Shutdown() error {
	for _, mesh := range r.Meshes {
		r.destroyMesh(mesh)
	}
	for _, p := range r.Programs {
		if p.Handle != 0 {
			r.backend.ProgramDestroy(p.Handle)
		}
	}
	for _, t := range r.Textures {
		if t.Handle != 0 {
			r.backend.TextureDestroy(t.Handle)
		}
	}
	r.Textures = nil
	r.Programs = nil
	r.Meshes = nil
	r.Materials = nil
	r.Models = nil
	r.Lights = nil
	r.texturePaths = make(map[string]metadata.TextureID)
	r.initialized = false
	return nil
}

func (r *Registry) Backend() renderer.Backend {
	return r.backend
}

/**
 * @brief The built-in white texture, bound wherever a material has no map.
 */
func (r *Registry) DefaultTexture() *metadata.Texture {
	if len(r.Textures) == 0 {
		return nil
	}
	return r.Textures[0]
}
