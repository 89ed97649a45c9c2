package systems

import (
	"runtime"

	"github.com/spaghettifunk/shoreline/engine/assets"
	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/renderer"
)

type SystemManagerConfig struct {
	Images  assets.ImageDecoder
	Models  assets.ModelImporter
	Sources assets.SourceReader
	/** @brief Worker goroutines decoding textures. Defaults to the CPU count. */
	Workers   int
	MaxModels uint64
}

/**
 * @brief Owns the resource systems, in dependency order.
 */
type SystemManager struct {
	config SystemManagerConfig

	JobSystem         *JobSystem
	CameraSystem      *CameraSystem
	Registry          *Registry
	FramebufferSystem *FramebufferSystem
	FrameUpdater      *FrameUpdater
	Primitives        Primitives
}

func NewSystemManager(backend renderer.Backend, config SystemManagerConfig) (*SystemManager, error) {
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	js, err := NewJobSystem(workers, workers*4)
	if err != nil {
		return nil, err
	}
	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: 16,
	})
	if err != nil {
		return nil, err
	}
	reg, err := NewRegistry(backend, RegistryConfig{
		Images:  config.Images,
		Models:  config.Models,
		Sources: config.Sources,
		Jobs:    js,
	})
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		config:            config,
		JobSystem:         js,
		CameraSystem:      cs,
		Registry:          reg,
		FramebufferSystem: NewFramebufferSystem(backend),
	}, nil
}

// Initialize creates the built-in resources, the uniform buffers and the render targets.
func (sm *SystemManager) Initialize(width, height uint32) error {
	if err := sm.Registry.Initialize(); err != nil {
		return err
	}
	p, err := sm.Registry.CreatePrimitives()
	if err != nil {
		return err
	}
	sm.Primitives = p

	fu, err := NewFrameUpdater(sm.Registry, FrameUpdaterConfig{MaxModels: sm.config.MaxModels})
	if err != nil {
		return err
	}
	sm.FrameUpdater = fu

	if err := sm.FramebufferSystem.GenerateBuffers(width, height); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_ASSET_CHANGED, sm.Registry, sm.Registry.OnAssetChanged)
	return nil
}

func (sm *SystemManager) Shutdown() error {
	core.EventUnregister(core.EVENT_CODE_ASSET_CHANGED, sm.Registry)
	sm.FramebufferSystem.Destroy()
	if sm.FrameUpdater != nil {
		sm.FrameUpdater.Destroy()
	}
	if err := sm.Registry.Shutdown(); err != nil {
		return err
	}
	if err := sm.CameraSystem.Shutdown(); err != nil {
		return err
	}
	return sm.JobSystem.Shutdown()
}
