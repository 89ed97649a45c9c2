package systems

import (
	"fmt"

	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/renderer/components"
)

type cameraLookup struct {
	camera         *components.Camera
	referenceCount uint16
}

type CameraSystem struct {
	Config *CameraSystemConfig
	lookup map[string]*cameraLookup
	// A default, non-registered camera that always exists as a fallback.
	DefaultCamera *components.Camera
}

/** @brief The camera system configuration. */
type CameraSystemConfig struct {
	/** @brief The maximum number of named cameras that can be managed by the system. */
	MaxCameraCount uint16
}

func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config.MaxCameraCount == 0 {
		err := fmt.Errorf("func NewCameraSystem - config.MaxCameraCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &CameraSystem{
		Config:        config,
		lookup:        make(map[string]*cameraLookup, config.MaxCameraCount),
		DefaultCamera: components.NewCamera(),
	}, nil
}

func (cs *CameraSystem) Shutdown() error {
	cs.lookup = make(map[string]*cameraLookup)
	return nil
}

/**
 * @brief Acquires a camera by name, creating it on first use.
 * Internal reference counter is incremented.
 */
func (cs *CameraSystem) Acquire(name string) (*components.Camera, error) {
	if name == components.DEFAULT_CAMERA_NAME {
		return cs.DefaultCamera, nil
	}
	entry, ok := cs.lookup[name]
	if !ok {
		if len(cs.lookup) >= int(cs.Config.MaxCameraCount) {
			err := fmt.Errorf("func CameraSystem.Acquire - no free slot for camera '%s'. Adjust camera system config to allow more", name)
			core.LogError(err.Error())
			return nil, err
		}
		core.LogDebug("Creating new camera named '%s'...", name)
		entry = &cameraLookup{camera: components.NewCamera()}
		cs.lookup[name] = entry
	}
	entry.referenceCount++
	return entry.camera, nil
}

/**
 * @brief Releases a camera with the given name. When the reference counter
 * reaches 0 the camera is forgotten.
 */
func (cs *CameraSystem) Release(name string) {
	if name == components.DEFAULT_CAMERA_NAME {
		core.LogDebug("Cannot release default camera. Nothing was done.")
		return
	}
	entry, ok := cs.lookup[name]
	if !ok {
		core.LogWarn("CameraSystem.Release failed lookup for '%s'. Nothing was done.", name)
		return
	}
	entry.referenceCount--
	if entry.referenceCount < 1 {
		delete(cs.lookup, name)
	}
}

func (cs *CameraSystem) GetDefault() *components.Camera {
	return cs.DefaultCamera
}
