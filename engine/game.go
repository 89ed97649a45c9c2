package engine

import (
	"github.com/spaghettifunk/shoreline/engine/config"
	"github.com/spaghettifunk/shoreline/engine/renderer/components"
	"github.com/spaghettifunk/shoreline/engine/renderer/views"
	"github.com/spaghettifunk/shoreline/engine/systems"
)

/**
 * @brief The application driven by the engine. SystemManager, Pipeline and
 * Camera are set by the engine before FnInitialize runs.
 */
type Game struct {
	ApplicationConfig *ApplicationConfig
	Config            *config.Config
	SystemManager     *systems.SystemManager
	Pipeline          *views.Pipeline
	Camera            *components.Camera
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
