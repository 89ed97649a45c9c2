package engine

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/shoreline/engine/assets"
	"github.com/spaghettifunk/shoreline/engine/config"
	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/platform"
	"github.com/spaghettifunk/shoreline/engine/renderer/components"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
	"github.com/spaghettifunk/shoreline/engine/renderer/opengl"
	"github.com/spaghettifunk/shoreline/engine/renderer/views"
	"github.com/spaghettifunk/shoreline/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     bool
	isSuspended   bool
	platform      *platform.Platform
	backend       *opengl.OpenGLRenderer
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	pipeline      *views.Pipeline
	camera        *components.Camera
	metrics       *core.Metrics
	width         uint32
	height        uint32
	clock         *core.Clock
	lastTime      float64
}

func New(g *Game) (*Engine, error) {
	p, err := platform.New()
	if err != nil {
		return nil, err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	backend := opengl.New(p)
	sm, err := systems.NewSystemManager(backend, systems.SystemManagerConfig{
		Images:    am.Images(),
		Models:    am.Models(),
		Sources:   am.Sources(),
		Workers:   g.ApplicationConfig.Workers,
		MaxModels: g.Config.Renderer.MaxModels,
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		clock:         core.NewClock(),
		metrics:       core.NewMetrics(),
		platform:      p,
		backend:       backend,
		assetManager:  am,
		systemManager: sm,
		isRunning:     true,
		isSuspended:   false,
		width:         g.ApplicationConfig.StartWidth,
		height:        g.ApplicationConfig.StartHeight,
		lastTime:      0,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	app := e.gameInstance.ApplicationConfig
	core.SetLogLevel(app.LogLevel)

	// initialize events
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)

	if err := e.platform.Startup(app.Name, app.StartPosX, app.StartPosY, app.StartWidth, app.StartHeight, app.VSync); err != nil {
		return err
	}
	// the drawable size can differ from the requested window size
	e.width, e.height = e.platform.FramebufferSize()

	if err := e.backend.Initialize(app.Name, e.width, e.height); err != nil {
		return err
	}

	// initialize subsystems
	if err := e.assetManager.Initialize(app.AssetsDir); err != nil {
		return err
	}
	if err := e.systemManager.Initialize(e.width, e.height); err != nil {
		return err
	}

	if err := e.createPipeline(); err != nil {
		return err
	}

	e.gameInstance.SystemManager = e.systemManager
	e.gameInstance.Pipeline = e.pipeline
	e.gameInstance.Camera = e.camera
	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) createPipeline() error {
	cfg := e.gameInstance.Config
	mode, err := cfg.Renderer.RenderMode()
	if err != nil {
		return err
	}
	display, err := cfg.Renderer.DisplayMode()
	if err != nil {
		return err
	}

	water := views.DefaultWaterSettings()
	water.Enabled = cfg.Renderer.WaterEnabled
	water.Height = cfg.Renderer.WaterHeight
	water.Size = cfg.Renderer.WaterSize
	water.WaveSpeed = cfg.Renderer.WaveSpeed

	e.pipeline, err = views.NewPipeline(&views.RenderContext{
		Backend:      e.backend,
		Registry:     e.systemManager.Registry,
		Framebuffers: e.systemManager.FramebufferSystem,
		Updater:      e.systemManager.FrameUpdater,
		Primitives:   e.systemManager.Primitives,
	}, views.PipelineConfig{
		ShaderDir:  e.gameInstance.ApplicationConfig.AssetPath(cfg.Renderer.ShaderDir),
		ClearColor: config.Vec4(cfg.Renderer.ClearColor),
		Mode:       mode,
		Display:    display,
		Water:      water,
	})
	if err != nil {
		return err
	}

	e.camera = e.systemManager.CameraSystem.GetDefault()
	cc := cfg.Scene.Camera
	e.camera.Position = config.Vec3(cc.Position)
	e.camera.Orbital = cc.Orbital
	e.camera.Distance = cc.Distance
	e.camera.FOV = cc.FOV
	e.camera.Near = cc.Near
	e.camera.Far = cc.Far
	if target := config.Vec3(cc.Target); target != e.camera.Position {
		e.camera.LookAt(target)
	}
	e.camera.Update(e.width, e.height)
	return nil
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return core.ErrNotInitialized
	}
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()

	e.lastTime = e.clock.Elapsed()

	for e.isRunning {
		if !e.platform.PumpMessages() {
			e.isRunning = false
			break
		}
		// listeners of queued events run here, on the thread owning the context
		core.EventDispatch()
		if !e.isRunning {
			break
		}

		width, height := e.platform.FramebufferSize()
		e.isSuspended = width == 0 || height == 0
		if e.isSuspended {
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		var currentTime float64 = e.clock.Elapsed()
		var delta float64 = (currentTime - e.lastTime)
		var frameStartTime float64 = e.platform.GetAbsoluteTime()

		if resized, err := e.systemManager.FramebufferSystem.CheckResize(width, height); err != nil {
			// nothing to render into, try again next frame
			core.LogError("failed to regenerate the render targets for %dx%d: %s", width, height, err)
			e.lastTime = currentTime
			continue
		} else if resized {
			core.LogDebug("render targets regenerated for %dx%d", width, height)
		}

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err)
			return err
		}

		frame, err := e.systemManager.FrameUpdater.Update(e.camera, width, height, delta)
		if err != nil {
			core.LogError("frame update failed: %s", err)
			return err
		}
		if err := e.pipeline.Render(e.camera, frame); err != nil {
			if errors.Is(err, systems.ErrIncompatibleLayout) {
				// content error, nothing sensible can be drawn anymore
				core.LogFatal("render failed: %s", err)
				return err
			}
			core.LogError("render failed: %s", err)
		}
		e.platform.SwapBuffers()

		var frameEndTime float64 = e.platform.GetAbsoluteTime()
		e.metrics.Update(frameEndTime - frameStartTime)
		if frame.Frame%600 == 0 {
			core.LogDebug("frame %d: %.2f fps, %.3f ms", frame.Frame, e.metrics.FPS(), e.metrics.FrameTime())
		}

		// Update last time
		e.lastTime = currentTime
	}

	return nil
}

// Shutdown must be called from the goroutine that ran Initialize.
func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown failed: %s", err)
		}
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.backend.Shutdown(); err != nil {
		return err
	}
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageUninitialized
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

// Metrics exposes the frame timings, read-only.
func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

// Limits exposes the device diagnostics, read-only.
func (e *Engine) Limits() metadata.DeviceLimits {
	return e.backend.Limits()
}

func (e *Engine) onEvent(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

// onResized only records the size; targets are regenerated once per frame by the loop.
func (e *Engine) onResized(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
	width, height := data.U32[0], data.U32[1]
	if width == e.width && height == e.height {
		return false
	}
	e.width, e.height = width, height
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError("game resize failed: %s", err)
	}
	return false
}
