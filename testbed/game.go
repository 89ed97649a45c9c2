package testbed

import (
	"github.com/spaghettifunk/shoreline/engine"
	"github.com/spaghettifunk/shoreline/engine/config"
	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/platform"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

// degrees per key press
const cameraStep float32 = 5.0

// degrees per second while orbiting
const orbitSpeed float32 = 15.0

type TestGame struct {
	*engine.Game
}

type gameState struct {
	width  uint32
	height uint32

	models []metadata.ModelID
	orbit  bool
}

func NewTestGame(c *config.Config) (*TestGame, error) {
	app, err := engine.NewApplicationConfig(c)
	if err != nil {
		return nil, err
	}
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: app,
			Config:            c,
			State:             &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) Initialize() error {
	core.LogInfo("initializing testbed...")
	state := g.State.(*gameState)

	models, err := loadScene(g.SystemManager, g.ApplicationConfig, g.Config)
	if err != nil {
		return err
	}
	state.models = models

	water := &g.Pipeline.Water
	water.NormalMap = loadWaterMap(g.SystemManager, g.ApplicationConfig, g.Config.Scene.Water.NormalMap)
	water.DudvMap = loadWaterMap(g.SystemManager, g.ApplicationConfig, g.Config.Scene.Water.DudvMap)

	state.orbit = g.Camera.Orbital
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, g, g.onKey)

	core.LogInfo("scene ready: %d models, %d lights, %s rendering, water %t",
		len(state.models), len(g.SystemManager.Registry.Lights), g.Pipeline.Mode, water.Enabled)
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	if state.orbit {
		g.Camera.Rotate(orbitSpeed*float32(deltaTime), 0)
	}
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)

	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	core.EventUnregister(core.EVENT_CODE_KEY_PRESSED, g)
	return nil
}

func (g *TestGame) onKey(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
	state := g.State.(*gameState)

	switch data.U32[0] {
	case platform.KeyF1:
		if g.Pipeline.Mode == metadata.RenderModeForward {
			g.Pipeline.Mode = metadata.RenderModeDeferred
		} else {
			g.Pipeline.Mode = metadata.RenderModeForward
		}
		core.LogInfo("render mode: %s", g.Pipeline.Mode)
	case platform.KeyF2:
		g.Pipeline.Water.Enabled = !g.Pipeline.Water.Enabled
		core.LogInfo("water: %t", g.Pipeline.Water.Enabled)
	case platform.KeyF3:
		g.Pipeline.Display = g.Pipeline.Display.Next()
		core.LogInfo("display: %s", g.Pipeline.Display)
	case platform.KeyLeft:
		g.Camera.Rotate(-cameraStep, 0)
	case platform.KeyRight:
		g.Camera.Rotate(cameraStep, 0)
	case platform.KeyUp:
		g.Camera.Rotate(0, cameraStep)
	case platform.KeyDown:
		g.Camera.Rotate(0, -cameraStep)
	case platform.KeyO:
		state.orbit = !state.orbit
		g.Camera.Orbital = state.orbit
	case platform.KeyP:
		pos := g.Camera.Position
		core.LogDebug("camera pos: [%.2f, %.2f, %.2f] yaw %.1f pitch %.1f", pos.X(), pos.Y(), pos.Z(), g.Camera.Yaw, g.Camera.Pitch)
	default:
		return false
	}
	return true
}
