package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/shoreline/engine/core"
)

var startTime float64 = 0

/** @brief Key codes carried by EVENT_CODE_KEY_PRESSED in data.U32[0]. */
const (
	KeyLeft  uint32 = uint32(glfw.KeyLeft)
	KeyRight uint32 = uint32(glfw.KeyRight)
	KeyUp    uint32 = uint32(glfw.KeyUp)
	KeyDown  uint32 = uint32(glfw.KeyDown)
	KeyF1    uint32 = uint32(glfw.KeyF1)
	KeyF2    uint32 = uint32(glfw.KeyF2)
	KeyF3    uint32 = uint32(glfw.KeyF3)
	KeyO     uint32 = uint32(glfw.KeyO)
	KeyP     uint32 = uint32(glfw.KeyP)
)

func init() {
	// GLFW event handling and the GL context must stay on the main OS thread
	runtime.LockOSThread()
}

type Platform struct {
	Window *glfw.Window
}

func New() (*Platform, error) {
	return &Platform{
		Window: nil,
	}, nil
}

/**
 * @brief Opens the window and makes an OpenGL 4.1 core context current on
 * the calling thread.
 */
func (p *Platform) Startup(applicationName string, x uint32, y uint32, width uint32, height uint32, vsync bool) error {
	if err := glfw.Init(); err != nil {
		core.LogFatal("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogFatal("failed to create window: %s", err)
		return err
	}
	window.MakeContextCurrent()
	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	p.Window = window

	p.Window.SetKeyCallback(keyCallback)
	p.Window.SetFramebufferSizeCallback(framebufferSizeCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	startTime = glfw.GetTime()

	return nil
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

// PumpMessages polls the OS events. Returns false once the window was asked to close.
func (p *Platform) PumpMessages() bool {
	glfw.PollEvents()
	return !p.Window.ShouldClose()
}

func (p *Platform) SwapBuffers() {
	p.Window.SwapBuffers()
}

// FramebufferSize returns the drawable size in pixels, which differs from the
// window size on high density displays.
func (p *Platform) FramebufferSize() (uint32, uint32) {
	w, h := p.Window.GetFramebufferSize()
	return uint32(w), uint32(h)
}

// GetAbsoluteTime returns the seconds since the platform started.
func (p *Platform) GetAbsoluteTime() float64 {
	return glfw.GetTime() - startTime
}

func keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Release {
		return
	}
	if key == glfw.KeyEscape {
		core.EventQueue(core.EVENT_CODE_APPLICATION_QUIT, nil, core.EventContext{})
		return
	}
	core.EventQueue(core.EVENT_CODE_KEY_PRESSED, nil, core.EventContext{
		U32: [4]uint32{uint32(key)},
	})
}

func framebufferSizeCallback(w *glfw.Window, width, height int) {
	// minimized windows report a zero size, nothing to render into
	if width <= 0 || height <= 0 {
		return
	}
	core.EventQueue(core.EVENT_CODE_RESIZED, nil, core.EventContext{
		U32: [4]uint32{uint32(width), uint32(height)},
	})
}
