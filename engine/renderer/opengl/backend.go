package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/platform"
	"github.com/spaghettifunk/shoreline/engine/renderer"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

var _ renderer.Backend = (*OpenGLRenderer)(nil)

type bufferInfo struct {
	target uint32
	size   uint64
	mapped bool
}

type programInfo struct {
	uniforms map[string]int32
}

/**
 * @brief OpenGL 4.1 core implementation of the renderer backend. Every
 * method must run on the goroutine that owns the context of the platform
 * window.
 */
type OpenGLRenderer struct {
	platform *platform.Platform
	limits   metadata.DeviceLimits

	buffers  map[metadata.BufferHandle]*bufferInfo
	programs map[metadata.ProgramHandle]*programInfo
	// color attachment count per framebuffer
	framebufferColors map[metadata.FramebufferHandle]int
}

func New(p *platform.Platform) *OpenGLRenderer {
	return &OpenGLRenderer{
		platform:          p,
		buffers:           make(map[metadata.BufferHandle]*bufferInfo),
		programs:          make(map[metadata.ProgramHandle]*programInfo),
		framebufferColors: make(map[metadata.FramebufferHandle]int),
	}
}

func (r *OpenGLRenderer) Initialize(appName string, width, height uint32) error {
	if r.platform != nil && r.platform.Window != nil {
		r.platform.Window.MakeContextCurrent()
	}
	if err := gl.Init(); err != nil {
		core.LogFatal("failed to initialize OpenGL: %s", err)
		return err
	}

	var alignment, blockSize int32
	gl.GetIntegerv(gl.UNIFORM_BUFFER_OFFSET_ALIGNMENT, &alignment)
	gl.GetIntegerv(gl.MAX_UNIFORM_BLOCK_SIZE, &blockSize)
	r.limits = metadata.DeviceLimits{
		UniformBufferOffsetAlignment: uint64(alignment),
		MaxUniformBlockSize:          uint64(blockSize),
		Vendor:                       gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer:                     gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:                      gl.GoStr(gl.GetString(gl.VERSION)),
		ShadingLanguage:              gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	var extensions int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &extensions)
	for i := int32(0); i < extensions; i++ {
		r.limits.Extensions = append(r.limits.Extensions, gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i))))
	}

	core.LogInfo("%s: OpenGL %s on %s (%s)", appName, r.limits.Version, r.limits.Renderer, r.limits.Vendor)
	core.LogDebug("GLSL %s, uniform buffer alignment %d, max uniform block %d bytes, %d extensions",
		r.limits.ShadingLanguage, alignment, blockSize, extensions)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Viewport(0, 0, int32(width), int32(height))
	return checkError("initialize")
}

func (r *OpenGLRenderer) Shutdown() error {
	for h := range r.buffers {
		r.BufferDestroy(h)
	}
	for h := range r.programs {
		r.ProgramDestroy(h)
	}
	return nil
}

func (r *OpenGLRenderer) Limits() metadata.DeviceLimits {
	return r.limits
}

func (r *OpenGLRenderer) Clear(flags metadata.ClearFlag, color mgl32.Vec4) {
	var mask uint32
	if flags&metadata.ClearColor != 0 {
		gl.ClearColor(color.X(), color.Y(), color.Z(), color.W())
		mask |= gl.COLOR_BUFFER_BIT
	}
	if flags&metadata.ClearDepth != 0 {
		// a disabled depth mask would turn the clear into a no-op
		gl.DepthMask(true)
		mask |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(mask)
}

func (r *OpenGLRenderer) SetBlendMode(mode metadata.BlendMode) {
	switch mode {
	case metadata.BlendNone:
		gl.Disable(gl.BLEND)
	case metadata.BlendAlpha:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	case metadata.BlendAdditive:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.ONE, gl.ONE)
	}
}

func (r *OpenGLRenderer) SetDepthTest(enabled bool) {
	toggle(gl.DEPTH_TEST, enabled)
}

func (r *OpenGLRenderer) SetDepthWrite(enabled bool) {
	gl.DepthMask(enabled)
}

func (r *OpenGLRenderer) SetFaceCulling(enabled bool) {
	toggle(gl.CULL_FACE, enabled)
}

func (r *OpenGLRenderer) SetClipPlane(enabled bool) {
	toggle(gl.CLIP_DISTANCE0, enabled)
}

func (r *OpenGLRenderer) DrawIndexed(count uint32, offset uint64) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, uintptr(offset))
}

func toggle(capability uint32, enabled bool) {
	if enabled {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

var errorNames = map[uint32]string{
	gl.INVALID_ENUM:                  "GL_INVALID_ENUM",
	gl.INVALID_VALUE:                 "GL_INVALID_VALUE",
	gl.INVALID_OPERATION:             "GL_INVALID_OPERATION",
	gl.INVALID_FRAMEBUFFER_OPERATION: "GL_INVALID_FRAMEBUFFER_OPERATION",
	gl.OUT_OF_MEMORY:                 "GL_OUT_OF_MEMORY",
}

// checkError drains the GL error queue into a single error.
func checkError(op string) error {
	var names []string
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		name, ok := errorNames[code]
		if !ok {
			name = fmt.Sprintf("0x%x", code)
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %s", op, strings.Join(names, ", "))
}
