package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

// Backend is the GPU API seen by the engine. Every call must happen on the
// goroutine that owns the rendering context.
type Backend interface {
	Initialize(appName string, width, height uint32) error
	Shutdown() error
	Limits() metadata.DeviceLimits

	// Buffers
	BufferCreate(bufferType metadata.RenderBufferType, size uint64, data []byte) (metadata.BufferHandle, error)
	BufferDestroy(buffer metadata.BufferHandle)
	// BufferMap exposes size bytes of the buffer for writing. The slice is only
	// valid until BufferUnmap.
	BufferMap(buffer metadata.BufferHandle, size uint64) ([]byte, error)
	BufferUnmap(buffer metadata.BufferHandle) error
	BufferBindRange(binding uint32, buffer metadata.BufferHandle, offset, size uint64)

	// Textures
	TextureCreate(desc metadata.TextureDesc, pixels []byte) (metadata.TextureHandle, error)
	TextureDestroy(texture metadata.TextureHandle)
	TextureBind(unit uint32, texture metadata.TextureHandle)

	// Programs
	ProgramCreate(vertexSource, fragmentSource string) (metadata.ProgramHandle, error)
	ProgramDestroy(program metadata.ProgramHandle)
	ProgramAttributes(program metadata.ProgramHandle) []metadata.ShaderAttribute
	ProgramBindUniformBlock(program metadata.ProgramHandle, block string, binding uint32)
	ProgramUse(program metadata.ProgramHandle)
	SetUniformInt(program metadata.ProgramHandle, name string, value int32)
	SetUniformFloat(program metadata.ProgramHandle, name string, value float32)
	SetUniformVec4(program metadata.ProgramHandle, name string, value mgl32.Vec4)
	SetUniformMat4(program metadata.ProgramHandle, name string, value mgl32.Mat4)

	// Vertex arrays
	VertexArrayCreate(vertexBuffer, indexBuffer metadata.BufferHandle, stride uint32, attributes []metadata.VertexAttribute) (metadata.VertexArrayHandle, error)
	VertexArrayDestroy(vertexArray metadata.VertexArrayHandle)
	VertexArrayBind(vertexArray metadata.VertexArrayHandle)

	// Framebuffers
	FramebufferCreate(colors []metadata.TextureHandle, depth metadata.TextureHandle) (metadata.FramebufferHandle, error)
	FramebufferDestroy(framebuffer metadata.FramebufferHandle)
	// FramebufferBind binds a target and sets the viewport. Handle 0 is the window.
	FramebufferBind(framebuffer metadata.FramebufferHandle, width, height uint32)
	// FramebufferBlit copies color attachment `attachment` of src into dst (0 is the window).
	FramebufferBlit(src metadata.FramebufferHandle, attachment uint32, dst metadata.FramebufferHandle, width, height uint32)

	// Fixed function state
	Clear(flags metadata.ClearFlag, color mgl32.Vec4)
	SetBlendMode(mode metadata.BlendMode)
	SetDepthTest(enabled bool)
	SetDepthWrite(enabled bool)
	SetFaceCulling(enabled bool)
	SetClipPlane(enabled bool)

	// DrawIndexed draws count uint32 indices starting at byte offset of the bound index buffer.
	DrawIndexed(count uint32, offset uint64)
}
