// Package rendertest provides an in-memory renderer backend that records
// every call, for exercising the render systems without a GPU.
package rendertest

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

var ErrCompile = errors.New("shader compilation failed")

// Call is one recorded backend invocation.
type Call struct {
	Op   string
	Args []interface{}
}

type Buffer struct {
	Type    metadata.RenderBufferType
	Data    []byte
	staging []byte
}

type Program struct {
	VertexSource   string
	FragmentSource string
	Attributes     []metadata.ShaderAttribute
	Blocks         map[string]uint32
	Uniforms       map[string]interface{}
}

type VertexArray struct {
	VertexBuffer metadata.BufferHandle
	IndexBuffer  metadata.BufferHandle
	Stride       uint32
	Attributes   []metadata.VertexAttribute
}

type Framebuffer struct {
	Colors []metadata.TextureHandle
	Depth  metadata.TextureHandle
}

// Backend implements the renderer backend on plain Go memory.
type Backend struct {
	mu sync.Mutex

	DeviceLimits metadata.DeviceLimits
	// FailCompile makes every ProgramCreate report a compile error.
	FailCompile bool

	Calls        []Call
	Buffers      map[metadata.BufferHandle]*Buffer
	Textures     map[metadata.TextureHandle]metadata.TextureDesc
	Programs     map[metadata.ProgramHandle]*Program
	VertexArrays map[metadata.VertexArrayHandle]*VertexArray
	Framebuffers map[metadata.FramebufferHandle]*Framebuffer

	// Bound state
	Framebuffer  metadata.FramebufferHandle
	Viewport     [2]uint32
	Program      metadata.ProgramHandle
	VertexArray  metadata.VertexArrayHandle
	TextureUnits map[uint32]metadata.TextureHandle
	BlendMode    metadata.BlendMode
	DepthTest    bool
	DepthWrite   bool
	FaceCulling  bool
	ClipPlane    bool

	nextHandle uint32
}

func New() *Backend {
	return &Backend{
		DeviceLimits: metadata.DeviceLimits{
			UniformBufferOffsetAlignment: 256,
			MaxUniformBlockSize:          65536,
			Vendor:                       "rendertest",
			Renderer:                     "in-memory",
			Version:                      "4.1",
			ShadingLanguage:              "4.10",
		},
		Buffers:      make(map[metadata.BufferHandle]*Buffer),
		Textures:     make(map[metadata.TextureHandle]metadata.TextureDesc),
		Programs:     make(map[metadata.ProgramHandle]*Program),
		VertexArrays: make(map[metadata.VertexArrayHandle]*VertexArray),
		Framebuffers: make(map[metadata.FramebufferHandle]*Framebuffer),
		TextureUnits: make(map[uint32]metadata.TextureHandle),
		DepthTest:    true,
		DepthWrite:   true,
	}
}

func (b *Backend) record(op string, args ...interface{}) {
	b.Calls = append(b.Calls, Call{Op: op, Args: args})
}

func (b *Backend) handle() uint32 {
	b.nextHandle++
	return b.nextHandle
}

// Reset forgets the recorded calls but keeps every object alive.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = nil
}

// CallsOf returns the recorded calls with the given op, in order.
func (b *Backend) CallsOf(op string) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Call
	for _, c := range b.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many calls with the given op were recorded.
func (b *Backend) Count(op string) int {
	return len(b.CallsOf(op))
}

func (b *Backend) Initialize(appName string, width, height uint32) error {
	b.record("Initialize", appName, width, height)
	return nil
}

func (b *Backend) Shutdown() error {
	b.record("Shutdown")
	return nil
}

func (b *Backend) Limits() metadata.DeviceLimits {
	return b.DeviceLimits
}

func (b *Backend) BufferCreate(bufferType metadata.RenderBufferType, size uint64, data []byte) (metadata.BufferHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := metadata.BufferHandle(b.handle())
	buf := &Buffer{Type: bufferType, Data: make([]byte, size)}
	copy(buf.Data, data)
	b.Buffers[h] = buf
	b.record("BufferCreate", h, bufferType, size)
	return h, nil
}

func (b *Backend) BufferDestroy(buffer metadata.BufferHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.Buffers, buffer)
	b.record("BufferDestroy", buffer)
}

func (b *Backend) BufferMap(buffer metadata.BufferHandle, size uint64) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, ok := b.Buffers[buffer]
	if !ok {
		return nil, fmt.Errorf("buffer %d does not exist", buffer)
	}
	if buf.staging != nil {
		return nil, fmt.Errorf("buffer %d already mapped", buffer)
	}
	if size > uint64(len(buf.Data)) {
		size = uint64(len(buf.Data))
	}
	buf.staging = make([]byte, size)
	b.record("BufferMap", buffer, size)
	return buf.staging, nil
}

func (b *Backend) BufferUnmap(buffer metadata.BufferHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, ok := b.Buffers[buffer]
	if !ok || buf.staging == nil {
		return fmt.Errorf("buffer %d is not mapped", buffer)
	}
	copy(buf.Data, buf.staging)
	buf.staging = nil
	b.record("BufferUnmap", buffer)
	return nil
}

func (b *Backend) BufferBindRange(binding uint32, buffer metadata.BufferHandle, offset, size uint64) {
	b.record("BufferBindRange", binding, buffer, offset, size)
}

func (b *Backend) TextureCreate(desc metadata.TextureDesc, pixels []byte) (metadata.TextureHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if desc.Width == 0 || desc.Height == 0 {
		return 0, fmt.Errorf("invalid texture size %dx%d", desc.Width, desc.Height)
	}
	h := metadata.TextureHandle(b.handle())
	b.Textures[h] = desc
	b.record("TextureCreate", h, desc)
	return h, nil
}

func (b *Backend) TextureDestroy(texture metadata.TextureHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.Textures, texture)
	b.record("TextureDestroy", texture)
}

func (b *Backend) TextureBind(unit uint32, texture metadata.TextureHandle) {
	b.TextureUnits[unit] = texture
	b.record("TextureBind", unit, texture)
}

var attributePattern = regexp.MustCompile(`layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*in\s+(float|vec2|vec3|vec4)\s+(\w+)`)

// ProgramCreate reflects vertex inputs declared as "layout(location = N) in vecK name".
func (b *Backend) ProgramCreate(vertexSource, fragmentSource string) (metadata.ProgramHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := metadata.ProgramHandle(b.handle())
	p := &Program{
		VertexSource:   vertexSource,
		FragmentSource: fragmentSource,
		Blocks:         make(map[string]uint32),
		Uniforms:       make(map[string]interface{}),
	}
	for _, m := range attributePattern.FindAllStringSubmatch(vertexSource, -1) {
		loc, _ := strconv.Atoi(m[1])
		components := int32(1)
		switch m[2] {
		case "vec2":
			components = 2
		case "vec3":
			components = 3
		case "vec4":
			components = 4
		}
		p.Attributes = append(p.Attributes, metadata.ShaderAttribute{Name: m[3], Location: uint32(loc), Components: components})
	}
	b.Programs[h] = p
	b.record("ProgramCreate", h)
	if b.FailCompile {
		return h, ErrCompile
	}
	return h, nil
}

func (b *Backend) ProgramDestroy(program metadata.ProgramHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.Programs, program)
	b.record("ProgramDestroy", program)
}

func (b *Backend) ProgramAttributes(program metadata.ProgramHandle) []metadata.ShaderAttribute {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.Programs[program]; ok {
		return append([]metadata.ShaderAttribute(nil), p.Attributes...)
	}
	return nil
}

func (b *Backend) ProgramBindUniformBlock(program metadata.ProgramHandle, block string, binding uint32) {
	if p, ok := b.Programs[program]; ok {
		p.Blocks[block] = binding
	}
	b.record("ProgramBindUniformBlock", program, block, binding)
}

func (b *Backend) ProgramUse(program metadata.ProgramHandle) {
	b.Program = program
	b.record("ProgramUse", program)
}

func (b *Backend) setUniform(op string, program metadata.ProgramHandle, name string, value interface{}) {
	if p, ok := b.Programs[program]; ok {
		p.Uniforms[name] = value
	}
	b.record(op, program, name, value)
}

func (b *Backend) SetUniformInt(program metadata.ProgramHandle, name string, value int32) {
	b.setUniform("SetUniformInt", program, name, value)
}

func (b *Backend) SetUniformFloat(program metadata.ProgramHandle, name string, value float32) {
	b.setUniform("SetUniformFloat", program, name, value)
}

func (b *Backend) SetUniformVec4(program metadata.ProgramHandle, name string, value mgl32.Vec4) {
	b.setUniform("SetUniformVec4", program, name, value)
}

func (b *Backend) SetUniformMat4(program metadata.ProgramHandle, name string, value mgl32.Mat4) {
	b.setUniform("SetUniformMat4", program, name, value)
}

func (b *Backend) VertexArrayCreate(vertexBuffer, indexBuffer metadata.BufferHandle, stride uint32, attributes []metadata.VertexAttribute) (metadata.VertexArrayHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := metadata.VertexArrayHandle(b.handle())
	b.VertexArrays[h] = &VertexArray{
		VertexBuffer: vertexBuffer,
		IndexBuffer:  indexBuffer,
		Stride:       stride,
		Attributes:   append([]metadata.VertexAttribute(nil), attributes...),
	}
	b.record("VertexArrayCreate", h, vertexBuffer, indexBuffer)
	return h, nil
}

func (b *Backend) VertexArrayDestroy(vertexArray metadata.VertexArrayHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.VertexArrays, vertexArray)
	b.record("VertexArrayDestroy", vertexArray)
}

func (b *Backend) VertexArrayBind(vertexArray metadata.VertexArrayHandle) {
	b.VertexArray = vertexArray
	b.record("VertexArrayBind", vertexArray)
}

// FramebufferCreate mirrors driver completeness rules: every attachment must
// exist, share one size, and sit in a slot matching its format.
func (b *Backend) FramebufferCreate(colors []metadata.TextureHandle, depth metadata.TextureHandle) (metadata.FramebufferHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(colors) == 0 && depth == 0 {
		return 0, errors.New("framebuffer incomplete: missing attachment")
	}
	var w, h uint32
	check := func(t metadata.TextureHandle, wantDepth bool) error {
		desc, ok := b.Textures[t]
		if !ok {
			return fmt.Errorf("framebuffer incomplete: texture %d does not exist", t)
		}
		if desc.Format.IsDepth() != wantDepth {
			return fmt.Errorf("framebuffer incomplete: texture %d attached to the wrong slot", t)
		}
		if w == 0 {
			w, h = desc.Width, desc.Height
		} else if desc.Width != w || desc.Height != h {
			return fmt.Errorf("framebuffer incomplete: attachment %d is %dx%d, expected %dx%d", t, desc.Width, desc.Height, w, h)
		}
		return nil
	}
	for _, c := range colors {
		if err := check(c, false); err != nil {
			return 0, err
		}
	}
	if depth != 0 {
		if err := check(depth, true); err != nil {
			return 0, err
		}
	}
	fb := metadata.FramebufferHandle(b.handle())
	b.Framebuffers[fb] = &Framebuffer{Colors: append([]metadata.TextureHandle(nil), colors...), Depth: depth}
	b.record("FramebufferCreate", fb)
	return fb, nil
}

func (b *Backend) FramebufferDestroy(framebuffer metadata.FramebufferHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.Framebuffers, framebuffer)
	b.record("FramebufferDestroy", framebuffer)
}

func (b *Backend) FramebufferBind(framebuffer metadata.FramebufferHandle, width, height uint32) {
	b.Framebuffer = framebuffer
	b.Viewport = [2]uint32{width, height}
	b.record("FramebufferBind", framebuffer, width, height)
}

func (b *Backend) FramebufferBlit(src metadata.FramebufferHandle, attachment uint32, dst metadata.FramebufferHandle, width, height uint32) {
	b.record("FramebufferBlit", src, attachment, dst, width, height)
}

func (b *Backend) Clear(flags metadata.ClearFlag, color mgl32.Vec4) {
	b.record("Clear", b.Framebuffer, flags)
}

func (b *Backend) SetBlendMode(mode metadata.BlendMode) {
	b.BlendMode = mode
	b.record("SetBlendMode", mode)
}

func (b *Backend) SetDepthTest(enabled bool) {
	b.DepthTest = enabled
	b.record("SetDepthTest", enabled)
}

func (b *Backend) SetDepthWrite(enabled bool) {
	b.DepthWrite = enabled
	b.record("SetDepthWrite", enabled)
}

func (b *Backend) SetFaceCulling(enabled bool) {
	b.FaceCulling = enabled
	b.record("SetFaceCulling", enabled)
}

func (b *Backend) SetClipPlane(enabled bool) {
	b.ClipPlane = enabled
	b.record("SetClipPlane", enabled)
}

func (b *Backend) DrawIndexed(count uint32, offset uint64) {
	b.record("DrawIndexed", count, offset, b.Framebuffer, b.Program, b.VertexArray)
}
