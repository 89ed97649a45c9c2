package views

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/renderer/components"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
	"github.com/spaghettifunk/shoreline/engine/renderer/rendertest"
	"github.com/spaghettifunk/shoreline/engine/systems"
)

const meshInputs = `
#ifdef VERTEX
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aTexcoord;
layout(location = 3) in vec3 aTangent;
void main() { gl_Position = vec4(aPosition, 1.0); }
#endif
`

type shaderSources map[string]string

func (s shaderSources) ReadSource(path string) (string, time.Time, error) {
	src, ok := s[filepath.Base(path)]
	if !ok {
		return "", time.Time{}, os.ErrNotExist
	}
	return src, time.Unix(1700000000, 0), nil
}

var testSources = shaderSources{
	"forward.glsl":  meshInputs,
	"deferred.glsl": meshInputs,
	"water.glsl":    meshInputs,
}

type fixture struct {
	backend  *rendertest.Backend
	systems  *systems.SystemManager
	registry *systems.Registry
	pipeline *Pipeline
	camera   *components.Camera
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := rendertest.New()
	sm, err := systems.NewSystemManager(backend, systems.SystemManagerConfig{Sources: testSources, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := sm.Initialize(800, 600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := sm.Shutdown(); err != nil {
			t.Error(err)
		}
	})

	ctx := &RenderContext{
		Backend:      backend,
		Registry:     sm.Registry,
		Framebuffers: sm.FramebufferSystem,
		Updater:      sm.FrameUpdater,
		Primitives:   sm.Primitives,
	}
	p, err := NewPipeline(ctx, PipelineConfig{ShaderDir: "shaders", Water: DefaultWaterSettings()})
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{
		backend:  backend,
		systems:  sm,
		registry: sm.Registry,
		pipeline: p,
		camera:   components.NewCamera(),
	}
}

func (f *fixture) texture(t *testing.T, name string) metadata.TextureID {
	t.Helper()
	id := f.registry.CreateTexture(name, &metadata.ImageData{ChannelCount: 4, Width: 2, Height: 2, Pixels: make([]uint8, 16)})
	if id == metadata.InvalidTextureID {
		t.Fatalf("CreateTexture(%q) failed", name)
	}
	return id
}

func (f *fixture) material(t *testing.T, m *metadata.Material) metadata.MaterialID {
	t.Helper()
	id, err := f.registry.AddMaterial(m)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

// model adds a two submesh model using the given materials.
func (f *fixture) model(t *testing.T, materials ...metadata.MaterialID) metadata.ModelID {
	t.Helper()
	mesh, err := f.registry.AddMesh("two_parts", []metadata.SubmeshData{
		systems.GenerateFullscreenQuad(),
		systems.GeneratePlane(1, 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	id, err := f.registry.AddModel("two_parts", mesh, materials)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func (f *fixture) light(t *testing.T, lightType metadata.LightType, position mgl32.Vec3) {
	t.Helper()
	l := metadata.NewLight(lightType, mgl32.Vec3{1, 1, 1}, metadata.Attenuation{Constant: 1, Linear: 0.09, Quadratic: 0.032})
	l.Position = position
	if _, err := f.registry.AddLight(l); err != nil {
		t.Fatal(err)
	}
}

// render packs and renders one frame, recording only the render calls.
func (f *fixture) render(t *testing.T) *metadata.FrameData {
	t.Helper()
	frame, err := f.systems.FrameUpdater.Update(f.camera, 800, 600, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	f.backend.Reset()
	if err := f.pipeline.Render(f.camera, frame); err != nil {
		t.Fatal(err)
	}
	return frame
}

type drawState struct {
	Framebuffer metadata.FramebufferHandle
	Blend       metadata.BlendMode
	DepthTest   bool
	Culling     bool
	ClipPlane   bool
	LightIndex  int32
	Count       uint32
}

// draws replays the recorded state changes and snapshots them at every draw.
func draws(b *rendertest.Backend) []drawState {
	var s drawState
	var out []drawState
	for _, c := range b.Calls {
		switch c.Op {
		case "FramebufferBind":
			s.Framebuffer = c.Args[0].(metadata.FramebufferHandle)
		case "SetBlendMode":
			s.Blend = c.Args[0].(metadata.BlendMode)
		case "SetDepthTest":
			s.DepthTest = c.Args[0].(bool)
		case "SetFaceCulling":
			s.Culling = c.Args[0].(bool)
		case "SetClipPlane":
			s.ClipPlane = c.Args[0].(bool)
		case "SetUniformInt":
			if c.Args[1].(string) == "lightIndex" {
				s.LightIndex = c.Args[2].(int32)
			}
		case "DrawIndexed":
			d := s
			d.Count = c.Args[0].(uint32)
			out = append(out, d)
		}
	}
	return out
}

func drawsInto(b *rendertest.Backend, fb metadata.FramebufferHandle) []drawState {
	var out []drawState
	for _, d := range draws(b) {
		if d.Framebuffer == fb {
			out = append(out, d)
		}
	}
	return out
}

// uniformInts returns the values set for a uniform, in call order.
func uniformInts(b *rendertest.Backend, name string) []int32 {
	var out []int32
	for _, c := range b.CallsOf("SetUniformInt") {
		if c.Args[1].(string) == name {
			out = append(out, c.Args[2].(int32))
		}
	}
	return out
}

func uniformVec4s(b *rendertest.Backend, name string) []mgl32.Vec4 {
	var out []mgl32.Vec4
	for _, c := range b.CallsOf("SetUniformVec4") {
		if c.Args[1].(string) == name {
			out = append(out, c.Args[2].(mgl32.Vec4))
		}
	}
	return out
}

func uniformMat4s(b *rendertest.Backend, name string) []mgl32.Mat4 {
	var out []mgl32.Mat4
	for _, c := range b.CallsOf("SetUniformMat4") {
		if c.Args[1].(string) == name {
			out = append(out, c.Args[2].(mgl32.Mat4))
		}
	}
	return out
}

// textureBinds returns the textures bound to a unit, in call order.
func textureBinds(b *rendertest.Backend, unit uint32) []metadata.TextureHandle {
	var out []metadata.TextureHandle
	for _, c := range b.CallsOf("TextureBind") {
		if c.Args[0].(uint32) == unit {
			out = append(out, c.Args[1].(metadata.TextureHandle))
		}
	}
	return out
}

func equalInts(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
