package views

import (
	"encoding/binary"
	stdmath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
	"github.com/spaghettifunk/shoreline/engine/systems"
)

func readMat4(data []byte, offset uint64) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range m {
		m[i] = stdmath.Float32frombits(binary.LittleEndian.Uint32(data[offset+uint64(i*4):]))
	}
	return m
}

func TestDeferredLightState(t *testing.T) {
	f := newFixture(t)
	f.pipeline.Mode = metadata.RenderModeDeferred
	f.model(t, 0, 0)
	f.light(t, metadata.LightTypePoint, mgl32.Vec3{3, 4, 5})
	f.light(t, metadata.LightTypeAmbient, mgl32.Vec3{})
	f.light(t, metadata.LightTypeDirectional, mgl32.Vec3{})
	f.render(t)

	fbs := f.systems.FramebufferSystem
	for i, d := range drawsInto(f.backend, fbs.Forward.Framebuffer) {
		if d.Blend != metadata.BlendNone || !d.DepthTest {
			t.Errorf("geometry draw %d state = %+v", i, d)
		}
	}

	sphere := f.registry.Meshes[f.systems.Primitives.Sphere].Submeshes[0].IndexCount()
	want := []drawState{
		{Framebuffer: fbs.Deferred.Framebuffer, Blend: metadata.BlendAlpha, DepthTest: true, Culling: true, LightIndex: 1, Count: 6},
		{Framebuffer: fbs.Deferred.Framebuffer, Blend: metadata.BlendAdditive, DepthTest: false, Culling: false, LightIndex: 0, Count: sphere},
		{Framebuffer: fbs.Deferred.Framebuffer, Blend: metadata.BlendAdditive, DepthTest: true, Culling: true, LightIndex: 2, Count: 6},
	}
	got := drawsInto(f.backend, fbs.Deferred.Framebuffer)
	if len(got) != len(want) {
		t.Fatalf("%d light draws, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("light draw %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDeferredBindsGBuffer(t *testing.T) {
	f := newFixture(t)
	f.pipeline.Mode = metadata.RenderModeDeferred
	f.model(t, 0, 0)
	f.light(t, metadata.LightTypeAmbient, mgl32.Vec3{})
	f.render(t)

	colors := f.systems.FramebufferSystem.Forward.Colors
	units := []struct {
		unit       uint32
		attachment int
	}{
		{metadata.TextureUnitGAlbedo, systems.ForwardAttachmentAlbedo},
		{metadata.TextureUnitGNormal, systems.ForwardAttachmentNormal},
		{metadata.TextureUnitGPosition, systems.ForwardAttachmentPosition},
		{metadata.TextureUnitGSpecular, systems.ForwardAttachmentSpecular},
	}
	for _, u := range units {
		binds := textureBinds(f.backend, u.unit)
		if len(binds) == 0 || binds[len(binds)-1] != colors[u.attachment].Handle {
			t.Errorf("unit %d last bound %v, want attachment %d", u.unit, binds, u.attachment)
		}
	}

	blits := f.backend.CallsOf("FramebufferBlit")
	if len(blits) != 1 || blits[0].Args[0] != f.systems.FramebufferSystem.Deferred.Framebuffer || blits[0].Args[1] != uint32(0) {
		t.Errorf("blits = %v, want the deferred composite", blits)
	}
}

func TestLightTransformRewrittenPerLight(t *testing.T) {
	f := newFixture(t)
	f.pipeline.Mode = metadata.RenderModeDeferred
	f.light(t, metadata.LightTypeAmbient, mgl32.Vec3{})
	f.light(t, metadata.LightTypePoint, mgl32.Vec3{1, 0, 0})
	f.light(t, metadata.LightTypeDirectional, mgl32.Vec3{})
	f.render(t)

	var binds []metadata.BufferHandle
	var last []interface{}
	for _, c := range f.backend.CallsOf("BufferBindRange") {
		if c.Args[0] == metadata.UniformBindingLightTransform {
			binds = append(binds, c.Args[1].(metadata.BufferHandle))
			last = c.Args
		}
	}
	if len(binds) != 3 {
		t.Fatalf("%d light transform binds, want 3", len(binds))
	}
	maps := 0
	for _, c := range f.backend.CallsOf("BufferMap") {
		if c.Args[0] == binds[0] {
			maps++
		}
	}
	if maps != 3 {
		t.Errorf("light transform mapped %d times, want once per light", maps)
	}
	// the directional light is drawn last
	data := f.backend.Buffers[last[1].(metadata.BufferHandle)].Data
	if got := readMat4(data, last[2].(uint64)); got != mgl32.Ident4() {
		t.Errorf("last light transform = %v, want identity", got)
	}
}

func TestPointLightTransform(t *testing.T) {
	f := newFixture(t)
	frame := f.render(t)
	light := metadata.NewLight(metadata.LightTypePoint, mgl32.Vec3{1, 0.5, 0.2}, metadata.Attenuation{Constant: 1, Linear: 0.09, Quadratic: 0.032})
	light.Position = mgl32.Vec3{3, 4, 5}
	r := light.Radius()

	got := PointLightTransform(frame, light).Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	want := viewProjection(frame).Mul4x1(mgl32.Vec4{3 + r, 4, 5, 1})
	if !got.ApproxEqualThreshold(want, 1e-3) {
		t.Errorf("sphere edge = %v, want %v", got, want)
	}
}

func TestPointLightRadiusRoot(t *testing.T) {
	a := metadata.Attenuation{Constant: 1.0, Linear: 0.09, Quadratic: 0.032}
	light := metadata.NewLight(metadata.LightTypePoint, mgl32.Vec3{1, 1, 1}, a)
	r := float64(light.Radius())
	residual := float64(a.Quadratic)*r*r + float64(a.Linear)*r - (256.0/5.0 - float64(a.Constant))
	if r <= 0 || stdmath.Abs(residual) > 1e-3 {
		t.Errorf("radius %f leaves residual %f", r, residual)
	}
}

func TestLightDrawerFor(t *testing.T) {
	tests := []struct {
		light metadata.LightType
		want  LightDrawer
	}{
		{metadata.LightTypeAmbient, AmbientLight{}},
		{metadata.LightTypeDirectional, DirectionalLight{}},
		{metadata.LightTypePoint, PointLight{}},
	}
	for _, tt := range tests {
		got, err := LightDrawerFor(tt.light)
		if err != nil || got != tt.want {
			t.Errorf("LightDrawerFor(%s) = %T, %v", tt.light, got, err)
		}
	}
	if _, err := LightDrawerFor(metadata.LightType(9)); err == nil {
		t.Error("LightDrawerFor() accepted an unknown light type")
	}
}
