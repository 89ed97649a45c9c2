package views

import (
	stdmath "math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/renderer/components"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

/** @brief Plain, GUI editable water settings. */
type WaterSettings struct {
	Enabled bool
	/** @brief Height of the water plane on the Y axis. */
	Height float32
	/** @brief Side length of the water quad. */
	Size      float32
	NormalMap metadata.OptionalTexture
	DudvMap   metadata.OptionalTexture
	/** @brief How many times per second the distortion scrolls over the whole dudv map. */
	WaveSpeed float32
}

func DefaultWaterSettings() WaterSettings {
	return WaterSettings{
		Height:    0,
		Size:      100,
		WaveSpeed: 0.03,
	}
}

/**
 * @brief Renders the scene into the refraction and reflection targets with a
 * clip plane at the water height, then composites the water quad sampling
 * both over the main view output.
 */
type RenderViewWater struct {
	SurfaceProgram   metadata.ProgramID
	CompositeProgram metadata.ProgramID
}

func NewRenderViewWater(surface, composite metadata.ProgramID) *RenderViewWater {
	return &RenderViewWater{SurfaceProgram: surface, CompositeProgram: composite}
}

// RefractionPlane keeps what lies below the water.
func RefractionPlane(height float32) mgl32.Vec4 {
	return mgl32.Vec4{0, -1, 0, height}
}

// ReflectionPlane keeps what lies above the water.
func ReflectionPlane(height float32) mgl32.Vec4 {
	return mgl32.Vec4{0, 1, 0, -height}
}

// RenderPrePasses fills the refraction target, then the reflection target.
func (v *RenderViewWater) RenderPrePasses(ctx *RenderContext, camera *components.Camera, frame *metadata.FrameData, water WaterSettings) error {
	refraction := camera.Projection.Mul4(camera.View)
	if err := v.surfacePass(ctx, ctx.Framebuffers.Refraction, RefractionPlane(water.Height), refraction); err != nil {
		return err
	}
	reflected := camera.Reflected(water.Height, frame.Width, frame.Height)
	reflection := reflected.Projection.Mul4(reflected.View)
	if err := v.surfacePass(ctx, ctx.Framebuffers.Reflection, ReflectionPlane(water.Height), reflection); err != nil {
		return err
	}
	ctx.Backend.SetClipPlane(false)
	return nil
}

func (v *RenderViewWater) surfacePass(ctx *RenderContext, target *metadata.RenderTarget, plane mgl32.Vec4, viewProjection mgl32.Mat4) error {
	ctx.bindTarget(target)
	ctx.Backend.Clear(metadata.ClearColor|metadata.ClearDepth, mgl32.Vec4{})
	ctx.Backend.SetBlendMode(metadata.BlendAlpha)
	ctx.Backend.SetDepthTest(true)
	ctx.Backend.SetDepthWrite(true)
	ctx.Backend.SetFaceCulling(true)
	ctx.Backend.SetClipPlane(true)

	program, err := ctx.program(v.SurfaceProgram)
	if err != nil {
		return err
	}
	ctx.Backend.SetUniformInt(program.Handle, "albedoMap", int32(metadata.TextureUnitAlbedo))
	ctx.Backend.SetUniformVec4(program.Handle, "clipPlane", plane)
	ctx.Backend.SetUniformMat4(program.Handle, "viewProjection", viewProjection)
	return ctx.drawScene(program, v.SurfaceProgram, func(program *metadata.Program, _ int, model *metadata.Model, submesh int) error {
		material := ctx.Registry.Material(model.Material(submesh))
		ctx.Backend.TextureBind(metadata.TextureUnitAlbedo, ctx.Registry.TextureOrDefault(material.Albedo).Handle)
		ctx.Backend.SetUniformVec4(program.Handle, "albedoTint", material.AlbedoTint)
		ctx.Backend.SetUniformMat4(program.Handle, "world", model.World)
		return nil
	})
}

var waterSamplers = map[string]uint32{
	"reflectionMap":   metadata.TextureUnitReflection,
	"reflectionDepth": metadata.TextureUnitReflectionDepth,
	"refractionMap":   metadata.TextureUnitRefraction,
	"refractionDepth": metadata.TextureUnitRefractionDepth,
	"normalMap":       metadata.TextureUnitWaterNormal,
	"dudvMap":         metadata.TextureUnitWaterDudv,
	"sceneDepth":      metadata.TextureUnitSceneDepth,
}

// WaterWorld places the unit water quad at the water height.
func WaterWorld(water WaterSettings) mgl32.Mat4 {
	return mgl32.Translate3D(0, water.Height, 0).Mul4(mgl32.Scale3D(water.Size, 1, water.Size))
}

// MoveFactor is the scroll offset of the distortion at the given time, in [0, 1).
func MoveFactor(seconds float64, speed float32) float32 {
	f := stdmath.Mod(seconds*float64(speed), 1)
	if f < 0 {
		f++
	}
	return float32(f)
}

/**
 * @brief Draws the water quad over target. The deferred composite target
 * has no depth attachment, so the scene depth gets sampled instead and the
 * shader discards occluded fragments itself.
 */
func (v *RenderViewWater) Composite(ctx *RenderContext, target *metadata.RenderTarget, frame *metadata.FrameData, water WaterSettings, sampleSceneDepth bool) error {
	ctx.bindTarget(target)
	ctx.Backend.SetBlendMode(metadata.BlendAlpha)
	ctx.Backend.SetFaceCulling(false)
	ctx.Backend.SetDepthTest(!sampleSceneDepth)
	ctx.Backend.SetDepthWrite(false)

	program, err := ctx.program(v.CompositeProgram)
	if err != nil {
		return err
	}
	ctx.bindSamplers(program.Handle, waterSamplers)

	fbs := ctx.Framebuffers
	ctx.Backend.TextureBind(metadata.TextureUnitReflection, fbs.Reflection.Colors[0].Handle)
	ctx.Backend.TextureBind(metadata.TextureUnitReflectionDepth, fbs.Reflection.Depth.Handle)
	ctx.Backend.TextureBind(metadata.TextureUnitRefraction, fbs.Refraction.Colors[0].Handle)
	ctx.Backend.TextureBind(metadata.TextureUnitRefractionDepth, fbs.Refraction.Depth.Handle)
	ctx.Backend.TextureBind(metadata.TextureUnitWaterNormal, ctx.Registry.TextureOrDefault(water.NormalMap).Handle)
	ctx.Backend.TextureBind(metadata.TextureUnitWaterDudv, ctx.Registry.TextureOrDefault(water.DudvMap).Handle)
	if sampleSceneDepth {
		ctx.Backend.TextureBind(metadata.TextureUnitSceneDepth, fbs.Forward.Depth.Handle)
		ctx.Backend.SetUniformInt(program.Handle, "hasSceneDepth", 1)
	} else {
		ctx.Backend.SetUniformInt(program.Handle, "hasSceneDepth", 0)
	}

	position := frame.Camera.Position
	ctx.Backend.SetUniformMat4(program.Handle, "world", WaterWorld(water))
	ctx.Backend.SetUniformMat4(program.Handle, "viewProjection", viewProjection(frame))
	ctx.Backend.SetUniformMat4(program.Handle, "projection", frame.Camera.Projection)
	ctx.Backend.SetUniformVec4(program.Handle, "cameraPosition", position.Vec4(1))
	ctx.Backend.SetUniformFloat(program.Handle, "moveFactor", MoveFactor(frame.Time, water.WaveSpeed))
	ctx.bindBlock(metadata.UniformBindingGlobals, frame.Globals)
	ctx.bindBlock(metadata.UniformBindingAttenuation, frame.Attenuation)

	err = ctx.drawMesh(ctx.Primitives.WaterPlane, v.CompositeProgram)
	ctx.Backend.SetDepthWrite(true)
	ctx.Backend.SetDepthTest(true)
	ctx.Backend.SetFaceCulling(true)
	return err
}
