package views

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

/**
 * @brief Draws the contribution of one light type during the deferred
 * lighting pass: picks the geometry, the fixed function state and the
 * light-space transform.
 */
type LightDrawer interface {
	Draw(ctx *RenderContext, program metadata.ProgramID, frame *metadata.FrameData, index int, light *metadata.Light) error
}

// AmbientLight is the base layer, alpha blended under every other light.
type AmbientLight struct{}

func (AmbientLight) Draw(ctx *RenderContext, program metadata.ProgramID, frame *metadata.FrameData, index int, light *metadata.Light) error {
	ctx.Backend.SetBlendMode(metadata.BlendAlpha)
	ctx.Backend.SetDepthTest(true)
	ctx.Backend.SetFaceCulling(true)
	return drawLight(ctx, program, index, ctx.Primitives.FullscreenQuad, mgl32.Ident4())
}

type DirectionalLight struct{}

func (DirectionalLight) Draw(ctx *RenderContext, program metadata.ProgramID, frame *metadata.FrameData, index int, light *metadata.Light) error {
	ctx.Backend.SetBlendMode(metadata.BlendAdditive)
	ctx.Backend.SetDepthTest(true)
	ctx.Backend.SetFaceCulling(true)
	return drawLight(ctx, program, index, ctx.Primitives.FullscreenQuad, mgl32.Ident4())
}

/**
 * @brief Draws the light sphere scaled to the light radius. The camera may
 * be inside the sphere, so neither depth testing nor culling apply.
 */
type PointLight struct{}

func (PointLight) Draw(ctx *RenderContext, program metadata.ProgramID, frame *metadata.FrameData, index int, light *metadata.Light) error {
	ctx.Backend.SetBlendMode(metadata.BlendAdditive)
	ctx.Backend.SetDepthTest(false)
	ctx.Backend.SetFaceCulling(false)
	return drawLight(ctx, program, index, ctx.Primitives.Sphere, PointLightTransform(frame, light))
}

// PointLightTransform places the unit sphere on the light and scales it to the light radius.
func PointLightTransform(frame *metadata.FrameData, light *metadata.Light) mgl32.Mat4 {
	r := light.Radius()
	world := mgl32.Translate3D(light.Position.X(), light.Position.Y(), light.Position.Z()).Mul4(mgl32.Scale3D(r, r, r))
	return viewProjection(frame).Mul4(world)
}

// LightDrawerFor returns the drawer of a light type.
func LightDrawerFor(t metadata.LightType) (LightDrawer, error) {
	switch t {
	case metadata.LightTypeAmbient:
		return AmbientLight{}, nil
	case metadata.LightTypeDirectional:
		return DirectionalLight{}, nil
	case metadata.LightTypePoint:
		return PointLight{}, nil
	}
	return nil, fmt.Errorf("no drawer for light type %s", t)
}

// drawLight rewrites the light-space transform slot and draws one light volume.
func drawLight(ctx *RenderContext, programID metadata.ProgramID, index int, mesh metadata.MeshID, transform mgl32.Mat4) error {
	lightTransform, err := ctx.Updater.WriteLightTransform(transform)
	if err != nil {
		return err
	}
	program, err := ctx.Registry.Program(programID)
	if err != nil {
		return err
	}
	ctx.bindBlock(metadata.UniformBindingLightTransform, lightTransform)
	ctx.Backend.SetUniformInt(program.Handle, "lightIndex", int32(index))
	return ctx.drawMesh(mesh, programID)
}
