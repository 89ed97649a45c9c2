package views

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
	"github.com/spaghettifunk/shoreline/engine/systems"
)

/**
 * @brief Lights every submesh in a single pass over the models. Writes the
 * lit color to the final attachment of the forward target.
 */
type RenderViewForward struct {
	Program    metadata.ProgramID
	ClearColor mgl32.Vec4
}

func NewRenderViewForward(program metadata.ProgramID) *RenderViewForward {
	return &RenderViewForward{Program: program}
}

func (v *RenderViewForward) Render(ctx *RenderContext, frame *metadata.FrameData) error {
	target := ctx.Framebuffers.Forward
	ctx.bindTarget(target)
	ctx.Backend.Clear(metadata.ClearColor|metadata.ClearDepth, v.ClearColor)
	ctx.Backend.SetBlendMode(metadata.BlendAlpha)
	ctx.Backend.SetDepthTest(true)
	ctx.Backend.SetDepthWrite(true)
	ctx.Backend.SetFaceCulling(true)
	ctx.Backend.SetClipPlane(false)

	program, err := ctx.program(v.Program)
	if err != nil {
		return err
	}
	ctx.bindSamplers(program.Handle, materialSamplers)
	return ctx.drawScene(program, v.Program, sceneDrawer(ctx, frame))
}

// sceneDrawer binds the material and the three uniform ranges of a submesh.
func sceneDrawer(ctx *RenderContext, frame *metadata.FrameData) submeshFunc {
	return func(program *metadata.Program, modelIndex int, model *metadata.Model, submesh int) error {
		transforms, err := modelTransforms(frame, modelIndex)
		if err != nil {
			return err
		}
		ctx.bindMaterial(program.Handle, ctx.Registry.Material(model.Material(submesh)))
		ctx.bindBlock(metadata.UniformBindingTransforms, transforms)
		ctx.bindBlock(metadata.UniformBindingGlobals, frame.Globals)
		ctx.bindBlock(metadata.UniformBindingAttenuation, frame.Attenuation)
		return nil
	}
}

// CompositeTarget draws over the lit color, depth tested against the scene.
func (v *RenderViewForward) CompositeTarget(ctx *RenderContext) *metadata.RenderTarget {
	return ctx.Framebuffers.ForwardFinal
}

func (v *RenderViewForward) Presented(ctx *RenderContext) (*metadata.RenderTarget, uint32) {
	return ctx.Framebuffers.Forward, systems.ForwardAttachmentFinal
}
