package views

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
	"github.com/spaghettifunk/shoreline/engine/systems"
)

/**
 * @brief Geometry pass into the four g-buffer attachments, then one light
 * volume per light accumulated into the composite target.
 */
type RenderViewDeferred struct {
	Geometry   metadata.ProgramID
	Lighting   metadata.ProgramID
	ClearColor mgl32.Vec4
}

func NewRenderViewDeferred(geometry, lighting metadata.ProgramID) *RenderViewDeferred {
	return &RenderViewDeferred{Geometry: geometry, Lighting: lighting}
}

var gbufferSamplers = map[string]uint32{
	"gAlbedo":   metadata.TextureUnitGAlbedo,
	"gNormal":   metadata.TextureUnitGNormal,
	"gPosition": metadata.TextureUnitGPosition,
	"gSpecular": metadata.TextureUnitGSpecular,
}

func (v *RenderViewDeferred) Render(ctx *RenderContext, frame *metadata.FrameData) error {
	if err := v.geometryPass(ctx, frame); err != nil {
		return err
	}
	return v.lightingPass(ctx, frame)
}

func (v *RenderViewDeferred) geometryPass(ctx *RenderContext, frame *metadata.FrameData) error {
	ctx.bindTarget(ctx.Framebuffers.Forward)
	ctx.Backend.Clear(metadata.ClearColor|metadata.ClearDepth, mgl32.Vec4{})
	// g-buffer texels are data, never blended
	ctx.Backend.SetBlendMode(metadata.BlendNone)
	ctx.Backend.SetDepthTest(true)
	ctx.Backend.SetDepthWrite(true)
	ctx.Backend.SetFaceCulling(true)
	ctx.Backend.SetClipPlane(false)

	program, err := ctx.program(v.Geometry)
	if err != nil {
		return err
	}
	ctx.bindSamplers(program.Handle, materialSamplers)
	return ctx.drawScene(program, v.Geometry, sceneDrawer(ctx, frame))
}

/**
 * @brief Ambient lights are drawn first as the base layer, the others add
 * on top. Each light keeps its own index into the packed light arrays.
 */
func (v *RenderViewDeferred) lightingPass(ctx *RenderContext, frame *metadata.FrameData) error {
	ctx.bindTarget(ctx.Framebuffers.Deferred)
	ctx.Backend.Clear(metadata.ClearColor, v.ClearColor)
	ctx.Backend.SetDepthWrite(false)

	program, err := ctx.program(v.Lighting)
	if err != nil {
		return err
	}
	ctx.bindSamplers(program.Handle, gbufferSamplers)
	gbuffer := ctx.Framebuffers.Forward.Colors
	ctx.Backend.TextureBind(metadata.TextureUnitGAlbedo, gbuffer[systems.ForwardAttachmentAlbedo].Handle)
	ctx.Backend.TextureBind(metadata.TextureUnitGNormal, gbuffer[systems.ForwardAttachmentNormal].Handle)
	ctx.Backend.TextureBind(metadata.TextureUnitGPosition, gbuffer[systems.ForwardAttachmentPosition].Handle)
	ctx.Backend.TextureBind(metadata.TextureUnitGSpecular, gbuffer[systems.ForwardAttachmentSpecular].Handle)
	ctx.bindBlock(metadata.UniformBindingGlobals, frame.Globals)
	ctx.bindBlock(metadata.UniformBindingAttenuation, frame.Attenuation)

	order := make([]int, 0, len(frame.Lights))
	for i, id := range frame.Lights {
		if ctx.Registry.Lights[id].Type == metadata.LightTypeAmbient {
			order = append(order, i)
		}
	}
	for i, id := range frame.Lights {
		if ctx.Registry.Lights[id].Type != metadata.LightTypeAmbient {
			order = append(order, i)
		}
	}

	for _, i := range order {
		light := ctx.Registry.Lights[frame.Lights[i]]
		drawer, err := LightDrawerFor(light.Type)
		if err != nil {
			return err
		}
		if err := drawer.Draw(ctx, v.Lighting, frame, i, light); err != nil {
			return err
		}
	}
	ctx.Backend.SetDepthWrite(true)
	ctx.Backend.SetDepthTest(true)
	ctx.Backend.SetFaceCulling(true)
	return nil
}

func (v *RenderViewDeferred) CompositeTarget(ctx *RenderContext) *metadata.RenderTarget {
	return ctx.Framebuffers.Deferred
}

func (v *RenderViewDeferred) Presented(ctx *RenderContext) (*metadata.RenderTarget, uint32) {
	return ctx.Framebuffers.Deferred, 0
}
