package views

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/renderer/components"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
	"github.com/spaghettifunk/shoreline/engine/systems"
)

// ErrNoRenderTargets is returned by Render while the render targets are missing.
var ErrNoRenderTargets = errors.New("render targets not available")

/** @brief A way of turning the scene into a lit image. */
type RenderView interface {
	Render(ctx *RenderContext, frame *metadata.FrameData) error
	/** @brief Where passes drawing over the lit image render to. */
	CompositeTarget(ctx *RenderContext) *metadata.RenderTarget
	/** @brief The target and color attachment shown on screen. */
	Presented(ctx *RenderContext) (*metadata.RenderTarget, uint32)
}

/** @brief The shader sources of the pipeline programs. */
type PipelineConfig struct {
	ShaderDir  string
	ClearColor mgl32.Vec4
	Mode       metadata.RenderMode
	Display    metadata.DisplayMode
	Water      WaterSettings
}

/** @brief Program names, each one a name define inside its shared source file. */
const (
	ProgramForward          = "forward"
	ProgramDeferredGeometry = "deferred_geometry"
	ProgramDeferredLighting = "deferred_lighting"
	ProgramWaterSurface     = "water_surface"
	ProgramWaterComposite   = "water_composite"
)

var programSources = []struct {
	name string
	file string
}{
	{ProgramForward, "forward.glsl"},
	{ProgramDeferredGeometry, "deferred.glsl"},
	{ProgramDeferredLighting, "deferred.glsl"},
	{ProgramWaterSurface, "water.glsl"},
	{ProgramWaterComposite, "water.glsl"},
}

/**
 * @brief Drives a frame: water pre-passes, the view of the current mode,
 * the water composite and the final blit to the window. Mode, Display and
 * Water are plain state, read again at every frame.
 */
type Pipeline struct {
	Mode    metadata.RenderMode
	Display metadata.DisplayMode
	Water   WaterSettings

	ctx      *RenderContext
	views    map[metadata.RenderMode]RenderView
	water    *RenderViewWater
	programs map[string]metadata.ProgramID
}

func NewPipeline(ctx *RenderContext, config PipelineConfig) (*Pipeline, error) {
	programs := make(map[string]metadata.ProgramID, len(programSources))
	for _, s := range programSources {
		id := ctx.Registry.LoadProgram(filepath.Join(config.ShaderDir, s.file), s.name)
		if id == metadata.InvalidProgramID {
			return nil, fmt.Errorf("failed to load program %q from %s", s.name, s.file)
		}
		programs[s.name] = id
	}

	forward := NewRenderViewForward(programs[ProgramForward])
	forward.ClearColor = config.ClearColor
	deferred := NewRenderViewDeferred(programs[ProgramDeferredGeometry], programs[ProgramDeferredLighting])
	deferred.ClearColor = config.ClearColor

	return &Pipeline{
		Mode:    config.Mode,
		Display: config.Display,
		Water:   config.Water,
		ctx:     ctx,
		views: map[metadata.RenderMode]RenderView{
			metadata.RenderModeForward:  forward,
			metadata.RenderModeDeferred: deferred,
		},
		water:    NewRenderViewWater(programs[ProgramWaterSurface], programs[ProgramWaterComposite]),
		programs: programs,
	}, nil
}

// Program returns the id of one of the pipeline programs.
func (p *Pipeline) Program(name string) (metadata.ProgramID, bool) {
	id, ok := p.programs[name]
	return id, ok
}

func (p *Pipeline) View(mode metadata.RenderMode) (RenderView, bool) {
	v, ok := p.views[mode]
	return v, ok
}

/**
 * @brief Renders one frame from data packed by the frame updater for the
 * same camera. Errors are content errors: a program asking for an
 * attribute a mesh doesn't have, or an unknown mode or light type.
 * Nothing is drawn while the render targets are missing.
 */
func (p *Pipeline) Render(camera *components.Camera, frame *metadata.FrameData) error {
	view, ok := p.views[p.Mode]
	if !ok {
		return fmt.Errorf("no render view for mode %s", p.Mode)
	}
	if !p.ctx.Framebuffers.Ready() {
		return ErrNoRenderTargets
	}
	if p.Water.Enabled {
		if err := p.water.RenderPrePasses(p.ctx, camera, frame, p.Water); err != nil {
			return fmt.Errorf("water pre-passes: %w", err)
		}
	}
	if err := view.Render(p.ctx, frame); err != nil {
		return fmt.Errorf("%s view: %w", p.Mode, err)
	}
	if p.Water.Enabled {
		if err := p.water.Composite(p.ctx, view.CompositeTarget(p.ctx), frame, p.Water, p.Mode == metadata.RenderModeDeferred); err != nil {
			return fmt.Errorf("water composite: %w", err)
		}
	}

	target, attachment, err := p.presented(view)
	if err != nil {
		return err
	}
	p.ctx.Backend.FramebufferBind(0, frame.Width, frame.Height)
	p.ctx.Backend.FramebufferBlit(target.Framebuffer, attachment, 0, target.Width, target.Height)
	return nil
}

// presented picks the target and color attachment the Display mode shows.
func (p *Pipeline) presented(view RenderView) (*metadata.RenderTarget, uint32, error) {
	fbs := p.ctx.Framebuffers
	switch p.Display {
	case metadata.DisplayOutput:
		target, attachment := view.Presented(p.ctx)
		return target, attachment, nil
	case metadata.DisplayAlbedo:
		return fbs.Forward, systems.ForwardAttachmentAlbedo, nil
	case metadata.DisplayNormal:
		return fbs.Forward, systems.ForwardAttachmentNormal, nil
	case metadata.DisplayPosition:
		return fbs.Forward, systems.ForwardAttachmentPosition, nil
	case metadata.DisplaySpecular:
		return fbs.Forward, systems.ForwardAttachmentSpecular, nil
	case metadata.DisplayFinal:
		return fbs.Forward, systems.ForwardAttachmentFinal, nil
	case metadata.DisplayDeferred:
		return fbs.Deferred, 0, nil
	case metadata.DisplayReflection:
		return fbs.Reflection, 0, nil
	case metadata.DisplayRefraction:
		return fbs.Refraction, 0, nil
	}
	return nil, 0, fmt.Errorf("unknown display mode %s", p.Display)
}
