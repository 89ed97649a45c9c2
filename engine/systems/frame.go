package systems

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/math"
	"github.com/spaghettifunk/shoreline/engine/renderer"
	"github.com/spaghettifunk/shoreline/engine/renderer/components"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

// std140 sizes of the uniform blocks declared by the shaders.
const (
	std140Vec4            = 16
	globalsHeaderSize     = 16 // vec3 cameraPosition + int lightCount
	globalsLightSize      = 64 // int type, vec3 color, vec3 direction, vec3 position
	globalsBlockSize      = globalsHeaderSize + globalsLightSize*metadata.MaxLights
	attenuationBlockSize  = std140Vec4 * metadata.MaxLights
	transformRecordSize   = 2 * 64 // mat4 world + mat4 worldViewProjection
	defaultMaxModelRecord = 1024
)

type FrameUpdaterConfig struct {
	/** @brief How many models the transform buffer can hold. */
	MaxModels uint64
}

/**
 * @brief Packs the per-frame uniform data. Sole writer of the four uniform
 * buffers; every Update fully overwrites what the previous frame wrote.
 */
type FrameUpdater struct {
	registry  *Registry
	alignment uint64

	transforms     *renderer.RenderBuffer
	globals        *renderer.RenderBuffer
	attenuation    *renderer.RenderBuffer
	lightTransform *renderer.RenderBuffer

	frame   uint64
	elapsed float64
	warned  bool
}

func NewFrameUpdater(registry *Registry, config FrameUpdaterConfig) (*FrameUpdater, error) {
	backend := registry.Backend()
	limits := backend.Limits()
	alignment := limits.UniformBufferOffsetAlignment
	if alignment == 0 {
		alignment = 256
	}
	if config.MaxModels == 0 {
		config.MaxModels = defaultMaxModelRecord
	}
	blockSize := limits.MaxUniformBlockSize
	if blockSize < globalsBlockSize {
		return nil, fmt.Errorf("device uniform blocks of %d bytes can't hold %d lights", blockSize, metadata.MaxLights)
	}

	u := &FrameUpdater{registry: registry, alignment: alignment}
	var err error
	if u.transforms, err = renderer.NewRenderBuffer(backend, metadata.RENDERBUFFER_TYPE_UNIFORM, math.AlignUp(transformRecordSize, alignment)*config.MaxModels); err != nil {
		return nil, err
	}
	if u.globals, err = renderer.NewRenderBuffer(backend, metadata.RENDERBUFFER_TYPE_UNIFORM, blockSize); err != nil {
		u.Destroy()
		return nil, err
	}
	if u.attenuation, err = renderer.NewRenderBuffer(backend, metadata.RENDERBUFFER_TYPE_UNIFORM, blockSize); err != nil {
		u.Destroy()
		return nil, err
	}
	if u.lightTransform, err = renderer.NewRenderBuffer(backend, metadata.RENDERBUFFER_TYPE_UNIFORM, math.AlignUp(64, alignment)); err != nil {
		u.Destroy()
		return nil, err
	}
	return u, nil
}

func (u *FrameUpdater) Destroy() {
	for _, b := range []*renderer.RenderBuffer{u.transforms, u.globals, u.attenuation, u.lightTransform} {
		if b != nil {
			b.Destroy()
		}
	}
	u.transforms, u.globals, u.attenuation, u.lightTransform = nil, nil, nil, nil
}

func (u *FrameUpdater) Alignment() uint64 {
	return u.alignment
}

/**
 * @brief Recomputes the camera and model matrices and packs the transforms,
 * global params and light attenuation for this frame. The returned frame
 * data is the only thing the render passes read.
 */
func (u *FrameUpdater) Update(camera *components.Camera, width, height uint32, delta float64) (*metadata.FrameData, error) {
	camera.Update(width, height)
	u.frame++
	u.elapsed += delta

	frame := &metadata.FrameData{
		Frame:  u.frame,
		Time:   u.elapsed,
		Width:  width,
		Height: height,
		Camera: metadata.CameraMatrices{
			Position:   camera.Position,
			View:       camera.View,
			Projection: camera.Projection,
		},
	}

	if err := u.packTransforms(frame); err != nil {
		return nil, err
	}
	if err := u.packLights(frame); err != nil {
		return nil, err
	}
	if _, err := u.WriteLightTransform(mgl32.Ident4()); err != nil {
		return nil, err
	}
	return frame, nil
}

func (u *FrameUpdater) packTransforms(frame *metadata.FrameData) error {
	if err := u.transforms.Map(); err != nil {
		return err
	}
	viewProjection := frame.Camera.Projection.Mul4(frame.Camera.View)
	frame.ModelTransforms = make([]metadata.BufferRange, len(u.registry.Models))
	for i, model := range u.registry.Models {
		model.World = model.Transform.World()
		u.transforms.AlignHead(u.alignment)
		start := u.transforms.Head()
		if _, err := renderer.Push(u.transforms, model.World); err != nil {
			_ = u.transforms.Unmap()
			return fmt.Errorf("model %q transforms: %w", model.Name, err)
		}
		if _, err := renderer.Push(u.transforms, viewProjection.Mul4(model.World)); err != nil {
			_ = u.transforms.Unmap()
			return fmt.Errorf("model %q transforms: %w", model.Name, err)
		}
		model.TransformRange = u.transforms.Range(start)
		frame.ModelTransforms[i] = metadata.BufferRange{Buffer: u.transforms.Handle, Range: model.TransformRange}
	}
	return u.transforms.Unmap()
}

// packLights writes the global params and the attenuation with the same light order.
func (u *FrameUpdater) packLights(frame *metadata.FrameData) error {
	lights := u.registry.Lights
	if len(lights) > metadata.MaxLights {
		if !u.warned {
			core.LogWarn("%d lights registered, only the first %d are rendered", len(lights), metadata.MaxLights)
			u.warned = true
		}
		lights = lights[:metadata.MaxLights]
	}

	if err := u.globals.Map(); err != nil {
		return err
	}
	if err := u.attenuation.Map(); err != nil {
		_ = u.globals.Unmap()
		return err
	}
	err := u.writeLights(frame, lights)
	if uerr := u.globals.Unmap(); err == nil {
		err = uerr
	}
	if uerr := u.attenuation.Unmap(); err == nil {
		err = uerr
	}
	return err
}

func (u *FrameUpdater) writeLights(frame *metadata.FrameData, lights []*metadata.Light) error {
	globalsStart := u.globals.Head()
	if _, err := renderer.Push(u.globals, frame.Camera.Position); err != nil {
		return err
	}
	if _, err := renderer.Push(u.globals, int32(len(lights))); err != nil {
		return err
	}

	attenuationStart := u.attenuation.Head()
	frame.Lights = make([]metadata.LightID, 0, len(lights))
	for i, light := range lights {
		u.globals.AlignHead(16)
		if _, err := renderer.Push(u.globals, int32(light.Type)); err != nil {
			return err
		}
		u.globals.AlignHead(16)
		if _, err := renderer.Push(u.globals, light.Color()); err != nil {
			return err
		}
		u.globals.AlignHead(16)
		if _, err := renderer.Push(u.globals, light.Direction); err != nil {
			return err
		}
		u.globals.AlignHead(16)
		if _, err := renderer.Push(u.globals, light.Position); err != nil {
			return err
		}

		a := light.Attenuation()
		u.attenuation.AlignHead(16)
		if _, err := renderer.Push(u.attenuation, mgl32.Vec4{a.Linear, a.Quadratic, a.Constant, light.Radius()}); err != nil {
			return err
		}
		frame.Lights = append(frame.Lights, metadata.LightID(i))
	}

	frame.Globals = metadata.BufferRange{Buffer: u.globals.Handle, Range: blockRange(u.globals, globalsStart, globalsBlockSize)}
	frame.Attenuation = metadata.BufferRange{Buffer: u.attenuation.Handle, Range: blockRange(u.attenuation, attenuationStart, attenuationBlockSize)}
	return nil
}

// blockRange covers at least the declared block size, drivers reject shorter ranges.
func blockRange(rb *renderer.RenderBuffer, start, blockSize uint64) metadata.MemoryRange {
	r := rb.Range(start)
	if r.Size < blockSize {
		r.Size = blockSize
	}
	return r
}

/**
 * @brief Overwrites the light-space transform slot. The deferred lighting
 * pass calls this once per light, right before the light's draw.
 */
func (u *FrameUpdater) WriteLightTransform(m mgl32.Mat4) (metadata.BufferRange, error) {
	if err := u.lightTransform.Map(); err != nil {
		return metadata.BufferRange{}, err
	}
	u.lightTransform.AlignHead(u.alignment)
	start := u.lightTransform.Head()
	if _, err := renderer.Push(u.lightTransform, m); err != nil {
		_ = u.lightTransform.Unmap()
		return metadata.BufferRange{}, err
	}
	r := u.lightTransform.Range(start)
	if err := u.lightTransform.Unmap(); err != nil {
		return metadata.BufferRange{}, err
	}
	return metadata.BufferRange{Buffer: u.lightTransform.Handle, Range: r}, nil
}
