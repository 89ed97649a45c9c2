package metadata

import (
	"fmt"
	"strings"
)

type RenderMode int

const (
	RenderModeForward RenderMode = iota
	RenderModeDeferred
)

func (m RenderMode) String() string {
	switch m {
	case RenderModeForward:
		return "forward"
	case RenderModeDeferred:
		return "deferred"
	}
	return fmt.Sprintf("RenderMode(%d)", int(m))
}

func ParseRenderMode(s string) (RenderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "":
		return RenderModeForward, nil
	case "deferred":
		return RenderModeDeferred, nil
	}
	return 0, fmt.Errorf("unknown render mode %q", s)
}

/**
 * @brief What gets blitted to the window. DisplayOutput shows the lit image
 * of the current render mode, the others show one render target attachment
 * regardless of the mode, for inspecting the intermediate passes.
 */
type DisplayMode int

const (
	DisplayOutput DisplayMode = iota
	DisplayAlbedo
	DisplayNormal
	DisplayPosition
	DisplaySpecular
	DisplayFinal
	DisplayDeferred
	DisplayReflection
	DisplayRefraction
	displayModeCount
)

var displayModeNames = [...]string{"output", "albedo", "normal", "position", "specular", "final", "deferred", "reflection", "refraction"}

func (d DisplayMode) String() string {
	if d >= 0 && d < displayModeCount {
		return displayModeNames[d]
	}
	return fmt.Sprintf("DisplayMode(%d)", int(d))
}

// Next cycles through the display modes, wrapping around to DisplayOutput.
func (d DisplayMode) Next() DisplayMode {
	return (d + 1) % displayModeCount
}

func ParseDisplayMode(s string) (DisplayMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return DisplayOutput, nil
	}
	for i, n := range displayModeNames {
		if n == name {
			return DisplayMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown display mode %q", s)
}

type RenderBufferType int

const (
	/** @brief Buffer is use is unknown. Default, but usually invalid. */
	RENDERBUFFER_TYPE_UNKNOWN RenderBufferType = iota
	/** @brief Buffer is used for vertex data. */
	RENDERBUFFER_TYPE_VERTEX
	/** @brief Buffer is used for index data. */
	RENDERBUFFER_TYPE_INDEX
	/** @brief Buffer is used for uniform data. */
	RENDERBUFFER_TYPE_UNIFORM
)

/** @brief Uniform block binding points shared by every program. */
const (
	UniformBindingTransforms     uint32 = 0
	UniformBindingGlobals        uint32 = 1
	UniformBindingAttenuation    uint32 = 2
	UniformBindingLightTransform uint32 = 3
)

/** @brief Uniform block names matching the binding points above. */
var UniformBlockNames = map[string]uint32{
	"Transforms":     UniformBindingTransforms,
	"Globals":        UniformBindingGlobals,
	"Attenuation":    UniformBindingAttenuation,
	"LightTransform": UniformBindingLightTransform,
}

/** @brief Texture units used by the material and g-buffer samplers. */
const (
	TextureUnitAlbedo   uint32 = 0
	TextureUnitSpecular uint32 = 1
	TextureUnitNormal   uint32 = 2
	TextureUnitBump     uint32 = 3

	TextureUnitGAlbedo   uint32 = 0
	TextureUnitGNormal   uint32 = 1
	TextureUnitGPosition uint32 = 2
	TextureUnitGSpecular uint32 = 3

	TextureUnitReflection      uint32 = 0
	TextureUnitReflectionDepth uint32 = 1
	TextureUnitRefraction      uint32 = 2
	TextureUnitRefractionDepth uint32 = 3
	TextureUnitWaterNormal     uint32 = 4
	TextureUnitWaterDudv       uint32 = 5
	TextureUnitSceneDepth      uint32 = 6
)

/** @brief Maximum number of lights packed into the global params block. */
const MaxLights = 32

type ClearFlag uint32

const (
	ClearColor ClearFlag = 0x1
	ClearDepth ClearFlag = 0x2
)

type BlendMode int

const (
	BlendNone BlendMode = iota
	/** @brief src*alpha + dst*(1-alpha) */
	BlendAlpha
	/** @brief src + dst, accumulates light contributions. */
	BlendAdditive
)

/**
 * @brief Capabilities and diagnostics reported by the device.
 * Read-only for every consumer.
 */
type DeviceLimits struct {
	/** @brief Required alignment of uniform buffer range offsets. */
	UniformBufferOffsetAlignment uint64
	/** @brief Largest uniform block, in bytes. */
	MaxUniformBlockSize uint64
	Vendor              string
	Renderer            string
	Version             string
	ShadingLanguage     string
	Extensions          []string
}

/**
 * @brief An off-screen render target: one framebuffer and its attachments.
 */
type RenderTarget struct {
	Name        string
	Framebuffer FramebufferHandle
	Width       uint32
	Height      uint32
	/** @brief Color attachments in draw-buffer order. */
	Colors []*Texture
	/** @brief The depth attachment, if any. */
	Depth *Texture
}

/** @brief A uniform buffer and the byte range a draw binds from it. */
type BufferRange struct {
	Buffer BufferHandle
	Range  MemoryRange
}
