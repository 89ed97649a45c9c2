package systems

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/renderer"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

var ErrFramebufferIncomplete = errors.New("framebuffer incomplete")

/** @brief Color attachments of the forward/geometry target, in draw-buffer order. */
const (
	ForwardAttachmentAlbedo   = 0
	ForwardAttachmentNormal   = 1
	ForwardAttachmentPosition = 2
	ForwardAttachmentSpecular = 3
	ForwardAttachmentFinal    = 4
)

type attachmentSpec struct {
	name   string
	format metadata.TextureFormat
}

var forwardAttachments = []attachmentSpec{
	{"albedo", metadata.TextureFormatRGBA8},
	{"normal", metadata.TextureFormatRGBA16F},
	{"position", metadata.TextureFormatRGBA16F},
	{"specular", metadata.TextureFormatRGBA8},
	{"final", metadata.TextureFormatRGBA16F},
}

/**
 * @brief Owns the off-screen render targets. Every attachment always has
 * the current display size: a resize regenerates the whole set.
 */
type FramebufferSystem struct {
	backend renderer.Backend

	/** @brief albedo, normal, position, specular, final + depth. */
	Forward *metadata.RenderTarget
	/** @brief The final attachment of Forward with the same depth, for passes drawing over the forward result. */
	ForwardFinal *metadata.RenderTarget
	/** @brief Single attachment accumulating the deferred lighting. */
	Deferred   *metadata.RenderTarget
	Reflection *metadata.RenderTarget
	Refraction *metadata.RenderTarget

	width  uint32
	height uint32
}

func NewFramebufferSystem(backend renderer.Backend) *FramebufferSystem {
	return &FramebufferSystem{backend: backend}
}

func (fs *FramebufferSystem) Size() (uint32, uint32) {
	return fs.width, fs.height
}

// Targets returns every owned render target.
func (fs *FramebufferSystem) Targets() []*metadata.RenderTarget {
	out := make([]*metadata.RenderTarget, 0, 5)
	for _, t := range []*metadata.RenderTarget{fs.Forward, fs.ForwardFinal, fs.Deferred, fs.Reflection, fs.Refraction} {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

/**
 * @brief Destroys and recreates every render target at the given size.
 * An incomplete framebuffer is logged and returned as ErrFramebufferIncomplete.
 * On any failure no target is left behind: Ready reports false and the next
 * CheckResize tries again.
 */
func (fs *FramebufferSystem) GenerateBuffers(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("can't create render targets of size %dx%d", width, height)
	}
	fs.Destroy()
	fs.width, fs.height = width, height
	if err := fs.generate(); err != nil {
		fs.Destroy()
		return err
	}
	core.LogDebug("render targets generated at %dx%d", width, height)
	return nil
}

// Ready reports whether every render target exists.
func (fs *FramebufferSystem) Ready() bool {
	return fs.Forward != nil && fs.ForwardFinal != nil && fs.Deferred != nil && fs.Reflection != nil && fs.Refraction != nil
}

func (fs *FramebufferSystem) generate() error {
	var err error
	colors := make([]*metadata.Texture, 0, len(forwardAttachments))
	for _, a := range forwardAttachments {
		t, err := fs.createAttachment("forward", a.name, a.format)
		if err != nil {
			fs.destroyTextures(colors...)
			return err
		}
		colors = append(colors, t)
	}
	depth, err := fs.createAttachment("forward", "depth", metadata.TextureFormatDepth24)
	if err != nil {
		fs.destroyTextures(colors...)
		return err
	}
	if fs.Forward, err = fs.createTarget("forward", colors, depth, true); err != nil {
		return err
	}
	// shares the textures of Forward, only the framebuffer object is its own
	if fs.ForwardFinal, err = fs.createTarget("forward_final", colors[ForwardAttachmentFinal:ForwardAttachmentFinal+1], depth, false); err != nil {
		return err
	}

	composite, err := fs.createAttachment("deferred", "composite", metadata.TextureFormatRGBA16F)
	if err != nil {
		return err
	}
	if fs.Deferred, err = fs.createTarget("deferred", []*metadata.Texture{composite}, nil, true); err != nil {
		return err
	}

	if fs.Reflection, err = fs.createColorDepthTarget("reflection"); err != nil {
		return err
	}
	if fs.Refraction, err = fs.createColorDepthTarget("refraction"); err != nil {
		return err
	}
	return nil
}

/**
 * @brief Regenerates the targets if the display size differs from the
 * size they were built with. Meant to be called once per frame.
 */
func (fs *FramebufferSystem) CheckResize(width, height uint32) (bool, error) {
	if width == fs.width && height == fs.height && fs.Ready() {
		return false, nil
	}
	if width == 0 || height == 0 {
		// minimized, keep the old targets until there's something to draw into
		return false, nil
	}
	return true, fs.GenerateBuffers(width, height)
}

// OnResized is an event listener for EVENT_CODE_RESIZED.
func (fs *FramebufferSystem) OnResized(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
	if _, err := fs.CheckResize(data.U32[0], data.U32[1]); err != nil {
		core.LogError("resize to %dx%d failed: %s", data.U32[0], data.U32[1], err)
	}
	return false
}

// Destroy releases every framebuffer and attachment.
func (fs *FramebufferSystem) Destroy() {
	owners := []*metadata.RenderTarget{fs.Forward, fs.Deferred, fs.Reflection, fs.Refraction}
	for _, t := range owners {
		if t == nil {
			continue
		}
		fs.backend.FramebufferDestroy(t.Framebuffer)
		fs.destroyTextures(t.Colors...)
		if t.Depth != nil {
			fs.destroyTextures(t.Depth)
		}
	}
	if fs.ForwardFinal != nil {
		fs.backend.FramebufferDestroy(fs.ForwardFinal.Framebuffer)
	}
	fs.Forward, fs.ForwardFinal, fs.Deferred, fs.Reflection, fs.Refraction = nil, nil, nil, nil, nil
}

func (fs *FramebufferSystem) destroyTextures(textures ...*metadata.Texture) {
	for _, t := range textures {
		fs.backend.TextureDestroy(t.Handle)
	}
}

func (fs *FramebufferSystem) createColorDepthTarget(name string) (*metadata.RenderTarget, error) {
	color, err := fs.createAttachment(name, "color", metadata.TextureFormatRGBA8)
	if err != nil {
		return nil, err
	}
	depth, err := fs.createAttachment(name, "depth", metadata.TextureFormatDepth32F)
	if err != nil {
		fs.destroyTextures(color)
		return nil, err
	}
	return fs.createTarget(name, []*metadata.Texture{color}, depth, true)
}

// Attachments are exact per-pixel data: nearest filtering, clamped, no mips.
func (fs *FramebufferSystem) createAttachment(target, name string, format metadata.TextureFormat) (*metadata.Texture, error) {
	desc := metadata.TextureDesc{
		Width:   fs.width,
		Height:  fs.height,
		Format:  format,
		Filter:  metadata.TextureFilterModeNearest,
		Repeat:  metadata.TextureRepeatClampToEdge,
		Mipmaps: false,
	}
	handle, err := fs.backend.TextureCreate(desc, nil)
	if err != nil {
		return nil, fmt.Errorf("render target %s: failed to create %s attachment: %w", target, name, err)
	}
	return &metadata.Texture{
		Handle: handle,
		Path:   fmt.Sprintf("rendertarget://%s/%s/%s", target, name, uuid.NewString()),
		Width:  fs.width,
		Height: fs.height,
		Format: format,
	}, nil
}

func (fs *FramebufferSystem) createTarget(name string, colors []*metadata.Texture, depth *metadata.Texture, owner bool) (*metadata.RenderTarget, error) {
	handles := make([]metadata.TextureHandle, len(colors))
	for i, c := range colors {
		handles[i] = c.Handle
	}
	var depthHandle metadata.TextureHandle
	if depth != nil {
		depthHandle = depth.Handle
	}
	fb, err := fs.backend.FramebufferCreate(handles, depthHandle)
	if err != nil {
		if owner {
			fs.destroyTextures(colors...)
			if depth != nil {
				fs.destroyTextures(depth)
			}
		}
		err = fmt.Errorf("%w: %s: %v", ErrFramebufferIncomplete, name, err)
		core.LogError(err.Error())
		return nil, err
	}
	return &metadata.RenderTarget{
		Name:        name,
		Framebuffer: fb,
		Width:       fs.width,
		Height:      fs.height,
		Colors:      colors,
		Depth:       depth,
	}, nil
}
