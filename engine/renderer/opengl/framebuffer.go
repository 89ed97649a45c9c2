package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

var framebufferStatus = map[uint32]string{
	gl.FRAMEBUFFER_UNDEFINED:                     "undefined",
	gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:         "incomplete attachment",
	gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT: "missing attachment",
	gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:        "incomplete draw buffer",
	gl.FRAMEBUFFER_INCOMPLETE_READ_BUFFER:        "incomplete read buffer",
	gl.FRAMEBUFFER_UNSUPPORTED:                   "unsupported",
	gl.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:        "incomplete multisample",
	gl.FRAMEBUFFER_INCOMPLETE_LAYER_TARGETS:      "incomplete layer targets",
}

/**
 * @brief Creates a framebuffer writing to every color attachment in order.
 * A zero depth handle creates a color-only target.
 */
func (r *OpenGLRenderer) FramebufferCreate(colors []metadata.TextureHandle, depth metadata.TextureHandle) (metadata.FramebufferHandle, error) {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	drawBuffers := make([]uint32, len(colors))
	for i, c := range colors {
		attachment := gl.COLOR_ATTACHMENT0 + uint32(i)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, gl.TEXTURE_2D, uint32(c), 0)
		drawBuffers[i] = attachment
	}
	if depth != 0 {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, uint32(depth), 0)
	}
	if len(drawBuffers) > 0 {
		gl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])
	} else {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		reason, ok := framebufferStatus[status]
		if !ok {
			reason = fmt.Sprintf("status 0x%x", status)
		}
		return 0, fmt.Errorf("framebuffer is not complete: %s", reason)
	}
	h := metadata.FramebufferHandle(fbo)
	r.framebufferColors[h] = len(colors)
	return h, nil
}

func (r *OpenGLRenderer) FramebufferDestroy(framebuffer metadata.FramebufferHandle) {
	fbo := uint32(framebuffer)
	gl.DeleteFramebuffers(1, &fbo)
	delete(r.framebufferColors, framebuffer)
}

func (r *OpenGLRenderer) FramebufferBind(framebuffer metadata.FramebufferHandle, width, height uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(framebuffer))
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *OpenGLRenderer) FramebufferBlit(src metadata.FramebufferHandle, attachment uint32, dst metadata.FramebufferHandle, width, height uint32) {
	if colors := r.framebufferColors[src]; int(attachment) >= colors {
		return
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(src))
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0 + attachment)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, uint32(dst))
	if dst == 0 {
		gl.DrawBuffer(gl.BACK)
	}
	w, h := int32(width), int32(height)
	gl.BlitFramebuffer(0, 0, w, h, 0, 0, w, h, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(dst))
}
