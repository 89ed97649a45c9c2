package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

type textureFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

var textureFormats = map[metadata.TextureFormat]textureFormat{
	metadata.TextureFormatRGBA8:    {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE},
	metadata.TextureFormatRGB8:     {gl.RGB8, gl.RGB, gl.UNSIGNED_BYTE},
	metadata.TextureFormatRG8:      {gl.RG8, gl.RG, gl.UNSIGNED_BYTE},
	metadata.TextureFormatR8:       {gl.R8, gl.RED, gl.UNSIGNED_BYTE},
	metadata.TextureFormatRGBA16F:  {gl.RGBA16F, gl.RGBA, gl.FLOAT},
	metadata.TextureFormatRGBA32F:  {gl.RGBA32F, gl.RGBA, gl.FLOAT},
	metadata.TextureFormatDepth24:  {gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT, gl.FLOAT},
	metadata.TextureFormatDepth32F: {gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT},
}

func (r *OpenGLRenderer) TextureCreate(desc metadata.TextureDesc, pixels []byte) (metadata.TextureHandle, error) {
	f, ok := textureFormats[desc.Format]
	if !ok {
		return 0, fmt.Errorf("unsupported texture format %d", desc.Format)
	}
	if desc.Width == 0 || desc.Height == 0 {
		return 0, fmt.Errorf("invalid texture size %dx%d", desc.Width, desc.Height)
	}

	var handle uint32
	gl.GenTextures(1, &handle)
	gl.BindTexture(gl.TEXTURE_2D, handle)

	// decoded images use tightly packed rows
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, f.internal, int32(desc.Width), int32(desc.Height), 0, f.format, f.xtype, ptr)

	minFilter, magFilter := int32(gl.NEAREST), int32(gl.NEAREST)
	if desc.Filter == metadata.TextureFilterModeLinear {
		minFilter, magFilter = gl.LINEAR, gl.LINEAR
	}
	mipmaps := desc.Mipmaps && !desc.Format.IsDepth() && len(pixels) > 0
	if mipmaps {
		if desc.Filter == metadata.TextureFilterModeLinear {
			minFilter = gl.LINEAR_MIPMAP_LINEAR
		} else {
			minFilter = gl.NEAREST_MIPMAP_NEAREST
		}
	}
	wrap := int32(gl.REPEAT)
	if desc.Repeat == metadata.TextureRepeatClampToEdge {
		wrap = gl.CLAMP_TO_EDGE
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	if mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := checkError("TextureCreate"); err != nil {
		gl.DeleteTextures(1, &handle)
		return 0, err
	}
	return metadata.TextureHandle(handle), nil
}

func (r *OpenGLRenderer) TextureDestroy(texture metadata.TextureHandle) {
	handle := uint32(texture)
	gl.DeleteTextures(1, &handle)
}

func (r *OpenGLRenderer) TextureBind(unit uint32, texture metadata.TextureHandle) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(texture))
}
