package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

func bufferTarget(t metadata.RenderBufferType) (uint32, uint32, error) {
	switch t {
	case metadata.RENDERBUFFER_TYPE_VERTEX:
		return gl.ARRAY_BUFFER, gl.STATIC_DRAW, nil
	case metadata.RENDERBUFFER_TYPE_INDEX:
		return gl.ELEMENT_ARRAY_BUFFER, gl.STATIC_DRAW, nil
	case metadata.RENDERBUFFER_TYPE_UNIFORM:
		return gl.UNIFORM_BUFFER, gl.STREAM_DRAW, nil
	}
	return 0, 0, fmt.Errorf("unsupported buffer type %d", t)
}

func (r *OpenGLRenderer) BufferCreate(bufferType metadata.RenderBufferType, size uint64, data []byte) (metadata.BufferHandle, error) {
	target, usage, err := bufferTarget(bufferType)
	if err != nil {
		return 0, err
	}
	var handle uint32
	gl.GenBuffers(1, &handle)
	// element buffers are bound through a vertex array, upload them as plain data
	upload := target
	if target == gl.ELEMENT_ARRAY_BUFFER {
		upload = gl.COPY_WRITE_BUFFER
	}
	gl.BindBuffer(upload, handle)
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(upload, int(size), ptr, usage)
	gl.BindBuffer(upload, 0)
	if err := checkError("BufferCreate"); err != nil {
		gl.DeleteBuffers(1, &handle)
		return 0, err
	}
	h := metadata.BufferHandle(handle)
	r.buffers[h] = &bufferInfo{target: target, size: size}
	return h, nil
}

func (r *OpenGLRenderer) BufferDestroy(buffer metadata.BufferHandle) {
	handle := uint32(buffer)
	gl.DeleteBuffers(1, &handle)
	delete(r.buffers, buffer)
}

/**
 * @brief Maps the first size bytes for writing. The previous contents are
 * invalidated, so the driver can hand out fresh memory while the GPU still
 * reads last frame's data.
 */
func (r *OpenGLRenderer) BufferMap(buffer metadata.BufferHandle, size uint64) ([]byte, error) {
	info, ok := r.buffers[buffer]
	if !ok {
		return nil, fmt.Errorf("buffer %d does not exist", buffer)
	}
	if info.mapped {
		return nil, fmt.Errorf("buffer %d already mapped", buffer)
	}
	if size > info.size {
		size = info.size
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, uint32(buffer))
	ptr := gl.MapBufferRange(gl.COPY_WRITE_BUFFER, 0, int(size), gl.MAP_WRITE_BIT|gl.MAP_INVALIDATE_BUFFER_BIT)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	if ptr == nil {
		return nil, fmt.Errorf("failed to map buffer %d: %w", buffer, checkError("BufferMap"))
	}
	info.mapped = true
	return unsafe.Slice((*byte)(ptr), size), nil
}

func (r *OpenGLRenderer) BufferUnmap(buffer metadata.BufferHandle) error {
	info, ok := r.buffers[buffer]
	if !ok || !info.mapped {
		return fmt.Errorf("buffer %d is not mapped", buffer)
	}
	info.mapped = false
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, uint32(buffer))
	ok = gl.UnmapBuffer(gl.COPY_WRITE_BUFFER)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	if !ok {
		return fmt.Errorf("buffer %d contents were lost while mapped", buffer)
	}
	return nil
}

func (r *OpenGLRenderer) BufferBindRange(binding uint32, buffer metadata.BufferHandle, offset, size uint64) {
	gl.BindBufferRange(gl.UNIFORM_BUFFER, binding, uint32(buffer), int(offset), int(size))
}
