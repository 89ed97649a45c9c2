package renderer

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/spaghettifunk/shoreline/engine/math"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

var (
	ErrBufferOverflow      = errors.New("write past render buffer capacity")
	ErrBufferNotMapped     = errors.New("render buffer is not mapped")
	ErrBufferAlreadyMapped = errors.New("render buffer is already mapped")
)

// RenderBuffer is a GPU buffer written through a linear bump allocator.
// Writes go to the mapped memory between Map and Unmap; the GPU sees them
// after Unmap.
type RenderBuffer struct {
	Type     metadata.RenderBufferType
	Handle   metadata.BufferHandle
	Capacity uint64

	head    uint64
	mapped  []byte
	backend Backend
}

func NewRenderBuffer(backend Backend, bufferType metadata.RenderBufferType, capacity uint64) (*RenderBuffer, error) {
	handle, err := backend.BufferCreate(bufferType, capacity, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create render buffer of %d bytes: %w", capacity, err)
	}
	return &RenderBuffer{
		Type:     bufferType,
		Handle:   handle,
		Capacity: capacity,
		backend:  backend,
	}, nil
}

func (rb *RenderBuffer) Destroy() {
	if rb.mapped != nil {
		_ = rb.Unmap()
	}
	rb.backend.BufferDestroy(rb.Handle)
	rb.Handle = 0
}

// Map starts a write session and resets the head.
func (rb *RenderBuffer) Map() error {
	if rb.mapped != nil {
		return ErrBufferAlreadyMapped
	}
	mem, err := rb.backend.BufferMap(rb.Handle, rb.Capacity)
	if err != nil {
		return err
	}
	rb.mapped = mem
	rb.head = 0
	return nil
}

// Unmap ends the write session and publishes the writes to the GPU.
func (rb *RenderBuffer) Unmap() error {
	if rb.mapped == nil {
		return ErrBufferNotMapped
	}
	rb.mapped = nil
	return rb.backend.BufferUnmap(rb.Handle)
}

func (rb *RenderBuffer) IsMapped() bool {
	return rb.mapped != nil
}

func (rb *RenderBuffer) Head() uint64 {
	return rb.head
}

// AlignHead moves the head to the next multiple of alignment.
func (rb *RenderBuffer) AlignHead(alignment uint64) {
	rb.head = math.AlignUp(rb.head, alignment)
}

// PushBytes copies p at the head and returns the offset it was written at.
func (rb *RenderBuffer) PushBytes(p []byte) (uint64, error) {
	if rb.mapped == nil {
		return 0, ErrBufferNotMapped
	}
	size := uint64(len(p))
	if rb.head+size > rb.Capacity || rb.head+size > uint64(len(rb.mapped)) {
		return 0, fmt.Errorf("%w: %d bytes at offset %d, capacity %d", ErrBufferOverflow, size, rb.head, rb.Capacity)
	}
	offset := rb.head
	copy(rb.mapped[offset:offset+size], p)
	rb.head += size
	return offset, nil
}

// Push writes the in-memory representation of value at the head and
// advances the head by its size. T must not contain pointers.
func Push[T any](rb *RenderBuffer, value T) (uint64, error) {
	size := unsafe.Sizeof(value)
	if size == 0 {
		return rb.head, nil
	}
	p := unsafe.Slice((*byte)(unsafe.Pointer(&value)), size)
	return rb.PushBytes(p)
}

// Range returns the bytes written since offset.
func (rb *RenderBuffer) Range(offset uint64) metadata.MemoryRange {
	return metadata.MemoryRange{Offset: offset, Size: rb.head - offset}
}

func (rb *RenderBuffer) BindRange(binding uint32, r metadata.MemoryRange) {
	rb.backend.BufferBindRange(binding, rb.Handle, r.Offset, r.Size)
}
