package renderer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
	"github.com/spaghettifunk/shoreline/engine/renderer/rendertest"
)

var _ Backend = (*rendertest.Backend)(nil)

func newTestBuffer(t *testing.T, capacity uint64) (*RenderBuffer, *rendertest.Backend) {
	t.Helper()
	backend := rendertest.New()
	rb, err := NewRenderBuffer(backend, metadata.RENDERBUFFER_TYPE_UNIFORM, capacity)
	if err != nil {
		t.Fatalf("NewRenderBuffer() error = %v", err)
	}
	return rb, backend
}

func TestAlignHead(t *testing.T) {
	rb, _ := newTestBuffer(t, 4096)
	alignments := []uint64{1, 2, 4, 16, 64, 256}
	for _, a := range alignments {
		for h := uint64(0); h < 600; h += 7 {
			rb.head = h
			rb.AlignHead(a)
			got := rb.Head()
			if got%a != 0 {
				t.Fatalf("AlignHead(%d) from %d = %d, not aligned", a, h, got)
			}
			if got < h || got-h >= a {
				t.Fatalf("AlignHead(%d) from %d = %d, moved too far", a, h, got)
			}
		}
	}
}

func TestAlignHeadAlreadyAligned(t *testing.T) {
	rb, _ := newTestBuffer(t, 1024)
	rb.head = 512
	rb.AlignHead(256)
	if rb.Head() != 512 {
		t.Errorf("AlignHead on aligned head = %d, want 512", rb.Head())
	}
}

func TestPushRoundTrip(t *testing.T) {
	rb, backend := newTestBuffer(t, 1024)
	if err := rb.Map(); err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if _, err := Push(rb, int32(7)); err != nil {
		t.Fatalf("Push(int32) error = %v", err)
	}
	rb.AlignHead(16)
	before := rb.Head()
	m := mgl32.Translate3D(1, 2, 3)
	offset, err := Push(rb, m)
	if err != nil {
		t.Fatalf("Push(Mat4) error = %v", err)
	}
	if offset != before {
		t.Errorf("Push offset = %d, want pre-push head %d", offset, before)
	}
	if got, want := rb.Head()-before, uint64(unsafe.Sizeof(m)); got != want {
		t.Errorf("head advanced by %d, want %d", got, want)
	}

	// nothing is visible before the session ends
	data := backend.Buffers[rb.Handle].Data
	if !bytes.Equal(data[offset:offset+64], make([]byte, 64)) {
		t.Error("writes visible before Unmap")
	}
	if err := rb.Unmap(); err != nil {
		t.Fatalf("Unmap() error = %v", err)
	}

	var back mgl32.Mat4
	if err := binary.Read(bytes.NewReader(data[offset:offset+64]), binary.NativeEndian, &back); err != nil {
		t.Fatalf("binary.Read() error = %v", err)
	}
	if back != m {
		t.Errorf("read back %v, want %v", back, m)
	}
	if got := int32(binary.NativeEndian.Uint32(data[0:4])); got != 7 {
		t.Errorf("read back int32 %d, want 7", got)
	}
}

func TestMapResetsHead(t *testing.T) {
	rb, _ := newTestBuffer(t, 256)
	if err := rb.Map(); err != nil {
		t.Fatal(err)
	}
	if _, err := Push(rb, mgl32.Vec4{}); err != nil {
		t.Fatal(err)
	}
	if err := rb.Map(); !errors.Is(err, ErrBufferAlreadyMapped) {
		t.Errorf("second Map() error = %v, want ErrBufferAlreadyMapped", err)
	}
	if err := rb.Unmap(); err != nil {
		t.Fatal(err)
	}
	if err := rb.Map(); err != nil {
		t.Fatal(err)
	}
	if rb.Head() != 0 {
		t.Errorf("head after Map = %d, want 0", rb.Head())
	}
}

func TestPushFailsFast(t *testing.T) {
	rb, _ := newTestBuffer(t, 64)
	if _, err := Push(rb, float32(1)); !errors.Is(err, ErrBufferNotMapped) {
		t.Errorf("Push outside session error = %v, want ErrBufferNotMapped", err)
	}
	if err := rb.Map(); err != nil {
		t.Fatal(err)
	}
	if _, err := Push(rb, mgl32.Mat4{}); err != nil {
		t.Fatalf("Push filling capacity error = %v", err)
	}
	head := rb.Head()
	if _, err := Push(rb, float32(1)); !errors.Is(err, ErrBufferOverflow) {
		t.Errorf("Push past capacity error = %v, want ErrBufferOverflow", err)
	}
	if rb.Head() != head {
		t.Errorf("failed push moved head from %d to %d", head, rb.Head())
	}
	if err := rb.Unmap(); err != nil {
		t.Fatal(err)
	}
	if err := rb.Unmap(); !errors.Is(err, ErrBufferNotMapped) {
		t.Errorf("second Unmap() error = %v, want ErrBufferNotMapped", err)
	}
}
