package systems

import (
	"bytes"
	"encoding/binary"
	"errors"
	stdmath "math"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
	"github.com/spaghettifunk/shoreline/engine/renderer/rendertest"
)

const positionOnlyShader = `
#ifdef VERTEX
layout(location = 0) in vec3 aPosition;
void main() { gl_Position = vec4(aPosition, 1.0); }
#endif
#ifdef FRAGMENT
layout(location = 0) out vec4 oColor;
void main() { oColor = vec4(1.0); }
#endif
`

const litShader = `
#ifdef VERTEX
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aTexcoord;
layout(location = 3) in vec3 aTangent;
void main() { gl_Position = vec4(aPosition, 1.0); }
#endif
#ifdef FRAGMENT
layout(location = 0) out vec4 oColor;
void main() { oColor = vec4(1.0); }
#endif
`

// needs a location no engine mesh provides
const skinnedShader = `
#ifdef VERTEX
layout(location = 0) in vec3 aPosition;
layout(location = 7) in vec4 aWeights;
void main() { gl_Position = vec4(aPosition, 1.0); }
#endif
`

type fakeImages struct {
	mu      sync.Mutex
	images  map[string]*metadata.ImageData
	decodes map[string]int
}

func newFakeImages(paths ...string) *fakeImages {
	f := &fakeImages{images: make(map[string]*metadata.ImageData), decodes: make(map[string]int)}
	for _, p := range paths {
		f.images[p] = &metadata.ImageData{ChannelCount: 4, Width: 2, Height: 2, Pixels: make([]uint8, 16)}
	}
	return f
}

func (f *fakeImages) Decode(path string) (*metadata.ImageData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decodes[path]++
	img, ok := f.images[path]
	if !ok {
		return nil, errors.New("no such image")
	}
	return img, nil
}

func (f *fakeImages) Decodes(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.decodes[path]
}

type fakeSource struct {
	text    string
	modTime time.Time
}

type fakeSources map[string]*fakeSource

func (f fakeSources) ReadSource(path string) (string, time.Time, error) {
	s, ok := f[path]
	if !ok {
		return "", time.Time{}, errors.New("no such shader")
	}
	return s.text, s.modTime, nil
}

type fakeImporter map[string]*metadata.ModelData

func (f fakeImporter) Import(path string) (*metadata.ModelData, error) {
	m, ok := f[path]
	if !ok {
		return nil, errors.New("no such model")
	}
	return m, nil
}

type fixture struct {
	backend  *rendertest.Backend
	images   *fakeImages
	sources  fakeSources
	models   fakeImporter
	registry *Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		backend: rendertest.New(),
		images:  newFakeImages("textures/albedo.png", "textures/normal.png", "textures/bump.png", "textures/spec.png"),
		sources: fakeSources{
			"shaders/position.glsl": {text: positionOnlyShader, modTime: time.Unix(100, 0)},
			"shaders/lit.glsl":      {text: litShader, modTime: time.Unix(100, 0)},
			"shaders/skinned.glsl":  {text: skinnedShader, modTime: time.Unix(100, 0)},
		},
		models: fakeImporter{},
	}
	reg, err := NewRegistry(f.backend, RegistryConfig{Images: f.images, Models: f.models, Sources: f.sources})
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.Initialize(); err != nil {
		t.Fatal(err)
	}
	f.registry = reg
	return f
}

// captureLog redirects the engine log for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	core.SetLogOutput(&buf)
	t.Cleanup(func() { core.SetLogOutput(os.Stderr) })
	return &buf
}

func readFloat32(data []byte, offset uint64) float32 {
	return stdmath.Float32frombits(binary.NativeEndian.Uint32(data[offset:]))
}

func readInt32(data []byte, offset uint64) int32 {
	return int32(binary.NativeEndian.Uint32(data[offset:]))
}

func approx(a, b float32) bool {
	return stdmath.Abs(float64(a-b)) < 1e-4
}

// containsError reports whether captured log output holds an error-level line.
func containsError(log string) bool {
	return strings.Contains(log, "ERRO")
}
