package systems

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/math"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

func TestDefaultTextureIsIndexZero(t *testing.T) {
	f := newFixture(t)
	tex, err := f.registry.Texture(0)
	if err != nil {
		t.Fatal(err)
	}
	if tex.Path != metadata.DefaultTexturePath {
		t.Errorf("texture 0 = %q, want %q", tex.Path, metadata.DefaultTexturePath)
	}
	if got := f.registry.LoadTexture2D(metadata.DefaultTexturePath); got != 0 {
		t.Errorf("LoadTexture2D(default) = %d, want 0", got)
	}
}

func TestLoadTexture2DIsIdempotent(t *testing.T) {
	f := newFixture(t)
	first := f.registry.LoadTexture2D("textures/albedo.png")
	second := f.registry.LoadTexture2D("textures/albedo.png")

	if first == metadata.InvalidTextureID {
		t.Fatal("LoadTexture2D() returned the invalid id")
	}
	if first != second {
		t.Errorf("LoadTexture2D() returned %d then %d", first, second)
	}
	if got := f.images.Decodes("textures/albedo.png"); got != 1 {
		t.Errorf("image decoded %d times, want 1", got)
	}
	if got := f.backend.Count("TextureCreate"); got != 2 {
		t.Errorf("%d textures uploaded, want 2 (default + albedo)", got)
	}
}

func TestLoadTexture2DFailure(t *testing.T) {
	f := newFixture(t)
	log := captureLog(t)
	if got := f.registry.LoadTexture2D("textures/missing.png"); got != metadata.InvalidTextureID {
		t.Errorf("LoadTexture2D(missing) = %d, want InvalidTextureID", got)
	}
	if !strings.Contains(log.String(), "textures/missing.png") {
		t.Errorf("failure not logged: %q", log.String())
	}
	if len(f.registry.Textures) != 1 {
		t.Errorf("failed load registered a texture")
	}
}

func TestPrefetchTexturesDecodesOnce(t *testing.T) {
	f := newFixture(t)
	jobs, err := NewJobSystem(2, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer jobs.Shutdown()
	f.registry.config.Jobs = jobs

	paths := []string{"textures/albedo.png", "textures/normal.png", "textures/albedo.png", "", "textures/missing.png"}
	f.registry.PrefetchTextures(paths)
	if got := f.backend.Count("TextureCreate"); got != 1 {
		t.Errorf("prefetch uploaded %d textures, want only the default", got)
	}

	f.registry.LoadTexture2D("textures/albedo.png")
	f.registry.LoadTexture2D("textures/normal.png")
	for _, p := range []string{"textures/albedo.png", "textures/normal.png"} {
		if got := f.images.Decodes(p); got != 1 {
			t.Errorf("%s decoded %d times, want 1", p, got)
		}
	}
}

func TestLoadProgram(t *testing.T) {
	f := newFixture(t)
	id := f.registry.LoadProgram("shaders/lit.glsl", "deferred geometry")
	p, err := f.registry.Program(id)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Linked {
		t.Error("program not linked")
	}
	if len(p.Attributes) != 4 {
		t.Errorf("reflected %d attributes, want 4", len(p.Attributes))
	}

	bp := f.backend.Programs[p.Handle]
	for _, want := range []string{"#version 410 core\n", "#define VERTEX\n", "#define DEFERRED_GEOMETRY\n"} {
		if !strings.Contains(bp.VertexSource, want) {
			t.Errorf("vertex stage is missing %q", want)
		}
	}
	if !strings.HasPrefix(bp.FragmentSource, "#version 410 core\n#define FRAGMENT\n") {
		t.Errorf("fragment stage header = %q", bp.FragmentSource[:40])
	}
	for block, binding := range metadata.UniformBlockNames {
		if got, ok := bp.Blocks[block]; !ok || got != binding {
			t.Errorf("block %s bound to %d (%v), want %d", block, got, ok, binding)
		}
	}
}

func TestLoadProgramIsBestEffort(t *testing.T) {
	f := newFixture(t)
	log := captureLog(t)
	f.backend.FailCompile = true

	id := f.registry.LoadProgram("shaders/lit.glsl", "broken")
	if id == metadata.InvalidProgramID {
		t.Fatal("compile error returned the invalid id")
	}
	p, _ := f.registry.Program(id)
	if p.Linked {
		t.Error("broken program reported as linked")
	}
	if !strings.Contains(log.String(), "broken") {
		t.Errorf("compile error not logged: %q", log.String())
	}

	if got := f.registry.LoadProgram("shaders/none.glsl", "none"); got != metadata.InvalidProgramID {
		t.Errorf("unreadable source returned %d", got)
	}
}

func TestReloadProgram(t *testing.T) {
	f := newFixture(t)
	quad, err := f.registry.AddMesh("quad", []metadata.SubmeshData{GenerateFullscreenQuad()})
	if err != nil {
		t.Fatal(err)
	}
	id := f.registry.LoadProgram("shaders/position.glsl", "quad")
	if _, err := f.registry.FindVAO(quad, 0, id); err != nil {
		t.Fatal(err)
	}
	before := f.registry.Programs[id].Handle

	changed, err := f.registry.ReloadProgram(id)
	if err != nil || changed {
		t.Fatalf("ReloadProgram() of an unchanged source = %v, %v", changed, err)
	}

	f.sources["shaders/position.glsl"].modTime = time.Unix(200, 0)
	if got := f.registry.ReloadPath("./shaders/position.glsl"); got != 1 {
		t.Fatalf("ReloadPath() reloaded %d programs, want 1", got)
	}
	after := f.registry.Programs[id].Handle
	if after == before {
		t.Error("program handle unchanged after reload")
	}
	if _, ok := f.backend.Programs[before]; ok {
		t.Error("old program not destroyed")
	}
	if n := len(f.registry.Meshes[quad].Submeshes[0].VertexArrays); n != 0 {
		t.Errorf("%d vertex arrays still cached for the old program", n)
	}
}

func TestReloadProgramKeepsWorkingBuild(t *testing.T) {
	f := newFixture(t)
	captureLog(t)
	id := f.registry.LoadProgram("shaders/position.glsl", "quad")
	before := f.registry.Programs[id].Handle

	f.backend.FailCompile = true
	f.sources["shaders/position.glsl"].modTime = time.Unix(300, 0)
	changed, err := f.registry.ReloadProgram(id)
	if err != nil || changed {
		t.Fatalf("ReloadProgram() = %v, %v", changed, err)
	}
	if got := f.registry.Programs[id].Handle; got != before {
		t.Errorf("broken rebuild replaced the program: %d -> %d", before, got)
	}
}

func TestAddMeshPacksSubmeshes(t *testing.T) {
	f := newFixture(t)
	first := GenerateFullscreenQuad()
	second := GeneratePlane(1, 1)
	id, err := f.registry.AddMesh("two", []metadata.SubmeshData{first, second})
	if err != nil {
		t.Fatal(err)
	}
	mesh, _ := f.registry.Mesh(id)
	if len(mesh.Submeshes) != 2 {
		t.Fatalf("got %d submeshes", len(mesh.Submeshes))
	}
	if got := mesh.Submeshes[1].VertexOffset; got != uint64(4*math.Vertex3DStride) {
		t.Errorf("second VertexOffset = %d, want %d", got, 4*math.Vertex3DStride)
	}
	if got := mesh.Submeshes[1].IndexOffset; got != 6*4 {
		t.Errorf("second IndexOffset = %d, want 24", got)
	}
	if got := len(f.backend.Buffers[mesh.VertexBuffer].Data); got != 8*int(math.Vertex3DStride) {
		t.Errorf("vertex buffer holds %d bytes", got)
	}
	if got := len(f.backend.Buffers[mesh.IndexBuffer].Data); got != 12*4 {
		t.Errorf("index buffer holds %d bytes", got)
	}

	bad := GenerateFullscreenQuad()
	bad.Indices = []uint32{0, 1, 9}
	if _, err := f.registry.AddMesh("bad", []metadata.SubmeshData{bad}); err == nil {
		t.Error("AddMesh() accepted an out of range index")
	}
}

func twoSubmeshModel() *metadata.ModelData {
	return &metadata.ModelData{
		Name:      "rocks",
		Submeshes: []metadata.SubmeshData{GenerateFullscreenQuad(), GeneratePlane(2, 2)},
		Materials: []metadata.MaterialConfig{
			{Name: "bumpy", AlbedoMap: "textures/albedo.png", BumpMap: "textures/bump.png", BumpStrength: 0.05},
			{Name: "mapped", AlbedoMap: "textures/albedo.png", NormalMap: "textures/normal.png", AlbedoTint: mgl32.Vec4{1, 0, 0, 1}},
		},
		SubmeshMaterials: []int{0, 1},
	}
}

func TestLoadModel(t *testing.T) {
	f := newFixture(t)
	f.models["models/rocks.obj"] = twoSubmeshModel()

	id, err := f.registry.LoadModel("models/rocks.obj")
	if err != nil {
		t.Fatal(err)
	}
	model, _ := f.registry.Model(id)
	mesh, _ := f.registry.Mesh(model.Mesh)
	if len(model.MaterialIdx()) != len(mesh.Submeshes) {
		t.Fatalf("%d materials for %d submeshes", len(model.MaterialIdx()), len(mesh.Submeshes))
	}

	bumpy := f.registry.Material(model.Material(0))
	if bumpy.HasNormals() || !bumpy.HasBump() {
		t.Errorf("bumpy: HasNormals=%v HasBump=%v", bumpy.HasNormals(), bumpy.HasBump())
	}
	mapped := f.registry.Material(model.Material(1))
	if !mapped.HasNormals() || mapped.HasBump() {
		t.Errorf("mapped: HasNormals=%v HasBump=%v", mapped.HasNormals(), mapped.HasBump())
	}
	if mapped.AlbedoTint != (mgl32.Vec4{1, 0, 0, 1}) {
		t.Errorf("mapped tint = %v", mapped.AlbedoTint)
	}
	if got := f.images.Decodes("textures/albedo.png"); got != 1 {
		t.Errorf("shared albedo decoded %d times, want 1", got)
	}
}

func TestLoadModelMissingMap(t *testing.T) {
	f := newFixture(t)
	captureLog(t)
	data := twoSubmeshModel()
	data.Materials[0].AlbedoMap = "textures/missing.png"
	data.Materials[1].NormalMap = "textures/missing_normal.png"
	f.models["models/rocks.obj"] = data

	id, err := f.registry.LoadModel("models/rocks.obj")
	if err != nil {
		t.Fatal(err)
	}
	model, _ := f.registry.Model(id)
	if f.registry.Material(model.Material(0)).HasAlbedo() {
		t.Error("material kept an albedo map that failed to load")
	}
	mapped := f.registry.Material(model.Material(1))
	if mapped.HasNormals() {
		t.Error("material kept a normal map that failed to load")
	}
	if got, ok := mapped.Normal.Get(); ok || got != 0 {
		t.Errorf("Normal.Get() = %d, %v, want an absent texture", got, ok)
	}
}

func TestAddModelRejectsMaterialMismatch(t *testing.T) {
	f := newFixture(t)
	mesh, _ := f.registry.AddMesh("quad", []metadata.SubmeshData{GenerateFullscreenQuad()})
	if _, err := f.registry.AddModel("quad", mesh, []metadata.MaterialID{0, 0}); err == nil {
		t.Error("AddModel() accepted 2 materials for 1 submesh")
	}
	if _, err := f.registry.AddModel("ghost", 42, []metadata.MaterialID{0}); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("AddModel() with an unknown mesh = %v, want ErrInvalidHandle", err)
	}
}

func TestShutdownReleasesEverything(t *testing.T) {
	f := newFixture(t)
	f.models["models/rocks.obj"] = twoSubmeshModel()
	model, _ := f.registry.LoadModel("models/rocks.obj")
	prog := f.registry.LoadProgram("shaders/lit.glsl", "lit")
	m, _ := f.registry.Model(model)
	for i := range f.registry.Meshes[m.Mesh].Submeshes {
		if _, err := f.registry.FindVAO(m.Mesh, i, prog); err != nil {
			t.Fatal(err)
		}
	}

	if err := f.registry.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if n := len(f.backend.Textures) + len(f.backend.Programs) + len(f.backend.Buffers) + len(f.backend.VertexArrays); n != 0 {
		t.Errorf("%d GPU objects left after Shutdown", n)
	}
}

func TestPointLightRadiusThroughRegistry(t *testing.T) {
	f := newFixture(t)
	light := metadata.NewLight(metadata.LightTypePoint, mgl32.Vec3{1, 1, 1}, metadata.Attenuation{Constant: 1, Linear: 0.09, Quadratic: 0.032})
	id, err := f.registry.AddLight(light)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := f.registry.Light(id)
	if got.Radius() <= 0 {
		t.Errorf("Radius() = %f", got.Radius())
	}
	if _, err := f.registry.Light(7); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Light(7) = %v, want ErrInvalidHandle", err)
	}
}
