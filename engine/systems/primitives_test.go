package systems

import (
	"testing"

	"github.com/spaghettifunk/shoreline/engine/math"
)

func TestGenerateIcosphere(t *testing.T) {
	tests := []struct {
		subdivisions int
		vertices     int
		triangles    int
	}{
		{0, 12, 20},
		{1, 42, 80},
		{2, 162, 320},
	}
	for _, tt := range tests {
		sphere := GenerateIcosphere(tt.subdivisions)
		vertices := len(sphere.Vertices) / int(math.Vertex3DStride)
		if vertices != tt.vertices {
			t.Errorf("subdivisions %d: %d vertices, want %d", tt.subdivisions, vertices, tt.vertices)
		}
		if got := len(sphere.Indices) / 3; got != tt.triangles {
			t.Errorf("subdivisions %d: %d triangles, want %d", tt.subdivisions, got, tt.triangles)
		}
		for i := 0; i < vertices; i++ {
			off := uint64(i) * uint64(math.Vertex3DStride)
			x, y, z := readFloat32(sphere.Vertices, off), readFloat32(sphere.Vertices, off+4), readFloat32(sphere.Vertices, off+8)
			if !approx(x*x+y*y+z*z, 1) {
				t.Fatalf("vertex %d is off the unit sphere", i)
			}
		}
	}
}

func TestCreatePrimitives(t *testing.T) {
	f := newFixture(t)
	p, err := f.registry.CreatePrimitives()
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []int{int(p.FullscreenQuad), int(p.WaterPlane), int(p.Sphere)} {
		mesh := f.registry.Meshes[id]
		if len(mesh.Submeshes) != 1 || mesh.Submeshes[0].IndexCount() == 0 {
			t.Errorf("primitive %q is empty", mesh.Name)
		}
	}
	if p.FullscreenQuad == p.Sphere {
		t.Error("primitives share a mesh")
	}
}
