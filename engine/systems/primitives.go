package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/math"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

/** @brief Meshes the render passes draw besides the scene models. */
type Primitives struct {
	/** @brief Covers clip space, [-1,1] on x and y at z=0. */
	FullscreenQuad metadata.MeshID
	/** @brief Unit quad on the XZ plane, facing up. */
	WaterPlane metadata.MeshID
	/** @brief Unit radius icosphere, the point light volume. */
	Sphere metadata.MeshID
}

// CreatePrimitives registers the built-in meshes.
func (r *Registry) CreatePrimitives() (Primitives, error) {
	var p Primitives
	var err error
	if p.FullscreenQuad, err = r.AddMesh("builtin.fullscreen_quad", []metadata.SubmeshData{GenerateFullscreenQuad()}); err != nil {
		return p, err
	}
	if p.WaterPlane, err = r.AddMesh("builtin.water_plane", []metadata.SubmeshData{GeneratePlane(1, 1)}); err != nil {
		return p, err
	}
	if p.Sphere, err = r.AddMesh("builtin.sphere", []metadata.SubmeshData{GenerateIcosphere(2)}); err != nil {
		return p, err
	}
	return p, nil
}

func GenerateFullscreenQuad() metadata.SubmeshData {
	vertices := []math.Vertex3D{
		{Position: mgl32.Vec3{-1, -1, 0}, Normal: mgl32.Vec3{0, 0, 1}, Texcoord: mgl32.Vec2{0, 0}, Tangent: mgl32.Vec3{1, 0, 0}},
		{Position: mgl32.Vec3{1, -1, 0}, Normal: mgl32.Vec3{0, 0, 1}, Texcoord: mgl32.Vec2{1, 0}, Tangent: mgl32.Vec3{1, 0, 0}},
		{Position: mgl32.Vec3{1, 1, 0}, Normal: mgl32.Vec3{0, 0, 1}, Texcoord: mgl32.Vec2{1, 1}, Tangent: mgl32.Vec3{1, 0, 0}},
		{Position: mgl32.Vec3{-1, 1, 0}, Normal: mgl32.Vec3{0, 0, 1}, Texcoord: mgl32.Vec2{0, 1}, Tangent: mgl32.Vec3{1, 0, 0}},
	}
	return metadata.NewSubmeshData(vertices, []uint32{0, 1, 2, 0, 2, 3})
}

// GeneratePlane builds a quad on the XZ plane centered on the origin,
// with texture coordinates tiled tileU by tileV times.
func GeneratePlane(tileU, tileV float32) metadata.SubmeshData {
	up := mgl32.Vec3{0, 1, 0}
	tangent := mgl32.Vec3{1, 0, 0}
	vertices := []math.Vertex3D{
		{Position: mgl32.Vec3{-0.5, 0, 0.5}, Normal: up, Texcoord: mgl32.Vec2{0, 0}, Tangent: tangent},
		{Position: mgl32.Vec3{0.5, 0, 0.5}, Normal: up, Texcoord: mgl32.Vec2{tileU, 0}, Tangent: tangent},
		{Position: mgl32.Vec3{0.5, 0, -0.5}, Normal: up, Texcoord: mgl32.Vec2{tileU, tileV}, Tangent: tangent},
		{Position: mgl32.Vec3{-0.5, 0, -0.5}, Normal: up, Texcoord: mgl32.Vec2{0, tileV}, Tangent: tangent},
	}
	return metadata.NewSubmeshData(vertices, []uint32{0, 1, 2, 0, 2, 3})
}

/**
 * @brief Builds a unit sphere by subdividing an icosahedron. Each level
 * splits every triangle in four.
 */
func GenerateIcosphere(subdivisions int) metadata.SubmeshData {
	t := float32((1.0 + math.Sqrt(5.0)) / 2.0)
	positions := []mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	for i := range positions {
		positions[i] = positions[i].Normalize()
	}
	indices := []uint32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	for level := 0; level < subdivisions; level++ {
		midpoints := make(map[[2]uint32]uint32)
		midpoint := func(a, b uint32) uint32 {
			key := [2]uint32{a, b}
			if a > b {
				key = [2]uint32{b, a}
			}
			if i, ok := midpoints[key]; ok {
				return i
			}
			p := positions[a].Add(positions[b]).Mul(0.5).Normalize()
			positions = append(positions, p)
			i := uint32(len(positions) - 1)
			midpoints[key] = i
			return i
		}
		next := make([]uint32, 0, len(indices)*4)
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+1], indices[i+2]
			ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
			next = append(next,
				a, ab, ca,
				b, bc, ab,
				c, ca, bc,
				ab, bc, ca,
			)
		}
		indices = next
	}

	vertices := make([]math.Vertex3D, len(positions))
	for i, p := range positions {
		vertices[i] = math.Vertex3D{Position: p, Normal: p}
	}
	math.GeometryGenerateTangents(vertices, indices)
	return metadata.NewSubmeshData(vertices, indices)
}
