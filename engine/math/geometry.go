package math

import "github.com/go-gl/mathgl/mgl32"

func GeometryGenerateNormals(vertices []Vertex3D, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)

		normal := edge1.Cross(edge2)
		if normal.Len() > K_FLOAT_EPSILON {
			normal = normal.Normalize()
		}

		// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
		vertices[i0].Normal = normal
		vertices[i1].Normal = normal
		vertices[i2].Normal = normal
	}
}

func GeometryGenerateTangents(vertices []Vertex3D, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)

		deltaU1 := vertices[i1].Texcoord.X() - vertices[i0].Texcoord.X()
		deltaV1 := vertices[i1].Texcoord.Y() - vertices[i0].Texcoord.Y()

		deltaU2 := vertices[i2].Texcoord.X() - vertices[i0].Texcoord.X()
		deltaV2 := vertices[i2].Texcoord.Y() - vertices[i0].Texcoord.Y()

		dividend := deltaU1*deltaV2 - deltaU2*deltaV1
		if dividend == 0 {
			// degenerate uv mapping, pick any axis orthogonal-ish to the edge
			t := edge1
			if t.Len() > K_FLOAT_EPSILON {
				t = t.Normalize()
			}
			vertices[i0].Tangent, vertices[i1].Tangent, vertices[i2].Tangent = t, t, t
			continue
		}
		fc := 1.0 / dividend

		tangent := mgl32.Vec3{
			fc * (deltaV2*edge1.X() - deltaV1*edge2.X()),
			fc * (deltaV2*edge1.Y() - deltaV1*edge2.Y()),
			fc * (deltaV2*edge1.Z() - deltaV1*edge2.Z()),
		}
		if tangent.Len() > K_FLOAT_EPSILON {
			tangent = tangent.Normalize()
		}

		handedness := float32(1.0)
		if deltaV1*deltaU2-deltaV2*deltaU1 < 0.0 {
			handedness = -1.0
		}

		t4 := tangent.Mul(handedness)
		vertices[i0].Tangent = t4
		vertices[i1].Tangent = t4
		vertices[i2].Tangent = t4
	}
}
