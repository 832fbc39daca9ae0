// Package surface pairs a vertex buffer with the triangles connecting its
// vertices and generates the canonical procedural meshes.
package surface

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima-gl/engine/renderer/vertex"
)

// epsilon is the float32 machine epsilon.
const epsilon = 1.1920929e-7

type SurfaceData struct {
	VertexBuffer *vertex.VertexBuffer
	Triangles    *vertex.TriangleBuffer
	// Procedural data was generated rather than loaded from a resource.
	procedural bool
}

func NewSurfaceData(vb *vertex.VertexBuffer, triangles *vertex.TriangleBuffer, isProcedural bool) *SurfaceData {
	return &SurfaceData{
		VertexBuffer: vb,
		Triangles:    triangles,
		procedural:   isProcedural,
	}
}

func (s *SurfaceData) IsProcedural() bool {
	return s.procedural
}

/**
 * @brief Recomputes the tangent of every vertex from positions and the
 * first texture coordinates.
 *
 * Tangents are accumulated per triangle, then Gram-Schmidt orthogonalized
 * against the normal. W stores the handedness of the frame.
 *
 * @return An error if a triangle names a missing vertex or the layout lacks
 * Position, TexCoord0, Normal or Tangent.
 */
func (s *SurfaceData) CalculateTangents() error {
	count := s.VertexBuffer.VertexCount()
	tan1 := make([]mgl32.Vec3, count)
	tan2 := make([]mgl32.Vec3, count)

	for _, tri := range s.Triangles.Iter() {
		var (
			pos [3]mgl32.Vec3
			uv  [3]mgl32.Vec2
		)
		for k, idx := range tri {
			view, err := s.VertexBuffer.Get(int(idx))
			if err != nil {
				return err
			}
			if pos[k], err = view.Read3F32(vertex.Position); err != nil {
				return err
			}
			if uv[k], err = view.Read2F32(vertex.TexCoord0); err != nil {
				return err
			}
		}

		e1 := pos[1].Sub(pos[0])
		e2 := pos[2].Sub(pos[0])
		s1 := uv[1].X() - uv[0].X()
		s2 := uv[2].X() - uv[0].X()
		t1 := uv[1].Y() - uv[0].Y()
		t2 := uv[2].Y() - uv[0].Y()

		r := 1.0 / (s1*t2 - s2*t1)
		sdir := e1.Mul(t2).Sub(e2.Mul(t1)).Mul(r)
		tdir := e2.Mul(s1).Sub(e1.Mul(s2)).Mul(r)

		for _, idx := range tri {
			tan1[idx] = tan1[idx].Add(sdir)
			tan2[idx] = tan2[idx].Add(tdir)
		}
	}

	return s.VertexBuffer.Modify(func(m *vertex.VertexBufferMut) error {
		for i, view := range m.Iter() {
			normal, err := view.Read3F32(vertex.Normal)
			if err != nil {
				return err
			}
			t1 := tan1[i]
			tangent := tryNormalize(t1.Sub(normal.Mul(normal.Dot(t1))), mgl32.Vec3{0, 1, 0})
			handedness := signum(normal.Cross(t1).Dot(tan2[i]))
			if err := view.Write4F32(vertex.Tangent, tangent.Vec4(handedness)); err != nil {
				return err
			}
		}
		return nil
	})
}

/**
 * @brief Applies transform to every vertex.
 *
 * Positions use the full transform. Normals and tangents use the inverse
 * transpose so that scale does not skew them; tangent W is kept.
 *
 * @param transform The transform to apply.
 */
func (s *SurfaceData) TransformGeometry(transform mgl32.Mat4) error {
	// A singular transform yields the zero matrix.
	normalMatrix := transform.Inv().Transpose()

	return s.VertexBuffer.Modify(func(m *vertex.VertexBufferMut) error {
		for _, view := range m.Iter() {
			position, err := view.Read3F32(vertex.Position)
			if err != nil {
				return err
			}
			if err := view.Write3F32(vertex.Position, mgl32.TransformCoordinate(position, transform)); err != nil {
				return err
			}

			normal, err := view.Read3F32(vertex.Normal)
			if err != nil {
				return err
			}
			if err := view.Write3F32(vertex.Normal, mgl32.TransformNormal(normal, normalMatrix)); err != nil {
				return err
			}

			tangent, err := view.Read4F32(vertex.Tangent)
			if err != nil {
				return err
			}
			newTangent := mgl32.TransformNormal(tangent.Vec3(), normalMatrix)
			if err := view.Write4F32(vertex.Tangent, newTangent.Vec4(tangent.W())); err != nil {
				return err
			}
		}
		return nil
	})
}

func tryNormalize(v mgl32.Vec3, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l <= epsilon {
		return fallback
	}
	return v.Mul(1 / l)
}

// signum is 1 for +0 and positive values, -1 for -0 and negative values.
func signum(f float32) float32 {
	return float32(math.Copysign(1, float64(f)))
}
