package surface

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-gl/engine/renderer/vertex"
)

const delta = 1e-5

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func readVertex(t *testing.T, vb *vertex.VertexBuffer, n int) (pos, normal mgl32.Vec3, tangent mgl32.Vec4) {
	t.Helper()
	v, err := vb.Get(n)
	require.NoError(t, err)
	pos, err = v.Read3F32(vertex.Position)
	require.NoError(t, err)
	normal, err = v.Read3F32(vertex.Normal)
	require.NoError(t, err)
	tangent, err = v.Read4F32(vertex.Tangent)
	require.NoError(t, err)
	return pos, normal, tangent
}

func TestMakeCube(t *testing.T) {
	cube, err := MakeCube(mgl32.Ident4())
	require.NoError(t, err)

	assert.True(t, cube.IsProcedural())
	assert.Equal(t, 24, cube.VertexBuffer.VertexCount())
	assert.Equal(t, 12, cube.Triangles.Len())
	assert.Equal(t, vertex.TriangleDefinition{2, 1, 0}, cube.Triangles.Triangles()[0])
	assert.Equal(t, xxhash.Sum64(cube.VertexBuffer.RawData()), cube.VertexBuffer.DataHash())

	for _, tri := range cube.Triangles.Iter() {
		for _, idx := range tri {
			assert.Less(t, int(idx), 24)
		}
	}

	pos, normal, tangent := readVertex(t, cube.VertexBuffer, 0)
	assertVec3(t, mgl32.Vec3{-0.5, -0.5, 0.5}, pos)
	assertVec3(t, mgl32.Vec3{0, 0, 1}, normal)
	assertVec3(t, mgl32.Vec3{1, 0, 0}, tangent.Vec3())
	assert.Equal(t, float32(1), tangent.W())
}

func TestCubeTangentsAreOrthonormal(t *testing.T) {
	cube, err := MakeCube(mgl32.Ident4())
	require.NoError(t, err)

	for i := range cube.VertexBuffer.VertexCount() {
		_, normal, tangent := readVertex(t, cube.VertexBuffer, i)
		assert.InDelta(t, 1, tangent.Vec3().Len(), delta, "vertex %d", i)
		assert.InDelta(t, 0, tangent.Vec3().Dot(normal), delta, "vertex %d", i)
		assert.Contains(t, []float32{-1, 1}, tangent.W())
	}
}

func TestMakeCubeScaled(t *testing.T) {
	cube, err := MakeCube(mgl32.Scale3D(2, 2, 2))
	require.NoError(t, err)

	pos, normal, tangent := readVertex(t, cube.VertexBuffer, 0)
	assertVec3(t, mgl32.Vec3{-1, -1, 1}, pos)
	// Inverse transpose of a uniform scale shrinks normals; direction holds.
	assertVec3(t, mgl32.Vec3{0, 0, 1}, normal.Normalize())
	assertVec3(t, mgl32.Vec3{1, 0, 0}, tangent.Vec3().Normalize())
	assert.Equal(t, float32(1), tangent.W())
}

func TestTransformGeometryTranslation(t *testing.T) {
	cube, err := MakeCube(mgl32.Translate3D(1, 0, 0))
	require.NoError(t, err)

	pos, normal, _ := readVertex(t, cube.VertexBuffer, 0)
	assertVec3(t, mgl32.Vec3{0.5, -0.5, 0.5}, pos)
	assertVec3(t, mgl32.Vec3{0, 0, 1}, normal)
}

func TestTransformGeometrySingular(t *testing.T) {
	cube, err := MakeCube(mgl32.Ident4())
	require.NoError(t, err)

	require.NoError(t, cube.TransformGeometry(mgl32.Scale3D(0, 0, 0)))
	pos, _, _ := readVertex(t, cube.VertexBuffer, 5)
	assertVec3(t, mgl32.Vec3{}, pos)
}

func TestMakeUnitXYQuad(t *testing.T) {
	quad, err := MakeUnitXYQuad()
	require.NoError(t, err)

	assert.Equal(t, 4, quad.VertexBuffer.VertexCount())
	assert.Equal(t, []vertex.TriangleDefinition{{0, 1, 2}, {0, 2, 3}}, quad.Triangles.Triangles())

	pos, normal, tangent := readVertex(t, quad.VertexBuffer, 2)
	assertVec3(t, mgl32.Vec3{1, 1, 0}, pos)
	assertVec3(t, mgl32.Vec3{0, 0, 1}, normal)

	_, _, tangent = readVertex(t, quad.VertexBuffer, 0)
	assertVec3(t, mgl32.Vec3{1, 0, 0}, tangent.Vec3())
	assert.Equal(t, float32(-1), tangent.W())
}

func TestCalculateTangentsErrors(t *testing.T) {
	layout := []vertex.VertexAttributeDescriptor{
		{Usage: vertex.Position, DataType: vertex.F32, Size: 3, ShaderLocation: 0},
	}
	vb, err := vertex.NewVertexBuffer(3, layout, []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	require.NoError(t, err)

	missingUV := NewSurfaceData(vb, vertex.NewTriangleBuffer([]vertex.TriangleDefinition{{0, 1, 2}}), false)
	assert.ErrorIs(t, missingUV.CalculateTangents(), vertex.ErrNoSuchAttribute)
	assert.False(t, missingUV.IsProcedural())

	static := []vertex.StaticVertex{
		vertex.NewStaticVertexFromPosUV(mgl32.Vec3{0, 0, 0}, mgl32.Vec2{0, 0}),
		vertex.NewStaticVertexFromPosUV(mgl32.Vec3{1, 0, 0}, mgl32.Vec2{1, 0}),
		vertex.NewStaticVertexFromPosUV(mgl32.Vec3{0, 1, 0}, mgl32.Vec2{0, 1}),
	}
	staticVB, err := vertex.NewVertexBuffer(len(static), vertex.StaticVertexLayout(), static)
	require.NoError(t, err)
	before := staticVB.DataHash()

	badIndex := NewSurfaceData(staticVB, vertex.NewTriangleBuffer([]vertex.TriangleDefinition{{0, 1, 5}}), false)
	assert.ErrorIs(t, badIndex.CalculateTangents(), vertex.ErrNoSuchVertex)
	assert.Equal(t, before, staticVB.DataHash())
}
