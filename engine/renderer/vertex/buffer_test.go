package vertex

import (
	"encoding/binary"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func positionLayout() []VertexAttributeDescriptor {
	return []VertexAttributeDescriptor{
		{Usage: Position, DataType: F32, Size: 3, ShaderLocation: 0},
	}
}

func triangleVertices() []mgl32.Vec3 {
	return []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
}

func staticBuffer(t *testing.T, n int) *VertexBuffer {
	t.Helper()
	vertices := make([]StaticVertex, n)
	for i := range vertices {
		vertices[i] = NewStaticVertexFromPosUV(mgl32.Vec3{float32(i), 0, 0}, mgl32.Vec2{0, 1})
	}
	vb, err := NewVertexBuffer(n, StaticVertexLayout(), vertices)
	require.NoError(t, err)
	return vb
}

func requireHashInSync(t *testing.T, vb *VertexBuffer) {
	t.Helper()
	require.Equal(t, xxhash.Sum64(vb.RawData()), vb.DataHash())
}

func TestNewVertexBuffer(t *testing.T) {
	vb, err := NewVertexBuffer(3, positionLayout(), triangleVertices())
	require.NoError(t, err)

	assert.Equal(t, 3, vb.VertexCount())
	assert.Equal(t, 12, vb.VertexSize())
	assert.Len(t, vb.RawData(), 36)
	requireHashInSync(t, vb)

	p, err := vb.Get(1)
	require.NoError(t, err)
	pos, err := p.Read3F32(Position)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, pos)
}

func TestNewVertexBufferEmpty(t *testing.T) {
	vb, err := NewVertexBuffer[mgl32.Vec3](0, positionLayout(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, vb.VertexCount())
	assert.Empty(t, vb.RawData())
}

func TestNewVertexBufferDataSizeMismatch(t *testing.T) {
	for _, count := range []int{0, 2, 4, 36} {
		_, err := NewVertexBuffer(count, positionLayout(), triangleVertices())
		assert.ErrorIs(t, err, ErrInvalidDataSize, "count %d", count)
	}

	_, err := NewVertexBufferFromBytes(1, positionLayout(), make([]byte, 11))
	assert.ErrorIs(t, err, ErrInvalidDataSize)
}

func TestNewVertexBufferRejectsVariableSizeRecords(t *testing.T) {
	_, err := NewVertexBuffer(1, positionLayout(), []string{"not a vertex"})
	assert.ErrorIs(t, err, ErrInvalidDataSize)
}

func TestLayoutValidation(t *testing.T) {
	tests := []struct {
		name   string
		layout []VertexAttributeDescriptor
		err    error
	}{
		{
			name: "duplicated usage",
			layout: []VertexAttributeDescriptor{
				{Usage: Position, DataType: F32, Size: 3, ShaderLocation: 0},
				{Usage: Position, DataType: U8, Size: 4, ShaderLocation: 1},
			},
			err: ErrDuplicatedAttributeDescriptor,
		},
		{
			name: "duplicated usage and location",
			layout: []VertexAttributeDescriptor{
				{Usage: Normal, DataType: F32, Size: 3, ShaderLocation: 2},
				{Usage: Normal, DataType: F32, Size: 3, ShaderLocation: 2},
			},
			err: ErrDuplicatedAttributeDescriptor,
		},
		{
			name: "shared location",
			layout: []VertexAttributeDescriptor{
				{Usage: Position, DataType: F32, Size: 3, ShaderLocation: 0},
				{Usage: Normal, DataType: F32, Size: 3, ShaderLocation: 0},
			},
			err: ErrConflictingShaderLocations,
		},
		{
			name: "zero components",
			layout: []VertexAttributeDescriptor{
				{Usage: Position, DataType: F32, Size: 0, ShaderLocation: 0},
			},
			err: ErrInvalidAttributeSize,
		},
		{
			name: "five components",
			layout: []VertexAttributeDescriptor{
				{Usage: Position, DataType: F32, Size: 5, ShaderLocation: 0},
			},
			err: ErrInvalidAttributeSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVertexBufferFromBytes(0, tt.layout, nil)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestStaticVertexLayoutOffsets(t *testing.T) {
	vb := staticBuffer(t, 2)

	assert.Equal(t, binary.Size(StaticVertex{}), vb.VertexSize())
	assert.Equal(t, 48, vb.VertexSize())

	var offsets []uint32
	for _, a := range vb.Layout() {
		offsets = append(offsets, a.Offset)
	}
	assert.Equal(t, []uint32{0, 12, 20, 32}, offsets)

	normal, ok := vb.Attribute(Normal)
	require.True(t, ok)
	assert.Equal(t, uint8(2), normal.ShaderLocation)
	assert.False(t, vb.HasAttribute(BoneWeight))
}

func TestReadWriteRoundTrip(t *testing.T) {
	vb := staticBuffer(t, 5)

	err := vb.Modify(func(m *VertexBufferMut) error {
		for i, v := range m.Iter() {
			f := float32(i)
			if err := v.Write3F32(Position, mgl32.Vec3{f, 2 * f, -f}); err != nil {
				return err
			}
			if err := v.Write4F32(Tangent, mgl32.Vec4{f, 0.5, 0.25, -1}); err != nil {
				return err
			}
			if err := v.Write2F32(TexCoord0, mgl32.Vec2{0.5, f}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	requireHashInSync(t, vb)

	for i, v := range vb.Iter() {
		f := float32(i)
		pos, err := v.Read3F32(Position)
		require.NoError(t, err)
		assert.Equal(t, mgl32.Vec3{f, 2 * f, -f}, pos)

		tan, err := v.Read4F32(Tangent)
		require.NoError(t, err)
		assert.Equal(t, mgl32.Vec4{f, 0.5, 0.25, -1}, tan)

		uv, err := v.Read2F32(TexCoord0)
		require.NoError(t, err)
		assert.Equal(t, mgl32.Vec2{0.5, f}, uv)

		normal, err := v.Read3F32(Normal)
		require.NoError(t, err)
		assert.Equal(t, mgl32.Vec3{0, 1, 0}, normal)
	}
}

func TestLittleEndianEncoding(t *testing.T) {
	vb, err := NewVertexBuffer(1, positionLayout(), []mgl32.Vec3{{1, 0, 0}})
	require.NoError(t, err)
	// 1.0f is 0x3F800000.
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, vb.RawData()[:4])
}

func TestUndeclaredAttribute(t *testing.T) {
	vb := staticBuffer(t, 1)
	v, err := vb.Get(0)
	require.NoError(t, err)

	_, err = v.Read4F32(BoneWeight)
	assert.ErrorIs(t, err, ErrNoSuchAttribute)
	_, err = v.Read4U8(BoneIndices)
	assert.ErrorIs(t, err, ErrNoSuchAttribute)
	_, err = v.Read3F32(VertexAttributeUsage(99))
	assert.ErrorIs(t, err, ErrNoSuchAttribute)

	err = vb.Modify(func(m *VertexBufferMut) error {
		w, err := m.Get(0)
		require.NoError(t, err)
		assert.ErrorIs(t, w.Write4U8(BoneIndices, [4]uint8{1, 2, 3, 4}), ErrNoSuchAttribute)
		assert.ErrorIs(t, w.Write2F32(TexCoord3, mgl32.Vec2{}), ErrNoSuchAttribute)
		return nil
	})
	require.NoError(t, err)
}

func TestAccessWiderThanAttribute(t *testing.T) {
	vb := staticBuffer(t, 1)
	v, err := vb.Get(0)
	require.NoError(t, err)

	_, err = v.Read3F32(TexCoord0)
	assert.ErrorIs(t, err, ErrAttributeAccessOutOfRange)
	_, err = v.Read4F32(Normal)
	assert.ErrorIs(t, err, ErrAttributeAccessOutOfRange)
}

func TestGetOutOfRange(t *testing.T) {
	vb := staticBuffer(t, 2)
	_, err := vb.Get(2)
	assert.ErrorIs(t, err, ErrNoSuchVertex)
	_, err = vb.Get(-1)
	assert.ErrorIs(t, err, ErrNoSuchVertex)
}

func TestPushVertex(t *testing.T) {
	vb := staticBuffer(t, 2)
	before := vb.DataHash()

	err := vb.Modify(func(m *VertexBufferMut) error {
		return m.PushVertex(NewStaticVertexFromPosUV(mgl32.Vec3{7, 8, 9}, mgl32.Vec2{}))
	})
	require.NoError(t, err)
	requireHashInSync(t, vb)
	assert.NotEqual(t, before, vb.DataHash())
	assert.Equal(t, 3, vb.VertexCount())
	assert.Len(t, vb.RawData(), 3*48)

	v, err := vb.Get(2)
	require.NoError(t, err)
	pos, err := v.Read3F32(Position)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{7, 8, 9}, pos)
}

func TestPushVertexWrongSize(t *testing.T) {
	vb := staticBuffer(t, 2)

	err := vb.Modify(func(m *VertexBufferMut) error {
		return m.PushVertex(mgl32.Vec3{1, 2, 3})
	})
	assert.ErrorIs(t, err, ErrInvalidVertexSize)
	assert.Equal(t, 2, vb.VertexCount())
	requireHashInSync(t, vb)
}

func TestPopVertex(t *testing.T) {
	vb := staticBuffer(t, 3)

	var last StaticVertex
	err := vb.Modify(func(m *VertexBufferMut) error {
		return m.PopVertex(&last)
	})
	require.NoError(t, err)
	requireHashInSync(t, vb)
	assert.Equal(t, 2, vb.VertexCount())
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, last.Position)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, last.Normal)

	var wrong mgl32.Vec3
	err = vb.Modify(func(m *VertexBufferMut) error {
		return m.PopVertex(&wrong)
	})
	assert.ErrorIs(t, err, ErrInvalidVertexSize)
	assert.Equal(t, 2, vb.VertexCount())
}

func TestPopVertexEmpty(t *testing.T) {
	vb := staticBuffer(t, 0)
	var v StaticVertex
	err := vb.Modify(func(m *VertexBufferMut) error {
		return m.PopVertex(&v)
	})
	assert.ErrorIs(t, err, ErrNoSuchVertex)
}

func TestDuplicate(t *testing.T) {
	vb := staticBuffer(t, 3)

	var idx int
	err := vb.Modify(func(m *VertexBufferMut) error {
		var err error
		idx, err = m.Duplicate(1)
		return err
	})
	require.NoError(t, err)
	requireHashInSync(t, vb)
	assert.Equal(t, 3, idx)
	assert.Equal(t, 4, vb.VertexCount())
	assert.Equal(t, vb.RawData()[48:96], vb.RawData()[144:192])

	err = vb.Modify(func(m *VertexBufferMut) error {
		_, err := m.Duplicate(4)
		return err
	})
	assert.ErrorIs(t, err, ErrNoSuchVertex)
}

func TestAddAttribute(t *testing.T) {
	vb, err := NewVertexBuffer(3, positionLayout(), triangleVertices())
	require.NoError(t, err)

	fill := [4]uint8{1, 2, 3, 4}
	err = vb.Modify(func(m *VertexBufferMut) error {
		return m.AddAttribute(VertexAttributeDescriptor{Usage: BoneIndices, DataType: U8, Size: 4, ShaderLocation: 5}, fill)
	})
	require.NoError(t, err)
	requireHashInSync(t, vb)

	assert.Equal(t, 16, vb.VertexSize())
	assert.Len(t, vb.RawData(), 48)
	attr, ok := vb.Attribute(BoneIndices)
	require.True(t, ok)
	assert.Equal(t, uint32(12), attr.Offset)

	for i, v := range vb.Iter() {
		got, err := v.Read4U8(BoneIndices)
		require.NoError(t, err)
		assert.Equal(t, fill, got)

		pos, err := v.Read3F32(Position)
		require.NoError(t, err)
		assert.Equal(t, triangleVertices()[i], pos)
	}
}

func TestAddAttributeRejected(t *testing.T) {
	vb, err := NewVertexBuffer(3, positionLayout(), triangleVertices())
	require.NoError(t, err)

	err = vb.Modify(func(m *VertexBufferMut) error {
		return m.AddAttribute(VertexAttributeDescriptor{Usage: Position, DataType: F32, Size: 2, ShaderLocation: 4}, mgl32.Vec2{})
	})
	assert.ErrorIs(t, err, ErrDuplicatedAttributeDescriptor)

	err = vb.Modify(func(m *VertexBufferMut) error {
		return m.AddAttribute(VertexAttributeDescriptor{Usage: Normal, DataType: F32, Size: 3, ShaderLocation: 0}, mgl32.Vec3{})
	})
	assert.ErrorIs(t, err, ErrConflictingShaderLocations)

	err = vb.Modify(func(m *VertexBufferMut) error {
		return m.AddAttribute(VertexAttributeDescriptor{Usage: Normal, DataType: F32, Size: 3, ShaderLocation: 1}, mgl32.Vec2{})
	})
	assert.ErrorIs(t, err, ErrInvalidDataSize)

	assert.Equal(t, 12, vb.VertexSize())
	requireHashInSync(t, vb)
}

func TestModifyRecomputesHashOnce(t *testing.T) {
	vb := staticBuffer(t, 4)
	before := vb.DataHash()

	err := vb.Modify(func(m *VertexBufferMut) error {
		for _, v := range m.Iter() {
			if err := v.Write3F32(Normal, mgl32.Vec3{0, 0, 1}); err != nil {
				return err
			}
		}
		// Stale inside the scope.
		assert.Equal(t, before, vb.DataHash())
		return nil
	})
	require.NoError(t, err)
	assert.NotEqual(t, before, vb.DataHash())
	requireHashInSync(t, vb)
}

func TestClear(t *testing.T) {
	vb := staticBuffer(t, 4)
	require.NoError(t, vb.Modify(func(m *VertexBufferMut) error {
		m.Clear()
		return nil
	}))
	assert.Equal(t, 0, vb.VertexCount())
	assert.Len(t, vb.Layout(), 4)
	requireHashInSync(t, vb)
}

func TestMutAfterScopePanics(t *testing.T) {
	vb := staticBuffer(t, 1)
	var escaped *VertexBufferMut
	require.NoError(t, vb.Modify(func(m *VertexBufferMut) error {
		escaped = m
		return nil
	}))

	assert.Panics(t, func() { escaped.Clear() })
}

func TestNestedModifyPanics(t *testing.T) {
	vb := staticBuffer(t, 2)
	before := vb.DataHash()

	assert.Panics(t, func() {
		_ = vb.Modify(func(m *VertexBufferMut) error {
			return vb.Modify(func(inner *VertexBufferMut) error {
				return nil
			})
		})
	})
	assert.Equal(t, before, vb.DataHash())

	// The outer scope was unwound, so the buffer accepts a new scope.
	require.NoError(t, vb.Modify(func(m *VertexBufferMut) error {
		v, err := m.Get(0)
		require.NoError(t, err)
		return v.Write3F32(Position, mgl32.Vec3{9, 9, 9})
	}))
	requireHashInSync(t, vb)
}

func TestIterStopsEarly(t *testing.T) {
	vb := staticBuffer(t, 5)
	seen := 0
	for i := range vb.Iter() {
		seen++
		if i == 1 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}
