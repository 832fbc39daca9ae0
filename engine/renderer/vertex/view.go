package vertex

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexView reads the fields of a single record.
type VertexView struct {
	vb    *VertexBuffer
	index int
}

func (v VertexView) Index() int {
	return v.index
}

// field returns the width bytes that start at the attribute's offset.
func (v VertexView) field(usage VertexAttributeUsage, width uint32) ([]byte, error) {
	if v.vb == nil {
		return nil, fmt.Errorf("%w: zero view", ErrNoSuchVertex)
	}
	if v.index >= v.vb.VertexCount() {
		return nil, fmt.Errorf("%w: %d of %d", ErrNoSuchVertex, v.index, v.vb.vertexCount)
	}
	attr, ok := v.vb.sparseLayout.get(usage)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchAttribute, usage)
	}
	if width > attr.ByteSize() {
		return nil, fmt.Errorf("%w: %d bytes from %s of %d bytes", ErrAttributeAccessOutOfRange, width, usage, attr.ByteSize())
	}
	rec := v.vb.record(v.index)
	return rec[attr.Offset : attr.Offset+width], nil
}

func (v VertexView) Read2F32(usage VertexAttributeUsage) (mgl32.Vec2, error) {
	b, err := v.field(usage, 8)
	if err != nil {
		return mgl32.Vec2{}, err
	}
	return mgl32.Vec2{f32(b, 0), f32(b, 1)}, nil
}

func (v VertexView) Read3F32(usage VertexAttributeUsage) (mgl32.Vec3, error) {
	b, err := v.field(usage, 12)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{f32(b, 0), f32(b, 1), f32(b, 2)}, nil
}

func (v VertexView) Read4F32(usage VertexAttributeUsage) (mgl32.Vec4, error) {
	b, err := v.field(usage, 16)
	if err != nil {
		return mgl32.Vec4{}, err
	}
	return mgl32.Vec4{f32(b, 0), f32(b, 1), f32(b, 2), f32(b, 3)}, nil
}

func (v VertexView) Read4U8(usage VertexAttributeUsage) ([4]uint8, error) {
	b, err := v.field(usage, 4)
	if err != nil {
		return [4]uint8{}, err
	}
	return [4]uint8{b[0], b[1], b[2], b[3]}, nil
}

// VertexViewMut reads and writes the fields of a single record inside a
// Modify scope.
type VertexViewMut struct {
	m     *VertexBufferMut
	index int
}

func (v VertexViewMut) Index() int {
	return v.index
}

func (v VertexViewMut) view() VertexView {
	if v.m == nil {
		return VertexView{}
	}
	return VertexView{vb: v.m.buffer(), index: v.index}
}

func (v VertexViewMut) Read2F32(usage VertexAttributeUsage) (mgl32.Vec2, error) {
	return v.view().Read2F32(usage)
}

func (v VertexViewMut) Read3F32(usage VertexAttributeUsage) (mgl32.Vec3, error) {
	return v.view().Read3F32(usage)
}

func (v VertexViewMut) Read4F32(usage VertexAttributeUsage) (mgl32.Vec4, error) {
	return v.view().Read4F32(usage)
}

func (v VertexViewMut) Read4U8(usage VertexAttributeUsage) ([4]uint8, error) {
	return v.view().Read4U8(usage)
}

func (v VertexViewMut) Write2F32(usage VertexAttributeUsage, value mgl32.Vec2) error {
	b, err := v.view().field(usage, 8)
	if err != nil {
		return err
	}
	putF32s(b, value[:])
	return nil
}

func (v VertexViewMut) Write3F32(usage VertexAttributeUsage, value mgl32.Vec3) error {
	b, err := v.view().field(usage, 12)
	if err != nil {
		return err
	}
	putF32s(b, value[:])
	return nil
}

func (v VertexViewMut) Write4F32(usage VertexAttributeUsage, value mgl32.Vec4) error {
	b, err := v.view().field(usage, 16)
	if err != nil {
		return err
	}
	putF32s(b, value[:])
	return nil
}

func (v VertexViewMut) Write4U8(usage VertexAttributeUsage, value [4]uint8) error {
	b, err := v.view().field(usage, 4)
	if err != nil {
		return err
	}
	copy(b, value[:])
	return nil
}

func f32(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
}

func putF32s(b []byte, values []float32) {
	for i, f := range values {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
}
