package vertex

import (
	"encoding/binary"
	"iter"
	"slices"
)

// TriangleDefinition holds the three vertex indices of a triangle.
type TriangleDefinition [3]uint32

// TriangleBuffer is the list of triangles connecting the vertices of a
// VertexBuffer, plus a hash of its contents.
type TriangleBuffer struct {
	triangles []TriangleDefinition
	dataHash  uint64
	modifying bool
}

// NewTriangleBuffer copies triangles; later changes to the argument do not
// affect the buffer.
func NewTriangleBuffer(triangles []TriangleDefinition) *TriangleBuffer {
	owned := slices.Clone(triangles)
	return &TriangleBuffer{
		triangles: owned,
		dataHash:  calculateTriangleHash(owned),
	}
}

func (tb *TriangleBuffer) Iter() iter.Seq2[int, TriangleDefinition] {
	return func(yield func(int, TriangleDefinition) bool) {
		for i, t := range tb.triangles {
			if !yield(i, t) {
				return
			}
		}
	}
}

// Triangles returns the inner slice. It must not be modified.
func (tb *TriangleBuffer) Triangles() []TriangleDefinition {
	return tb.triangles
}

// SetTriangles replaces the contents with a copy of triangles and refreshes
// the hash.
func (tb *TriangleBuffer) SetTriangles(triangles []TriangleDefinition) {
	tb.triangles = slices.Clone(triangles)
	tb.dataHash = calculateTriangleHash(tb.triangles)
}

func (tb *TriangleBuffer) Len() int {
	return len(tb.triangles)
}

func (tb *TriangleBuffer) IsEmpty() bool {
	return len(tb.triangles) == 0
}

func (tb *TriangleBuffer) DataHash() uint64 {
	return tb.dataHash
}

// Bytes returns the indices as little-endian u32, the form uploaded to an
// element buffer.
func (tb *TriangleBuffer) Bytes() []byte {
	return TrianglesToBytes(tb.triangles)
}

// Modify runs fn with write access; the hash is recomputed once when fn
// returns. Nested Modify calls on the same buffer panic.
func (tb *TriangleBuffer) Modify(fn func(m *TriangleBufferMut) error) error {
	if tb.modifying {
		panic("vertex: nested Modify on the same TriangleBuffer")
	}
	tb.modifying = true
	m := &TriangleBufferMut{tb: tb}
	defer func() {
		m.tb = nil
		tb.modifying = false
		tb.dataHash = calculateTriangleHash(tb.triangles)
	}()
	return fn(m)
}

type TriangleBufferMut struct {
	tb *TriangleBuffer
}

func (m *TriangleBufferMut) buffer() *TriangleBuffer {
	if m.tb == nil {
		panic("vertex: TriangleBufferMut used after its Modify scope ended")
	}
	return m.tb
}

func (m *TriangleBufferMut) Push(t TriangleDefinition) {
	tb := m.buffer()
	tb.triangles = append(tb.triangles, t)
}

func (m *TriangleBufferMut) Clear() {
	tb := m.buffer()
	tb.triangles = tb.triangles[:0]
}

func (m *TriangleBufferMut) Len() int {
	return len(m.buffer().triangles)
}

// At returns the triangle at i for in-place edits. It panics when i is out
// of range.
func (m *TriangleBufferMut) At(i int) *TriangleDefinition {
	return &m.buffer().triangles[i]
}

func (m *TriangleBufferMut) Iter() iter.Seq2[int, *TriangleDefinition] {
	return func(yield func(int, *TriangleDefinition) bool) {
		tb := m.buffer()
		for i := range tb.triangles {
			if !yield(i, &tb.triangles[i]) {
				return
			}
		}
	}
}

// TrianglesToBytes flattens triangles into little-endian u32 indices.
func TrianglesToBytes(triangles []TriangleDefinition) []byte {
	out := make([]byte, 0, len(triangles)*12)
	for _, t := range triangles {
		for _, idx := range t {
			out = binary.LittleEndian.AppendUint32(out, idx)
		}
	}
	return out
}

func calculateTriangleHash(triangles []TriangleDefinition) uint64 {
	return calculateDataHash(TrianglesToBytes(triangles))
}
