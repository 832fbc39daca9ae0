// Package vertex describes vertex records: attribute layouts, the byte
// buffer holding the records, typed views over a single record and the
// triangle list that connects them.
//
// All multi-byte fields are little-endian regardless of the host.
package vertex

import (
	"encoding/binary"
	"fmt"
	"iter"
	"slices"

	"github.com/spaghettifunk/anima-gl/engine/core"
)

// VertexBuffer owns the bytes of vertexCount records of vertexSize bytes
// each, the layout describing them and a hash of the bytes. The hash is
// refreshed when a Modify scope ends.
type VertexBuffer struct {
	denseLayout  []VertexAttribute
	sparseLayout sparseLayout
	vertexSize   uint32
	vertexCount  uint32
	data         []byte
	dataHash     uint64
	modifying    bool
}

/**
 * @brief Creates a vertex buffer from fixed-size records.
 *
 * Every record of data is serialized field by field, in declaration order,
 * little-endian. The record type must be made of fixed-size fields only.
 *
 * @param vertexCount The number of records the layout describes.
 * @param layout The attribute descriptors, in record order.
 * @param data The records.
 * @return The buffer, or an error if the layout or the data size is invalid.
 */
func NewVertexBuffer[T any](vertexCount int, layout []VertexAttributeDescriptor, data []T) (*VertexBuffer, error) {
	bytes, err := encodeRecords(data)
	if err != nil {
		return nil, err
	}
	return NewVertexBufferFromBytes(vertexCount, layout, bytes)
}

// NewVertexBufferFromBytes takes ownership of an already serialized buffer.
func NewVertexBufferFromBytes(vertexCount int, layout []VertexAttributeDescriptor, data []byte) (*VertexBuffer, error) {
	dense, sparse, vertexSize, err := validateLayout(layout)
	if err != nil {
		return nil, err
	}
	if vertexCount < 0 {
		return nil, fmt.Errorf("%w: negative vertex count %d", ErrInvalidDataSize, vertexCount)
	}

	expected := vertexCount * int(vertexSize)
	if expected != len(data) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidDataSize, expected, len(data))
	}

	vb := &VertexBuffer{
		denseLayout:  dense,
		sparseLayout: sparse,
		vertexSize:   vertexSize,
		vertexCount:  uint32(vertexCount),
		data:         data,
		dataHash:     calculateDataHash(data),
	}
	core.LogDebug("vertex buffer created: %d vertices, %d bytes each", vertexCount, vertexSize)
	return vb, nil
}

func encodeRecords[T any](data []T) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	bytes, err := binary.Append(nil, binary.LittleEndian, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %T is not a fixed-size record: %v", ErrInvalidDataSize, data[0], err)
	}
	return bytes, nil
}

func (vb *VertexBuffer) VertexCount() int {
	return int(vb.vertexCount)
}

// VertexSize returns the stride of one record in bytes.
func (vb *VertexBuffer) VertexSize() int {
	return int(vb.vertexSize)
}

// RawData returns the underlying bytes. The slice must not be modified.
func (vb *VertexBuffer) RawData() []byte {
	return vb.data
}

// DataHash returns the cached hash of RawData.
func (vb *VertexBuffer) DataHash() uint64 {
	return vb.dataHash
}

// Layout returns a copy of the dense layout, in record order.
func (vb *VertexBuffer) Layout() []VertexAttribute {
	return slices.Clone(vb.denseLayout)
}

func (vb *VertexBuffer) Attribute(usage VertexAttributeUsage) (VertexAttribute, bool) {
	a, ok := vb.sparseLayout.get(usage)
	if !ok {
		return VertexAttribute{}, false
	}
	return *a, true
}

func (vb *VertexBuffer) HasAttribute(usage VertexAttributeUsage) bool {
	_, ok := vb.sparseLayout.get(usage)
	return ok
}

// Get returns a read-only view over vertex n.
func (vb *VertexBuffer) Get(n int) (VertexView, error) {
	if n < 0 || n >= vb.VertexCount() {
		return VertexView{}, fmt.Errorf("%w: %d of %d", ErrNoSuchVertex, n, vb.vertexCount)
	}
	return VertexView{vb: vb, index: n}, nil
}

// Iter yields a read-only view per vertex.
func (vb *VertexBuffer) Iter() iter.Seq2[int, VertexView] {
	return func(yield func(int, VertexView) bool) {
		for i := 0; i < vb.VertexCount(); i++ {
			if !yield(i, VertexView{vb: vb, index: i}) {
				return
			}
		}
	}
}

/**
 * @brief Runs fn with exclusive write access to the buffer.
 *
 * The hash is recomputed exactly once when fn returns, whatever fn did.
 * The VertexBufferMut and the views it hands out are invalid afterwards.
 * Calling Modify again on the same buffer from inside fn panics.
 *
 * @param fn The mutation scope.
 * @return The error returned by fn.
 */
func (vb *VertexBuffer) Modify(fn func(m *VertexBufferMut) error) error {
	if vb.modifying {
		panic("vertex: nested Modify on the same VertexBuffer")
	}
	vb.modifying = true
	m := &VertexBufferMut{vb: vb}
	defer func() {
		m.vb = nil
		vb.modifying = false
		vb.dataHash = calculateDataHash(vb.data)
	}()
	return fn(m)
}

func (vb *VertexBuffer) record(n int) []byte {
	start := n * int(vb.vertexSize)
	return vb.data[start : start+int(vb.vertexSize)]
}

func (vb *VertexBuffer) reindex() {
	vb.sparseLayout = sparseLayout{}
	for i := range vb.denseLayout {
		vb.sparseLayout[vb.denseLayout[i].Usage] = &vb.denseLayout[i]
	}
}

// VertexBufferMut is the write handle passed to a Modify scope.
type VertexBufferMut struct {
	vb *VertexBuffer
}

func (m *VertexBufferMut) buffer() *VertexBuffer {
	if m.vb == nil {
		panic("vertex: VertexBufferMut used after its Modify scope ended")
	}
	return m.vb
}

func (m *VertexBufferMut) VertexCount() int {
	return m.buffer().VertexCount()
}

func (m *VertexBufferMut) VertexSize() int {
	return m.buffer().VertexSize()
}

// Get returns a read-write view over vertex n.
func (m *VertexBufferMut) Get(n int) (VertexViewMut, error) {
	vb := m.buffer()
	if n < 0 || n >= vb.VertexCount() {
		return VertexViewMut{}, fmt.Errorf("%w: %d of %d", ErrNoSuchVertex, n, vb.vertexCount)
	}
	return VertexViewMut{m: m, index: n}, nil
}

// Iter yields a read-write view per vertex.
func (m *VertexBufferMut) Iter() iter.Seq2[int, VertexViewMut] {
	return func(yield func(int, VertexViewMut) bool) {
		for i := 0; i < m.VertexCount(); i++ {
			if !yield(i, VertexViewMut{m: m, index: i}) {
				return
			}
		}
	}
}

// PushVertex appends one record. Its serialized size must equal the stride.
func (m *VertexBufferMut) PushVertex(v any) error {
	vb := m.buffer()
	if size := binary.Size(v); size != int(vb.vertexSize) {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidVertexSize, vb.vertexSize, size)
	}
	data, err := binary.Append(vb.data, binary.LittleEndian, v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidVertexSize, err)
	}
	vb.data = data
	vb.vertexCount++
	return nil
}

// PopVertex removes the last record and decodes it into out, a pointer to a
// record of the stride's size.
func (m *VertexBufferMut) PopVertex(out any) error {
	vb := m.buffer()
	if size := binary.Size(out); size != int(vb.vertexSize) {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidVertexSize, vb.vertexSize, size)
	}
	if vb.vertexCount == 0 {
		return fmt.Errorf("%w: buffer is empty", ErrNoSuchVertex)
	}
	last := vb.record(int(vb.vertexCount) - 1)
	if _, err := binary.Decode(last, binary.LittleEndian, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidVertexSize, err)
	}
	vb.data = vb.data[:len(vb.data)-int(vb.vertexSize)]
	vb.vertexCount--
	return nil
}

// Duplicate appends a copy of vertex n and returns the index of the copy.
func (m *VertexBufferMut) Duplicate(n int) (int, error) {
	vb := m.buffer()
	if n < 0 || n >= vb.VertexCount() {
		return 0, fmt.Errorf("%w: %d of %d", ErrNoSuchVertex, n, vb.vertexCount)
	}
	rec := slices.Clone(vb.record(n))
	vb.data = append(vb.data, rec...)
	vb.vertexCount++
	return int(vb.vertexCount) - 1, nil
}

// Clear removes every record and keeps the layout.
func (m *VertexBufferMut) Clear() {
	vb := m.buffer()
	vb.data = vb.data[:0]
	vb.vertexCount = 0
}

/**
 * @brief Appends a new attribute at the end of every record.
 *
 * The whole buffer is laid out again, record by record, with fill written
 * into the new slot of each record.
 *
 * @param descriptor The new attribute.
 * @param fill The initial value, serialized to exactly the attribute's size.
 * @return An error if the usage or location is taken, or fill has the wrong size.
 */
func (m *VertexBufferMut) AddAttribute(descriptor VertexAttributeDescriptor, fill any) error {
	vb := m.buffer()
	for _, a := range vb.denseLayout {
		if a.Usage == descriptor.Usage {
			return fmt.Errorf("%w: usage %s", ErrDuplicatedAttributeDescriptor, descriptor.Usage)
		}
		if a.ShaderLocation == descriptor.ShaderLocation {
			return fmt.Errorf("%w: location %d", ErrConflictingShaderLocations, descriptor.ShaderLocation)
		}
	}
	if err := validateDescriptor(descriptor); err != nil {
		return err
	}

	attr := resolve(descriptor, vb.vertexSize)
	value, err := binary.Append(nil, binary.LittleEndian, fill)
	if err != nil || uint32(len(value)) != attr.ByteSize() {
		return fmt.Errorf("%w: fill for %s must be %d bytes", ErrInvalidDataSize, descriptor.Usage, attr.ByteSize())
	}

	newSize := vb.vertexSize + attr.ByteSize()
	data := make([]byte, 0, int(vb.vertexCount)*int(newSize))
	for i := 0; i < vb.VertexCount(); i++ {
		data = append(data, vb.record(i)...)
		data = append(data, value...)
	}

	vb.data = data
	vb.vertexSize = newSize
	vb.denseLayout = append(vb.denseLayout, attr)
	vb.reindex()
	return nil
}
