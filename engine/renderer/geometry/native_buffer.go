package geometry

import (
	"fmt"

	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer/device"
	"github.com/spaghettifunk/anima-gl/engine/renderer/pipeline"
	"github.com/spaghettifunk/anima-gl/engine/renderer/vertex"
)

// AttributeKind is the native shape of one attribute: a component type
// and a component count.
type AttributeKind int

const (
	Float AttributeKind = iota
	Float2
	Float3
	Float4

	UnsignedByte
	UnsignedByte2
	UnsignedByte3
	UnsignedByte4

	UnsignedShort
	UnsignedShort2
	UnsignedShort3
	UnsignedShort4

	UnsignedInt
	UnsignedInt2
	UnsignedInt3
	UnsignedInt4
)

type attributeKindInfo struct {
	components int32
	dataType   device.DataType
	size       int
}

var attributeKinds = [...]attributeKindInfo{
	Float:  {1, device.Float, 4},
	Float2: {2, device.Float, 8},
	Float3: {3, device.Float, 12},
	Float4: {4, device.Float, 16},

	UnsignedByte:  {1, device.UnsignedByte, 1},
	UnsignedByte2: {2, device.UnsignedByte, 2},
	UnsignedByte3: {3, device.UnsignedByte, 3},
	UnsignedByte4: {4, device.UnsignedByte, 4},

	UnsignedShort:  {1, device.UnsignedShort, 2},
	UnsignedShort2: {2, device.UnsignedShort, 4},
	UnsignedShort3: {3, device.UnsignedShort, 6},
	UnsignedShort4: {4, device.UnsignedShort, 8},

	UnsignedInt:  {1, device.UnsignedInt, 4},
	UnsignedInt2: {2, device.UnsignedInt, 8},
	UnsignedInt3: {3, device.UnsignedInt, 12},
	UnsignedInt4: {4, device.UnsignedInt, 16},
}

func (k AttributeKind) info() attributeKindInfo {
	if k < 0 || int(k) >= len(attributeKinds) {
		panic(fmt.Sprintf("geometry: unknown attribute kind %d", int(k)))
	}
	return attributeKinds[k]
}

// Size returns the byte size of the attribute.
func (k AttributeKind) Size() int {
	return k.info().size
}

func (k AttributeKind) Components() int32 {
	return k.info().components
}

func (k AttributeKind) DataType() device.DataType {
	return k.info().dataType
}

// AttributeKindOf maps a vertex component type and count to a kind.
func AttributeKindOf(dataType vertex.VertexAttributeDataType, size uint8) (AttributeKind, bool) {
	if size < 1 || size > 4 {
		return 0, false
	}
	var base AttributeKind
	switch dataType {
	case vertex.F32:
		base = Float
	case vertex.U8:
		base = UnsignedByte
	case vertex.U16:
		base = UnsignedShort
	case vertex.U32:
		base = UnsignedInt
	default:
		return 0, false
	}
	return base + AttributeKind(size-1), true
}

type AttributeDefinition struct {
	Location   uint32
	Kind       AttributeKind
	Normalized bool
	Divisor    uint32
}

// NativeBufferBuilder describes a device vertex buffer to be created.
type NativeBufferBuilder struct {
	elementSize int
	usage       device.BufferUsage
	attributes  []AttributeDefinition
	data        []byte
}

// NewNativeBufferBuilder starts a builder for records of elementSize bytes.
func NewNativeBufferBuilder(elementSize int, usage device.BufferUsage) *NativeBufferBuilder {
	return &NativeBufferBuilder{
		elementSize: elementSize,
		usage:       usage,
	}
}

// FromVertexBuffer builds the attribute list from a validated layout. The
// builder references vb's bytes until Build is called.
func FromVertexBuffer(vb *vertex.VertexBuffer, usage device.BufferUsage) *NativeBufferBuilder {
	b := NewNativeBufferBuilder(vb.VertexSize(), usage)
	for _, a := range vb.Layout() {
		kind, ok := AttributeKindOf(a.DataType, a.Size)
		if !ok {
			panic(fmt.Sprintf("geometry: validated attribute %s has no native kind", a))
		}
		b.WithAttribute(AttributeDefinition{
			Location: uint32(a.ShaderLocation),
			Kind:     kind,
			Divisor:  uint32(a.Divisor),
		})
	}
	return b.WithData(vb.RawData())
}

func (b *NativeBufferBuilder) WithAttribute(def AttributeDefinition) *NativeBufferBuilder {
	b.attributes = append(b.attributes, def)
	return b
}

func (b *NativeBufferBuilder) WithData(data []byte) *NativeBufferBuilder {
	b.data = data
	return b
}

// NativeBuffer is a device vertex buffer owned by a GeometryBuffer.
type NativeBuffer struct {
	handle      device.Buffer
	elementSize int
	size        int
	usage       device.BufferUsage
}

func (nb *NativeBuffer) Handle() device.Buffer {
	return nb.handle
}

func (nb *NativeBuffer) ElementSize() int {
	return nb.elementSize
}

// Size returns the number of bytes last uploaded.
func (nb *NativeBuffer) Size() int {
	return nb.size
}

func (nb *NativeBuffer) Usage() device.BufferUsage {
	return nb.usage
}

/**
 * @brief Creates the device buffer, uploads the data and describes every
 * attribute to the currently bound vertex array.
 *
 * Fails with ErrInvalidAttributeDescriptor when the attributes together are
 * wider than one element; the buffer is released on that path.
 *
 * @param state The pipeline state of the context.
 * @return The native buffer, left unbound.
 */
func (b *NativeBufferBuilder) Build(state *pipeline.PipelineState) (*NativeBuffer, error) {
	vbo, err := state.CreateBuffer()
	if err != nil {
		return nil, err
	}
	state.SetVertexBufferObject(vbo)

	d := state.Device()
	if len(b.data) > 0 {
		d.BufferData(device.ArrayBuffer, b.data, b.usage)
	}

	offset := 0
	for _, def := range b.attributes {
		d.VertexAttribPointer(def.Location, def.Kind.Components(), def.Kind.DataType(), def.Normalized, int32(b.elementSize), offset)
		if def.Divisor != 0 {
			d.VertexAttribDivisor(def.Location, def.Divisor)
		}
		d.EnableVertexAttribArray(def.Location)

		offset += def.Kind.Size()
		if offset > b.elementSize {
			state.SetVertexBufferObject(0)
			state.DeleteBuffer(vbo)
			return nil, fmt.Errorf("%w: attributes need %d bytes, element is %d", ErrInvalidAttributeDescriptor, offset, b.elementSize)
		}
	}

	state.SetVertexBufferObject(0)
	core.LogDebug("native buffer %d built: %d bytes, %d attributes, %s", vbo, len(b.data), len(b.attributes), b.usage)

	return &NativeBuffer{
		handle:      vbo,
		elementSize: b.elementSize,
		size:        len(b.data),
		usage:       b.usage,
	}, nil
}
