package geometry

import (
	"encoding/binary"
	"fmt"

	"github.com/spaghettifunk/anima-gl/engine/renderer/device"
	"github.com/spaghettifunk/anima-gl/engine/renderer/pipeline"
	"github.com/spaghettifunk/anima-gl/engine/renderer/vertex"
)

// LineDefinition holds the two vertex indices of a line.
type LineDefinition [2]uint32

// GeometryBufferBinding is returned by Bind. It is only valid while the
// buffer's vertex array is the one bound on the state.
type GeometryBufferBinding struct {
	state  *pipeline.PipelineState
	buffer *GeometryBuffer
}

func (b *GeometryBufferBinding) checkCurrent() error {
	if b.buffer.released {
		return fmt.Errorf("%w: geometry buffer %s was released", ErrStaleBinding, b.buffer.id)
	}
	if current := b.state.VertexArrayObject(); current != b.buffer.vertexArrayObject {
		return fmt.Errorf("%w: vertex array %d is bound, binding is for %d", ErrStaleBinding, current, b.buffer.vertexArrayObject)
	}
	return nil
}

func (b *GeometryBufferBinding) setElements(data []byte) {
	b.state.Device().BufferData(device.ElementArrayBuffer, data, device.DynamicDraw)
}

// SetTriangles replaces the element buffer of a triangle geometry buffer.
func (b *GeometryBufferBinding) SetTriangles(triangles []vertex.TriangleDefinition) (*GeometryBufferBinding, error) {
	if b.buffer.elementKind != Triangle {
		return b, fmt.Errorf("%w: triangles into a %s buffer", ErrElementKindMismatch, b.buffer.elementKind)
	}
	if err := b.checkCurrent(); err != nil {
		return b, err
	}
	b.buffer.elementCount = len(triangles)
	b.setElements(vertex.TrianglesToBytes(triangles))
	return b, nil
}

// SetLines replaces the element buffer of a line geometry buffer.
func (b *GeometryBufferBinding) SetLines(lines []LineDefinition) (*GeometryBufferBinding, error) {
	if b.buffer.elementKind != Line {
		return b, fmt.Errorf("%w: lines into a %s buffer", ErrElementKindMismatch, b.buffer.elementKind)
	}
	if err := b.checkCurrent(); err != nil {
		return b, err
	}
	data := make([]byte, 0, len(lines)*8)
	for _, l := range lines {
		data = binary.LittleEndian.AppendUint32(data, l[0])
		data = binary.LittleEndian.AppendUint32(data, l[1])
	}
	b.buffer.elementCount = len(lines)
	b.setElements(data)
	return b, nil
}

// SetBufferData uploads data into the n-th vertex buffer, keeping its usage.
func (b *GeometryBufferBinding) SetBufferData(n int, data []byte) (*GeometryBufferBinding, error) {
	if err := b.checkCurrent(); err != nil {
		return b, err
	}
	if n < 0 || n >= len(b.buffer.buffers) {
		return b, fmt.Errorf("%w: %d of %d", ErrNoSuchBuffer, n, len(b.buffer.buffers))
	}
	nb := b.buffer.buffers[n]
	b.state.SetVertexBufferObject(nb.handle)
	b.state.Device().BufferData(device.ArrayBuffer, data, nb.usage)
	nb.size = len(data)
	return b, nil
}

// Draw draws every element. Drawing an empty buffer issues no call.
func (b *GeometryBufferBinding) Draw() (DrawCallStatistics, error) {
	if err := b.checkCurrent(); err != nil {
		return DrawCallStatistics{}, err
	}
	b.drawInternal(0, b.buffer.elementCount*b.buffer.elementKind.IndicesPerElement())
	return b.statistics(b.buffer.elementCount), nil
}

// DrawPart draws count elements starting at element offset.
func (b *GeometryBufferBinding) DrawPart(offset, count int) (DrawCallStatistics, error) {
	if err := b.checkCurrent(); err != nil {
		return DrawCallStatistics{}, err
	}
	if offset < 0 || count < 0 || offset+count > b.buffer.elementCount {
		return DrawCallStatistics{}, fmt.Errorf("%w: [%d, %d) of %d elements", ErrInvalidDrawRange, offset, offset+count, b.buffer.elementCount)
	}
	perElement := b.buffer.elementKind.IndicesPerElement()
	b.drawInternal(offset*perElement, count*perElement)
	return b.statistics(count), nil
}

func (b *GeometryBufferBinding) drawInternal(startIndex, indexCount int) {
	if indexCount > 0 {
		b.state.Device().DrawElements(b.buffer.elementKind.topology(), int32(indexCount), device.UnsignedInt, startIndex*4)
	}
}

func (b *GeometryBufferBinding) statistics(elements int) DrawCallStatistics {
	if b.buffer.elementKind == Line {
		return DrawCallStatistics{Lines: elements}
	}
	return DrawCallStatistics{Triangles: elements}
}
