// Package geometry couples a vertex array with its vertex buffers and an
// element buffer, and issues the indexed draw calls for it.
//
// Every type here is bound to the PipelineState it was created with and must
// be released through it before the state is closed.
package geometry

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer/device"
	"github.com/spaghettifunk/anima-gl/engine/renderer/pipeline"
	"github.com/spaghettifunk/anima-gl/engine/renderer/surface"
)

// ElementKind is the primitive stored in the element buffer.
type ElementKind int

const (
	Triangle ElementKind = iota
	Line
)

// IndicesPerElement is 3 for triangles and 2 for lines.
func (k ElementKind) IndicesPerElement() int {
	switch k {
	case Triangle:
		return 3
	case Line:
		return 2
	}
	panic(fmt.Sprintf("geometry: unknown element kind %d", int(k)))
}

func (k ElementKind) topology() device.Topology {
	if k == Line {
		return device.Lines
	}
	return device.Triangles
}

func (k ElementKind) String() string {
	switch k {
	case Triangle:
		return "triangle"
	case Line:
		return "line"
	}
	return fmt.Sprintf("ElementKind(%d)", int(k))
}

// DrawCallStatistics describes what one draw call submitted.
type DrawCallStatistics struct {
	Triangles int
	Lines     int
}

type GeometryBuffer struct {
	id                  uuid.UUID
	vertexArrayObject   device.VertexArray
	buffers             []*NativeBuffer
	elementBufferObject device.Buffer
	elementCount        int
	elementKind         ElementKind
	released            bool
}

type GeometryBufferBuilder struct {
	elementKind ElementKind
	buffers     []*NativeBufferBuilder
}

func NewGeometryBufferBuilder(kind ElementKind) *GeometryBufferBuilder {
	return &GeometryBufferBuilder{elementKind: kind}
}

func (b *GeometryBufferBuilder) WithBufferBuilder(builder *NativeBufferBuilder) *GeometryBufferBuilder {
	b.buffers = append(b.buffers, builder)
	return b
}

/**
 * @brief Creates the vertex array, the element buffer and every vertex
 * buffer.
 *
 * On failure every device object created so far is released. On success
 * the vertex array is left unbound.
 *
 * @param state The pipeline state of the context.
 * @return The geometry buffer, with no elements.
 */
func (b *GeometryBufferBuilder) Build(state *pipeline.PipelineState) (*GeometryBuffer, error) {
	vao, err := state.CreateVertexArray()
	if err != nil {
		return nil, err
	}
	ebo, err := state.CreateBuffer()
	if err != nil {
		state.DeleteVertexArray(vao)
		return nil, err
	}

	gb := &GeometryBuffer{
		id:                  uuid.New(),
		vertexArrayObject:   vao,
		elementBufferObject: ebo,
		elementKind:         b.elementKind,
	}

	state.SetVertexArrayObject(vao)
	for _, builder := range b.buffers {
		nb, err := builder.Build(state)
		if err != nil {
			gb.Release(state)
			return nil, err
		}
		gb.buffers = append(gb.buffers, nb)
	}
	state.SetVertexArrayObject(0)

	core.LogDebug("geometry buffer %s built: vao %d, ebo %d, %d vertex buffers", gb.id, vao, ebo, len(gb.buffers))
	return gb, nil
}

// FromSurfaceData uploads a surface's vertices and triangles into a new
// triangle geometry buffer.
func FromSurfaceData(data *surface.SurfaceData, usage device.BufferUsage, state *pipeline.PipelineState) (*GeometryBuffer, error) {
	gb, err := NewGeometryBufferBuilder(Triangle).
		WithBufferBuilder(FromVertexBuffer(data.VertexBuffer, usage)).
		Build(state)
	if err != nil {
		return nil, err
	}

	if _, err := gb.Bind(state).SetTriangles(data.Triangles.Triangles()); err != nil {
		gb.Release(state)
		return nil, err
	}
	state.SetVertexArrayObject(0)
	return gb, nil
}

func (gb *GeometryBuffer) ID() uuid.UUID {
	return gb.id
}

func (gb *GeometryBuffer) VertexArrayObject() device.VertexArray {
	return gb.vertexArrayObject
}

func (gb *GeometryBuffer) ElementBufferObject() device.Buffer {
	return gb.elementBufferObject
}

func (gb *GeometryBuffer) Buffers() []*NativeBuffer {
	return gb.buffers
}

func (gb *GeometryBuffer) ElementCount() int {
	return gb.elementCount
}

func (gb *GeometryBuffer) ElementKind() ElementKind {
	return gb.elementKind
}

/**
 * @brief Makes this buffer's vertex array current and rebinds its element
 * buffer.
 *
 * The vertex array goes through the state. The element buffer binding is
 * part of the vertex array object, so it is rebound unconditionally.
 *
 * @param state The pipeline state of the context.
 * @return A binding valid until another vertex array is bound.
 */
func (gb *GeometryBuffer) Bind(state *pipeline.PipelineState) *GeometryBufferBinding {
	if gb.released {
		panic(fmt.Sprintf("geometry: bind of released geometry buffer %s", gb.id))
	}
	state.SetVertexArrayObject(gb.vertexArrayObject)
	state.Device().BindBuffer(device.ElementArrayBuffer, gb.elementBufferObject)

	return &GeometryBufferBinding{
		state:  state,
		buffer: gb,
	}
}

// Release deletes every device object. It is a no-op on a released buffer.
func (gb *GeometryBuffer) Release(state *pipeline.PipelineState) {
	if gb.released {
		return
	}
	gb.released = true

	for _, nb := range gb.buffers {
		state.DeleteBuffer(nb.handle)
	}
	gb.buffers = nil
	state.DeleteBuffer(gb.elementBufferObject)
	state.DeleteVertexArray(gb.vertexArrayObject)
	gb.elementCount = 0

	core.LogDebug("geometry buffer %s released", gb.id)
}
