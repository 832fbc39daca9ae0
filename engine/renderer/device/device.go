// Package device describes the native graphics device the renderer core
// drives. The core never calls the graphics API directly; every bind,
// upload and draw goes through a Device so the same code runs against the
// OpenGL implementation and the recording fake used in tests.
package device

import "errors"

// Opaque device handles. The zero value names "no object", matching the
// OpenGL convention where binding 0 unbinds.
type (
	Buffer      uint32
	VertexArray uint32
	Program     uint32
	Texture     uint32
)

// ErrResourceCreation is returned when the device fails to allocate an object.
var ErrResourceCreation = errors.New("device failed to create resource")

type BufferTarget uint32

const (
	ArrayBuffer        BufferTarget = 0x8892
	ElementArrayBuffer BufferTarget = 0x8893
)

// BufferUsage is the upload usage hint.
type BufferUsage uint32

const (
	StreamDraw  BufferUsage = 0x88E0
	StaticDraw  BufferUsage = 0x88E4
	DynamicDraw BufferUsage = 0x88E8
)

func (u BufferUsage) String() string {
	switch u {
	case StreamDraw:
		return "stream"
	case StaticDraw:
		return "static"
	case DynamicDraw:
		return "dynamic"
	default:
		return "unknown"
	}
}

// DataType is the component type of an attribute or index.
type DataType uint32

const (
	UnsignedByte  DataType = 0x1401
	UnsignedShort DataType = 0x1403
	UnsignedInt   DataType = 0x1405
	Float         DataType = 0x1406
)

// Topology is the primitive mode used by an indexed draw.
type Topology uint32

const (
	Lines     Topology = 0x0001
	Triangles Topology = 0x0004
)

type TextureTarget uint32

const (
	Texture2D      TextureTarget = 0x0DE1
	Texture3D      TextureTarget = 0x806F
	TextureCubeMap TextureTarget = 0x8513
	Texture2DArray TextureTarget = 0x8C1A
)

// Device is the set of primitives the core issues. Implementations are bound
// to one rendering context and must only be called from the thread that owns
// that context.
type Device interface {
	CreateBuffer() (Buffer, error)
	DeleteBuffer(b Buffer)
	BindBuffer(target BufferTarget, b Buffer)
	BufferData(target BufferTarget, data []byte, usage BufferUsage)

	CreateVertexArray() (VertexArray, error)
	DeleteVertexArray(vao VertexArray)
	BindVertexArray(vao VertexArray)

	VertexAttribPointer(location uint32, size int32, dataType DataType, normalized bool, stride int32, offset int)
	VertexAttribDivisor(location uint32, divisor uint32)
	EnableVertexAttribArray(location uint32)

	DrawElements(mode Topology, count int32, indexType DataType, offset int)

	// ActiveTexture selects texture unit index (0-based, not TEXTURE0+n).
	ActiveTexture(unit uint32)
	BindTexture(target TextureTarget, t Texture)

	UseProgram(p Program)
	ClearColor(r, g, b, a float32)

	GetError() uint32
}
