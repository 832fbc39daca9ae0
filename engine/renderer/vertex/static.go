package vertex

import "github.com/go-gl/mathgl/mgl32"

// StaticVertex is the vertex of a static mesh. Fields are serialized in
// declaration order, which matches StaticVertexLayout.
type StaticVertex struct {
	Position mgl32.Vec3
	TexCoord mgl32.Vec2
	Normal   mgl32.Vec3
	// W holds the handedness of the tangent frame.
	Tangent mgl32.Vec4
}

// NewStaticVertexFromPosUV creates a vertex with an up-facing normal.
func NewStaticVertexFromPosUV(position mgl32.Vec3, texCoord mgl32.Vec2) StaticVertex {
	return StaticVertex{
		Position: position,
		TexCoord: texCoord,
		Normal:   mgl32.Vec3{0, 1, 0},
	}
}

func NewStaticVertexFromPosUVNormal(position mgl32.Vec3, texCoord mgl32.Vec2, normal mgl32.Vec3) StaticVertex {
	return StaticVertex{
		Position: position,
		TexCoord: texCoord,
		Normal:   normal,
	}
}

// StaticVertexLayout returns the layout of StaticVertex.
func StaticVertexLayout() []VertexAttributeDescriptor {
	return []VertexAttributeDescriptor{
		{Usage: Position, DataType: F32, Size: 3, ShaderLocation: 0},
		{Usage: TexCoord0, DataType: F32, Size: 2, ShaderLocation: 1},
		{Usage: Normal, DataType: F32, Size: 3, ShaderLocation: 2},
		{Usage: Tangent, DataType: F32, Size: 4, ShaderLocation: 3},
	}
}
