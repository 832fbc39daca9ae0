package surface

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima-gl/engine/renderer/vertex"
)

type face struct {
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3
}

// Corners go (0,0), (0,1), (1,1), (1,0) in texture space.
var cubeFaces = [6]face{
	// Front
	{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, -0.5, 0.5}}},
	// Back
	{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, -0.5, -0.5}}},
	// Left
	{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {-0.5, 0.5, 0.5}, {-0.5, -0.5, 0.5}}},
	// Right
	{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}, {0.5, -0.5, 0.5}}},
	// Top
	{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}}},
	// Bottom
	{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-0.5, -0.5, 0.5}, {-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}}},
}

var faceTexCoords = [4]mgl32.Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

var cubeTriangles = []vertex.TriangleDefinition{
	{2, 1, 0}, {3, 2, 0},
	{4, 5, 6}, {4, 6, 7},
	{10, 9, 8}, {11, 10, 8},
	{12, 13, 14}, {12, 14, 15},
	{18, 17, 16}, {19, 18, 16},
	{20, 21, 22}, {20, 22, 23},
}

// MakeCube builds a unit cube centered at the origin, 4 vertices per face,
// with tangents computed and transform applied.
func MakeCube(transform mgl32.Mat4) (*SurfaceData, error) {
	vertices := make([]vertex.StaticVertex, 0, 24)
	for _, f := range cubeFaces {
		for i, corner := range f.corners {
			vertices = append(vertices, vertex.NewStaticVertexFromPosUVNormal(corner, faceTexCoords[i], f.normal))
		}
	}

	triangles := make([]vertex.TriangleDefinition, len(cubeTriangles))
	copy(triangles, cubeTriangles)

	data, err := newProcedural(vertices, triangles)
	if err != nil {
		return nil, err
	}
	if err := data.TransformGeometry(transform); err != nil {
		return nil, err
	}
	return data, nil
}

// MakeUnitXYQuad builds a unit quad in the XY plane from (0,0) to (1,1),
// facing +Z.
func MakeUnitXYQuad() (*SurfaceData, error) {
	normal := mgl32.Vec3{0, 0, 1}
	vertices := []vertex.StaticVertex{
		vertex.NewStaticVertexFromPosUVNormal(mgl32.Vec3{0, 0, 0}, mgl32.Vec2{0, 1}, normal),
		vertex.NewStaticVertexFromPosUVNormal(mgl32.Vec3{1, 0, 0}, mgl32.Vec2{1, 1}, normal),
		vertex.NewStaticVertexFromPosUVNormal(mgl32.Vec3{1, 1, 0}, mgl32.Vec2{1, 0}, normal),
		vertex.NewStaticVertexFromPosUVNormal(mgl32.Vec3{0, 1, 0}, mgl32.Vec2{0, 0}, normal),
	}
	triangles := []vertex.TriangleDefinition{{0, 1, 2}, {0, 2, 3}}
	return newProcedural(vertices, triangles)
}

func newProcedural(vertices []vertex.StaticVertex, triangles []vertex.TriangleDefinition) (*SurfaceData, error) {
	vb, err := vertex.NewVertexBuffer(len(vertices), vertex.StaticVertexLayout(), vertices)
	if err != nil {
		return nil, err
	}
	data := NewSurfaceData(vb, vertex.NewTriangleBuffer(triangles), true)
	if err := data.CalculateTangents(); err != nil {
		return nil, err
	}
	return data, nil
}
