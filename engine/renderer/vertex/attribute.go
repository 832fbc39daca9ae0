package vertex

import "fmt"

// VertexAttributeUsage is the semantic meaning of an attribute. The set is
// fixed; custom data fits into the TexCoordN slots.
type VertexAttributeUsage uint32

const (
	// Usually a Vec3 (or Vec2) of F32.
	Position VertexAttributeUsage = iota
	Normal
	Tangent
	// TexCoord0 is the primary texture coordinate, usually a Vec2 of F32.
	TexCoord0
	TexCoord1
	TexCoord2
	TexCoord3
	TexCoord4
	TexCoord5
	TexCoord6
	TexCoord7
	// Usually a Vec4 of F32.
	BoneWeight
	// Usually a Vec4 of U8.
	BoneIndices
	// VertexAttributeUsageCount is the number of usages, not a usage.
	VertexAttributeUsageCount
)

var usageNames = [VertexAttributeUsageCount]string{
	"Position", "Normal", "Tangent",
	"TexCoord0", "TexCoord1", "TexCoord2", "TexCoord3",
	"TexCoord4", "TexCoord5", "TexCoord6", "TexCoord7",
	"BoneWeight", "BoneIndices",
}

func (u VertexAttributeUsage) String() string {
	if u < VertexAttributeUsageCount {
		return usageNames[u]
	}
	return fmt.Sprintf("VertexAttributeUsage(%d)", uint32(u))
}

// VertexAttributeDataType is the type of every component of an attribute.
type VertexAttributeDataType uint8

const (
	F32 VertexAttributeDataType = iota
	U32
	U16
	U8
)

// Size returns the byte size of one component.
func (t VertexAttributeDataType) Size() uint8 {
	switch t {
	case F32, U32:
		return 4
	case U16:
		return 2
	case U8:
		return 1
	}
	return 0
}

func (t VertexAttributeDataType) String() string {
	switch t {
	case F32:
		return "F32"
	case U32:
		return "U32"
	case U16:
		return "U16"
	case U8:
		return "U8"
	}
	return fmt.Sprintf("VertexAttributeDataType(%d)", uint8(t))
}

// VertexAttributeDescriptor is the input used to build a layout.
type VertexAttributeDescriptor struct {
	Usage    VertexAttributeUsage
	DataType VertexAttributeDataType
	// Size is the number of components, 1 to 4.
	Size uint8
	// Divisor is the fetch rate: 0 per vertex, N per N instances.
	Divisor uint8
	// ShaderLocation is the `layout(location = x)` slot in the shader.
	ShaderLocation uint8
}

// VertexAttribute is a descriptor resolved against a layout.
type VertexAttribute struct {
	Usage          VertexAttributeUsage
	DataType       VertexAttributeDataType
	Size           uint8
	Divisor        uint8
	ShaderLocation uint8
	// Offset in bytes from the beginning of the vertex.
	Offset uint32
}

// ByteSize is the number of bytes the attribute occupies in one record.
func (a VertexAttribute) ByteSize() uint32 {
	return uint32(a.Size) * uint32(a.DataType.Size())
}

func (a VertexAttribute) String() string {
	return fmt.Sprintf("%s{%sx%d loc=%d off=%d div=%d}", a.Usage, a.DataType, a.Size, a.ShaderLocation, a.Offset, a.Divisor)
}

// sparseLayout indexes resolved attributes by usage.
type sparseLayout [VertexAttributeUsageCount]*VertexAttribute

func (s *sparseLayout) get(usage VertexAttributeUsage) (*VertexAttribute, bool) {
	if usage >= VertexAttributeUsageCount {
		return nil, false
	}
	a := s[usage]
	return a, a != nil
}

// validateLayout checks the descriptors pairwise and per attribute, and
// resolves offsets. It returns the dense layout and the vertex size.
func validateLayout(layout []VertexAttributeDescriptor) ([]VertexAttribute, sparseLayout, uint32, error) {
	var sparse sparseLayout

	for i := range layout {
		for j := range layout {
			if i == j {
				continue
			}
			if layout[i].Usage == layout[j].Usage {
				return nil, sparse, 0, fmt.Errorf("%w: usage %s", ErrDuplicatedAttributeDescriptor, layout[i].Usage)
			}
			if layout[i].ShaderLocation == layout[j].ShaderLocation {
				return nil, sparse, 0, fmt.Errorf("%w: location %d", ErrConflictingShaderLocations, layout[i].ShaderLocation)
			}
		}
	}

	dense := make([]VertexAttribute, 0, len(layout))
	var vertexSize uint32
	for _, d := range layout {
		if err := validateDescriptor(d); err != nil {
			return nil, sparse, 0, err
		}
		dense = append(dense, resolve(d, vertexSize))
		vertexSize += dense[len(dense)-1].ByteSize()
	}
	for i := range dense {
		sparse[dense[i].Usage] = &dense[i]
	}
	return dense, sparse, vertexSize, nil
}

func validateDescriptor(d VertexAttributeDescriptor) error {
	if d.Size < 1 || d.Size > 4 {
		return fmt.Errorf("%w: got %d for %s", ErrInvalidAttributeSize, d.Size, d.Usage)
	}
	if d.Usage >= VertexAttributeUsageCount {
		return fmt.Errorf("%w: unknown usage %d", ErrInvalidAttributeSize, uint32(d.Usage))
	}
	if d.DataType.Size() == 0 {
		return fmt.Errorf("%w: unknown data type %d", ErrInvalidAttributeSize, uint8(d.DataType))
	}
	return nil
}

func resolve(d VertexAttributeDescriptor, offset uint32) VertexAttribute {
	return VertexAttribute{
		Usage:          d.Usage,
		DataType:       d.DataType,
		Size:           d.Size,
		Divisor:        d.Divisor,
		ShaderLocation: d.ShaderLocation,
		Offset:         offset,
	}
}
