package vertex

import "errors"

var (
	ErrDuplicatedAttributeDescriptor = errors.New("a duplicate of a descriptor was found")
	ErrConflictingShaderLocations    = errors.New("duplicate shader locations were found")
	ErrInvalidAttributeSize          = errors.New("invalid attribute size, must be either 1, 2, 3 or 4")
	ErrInvalidDataSize               = errors.New("invalid data size")
	ErrInvalidVertexSize             = errors.New("invalid vertex size")
	ErrNoSuchAttribute               = errors.New("no such attribute")
	ErrNoSuchVertex                  = errors.New("no such vertex")
	// ErrAttributeAccessOutOfRange is returned when a read or write is wider
	// than the attribute it targets.
	ErrAttributeAccessOutOfRange = errors.New("attribute access out of range")
)
