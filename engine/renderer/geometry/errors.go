package geometry

import "errors"

var (
	// ErrInvalidAttributeDescriptor is returned when a buffer's attributes
	// are wider than its element.
	ErrInvalidAttributeDescriptor = errors.New("invalid attribute descriptor")
	ErrElementKindMismatch        = errors.New("element kind mismatch")
	// ErrStaleBinding is returned when another vertex array was bound after
	// the binding was created.
	ErrStaleBinding     = errors.New("stale geometry buffer binding")
	ErrInvalidDrawRange = errors.New("invalid draw range")
	ErrNoSuchBuffer     = errors.New("no such native buffer")
)
