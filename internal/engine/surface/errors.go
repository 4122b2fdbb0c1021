package surface

import "errors"

// Errors returned by surface operations.
var (
	// ErrInvalidSize indicates a non-positive width or height.
	ErrInvalidSize = errors.New("invalid surface size")

	// ErrDimensionMismatch indicates an image whose bounds differ from the surface.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrUnknownMode indicates an unrecognized compositing mode name.
	ErrUnknownMode = errors.New("unknown compositing mode")
)
