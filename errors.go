package vinyl

import "errors"

// Standard errors returned by File accessors and setters.
var (
	// Content errors
	ErrInvalidContentType = errors.New("vinyl: contents can only be a buffer, a stream, or nil")

	// Path errors
	ErrInvalidPathType       = errors.New("vinyl: path should be a string")
	ErrMissingBase           = errors.New("vinyl: no base specified, can not get relative")
	ErrMissingPath           = errors.New("vinyl: no path specified, can not get relative")
	ErrImmutableDerivedField = errors.New("vinyl: relative is generated from the base and path, do not modify it")

	// Descriptor errors
	ErrInvalidDescriptor = errors.New("vinyl: invalid descriptor")
)
