package dither

import "errors"

var (
	// ErrAllocFailed is returned when the error buffer pool cannot supply a
	// buffer. The plane being processed is left untouched.
	ErrAllocFailed = errors.New("allocation failed")

	// ErrUnsupported is returned when no row processor is registered for a
	// format and mode combination.
	ErrUnsupported = errors.New("unsupported dithering algorithm")

	// ErrInvalidPlane is returned when plane geometry does not match the
	// supplied buffers.
	ErrInvalidPlane = errors.New("invalid plane")
)
