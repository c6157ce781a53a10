package mm

import "errors"

var (
	// ErrOutOfFrames is returned when the frame allocator is exhausted.
	ErrOutOfFrames = errors.New("mm: out of frames")

	// ErrAlreadyMapped is returned when an insertion overlaps a mapping.
	ErrAlreadyMapped = errors.New("mm: range already mapped")

	// ErrNotMapped is returned when an unmap range contains an unmapped page.
	ErrNotMapped = errors.New("mm: range not mapped")

	// ErrInvalidPermission is returned for an empty or malformed permission set.
	ErrInvalidPermission = errors.New("mm: invalid permission")
)
