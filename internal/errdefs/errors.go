package errdefs

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	// ErrStorageCorrupted means a metadata record exists but its content
	// cannot be read back. It is never used for ids that were never issued.
	ErrStorageCorrupted      = errors.New("storage corrupted")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrInternal              = errors.New("internal error")
)
