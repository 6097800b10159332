package errors

import "errors"

var (
	ErrNotFound  = errors.New("booking not found")
	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrLockHeld means another request is booking the same resource.
	ErrLockHeld = errors.New("resource is locked by another booking request")
)
