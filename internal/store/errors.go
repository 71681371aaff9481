package store

import "errors"

// Error taxonomy for marker operations. All are recovered at the
// controller boundary and surfaced as user-visible messages.
var (
	// ErrValidation covers empty required fields and out-of-bounds positions.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned for operations on an unknown marker id.
	ErrNotFound = errors.New("marker not found")

	// ErrFormat is returned for malformed import payloads.
	ErrFormat = errors.New("malformed marker payload")
)
