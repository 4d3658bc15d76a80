package repository

import "errors"

var (
	// ErrNotFound is returned when no document matched the query.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidCounter is returned when a counter adjustment names a field
	// outside the permitted set.
	ErrInvalidCounter = errors.New("counter field not permitted")
)
