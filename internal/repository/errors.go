package repository

import "errors"

var (
	// ErrNotFound is returned when a row does not exist or is filtered out.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned on a unique constraint violation.
	ErrDuplicate = errors.New("duplicate")
)
