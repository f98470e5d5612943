package repositories

import "errors"

var (
	// ErrNotFound is returned when a lookup by id finds nothing
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an id is stored twice
	ErrDuplicate = errors.New("duplicate id")
)
