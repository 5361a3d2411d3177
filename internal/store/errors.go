package store

import "errors"

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID is returned when an id is not structurally valid for the backend.
	ErrInvalidID = errors.New("invalid id")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("duplicate key")
	// ErrConflict is returned by Replace when the stored revision moved on.
	ErrConflict = errors.New("revision conflict")
)
