package storage

import "errors"

var (
	// ErrNotFound indicates no workout has the requested ID.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a workout with the same name already exists.
	ErrConflict = errors.New("already exists")
	// ErrPersistence indicates the document could not be written to the backing store.
	// The in-memory state keeps the mutation that triggered the write.
	ErrPersistence = errors.New("persisting document")
)
