package shortener

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no record exists for a hash.
	ErrNotFound = errors.New("url not found")

	// ErrConflict is returned by a Repository when a record with the same hash
	// already exists.
	ErrConflict = errors.New("hash already exists")

	// ErrInvalidURL is returned when the submitted value is not an absolute URI.
	ErrInvalidURL = errors.New("invalid url")

	// ErrAlreadyActive is returned by a Repository when asked to enable a record
	// that is already active.
	ErrAlreadyActive = errors.New("url already active")

	// ErrHashCollision is returned when a hash already belongs to a different URL.
	ErrHashCollision = errors.New("hash belongs to a different url")
)

// PersistenceError wraps a store failure other than a hash conflict.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
