package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageUnavailable means the store could not be opened. Every
	// operation fails until the store is initialized or loaded again.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrStorageFailure wraps a single failed operation. The operation was
	// not applied.
	ErrStorageFailure = errors.New("storage operation failed")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrNotFound       = errors.New("record not found")
)

// Unavailable wraps err as ErrStorageUnavailable.
func Unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

// Failure wraps a driver error from op as ErrStorageFailure.
func Failure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, err)
}

// UnknownIndex reports a lookup on an index the collection does not have.
func UnknownIndex(collection, index string) error {
	return fmt.Errorf("%s has no index %q", collection, index)
}
