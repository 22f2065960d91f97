package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a persisted resource that must exist is missing.
	ErrNotFound = errors.New("resource not found")
	// ErrMalformedData indicates a persisted resource could not be parsed.
	ErrMalformedData = errors.New("malformed data")
	// ErrValidation indicates a client payload is not shaped as expected.
	ErrValidation = errors.New("invalid payload")
)

// StorageError describes a failed storage-boundary operation.
type StorageError struct {
	Op       string
	Resource string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err for the given operation and resource.
func NewStorageError(op, resource string, err error) error {
	return &StorageError{Op: op, Resource: resource, Err: err}
}
