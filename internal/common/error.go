// Package common defines shared sentinel errors and small helpers used across
// the boathouse layers. Callers should use errors.Is / errors.As to match
// these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrDuplicateEntry reports a unique-constraint violation on insert.
	// It is recoverable: the caller may retry with different input.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidArgument reports structurally invalid caller input, e.g. an
	// outing without seat 0, boat or departure time.
	ErrInvalidArgument = errors.New("invalid argument")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// StorageError wraps a failure of the underlying storage engine. It is not
// retried internally and is fatal for the operation that produced it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: db error: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError for operation op.
// A nil err yields nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// InvalidArgument returns an error matching ErrInvalidArgument with a
// description of the offending input.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
