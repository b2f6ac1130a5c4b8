package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store operations.
var (
	// ErrNotFound is returned when the requested card file does not exist.
	ErrNotFound = errors.New("card file not found")

	// ErrExists is returned when creating a card file that already exists.
	ErrExists = errors.New("card file already exists")

	// ErrCorrupt is returned when a card file cannot be parsed or
	// violates the model invariants. Loading is fail-closed: a corrupt
	// file yields no partial collection.
	ErrCorrupt = errors.New("card file is corrupt")

	// ErrIndexOutOfRange is returned when an update addresses a record
	// position outside the collection.
	ErrIndexOutOfRange = errors.New("card index out of range")

	// ErrValidationFailed is returned when a mutation would leave a
	// record violating an invariant. Nothing is persisted.
	ErrValidationFailed = errors.New("card validation failed")

	// ErrInvalidFilename is returned for filenames that are not plain
	// "<name>.json" keys (path separators, traversal, wrong extension).
	ErrInvalidFilename = errors.New("invalid card filename")
)

// IsNotFoundError reports whether err is the store's not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError wraps store failures with the filename and operation for
// logging and errors.As-based handling.
type StoreError struct {
	Filename  string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Filename, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Filename, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(filename, operation, message string, err error) *StoreError {
	return &StoreError{
		Filename:  filename,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
