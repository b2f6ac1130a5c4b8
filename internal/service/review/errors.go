package review

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by session transitions. Callers check these
// with errors.Is; the API layer maps them to HTTP status codes.
var (
	// ErrBusy indicates a transition was requested while another one is
	// still in flight. Rejected synchronously; never stored as the
	// session's last error.
	ErrBusy = errors.New("another transition is in flight")

	// ErrSessionClosed indicates the session was quit; no further
	// transitions are accepted.
	ErrSessionClosed = errors.New("session is closed")

	// ErrSessionComplete indicates the cursor has moved past the last
	// record; only Quit and connectivity refresh remain valid.
	ErrSessionComplete = errors.New("session is complete")

	// ErrEditing indicates approve or skip was requested while the
	// session is in editing mode.
	ErrEditing = errors.New("session is editing the current card")

	// ErrNotEditing indicates an edit save or cancel was requested
	// while the session is not in editing mode.
	ErrNotEditing = errors.New("session is not editing")
)

// SessionError wraps errors from session transitions with the failed
// operation and a human-readable message. Consumers differentiate
// causes with errors.Is/errors.As on the wrapped error.
type SessionError struct {
	// Operation is the transition that failed (e.g., "approve", "skip").
	Operation string
	// Message is a human-readable description of the failure.
	Message string
	// Err is the underlying error that caused the failure.
	Err error
}

// Error implements the error interface for SessionError.
func (e *SessionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *SessionError) Unwrap() error {
	return e.Err
}

func newSessionError(operation, message string, err error) *SessionError {
	return &SessionError{Operation: operation, Message: message, Err: err}
}
