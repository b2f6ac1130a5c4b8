package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/curator-api/internal/anki"
	"github.com/phrazzld/curator-api/internal/domain"
	"github.com/phrazzld/curator-api/internal/generation"
	"github.com/phrazzld/curator-api/internal/service/review"
	"github.com/phrazzld/curator-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrIndexOutOfRange):
		return http.StatusNotFound

	// Conflict errors: the request is well-formed but the session or
	// record state refuses it. Checked before the validation bucket
	// because the store wraps a rejected transition as a validation
	// failure around ErrCardDecided.
	case errors.Is(err, store.ErrExists),
		errors.Is(err, domain.ErrCardDecided),
		errors.Is(err, review.ErrBusy),
		errors.Is(err, review.ErrSessionClosed),
		errors.Is(err, review.ErrSessionComplete),
		errors.Is(err, review.ErrEditing),
		errors.Is(err, review.ErrNotEditing):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidFilename),
		errors.Is(err, store.ErrValidationFailed),
		errors.Is(err, store.ErrCorrupt),
		errors.Is(err, generation.ErrEmptySourceText),
		errors.Is(err, generation.ErrSourceUnreadable):
		return http.StatusBadRequest

	// The remote accepted the connection but refused the note.
	case errors.Is(err, anki.ErrRemoteRejected),
		errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	// Upstream failures.
	case errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway
	case errors.Is(err, anki.ErrConnection),
		errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return "Card file not found"
	case errors.Is(err, store.ErrIndexOutOfRange):
		return "Card index out of range"
	case errors.Is(err, store.ErrInvalidFilename):
		return "Invalid card filename"
	case errors.Is(err, store.ErrCorrupt):
		return "Card file is corrupt"
	case errors.Is(err, domain.ErrCardDecided):
		return "Card has already been decided"
	case errors.Is(err, store.ErrValidationFailed):
		return "Card update failed validation"
	case errors.Is(err, store.ErrExists):
		return "Card file already exists"
	case errors.Is(err, review.ErrBusy):
		return "Another action is still in progress"
	case errors.Is(err, review.ErrSessionClosed):
		return "Review session is closed"
	case errors.Is(err, review.ErrSessionComplete):
		return "Review session is complete"
	case errors.Is(err, review.ErrEditing):
		return "Finish or cancel the current edit first"
	case errors.Is(err, review.ErrNotEditing):
		return "No edit in progress"
	case errors.Is(err, anki.ErrRemoteRejected):
		return "Anki rejected the note"
	case errors.Is(err, anki.ErrConnection):
		return "Cannot reach Anki"
	case errors.Is(err, generation.ErrEmptySourceText):
		return "Source text is required"
	case errors.Is(err, generation.ErrSourceUnreadable):
		return "Source file could not be read"
	case errors.Is(err, generation.ErrContentBlocked):
		return "Content was blocked by the language model"
	case errors.Is(err, generation.ErrInvalidResponse):
		return "Language model returned an unusable response"
	case errors.Is(err, generation.ErrTransientFailure):
		return "Card generation is temporarily unavailable"
	default:
		return "An unexpected error occurred"
	}
}
