package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrCardFrontEmpty is returned when a card's front (prompt) is empty.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardBackEmpty is returned when a card's back (answer) is empty.
	ErrCardBackEmpty = errors.New("card back cannot be empty")

	// ErrCardStatusInvalid is returned when a card carries an unknown
	// review status.
	ErrCardStatusInvalid = errors.New("invalid card status")

	// ErrCardAddedIncomplete is returned when a card is marked added but
	// is missing its remote note ID or added timestamp. The invariant is
	// status == added if and only if both are present.
	ErrCardAddedIncomplete = errors.New("added card must carry anki_id and added_at")

	// ErrCardAnkiIDUnexpected is returned when a card that is not marked
	// added carries a remote note ID.
	ErrCardAnkiIDUnexpected = errors.New("anki_id present on a card not marked added")

	// ErrCardDecided is returned when a terminal-state card (added or
	// skipped) is asked to transition or accept edits.
	ErrCardDecided = errors.New("card has already been decided")
)
