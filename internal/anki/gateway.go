// Package anki defines the boundary contract to the external
// flashcard application's automation API. The core depends only on
// this interface; the concrete HTTP client lives under
// platform/ankiconnect.
package anki

import (
	"context"
	"errors"

	"github.com/phrazzld/curator-api/internal/domain"
)

// Gateway is the only network-facing contract the review core depends
// on. Implementations perform no retries: retry policy belongs to the
// review session, which knows whether a failure is worth retrying.
type Gateway interface {
	// Ping probes connectivity. A nil error means the remote
	// application is reachable and responding; any error carries a
	// human-readable reason. Safe to call at any time.
	Ping(ctx context.Context) error

	// AddNote submits a single card as a new note and returns the
	// remote note ID. Fails with ErrConnection when the remote is
	// unreachable (retryable) or ErrRemoteRejected when the remote
	// validated and refused the note, e.g. a duplicate (not retryable
	// without an edit).
	AddNote(ctx context.Context, card *domain.Card) (int64, error)

	// DeckNames lists the remote deck names.
	DeckNames(ctx context.Context) ([]string, error)

	// ModelNames lists the remote note-type names.
	ModelNames(ctx context.Context) ([]string, error)
}

var (
	// ErrConnection indicates the remote application could not be
	// reached. Retryable.
	ErrConnection = errors.New("anki connection failed")

	// ErrRemoteRejected indicates the remote application received the
	// request and refused it. Not retryable without changing the note.
	ErrRemoteRejected = errors.New("anki rejected the note")
)

// IsRetryable reports whether err is worth retrying unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConnection)
}
