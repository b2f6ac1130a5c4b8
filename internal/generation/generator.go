package generation

import (
	"context"

	"github.com/phrazzld/curator-api/internal/domain"
)

// CardOptions carry the per-request metadata stamped onto every
// generated card.
type CardOptions struct {
	// Deck is the target deck for the generated cards; empty means the
	// model default.
	Deck string

	// Tags are appended to whatever tags the model proposes.
	Tags []string

	// Source records provenance (URL or file path) on each card.
	Source string
}

// Generator defines the interface for generating flashcard proposals
// from source text. This interface is the boundary between the
// application core and external AI/LLM services.
type Generator interface {
	// GenerateCards creates pending card proposals from sourceText.
	// Every returned card passes domain validation.
	//
	// Returns ErrEmptySourceText for blank input, ErrContentBlocked if
	// the provider refuses the content, ErrInvalidResponse if the
	// provider's output cannot be turned into valid cards, and
	// ErrTransientFailure when retries were exhausted on a temporary
	// failure.
	GenerateCards(ctx context.Context, sourceText string, opts CardOptions) ([]*domain.Card, error)
}
