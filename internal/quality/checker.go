package quality

import "github.com/phrazzld/curator-api/internal/domain"

// Checker inspects a card's content and returns zero or more advisory
// warnings. Implementations must be deterministic and side-effect
// free, and must keep the output order stable for identical input so
// callers can assert exact warning lists.
type Checker interface {
	Check(card *domain.Card) []domain.ValidationWarning
}

// New returns the default checker used by review sessions.
func New() Checker {
	return NewHeuristicChecker()
}
