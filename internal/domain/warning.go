package domain

// Severity ranks a validation warning. Warnings are advisory: nothing
// at warning severity or below ever blocks a review transition. The
// error severity is reserved for structurally malformed content, which
// card validation rejects before a checker ever sees it.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ValidationWarning is an advisory note about a card's content,
// produced by a quality checker. Warnings are ephemeral: they are
// recomputed on load and after every edit, and never persisted.
type ValidationWarning struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}
