package quality

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phrazzld/curator-api/internal/domain"
)

var wordRe = regexp.MustCompile(`\b\w+\b`)

// StrictChecker is the older mechanical rule engine: keyword sniffing
// and character thresholds. It is kept behind the Checker interface
// for callers that want the original rule set, but it honors the same
// advisory contract: model-valid content is never flagged above
// warning severity.
type StrictChecker struct{}

// NewStrictChecker returns the legacy rule-based engine.
func NewStrictChecker() *StrictChecker {
	return &StrictChecker{}
}

// Check implements Checker.
func (c *StrictChecker) Check(card *domain.Card) []domain.ValidationWarning {
	var warnings []domain.ValidationWarning

	front := strings.TrimSpace(card.Front)
	frontLower := strings.ToLower(front)

	if !strings.HasSuffix(front, "?") {
		warnings = append(warnings, domain.ValidationWarning{
			Message:  "Front should be a question (end with '?'). Questions are more effective than statements.",
			Severity: domain.SeverityWarning,
		})
	}

	for _, indicator := range []string{" and ", " or ", ";", "also"} {
		if strings.Contains(frontLower, indicator) {
			warnings = append(warnings, domain.ValidationWarning{
				Message: fmt.Sprintf(
					"Question might be compound (contains %q). Consider splitting into separate cards.",
					strings.TrimSpace(indicator)),
				Severity: domain.SeverityWarning,
			})
			break
		}
	}

	if len(front) > longFrontLen {
		warnings = append(warnings, domain.ValidationWarning{
			Message: fmt.Sprintf(
				"Question is very long (%d chars). Atomic questions should be focused and brief.", len(front)),
			Severity: domain.SeverityWarning,
		})
	}

	frontWords := wordRe.FindAllString(frontLower, -1)
	for _, pronoun := range barePronouns {
		if containsWord(frontWords, pronoun) {
			warnings = append(warnings, domain.ValidationWarning{
				Message: fmt.Sprintf(
					"Contains vague pronoun %q. Ensure the question is clear without prior context.", pronoun),
				Severity: domain.SeverityWarning,
			})
			break
		}
	}

	if card.Context == "" && len(strings.TrimSpace(card.Back)) < shortAnswerLen {
		warnings = append(warnings, domain.ValidationWarning{
			Message:  "Consider adding context for future understanding.",
			Severity: domain.SeverityWarning,
		})
	}

	return warnings
}

func containsWord(words []string, target string) bool {
	for _, w := range words {
		if w == target {
			return true
		}
	}
	return false
}
