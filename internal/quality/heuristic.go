package quality

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phrazzld/curator-api/internal/domain"
)

// Content thresholds for the heuristic checks.
const (
	veryShortAnswerLen = 15
	shortAnswerLen     = 30
	longFrontLen       = 200
)

var (
	abbreviationRe = regexp.MustCompile(`\b[A-Z]{2,}\b`)

	// Leading phrases that suggest the question has no precise scope.
	vagueStarters = []string{"what about", "tell me about", "anything", "everything"}

	// Pronoun subjects that depend on context the card does not carry.
	barePronouns = []string{"this", "that", "these", "those", "it", "they"}

	// References that will not mean the same thing months from now.
	timeReferences = []string{"today", "yesterday", "recently", "last week", "currently", "right now"}
)

// HeuristicChecker is the default advisory engine. Instead of the old
// mechanical rules (ends-with-"?", keyword sniffing, raw character
// counts) it flags patterns that plausibly hurt recall: compound
// questions, answers too thin to stand alone, questions whose meaning
// depends on missing context.
type HeuristicChecker struct{}

// NewHeuristicChecker returns the reasoned advisory engine.
func NewHeuristicChecker() *HeuristicChecker {
	return &HeuristicChecker{}
}

// Check implements Checker. Warning order is fixed: front-focused
// checks first, then answer-focused, then context-focused.
func (c *HeuristicChecker) Check(card *domain.Card) []domain.ValidationWarning {
	var warnings []domain.ValidationWarning

	warnings = append(warnings, checkCompoundQuestion(card.Front)...)
	warnings = append(warnings, checkQuestionScope(card.Front)...)
	warnings = append(warnings, checkQuestionLength(card.Front)...)
	warnings = append(warnings, checkAnswerDepth(card.Back, card.Context)...)
	warnings = append(warnings, checkTimelessness(card.Front)...)
	warnings = append(warnings, checkAbbreviations(card.Front, card.Context)...)

	return warnings
}

// checkCompoundQuestion flags fronts that likely ask two things at
// once. A second question mark or a coordinating conjunction between
// clauses is the signal; a single conjunction inside a noun phrase
// ("salt and pepper") is indistinguishable, which is why this is
// advisory.
func checkCompoundQuestion(front string) []domain.ValidationWarning {
	lower := strings.ToLower(front)

	if strings.Count(front, "?") > 1 {
		return []domain.ValidationWarning{{
			Message:  "Question appears to ask more than one thing. Consider splitting into separate cards.",
			Severity: domain.SeverityWarning,
		}}
	}
	for _, indicator := range []string{"; ", " and also ", " as well as "} {
		if strings.Contains(lower, indicator) {
			return []domain.ValidationWarning{{
				Message: fmt.Sprintf(
					"Question might be compound (contains %q). Consider splitting into separate cards.",
					strings.TrimSpace(indicator)),
				Severity: domain.SeverityWarning,
			}}
		}
	}
	return nil
}

// checkQuestionScope flags fronts that open with a vague phrase or a
// bare pronoun subject, both of which depend on context the card will
// not have at review time.
func checkQuestionScope(front string) []domain.ValidationWarning {
	lower := strings.ToLower(strings.TrimSpace(front))

	for _, starter := range vagueStarters {
		if strings.HasPrefix(lower, starter) {
			return []domain.ValidationWarning{{
				Message:  "Question starts with a vague phrase. Name the specific fact you want to recall.",
				Severity: domain.SeverityWarning,
			}}
		}
	}

	words := strings.Fields(lower)
	if len(words) == 0 {
		return nil
	}
	for _, pronoun := range barePronouns {
		if words[0] == pronoun {
			return []domain.ValidationWarning{{
				Message: fmt.Sprintf(
					"Question opens with %q with nothing for it to refer to. Make it self-contained.", pronoun),
				Severity: domain.SeverityWarning,
			}}
		}
	}
	return nil
}

func checkQuestionLength(front string) []domain.ValidationWarning {
	if len(front) > longFrontLen {
		return []domain.ValidationWarning{{
			Message: fmt.Sprintf(
				"Question is very long (%d chars). Focused questions trigger more precise recall.", len(front)),
			Severity: domain.SeverityWarning,
		}}
	}
	return nil
}

// checkAnswerDepth flags answers too brief to be understood later
// unless the card carries supplementary context.
func checkAnswerDepth(back, context string) []domain.ValidationWarning {
	if context != "" {
		return nil
	}
	trimmed := strings.TrimSpace(back)
	if len(trimmed) < veryShortAnswerLen {
		return []domain.ValidationWarning{{
			Message:  "Very brief answer without context. Will this still make sense in six months?",
			Severity: domain.SeverityWarning,
		}}
	}
	if len(trimmed) < shortAnswerLen {
		return []domain.ValidationWarning{{
			Message:  "Short answer without context. Consider adding a sentence of explanation.",
			Severity: domain.SeverityWarning,
		}}
	}
	return nil
}

func checkTimelessness(front string) []domain.ValidationWarning {
	lower := strings.ToLower(front)
	for _, ref := range timeReferences {
		if strings.Contains(lower, ref) {
			return []domain.ValidationWarning{{
				Message: fmt.Sprintf(
					"Contains the time-dependent reference %q. Anchor the question to something stable.", ref),
				Severity: domain.SeverityWarning,
			}}
		}
	}
	return nil
}

// checkAbbreviations reports unexpanded all-caps terms when there is
// no context to define them. Info severity: abbreviations are often
// exactly the thing being learned.
func checkAbbreviations(front, context string) []domain.ValidationWarning {
	if context != "" {
		return nil
	}
	matches := abbreviationRe.FindAllString(front, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	uniq := matches[:0]
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			uniq = append(uniq, m)
		}
	}
	return []domain.ValidationWarning{{
		Message: fmt.Sprintf(
			"Contains abbreviations (%s) with no context to expand them.", strings.Join(uniq, ", ")),
		Severity: domain.SeverityInfo,
	}}
}
