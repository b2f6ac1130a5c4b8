package ankiconnect

import (
	"strings"

	"github.com/phrazzld/curator-api/internal/domain"
)

// notePayload is the AnkiConnect addNote note shape.
type notePayload struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
	Options   noteOptions       `json:"options"`
}

type noteOptions struct {
	AllowDuplicate bool   `json:"allowDuplicate"`
	DuplicateScope string `json:"duplicateScope"`
}

// noteFromCard builds the addNote payload. The card's context, when
// present, is appended to the back after a horizontal rule so the
// answer stays first on the rendered card.
func noteFromCard(card *domain.Card) notePayload {
	back := card.Back
	if card.Context != "" {
		back += "\n\n---\n\n" + card.Context
	}

	tags := card.Tags
	if tags == nil {
		tags = []string{}
	}

	return notePayload{
		DeckName:  card.Deck,
		ModelName: card.Model,
		Fields: map[string]string{
			"Front": htmlNewlines(card.Front),
			"Back":  htmlNewlines(back),
		},
		Tags: tags,
		Options: noteOptions{
			AllowDuplicate: false,
			DuplicateScope: "deck",
		},
	}
}

// htmlNewlines converts plain newlines to <br> tags. Anki renders
// fields as HTML, so bare newlines would collapse.
func htmlNewlines(text string) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.ReplaceAll(normalized, "\n", "<br>")
}
