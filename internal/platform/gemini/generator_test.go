package gemini

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/curator-api/internal/config"
	"github.com/phrazzld/curator-api/internal/domain"
	"github.com/phrazzld/curator-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		GeminiAPIKey: "test-api-key",
		ModelName:    "test-model",
	}
}

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	tmpl, err := parseTemplate("")
	require.NoError(t, err)
	return &Generator{
		logger:         slog.Default(),
		promptTemplate: tmpl,
		model:          "test-model",
	}
}

func TestCreatePromptEmbedsSourceText(t *testing.T) {
	t.Parallel()

	g := testGenerator(t)
	prompt, err := g.createPrompt(context.Background(), "the mitochondria is the powerhouse of the cell")
	require.NoError(t, err)
	assert.Contains(t, prompt, "the mitochondria is the powerhouse of the cell")
	assert.Contains(t, prompt, `{"cards":`, "the default template should pin the response shape")
}

func TestCreatePromptEmptySource(t *testing.T) {
	t.Parallel()

	g := testGenerator(t)
	_, err := g.createPrompt(context.Background(), "")
	assert.ErrorIs(t, err, generation.ErrEmptySourceText)
}

func TestParseTemplateCustomContent(t *testing.T) {
	t.Parallel()

	tmpl, err := parseTemplate("cards about: {{.SourceText}}")
	require.NoError(t, err)

	g := testGenerator(t)
	g.promptTemplate = tmpl

	prompt, err := g.createPrompt(context.Background(), "rivers")
	require.NoError(t, err)
	assert.Equal(t, "cards about: rivers", prompt)
}

func TestParseTemplateMalformed(t *testing.T) {
	t.Parallel()

	_, err := parseTemplate("{{.Broken")
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestCardsFromSchema(t *testing.T) {
	t.Parallel()

	response := &ResponseSchema{Cards: []CardSchema{
		{
			Front:   "What is the powerhouse of the cell?",
			Back:    "The mitochondria.",
			Context: "It produces most of the cell's ATP.",
			Tags:    []string{"biology"},
		},
		{Front: "What does ATP stand for?", Back: "Adenosine triphosphate."},
	}}

	cards, err := cardsFromSchema(response, generation.CardOptions{
		Deck:   "Biology",
		Tags:   []string{"cell", "biology"},
		Source: "https://example.com/cells",
	})
	require.NoError(t, err)
	require.Len(t, cards, 2)

	first := cards[0]
	assert.Equal(t, domain.StatusPending, first.Status)
	assert.Equal(t, "Biology", first.Deck)
	assert.Equal(t, domain.DefaultModel, first.Model)
	assert.Equal(t, "https://example.com/cells", first.Source)
	assert.Equal(t, []string{"biology", "cell"}, first.Tags, "request tags merge in without duplicates")

	second := cards[1]
	assert.Equal(t, []string{"cell", "biology"}, second.Tags)
	assert.Empty(t, second.Context)
}

func TestCardsFromSchemaDefaultDeck(t *testing.T) {
	t.Parallel()

	cards, err := cardsFromSchema(&ResponseSchema{Cards: []CardSchema{
		{Front: "Q", Back: "A"},
	}}, generation.CardOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDeck, cards[0].Deck)
}

func TestCardsFromSchemaInvalidCard(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		response *ResponseSchema
	}{
		{name: "nil response", response: nil},
		{name: "no cards", response: &ResponseSchema{}},
		{
			name: "missing front",
			response: &ResponseSchema{Cards: []CardSchema{
				{Front: "Q", Back: "A"},
				{Back: "orphan answer"},
			}},
		},
		{
			name: "missing back",
			response: &ResponseSchema{Cards: []CardSchema{
				{Front: "orphan question"},
			}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := cardsFromSchema(tc.response, generation.CardOptions{})
			assert.ErrorIs(t, err, generation.ErrInvalidResponse)
		})
	}
}

func TestNewGeneratorValidatesConfig(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := NewGenerator(ctx, nil, validLLMConfig())
	assert.Error(t, err)

	cfg := validLLMConfig()
	cfg.GeminiAPIKey = ""
	_, err = NewGenerator(ctx, slog.Default(), cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	cfg = validLLMConfig()
	cfg.ModelName = ""
	_, err = NewGenerator(ctx, slog.Default(), cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	cfg = validLLMConfig()
	cfg.PromptTemplatePath = "does/not/exist.tmpl"
	_, err = NewGenerator(ctx, slog.Default(), cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}
