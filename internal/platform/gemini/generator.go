package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"text/template"
	"time"

	"github.com/phrazzld/curator-api/internal/config"
	"github.com/phrazzld/curator-api/internal/domain"
	"github.com/phrazzld/curator-api/internal/generation"
	"google.golang.org/genai"
)

// Generator implements the generation.Generator interface using
// Google's Gemini API to generate flashcard proposals from source text.
type Generator struct {
	logger *slog.Logger
	config config.LLMConfig

	// promptTemplate is the parsed template for creating prompts
	promptTemplate *template.Template

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string
}

// NewGenerator creates a Generator with the provided configuration.
// The prompt template path is optional; when empty the embedded
// default template is used.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	var templateContent string
	if cfg.PromptTemplatePath != "" {
		raw, err := os.ReadFile(cfg.PromptTemplatePath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				generation.ErrInvalidConfig, cfg.PromptTemplatePath, err)
		}
		templateContent = string(raw)
	}
	tmpl, err := parseTemplate(templateContent)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: tmpl,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GenerateCards implements generation.Generator.
func (g *Generator) GenerateCards(
	ctx context.Context,
	sourceText string,
	opts generation.CardOptions,
) ([]*domain.Card, error) {
	prompt, err := g.createPrompt(ctx, sourceText)
	if err != nil {
		return nil, err
	}

	response, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	cards, err := cardsFromSchema(response, opts)
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "cards generated",
		slog.Int("count", len(cards)),
		slog.String("model", g.model))
	return cards, nil
}

// callWithRetry calls the Gemini API with exponential backoff and
// jitter for transient errors. Permanent errors (blocked content,
// unparseable responses) return immediately.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (*ResponseSchema, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default", slog.Int("max_retries", 3))
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		g.logger.InfoContext(ctx, "calling gemini",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1))

		response, transient, err := g.callOnce(ctx, prompt)
		if err == nil {
			return response, nil
		}

		g.logger.ErrorContext(ctx, "gemini call failed",
			slog.Int("attempt", attempt+1),
			slog.Bool("transient", transient),
			slog.String("error", err.Error()))

		if !transient {
			return nil, err
		}
		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callOnce performs a single API call. The transient flag reports
// whether a failure is worth retrying.
func (g *Generator) callOnce(ctx context.Context, prompt string) (*ResponseSchema, bool, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		})
	if err != nil {
		// Network and quota failures land here; treat them as transient.
		return nil, true, fmt.Errorf("gemini API call error: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, false, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, false, fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return nil, false, fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}

	var parsed ResponseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, false, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}
	return &parsed, false, nil
}

// cardsFromSchema converts the model's response into validated domain
// cards stamped with the request options. Any invalid card fails the
// whole batch with an index-identifying error.
func cardsFromSchema(response *ResponseSchema, opts generation.CardOptions) ([]*domain.Card, error) {
	if response == nil {
		return nil, fmt.Errorf("%w: response is nil", generation.ErrInvalidResponse)
	}
	if len(response.Cards) == 0 {
		return nil, fmt.Errorf("%w: no cards in response", generation.ErrInvalidResponse)
	}

	deck := opts.Deck
	if deck == "" {
		deck = domain.DefaultDeck
	}

	cards := make([]*domain.Card, 0, len(response.Cards))
	for i, schema := range response.Cards {
		card := &domain.Card{
			Front:   schema.Front,
			Back:    schema.Back,
			Context: schema.Context,
			Tags:    mergeTags(schema.Tags, opts.Tags),
			Source:  opts.Source,
			Deck:    deck,
			Model:   domain.DefaultModel,
			Status:  domain.StatusPending,
		}
		if err := card.Validate(); err != nil {
			return nil, fmt.Errorf("%w: card %d: %v", generation.ErrInvalidResponse, i, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// mergeTags appends extra tags to the model's, preserving order and
// dropping duplicates.
func mergeTags(proposed, extra []string) []string {
	merged := make([]string, 0, len(proposed)+len(extra))
	seen := make(map[string]bool, len(proposed)+len(extra))
	for _, tag := range append(append([]string{}, proposed...), extra...) {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		merged = append(merged, tag)
	}
	return merged
}
