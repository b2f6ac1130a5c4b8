package gemini

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"text/template"

	_ "embed"

	"github.com/phrazzld/curator-api/internal/generation"
)

// defaultPromptTemplate ships with the binary so a prompt file on disk
// is optional; a configured template path overrides it.
//
//go:embed prompt.tmpl
var defaultPromptTemplate string

// createPrompt renders the prompt template with the provided source
// text.
func (g *Generator) createPrompt(ctx context.Context, sourceText string) (string, error) {
	if sourceText == "" {
		return "", generation.ErrEmptySourceText
	}

	g.logger.DebugContext(ctx, "generating prompt from template",
		slog.Int("source_length", len(sourceText)),
		slog.String("template_name", g.promptTemplate.Name()))

	var promptBuffer bytes.Buffer
	if err := g.promptTemplate.Execute(&promptBuffer, promptData{SourceText: sourceText}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return promptBuffer.String(), nil
}

// parseTemplate compiles either the configured template file content or
// the embedded default.
func parseTemplate(content string) (*template.Template, error) {
	if content == "" {
		content = defaultPromptTemplate
	}
	tmpl, err := template.New("flashcard").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}
	return tmpl, nil
}
