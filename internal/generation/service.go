package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/phrazzld/curator-api/internal/domain"
)

// Store is the persistence contract the service writes new collections
// through. Satisfied by *store.CardStore.
type Store interface {
	// Create writes a brand-new collection and refuses to overwrite an
	// existing file.
	Create(ctx context.Context, filename string, col domain.Collection) error
}

// Service drives one generation request end to end: ask the Generator
// for card proposals, then persist them as a fresh reviewable
// collection named after the topic and the current time.
type Service struct {
	generator Generator
	store     Store
	logger    *slog.Logger
	now       func() time.Time

	// sourceDir is where scraped source text files live. Empty means
	// requests must inline their source text.
	sourceDir string
}

// Option configures optional service behavior.
type Option func(*Service)

// WithSourceDir lets requests name a file of scraped source text from
// dir instead of inlining the text.
func WithSourceDir(dir string) Option {
	return func(s *Service) {
		s.sourceDir = dir
	}
}

// NewService creates a generation service. All dependencies are
// required except the logger.
func NewService(generator Generator, store Store, logger *slog.Logger, opts ...Option) (*Service, error) {
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		generator: generator,
		store:     store,
		logger:    logger.With(slog.String("component", "generation_service")),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Request describes one generation run.
type Request struct {
	// SourceText is the scraped content to generate cards from.
	SourceText string

	// SourceFile names a file in the configured source directory to
	// read the content from. Used when SourceText is empty.
	SourceFile string

	// Topic names the resulting file; slugified and timestamped.
	Topic string

	// Deck, Tags and Source are stamped onto every generated card.
	Deck   string
	Tags   []string
	Source string
}

// Generate produces cards from the request's source text and writes
// them to a new collection file. Returns the filename and the persisted
// collection.
func (s *Service) Generate(ctx context.Context, req Request) (string, domain.Collection, error) {
	sourceText := strings.TrimSpace(req.SourceText)
	if sourceText == "" && req.SourceFile != "" {
		raw, err := s.readSource(req.SourceFile)
		if err != nil {
			return "", nil, err
		}
		sourceText = strings.TrimSpace(raw)
	}
	if sourceText == "" {
		return "", nil, ErrEmptySourceText
	}

	cards, err := s.generator.GenerateCards(ctx, sourceText, CardOptions{
		Deck:   req.Deck,
		Tags:   req.Tags,
		Source: req.Source,
	})
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if len(cards) == 0 {
		return "", nil, fmt.Errorf("%w: generator produced no cards", ErrInvalidResponse)
	}

	col := domain.Collection(cards)
	if err := col.Validate(); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	filename := fmt.Sprintf("%s-%s.json", slugify(req.Topic), s.now().Format("20060102-150405"))
	if err := s.store.Create(ctx, filename, col); err != nil {
		return "", nil, fmt.Errorf("failed to persist generated collection: %w", err)
	}

	s.logger.Info("collection generated",
		slog.String("filename", filename),
		slog.Int("cards", len(col)))
	return filename, col, nil
}

// readSource loads a scraped source text file by bare name. Path
// separators are rejected so requests cannot escape the directory.
func (s *Service) readSource(name string) (string, error) {
	if s.sourceDir == "" {
		return "", fmt.Errorf("%w: no source directory configured", ErrSourceUnreadable)
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q is not a bare filename", ErrSourceUnreadable, name)
	}
	raw, err := os.ReadFile(filepath.Join(s.sourceDir, name))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrSourceUnreadable, name)
	}
	return string(raw), nil
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a topic into a filename-safe stem. Empty or fully
// stripped topics fall back to "cards".
func slugify(topic string) string {
	slug := strings.ToLower(strings.TrimSpace(topic))
	slug = slugRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "cards"
	}
	return slug
}
