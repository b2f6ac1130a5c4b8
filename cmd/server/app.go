package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/curator-api/internal/anki"
	"github.com/phrazzld/curator-api/internal/api"
	"github.com/phrazzld/curator-api/internal/config"
	"github.com/phrazzld/curator-api/internal/generation"
	"github.com/phrazzld/curator-api/internal/platform/ankiconnect"
	"github.com/phrazzld/curator-api/internal/platform/gemini"
	"github.com/phrazzld/curator-api/internal/quality"
	"github.com/phrazzld/curator-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	cardStore *store.CardStore
	gateway   anki.Gateway
	checker   quality.Checker
	sessions  *api.SessionManager

	// generationService is nil when no Gemini API key is configured.
	// The generate endpoint answers 503 in that case.
	generationService *generation.Service
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts configuration and a logger that must be
// established before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.cardStore, err = store.NewCardStore(cfg.Storage.CardsDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize card store: %w", err)
	}
	logger.Info("Card store initialized", slog.String("dir", cfg.Storage.CardsDir))

	app.gateway = ankiconnect.New(
		cfg.Anki.URL,
		logger,
		ankiconnect.WithTimeout(time.Duration(cfg.Anki.TimeoutSeconds)*time.Second),
	)

	app.checker = quality.New()
	app.sessions = api.NewSessionManager(app.cardStore, app.gateway, app.checker, logger)

	if cfg.LLM.GeminiAPIKey != "" {
		generator, err := gemini.NewGenerator(ctx, logger.With(slog.String("component", "llm_generator")), cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
		app.generationService, err = generation.NewService(generator, app.cardStore, logger,
			generation.WithSourceDir(cfg.Storage.ScrapedDir))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize generation service: %w", err)
		}
		logger.Info("LLM generator initialized", slog.String("model", cfg.LLM.ModelName))
	} else {
		logger.Info("No Gemini API key configured, card generation disabled")
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources. Open review
// sessions are quit so their state is not left mid-edit.
func (app *application) cleanup() {
	if app.sessions != nil {
		app.sessions.CloseAll()
	}
	app.logger.Info("Application shutdown completed")
}
