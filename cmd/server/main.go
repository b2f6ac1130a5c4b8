// Package main implements the entry point for the curator API server
// which manages flashcard collections on disk, drives review sessions,
// and pushes approved cards into Anki via AnkiConnect.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/phrazzld/curator-api/internal/config"
	"github.com/phrazzld/curator-api/internal/platform/logger"
)

func main() {
	ctx := context.Background()

	app, err := initializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging, and wires the
// application dependencies.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)

	appLogger.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("cards_dir", cfg.Storage.CardsDir),
		slog.String("anki_url", cfg.Anki.URL))
	if cfg.LLM.GeminiAPIKey != "" {
		appLogger.Debug("LLM configuration", slog.Bool("api_key_present", true),
			slog.String("model", cfg.LLM.ModelName))
	}

	return newApplication(ctx, cfg, appLogger)
}
