package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/curator-api/internal/api"
	apiMiddleware "github.com/phrazzld/curator-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Add trace IDs for improved error handling

	// Create API handlers using the application's services
	fileHandler := api.NewFileHandler(app.cardStore, app.logger)
	cardHandler := api.NewCardHandler(app.cardStore, app.checker, app.logger)
	reviewHandler := api.NewReviewHandler(app.sessions, app.logger)
	ankiHandler := api.NewAnkiHandler(app.gateway, app.logger)
	generateHandler := api.NewGenerateHandler(app.generationService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Collection browsing and editing
		r.Get("/files", fileHandler.ListFiles)
		r.Get("/cards/{filename}", cardHandler.GetCollection)
		r.Put("/cards/{filename}/{index}", cardHandler.UpdateCard)

		// Review session lifecycle
		r.Route("/review/{filename}", func(r chi.Router) {
			r.Get("/", reviewHandler.Get)
			r.Post("/open", reviewHandler.Open)
			r.Post("/approve", reviewHandler.Approve)
			r.Post("/skip", reviewHandler.Skip)
			r.Post("/edit/start", reviewHandler.StartEdit)
			r.Post("/edit/cancel", reviewHandler.CancelEdit)
			r.Post("/edit/save", reviewHandler.SaveEdit)
			r.Post("/quit", reviewHandler.Quit)
			r.Post("/connectivity", reviewHandler.RefreshConnectivity)
		})

		// Direct AnkiConnect operations
		r.Get("/anki/ping", ankiHandler.Ping)
		r.Get("/anki/decks", ankiHandler.DeckNames)
		r.Get("/anki/models", ankiHandler.ModelNames)
		r.Post("/anki/add", ankiHandler.AddNote)

		// LLM card generation
		r.Post("/generate", generateHandler.Generate)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
