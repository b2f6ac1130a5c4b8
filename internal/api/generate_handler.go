package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/curator-api/internal/api/shared"
	"github.com/phrazzld/curator-api/internal/generation"
)

// GenerateHandler turns source text into a new reviewable collection.
type GenerateHandler struct {
	service  *generation.Service
	validate *validator.Validate
	logger   *slog.Logger
}

// NewGenerateHandler creates a new GenerateHandler. A nil service is
// allowed: it means generation is not configured (no API key) and the
// endpoint answers 503.
func NewGenerateHandler(service *generation.Service, logger *slog.Logger) *GenerateHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GenerateHandler")
	}
	return &GenerateHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "generate_handler")),
	}
}

// Generate handles POST /api/generate requests.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		shared.RespondWithError(w, r, http.StatusServiceUnavailable,
			"Card generation is not configured")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"topic and either source_text or source_file are required")
		return
	}

	filename, cards, err := h.service.Generate(r.Context(), generation.Request{
		SourceText: req.SourceText,
		SourceFile: req.SourceFile,
		Topic:      req.Topic,
		Deck:       req.Deck,
		Tags:       req.Tags,
		Source:     req.Source,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("collection generated",
		slog.String("filename", filename),
		slog.Int("cards", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, GenerateResponse{
		Filename: filename,
		Cards:    cards,
	})
}
