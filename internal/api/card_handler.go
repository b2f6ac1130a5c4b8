package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/curator-api/internal/api/shared"
	"github.com/phrazzld/curator-api/internal/domain"
	"github.com/phrazzld/curator-api/internal/quality"
	"github.com/phrazzld/curator-api/internal/store"
)

// CardHandler reads and edits cards directly through the store,
// outside any review session.
type CardHandler struct {
	store   *store.CardStore
	checker quality.Checker
	logger  *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardStore *store.CardStore, checker quality.Checker, logger *slog.Logger) *CardHandler {
	if cardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("card store cannot be nil for CardHandler")
	}
	if checker == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("quality checker cannot be nil for CardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}
	return &CardHandler{
		store:   cardStore,
		checker: checker,
		logger:  logger.With(slog.String("component", "card_handler")),
	}
}

// GetCollection handles GET /api/cards/{filename} requests.
// Returns the full collection with per-card advisory warnings.
func (h *CardHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	col, err := h.store.Load(r.Context(), filename)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	warnings := make([][]domain.ValidationWarning, len(col))
	for i, card := range col {
		warnings[i] = h.checker.Check(card)
		if warnings[i] == nil {
			warnings[i] = []domain.ValidationWarning{}
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CollectionResponse{
		Filename: filename,
		Counts:   col.Counts(),
		Cards:    col,
		Warnings: warnings,
	})
}

// UpdateCard handles PUT /api/cards/{filename}/{index} requests.
// Edits the content fields of a pending card and returns the updated
// card with freshly computed warnings.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Card index must be an integer")
		return
	}

	var req UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	card, err := h.store.Update(r.Context(), filename, index, func(c *domain.Card) error {
		return c.ApplyEdit(req.Edit())
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("card updated",
		slog.String("filename", filename),
		slog.Int("index", index))

	warnings := h.checker.Check(card)
	if warnings == nil {
		warnings = []domain.ValidationWarning{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CardResponse{Card: card, Warnings: warnings})
}
