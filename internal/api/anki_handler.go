package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/curator-api/internal/anki"
	"github.com/phrazzld/curator-api/internal/api/shared"
	"github.com/phrazzld/curator-api/internal/domain"
)

// AnkiHandler exposes the remote gateway directly: connectivity probe,
// deck/model listings and ad-hoc note submission.
type AnkiHandler struct {
	gateway  anki.Gateway
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAnkiHandler creates a new AnkiHandler
func NewAnkiHandler(gateway anki.Gateway, logger *slog.Logger) *AnkiHandler {
	if gateway == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("gateway cannot be nil for AnkiHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AnkiHandler")
	}
	return &AnkiHandler{
		gateway:  gateway,
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "anki_handler")),
	}
}

// Ping handles GET /api/anki/ping requests.
// Ordinary connectivity failure is a 200 with connected=false, not an
// error status: unreachable is an answer, not a failure to answer.
func (h *AnkiHandler) Ping(w http.ResponseWriter, r *http.Request) {
	resp := PingResponse{Connected: true}
	if err := h.gateway.Ping(r.Context()); err != nil {
		resp.Connected = false
		resp.Error = GetSafeErrorMessage(err)
		h.logger.Debug("anki unreachable", slog.String("error", err.Error()))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// DeckNames handles GET /api/anki/decks requests.
func (h *AnkiHandler) DeckNames(w http.ResponseWriter, r *http.Request) {
	decks, err := h.gateway.DeckNames(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NameListResponse{Names: decks})
}

// ModelNames handles GET /api/anki/models requests.
func (h *AnkiHandler) ModelNames(w http.ResponseWriter, r *http.Request) {
	models, err := h.gateway.ModelNames(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NameListResponse{Names: models})
}

// AddNote handles POST /api/anki/add requests.
// Submits one ad-hoc note outside any review session; nothing is
// persisted locally.
func (h *AnkiHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var req AddNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "front and back are required")
		return
	}

	card := &domain.Card{
		Front:   req.Front,
		Back:    req.Back,
		Context: req.Context,
		Tags:    req.Tags,
		Deck:    req.Deck,
		Model:   req.Model,
		Status:  domain.StatusPending,
	}
	if card.Deck == "" {
		card.Deck = domain.DefaultDeck
	}
	if card.Model == "" {
		card.Model = domain.DefaultModel
	}

	noteID, err := h.gateway.AddNote(r.Context(), card)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("ad-hoc note added", slog.Int64("note_id", noteID))
	shared.RespondWithJSON(w, r, http.StatusCreated, AddNoteResponse{NoteID: noteID})
}
