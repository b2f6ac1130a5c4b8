package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/curator-api/internal/api/shared"
	"github.com/phrazzld/curator-api/internal/service/review"
)

// ReviewHandler exposes the review session state machine over HTTP.
// Every transition returns the resulting session snapshot so the UI
// can render without a follow-up read.
type ReviewHandler struct {
	sessions *SessionManager
	logger   *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(sessions *SessionManager, logger *slog.Logger) *ReviewHandler {
	if sessions == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("session manager cannot be nil for ReviewHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}
	return &ReviewHandler{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "review_handler")),
	}
}

// respond writes the transition result: the snapshot on success, the
// mapped error otherwise.
func (h *ReviewHandler) respond(w http.ResponseWriter, r *http.Request, snap review.Snapshot, err error) {
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			shared.RespondWithError(w, r, http.StatusNotFound, "No open review session for this file")
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, snap)
}

// session resolves the open session for the filename route parameter.
func (h *ReviewHandler) session(r *http.Request) (*review.Session, error) {
	return h.sessions.Get(chi.URLParam(r, "filename"))
}

// Open handles POST /api/review/{filename}/open requests.
func (h *ReviewHandler) Open(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	var req OpenSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	var opts []review.Option
	if req.Reset {
		opts = append(opts, review.WithReset())
	}
	if req.Deck != "" {
		opts = append(opts, review.WithDeckOverride(req.Deck))
	}

	session, err := h.sessions.Open(r.Context(), filename, opts...)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("review session opened", slog.String("filename", filename))
	shared.RespondWithJSON(w, r, http.StatusOK, session.Snapshot())
}

// Get handles GET /api/review/{filename} requests.
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.respond(w, r, review.Snapshot{}, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, session.Snapshot())
}

// Approve handles POST /api/review/{filename}/approve requests.
func (h *ReviewHandler) Approve(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.respond(w, r, review.Snapshot{}, err)
		return
	}
	snap, err := session.Approve(r.Context())
	h.respond(w, r, snap, err)
}

// Skip handles POST /api/review/{filename}/skip requests.
func (h *ReviewHandler) Skip(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.respond(w, r, review.Snapshot{}, err)
		return
	}
	snap, err := session.Skip(r.Context())
	h.respond(w, r, snap, err)
}

// StartEdit handles POST /api/review/{filename}/edit/start requests.
func (h *ReviewHandler) StartEdit(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.respond(w, r, review.Snapshot{}, err)
		return
	}
	snap, err := session.StartEdit()
	h.respond(w, r, snap, err)
}

// CancelEdit handles POST /api/review/{filename}/edit/cancel requests.
func (h *ReviewHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.respond(w, r, review.Snapshot{}, err)
		return
	}
	snap, err := session.CancelEdit()
	h.respond(w, r, snap, err)
}

// SaveEdit handles POST /api/review/{filename}/edit/save requests.
func (h *ReviewHandler) SaveEdit(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.respond(w, r, review.Snapshot{}, err)
		return
	}

	var req UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	snap, err := session.SaveEdit(r.Context(), req.Edit())
	h.respond(w, r, snap, err)
}

// Quit handles POST /api/review/{filename}/quit requests.
func (h *ReviewHandler) Quit(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Close(chi.URLParam(r, "filename"))
	h.respond(w, r, snap, err)
}

// RefreshConnectivity handles POST /api/review/{filename}/connectivity requests.
func (h *ReviewHandler) RefreshConnectivity(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.respond(w, r, review.Snapshot{}, err)
		return
	}
	snap, err := session.RefreshConnectivity(r.Context())
	h.respond(w, r, snap, err)
}
