package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/curator-api/internal/api/shared"
	"github.com/phrazzld/curator-api/internal/store"
)

// FileHandler serves the card-file listing.
type FileHandler struct {
	store  *store.CardStore
	logger *slog.Logger
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(cardStore *store.CardStore, logger *slog.Logger) *FileHandler {
	if cardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("card store cannot be nil for FileHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FileHandler")
	}
	return &FileHandler{
		store:  cardStore,
		logger: logger.With(slog.String("component", "file_handler")),
	}
}

// ListFiles handles GET /api/files requests.
// Returns a per-file summary; files that fail to parse are reported
// with their error instead of hiding the rest of the directory.
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.store.ListCollections(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			"Failed to list card files", err)
		return
	}
	if summaries == nil {
		summaries = []store.CollectionSummary{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FileListResponse{Files: summaries})
}
