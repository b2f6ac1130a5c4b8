package api

import (
	"github.com/phrazzld/curator-api/internal/domain"
	"github.com/phrazzld/curator-api/internal/store"
)

// CollectionResponse is the payload for reading one card file.
type CollectionResponse struct {
	Filename string                       `json:"filename"`
	Counts   domain.StatusCounts          `json:"counts"`
	Cards    []*domain.Card               `json:"cards"`
	Warnings [][]domain.ValidationWarning `json:"warnings"`
}

// FileListResponse lists the reviewable card files.
type FileListResponse struct {
	Files []store.CollectionSummary `json:"files"`
}

// UpdateCardRequest edits the content fields of a pending card. Nil
// fields are left untouched.
type UpdateCardRequest struct {
	Front   *string   `json:"front,omitempty"`
	Back    *string   `json:"back,omitempty"`
	Context *string   `json:"context,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// Edit converts the request into a domain edit.
func (r UpdateCardRequest) Edit() domain.CardEdit {
	return domain.CardEdit{
		Front:   r.Front,
		Back:    r.Back,
		Context: r.Context,
		Tags:    r.Tags,
	}
}

// CardResponse is the payload for a single updated card.
type CardResponse struct {
	Card     *domain.Card               `json:"card"`
	Warnings []domain.ValidationWarning `json:"warnings"`
}

// OpenSessionRequest opens (or reopens) a review session on a file.
type OpenSessionRequest struct {
	// Reset forces the cursor to the first record instead of the first
	// pending one.
	Reset bool `json:"reset,omitempty"`

	// Deck routes every approval in this session to the named deck.
	Deck string `json:"deck,omitempty"`
}

// PingResponse reports remote connectivity.
type PingResponse struct {
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

// NameListResponse carries deck or model names from the remote.
type NameListResponse struct {
	Names []string `json:"names"`
}

// AddNoteRequest submits a single ad-hoc note to the remote, outside
// any review session.
type AddNoteRequest struct {
	Front   string   `json:"front" validate:"required"`
	Back    string   `json:"back" validate:"required"`
	Context string   `json:"context,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Deck    string   `json:"deck,omitempty"`
	Model   string   `json:"model,omitempty"`
}

// AddNoteResponse returns the remote note ID for a submitted note.
type AddNoteResponse struct {
	NoteID int64 `json:"note_id"`
}

// GenerateRequest asks for a new collection generated from source text,
// given either inline or as a file in the scraped-text directory.
type GenerateRequest struct {
	SourceText string   `json:"source_text,omitempty" validate:"required_without=SourceFile"`
	SourceFile string   `json:"source_file,omitempty" validate:"required_without=SourceText"`
	Topic      string   `json:"topic" validate:"required"`
	Deck       string   `json:"deck,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Source     string   `json:"source,omitempty"`
}

// GenerateResponse names the freshly written collection.
type GenerateResponse struct {
	Filename string         `json:"filename"`
	Cards    []*domain.Card `json:"cards"`
}
