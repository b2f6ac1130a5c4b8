package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the review lifecycle state of a card record.
// pending is the only non-terminal state: a card moves pending -> added
// or pending -> skipped and never leaves a terminal state.
type Status string

const (
	// StatusPending marks a card that has not been reviewed yet.
	StatusPending Status = "pending"

	// StatusAdded marks a card that was submitted to the remote
	// flashcard application. Terminal.
	StatusAdded Status = "added"

	// StatusSkipped marks a card the reviewer declined. Terminal.
	StatusSkipped Status = "skipped"
)

// Valid reports whether s is a known review status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAdded, StatusSkipped:
		return true
	}
	return false
}

// Terminal reports whether s is a state no transition may leave.
func (s Status) Terminal() bool {
	return s == StatusAdded || s == StatusSkipped
}

// Defaults applied when a card file omits the optional fields.
const (
	DefaultDeck  = "Default"
	DefaultModel = "Basic"
)

// Card is one flashcard proposal. Position within its containing
// collection is the record identity: collections are never reordered
// and records are never deleted.
//
// The JSON field set is the on-disk card file contract. Legacy files
// written before status/anki_id/added_at existed must keep loading;
// UnmarshalJSON applies the documented defaults for missing fields.
type Card struct {
	Front   string     `json:"front"`
	Back    string     `json:"back"`
	Context string     `json:"context"`
	Tags    []string   `json:"tags"`
	Source  string     `json:"source"`
	Deck    string     `json:"deck"`
	Model   string     `json:"model"`
	AnkiID  *int64     `json:"anki_id"`
	Status  Status     `json:"status"`
	AddedAt *time.Time `json:"added_at"`
}

// UnmarshalJSON decodes a card applying defaults for absent optional
// fields, so that legacy files load as pending cards targeting the
// Default deck and Basic model.
func (c *Card) UnmarshalJSON(data []byte) error {
	type alias Card
	a := alias{
		Deck:   DefaultDeck,
		Model:  DefaultModel,
		Status: StatusPending,
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	*c = Card(a)
	return nil
}

// Validate checks the card's required fields and status invariants:
//
//   - front and back are non-empty
//   - status == added  <=>  anki_id and added_at are present
//   - status != added  =>   anki_id is absent
//
// Returns a sentinel error describing the first violation found.
func (c *Card) Validate() error {
	if strings.TrimSpace(c.Front) == "" {
		return ErrCardFrontEmpty
	}
	if strings.TrimSpace(c.Back) == "" {
		return ErrCardBackEmpty
	}
	if !c.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrCardStatusInvalid, c.Status)
	}
	if c.Status == StatusAdded {
		if c.AnkiID == nil || c.AddedAt == nil {
			return ErrCardAddedIncomplete
		}
		return nil
	}
	if c.AnkiID != nil {
		return fmt.Errorf("%w: status %q", ErrCardAnkiIDUnexpected, c.Status)
	}
	return nil
}

// MarkAdded transitions a pending card to added, recording the remote
// note ID and the submission timestamp. Calling it on a card that is
// already added or skipped returns ErrCardDecided.
func (c *Card) MarkAdded(ankiID int64, at time.Time) error {
	if c.Status != StatusPending {
		return fmt.Errorf("%w: status is %q", ErrCardDecided, c.Status)
	}
	c.Status = StatusAdded
	c.AnkiID = &ankiID
	utc := at.UTC()
	c.AddedAt = &utc
	return nil
}

// MarkSkipped transitions a pending card to skipped. Skipping an
// already-skipped card is an idempotent no-op; skipping an added card
// returns ErrCardDecided.
func (c *Card) MarkSkipped() error {
	switch c.Status {
	case StatusSkipped:
		return nil
	case StatusAdded:
		return fmt.Errorf("%w: status is %q", ErrCardDecided, c.Status)
	}
	c.Status = StatusSkipped
	return nil
}

// CardEdit describes a partial update to a pending card's content
// fields. Nil fields are left untouched.
type CardEdit struct {
	Front   *string
	Back    *string
	Context *string
	Tags    *[]string
}

// ApplyEdit rewrites the card's content fields from the edit. Edits
// are permitted only while the card is pending; the status, remote ID
// and timestamps are never touched. The caller is responsible for
// re-validating the card afterwards.
func (c *Card) ApplyEdit(edit CardEdit) error {
	if c.Status != StatusPending {
		return fmt.Errorf("%w: status is %q", ErrCardDecided, c.Status)
	}
	if edit.Front != nil {
		c.Front = *edit.Front
	}
	if edit.Back != nil {
		c.Back = *edit.Back
	}
	if edit.Context != nil {
		c.Context = *edit.Context
	}
	if edit.Tags != nil {
		c.Tags = append([]string(nil), (*edit.Tags)...)
	}
	return nil
}

// Clone returns a deep copy of the card. Snapshots hand copies to
// callers so session state stays immutable from the outside.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	dup := *c
	dup.Tags = append([]string(nil), c.Tags...)
	if c.AnkiID != nil {
		id := *c.AnkiID
		dup.AnkiID = &id
	}
	if c.AddedAt != nil {
		at := *c.AddedAt
		dup.AddedAt = &at
	}
	return &dup
}
