package review

import (
	"github.com/phrazzld/curator-api/internal/domain"
)

// State is the session-level lifecycle state.
type State string

const (
	// StateActive means the cursor points at a record and transitions
	// are accepted.
	StateActive State = "active"

	// StateComplete means the cursor has moved past the last record.
	StateComplete State = "complete"

	// StateClosed means the session was quit. Terminal.
	StateClosed State = "closed"
)

// Mode is the sub-mode of an active session.
type Mode string

const (
	// ModeBrowsing is the default sub-mode: approve/skip/edit accepted.
	ModeBrowsing Mode = "browsing"

	// ModeEditing means the current record is being edited; only save,
	// cancel and quit are accepted.
	ModeEditing Mode = "editing"
)

// Snapshot is an immutable view of session state handed to callers
// after every transition. The card is a deep copy; mutating it never
// affects the session. Warnings are recomputed from the current card's
// content on every snapshot, so they always reflect the latest edit.
type Snapshot struct {
	Filename string `json:"filename"`
	State    State  `json:"state"`
	Mode     Mode   `json:"mode"`

	// Index is the cursor position. Equal to Total once complete.
	Index   int `json:"index"`
	Total   int `json:"total"`
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Pending int `json:"pending"`

	// Card is the record under the cursor; nil once complete.
	Card     *domain.Card               `json:"card,omitempty"`
	Warnings []domain.ValidationWarning `json:"warnings"`

	// LastError holds the most recent failed transition's message;
	// cleared by the next successful transition.
	LastError string `json:"last_error,omitempty"`

	// Connected is the last known remote connectivity, refreshed on
	// session open, successful submissions and explicit probes.
	Connected       bool   `json:"connected"`
	ConnectionError string `json:"connection_error,omitempty"`
}

// snapshotLocked builds a Snapshot. Callers must hold s.mu.
func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Filename:        s.filename,
		State:           s.state,
		Mode:            s.mode,
		Index:           s.cursor,
		Total:           len(s.cards),
		Added:           s.added,
		Skipped:         s.skipped,
		Pending:         len(s.cards) - s.added - s.skipped,
		Warnings:        []domain.ValidationWarning{},
		LastError:       s.lastErr,
		Connected:       s.connected,
		ConnectionError: s.connErr,
	}
	if s.state == StateActive && s.cursor < len(s.cards) {
		card := s.cards[s.cursor]
		snap.Card = card.Clone()
		if warnings := s.checker.Check(card); warnings != nil {
			snap.Warnings = warnings
		}
	}
	return snap
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}
