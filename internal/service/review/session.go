package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/curator-api/internal/anki"
	"github.com/phrazzld/curator-api/internal/domain"
	"github.com/phrazzld/curator-api/internal/quality"
)

// Store is the persistence contract the session depends on. Satisfied
// by *store.CardStore.
type Store interface {
	// Load reads the full collection backing filename.
	Load(ctx context.Context, filename string) (domain.Collection, error)

	// Update applies one mutation to the record at index and persists
	// the whole collection atomically, returning the updated record.
	Update(ctx context.Context, filename string, index int, mutate func(*domain.Card) error) (*domain.Card, error)
}

// Session walks one card collection with a cursor. All exported methods
// are safe for concurrent use; transitions that suspend (remote calls,
// disk writes) are gated by a submitting flag so a second transition
// arriving mid-flight fails with ErrBusy instead of interleaving.
type Session struct {
	mu       sync.Mutex
	filename string
	store    Store
	gateway  anki.Gateway
	checker  quality.Checker
	logger   *slog.Logger

	cards  domain.Collection
	cursor int
	state  State
	mode   Mode

	added      int
	skipped    int
	submitting bool
	lastErr    string

	connected bool
	connErr   string

	deckOverride string
}

// Option customizes session construction.
type Option func(*options)

type options struct {
	reset        bool
	deckOverride string
}

// WithReset forces the cursor to the first record instead of the first
// pending one. Persisted statuses are untouched; already-decided
// records still refuse re-decision when reached.
func WithReset() Option {
	return func(o *options) {
		o.reset = true
	}
}

// WithDeckOverride routes every approved card to deck instead of the
// deck recorded on the card. The override is persisted onto each card
// as it is approved.
func WithDeckOverride(deck string) Option {
	return func(o *options) {
		o.deckOverride = deck
	}
}

// NewSession loads the collection backing filename and builds a session
// positioned at the first pending record. Counters are seeded from the
// persisted statuses, so an interrupted review resumes with correct
// totals. The remote is probed once so the snapshot carries an initial
// connectivity reading; an unreachable remote is not a constructor
// error.
func NewSession(
	ctx context.Context,
	filename string,
	st Store,
	gateway anki.Gateway,
	checker quality.Checker,
	logger *slog.Logger,
	opts ...Option,
) (*Session, error) {
	if st == nil {
		return nil, errors.New("store cannot be nil")
	}
	if gateway == nil {
		return nil, errors.New("gateway cannot be nil")
	}
	if checker == nil {
		return nil, errors.New("quality checker cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cards, err := st.Load(ctx, filename)
	if err != nil {
		return nil, err
	}

	counts := cards.Counts()
	s := &Session{
		filename:     filename,
		store:        st,
		gateway:      gateway,
		checker:      checker,
		logger:       logger.With(slog.String("component", "review_session"), slog.String("filename", filename)),
		cards:        cards,
		added:        counts.Added,
		skipped:      counts.Skipped,
		state:        StateActive,
		mode:         ModeBrowsing,
		deckOverride: o.deckOverride,
	}

	if o.reset {
		s.cursor = 0
	} else {
		s.cursor = cards.FirstPending()
	}
	if s.cursor < 0 || s.cursor >= len(cards) {
		s.cursor = len(cards)
		s.state = StateComplete
	}

	if err := gateway.Ping(ctx); err != nil {
		s.connected = false
		s.connErr = err.Error()
	} else {
		s.connected = true
	}

	s.logger.Info("session opened",
		slog.Int("total", counts.Total),
		slog.Int("pending", counts.Pending),
		slog.Int("cursor", s.cursor),
		slog.Bool("connected", s.connected))
	return s, nil
}

// checkTransition validates that a cursor transition may start. Callers
// must hold s.mu.
func (s *Session) checkTransition(op string) error {
	switch {
	case s.state == StateClosed:
		return newSessionError(op, "no transitions after quit", ErrSessionClosed)
	case s.submitting:
		return newSessionError(op, "wait for the in-flight transition", ErrBusy)
	case s.state == StateComplete:
		return newSessionError(op, "all records are decided", ErrSessionComplete)
	case s.mode == ModeEditing:
		return newSessionError(op, "finish or cancel the edit first", ErrEditing)
	}
	return nil
}

// advanceLocked moves the cursor one record forward, completing the
// session past the last record. Callers must hold s.mu.
func (s *Session) advanceLocked() {
	s.cursor++
	if s.cursor >= len(s.cards) {
		s.cursor = len(s.cards)
		s.state = StateComplete
		s.logger.Info("session complete",
			slog.Int("added", s.added),
			slog.Int("skipped", s.skipped))
	}
}

// failLocked records err as the session's last error and returns it.
// Callers must hold s.mu.
func (s *Session) failLocked(err *SessionError) error {
	s.lastErr = err.Error()
	return err
}

// Approve submits the record under the cursor to the remote and, on
// success, persists status=added with the returned note ID before
// advancing. An already-added record advances without a second remote
// call; a skipped record is an error. On ConnectionError the record
// stays pending and the cursor does not move, so the caller may retry.
func (s *Session) Approve(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTransition("approve"); err != nil {
		return s.snapshotLocked(), err
	}

	card := s.cards[s.cursor]
	switch card.Status {
	case domain.StatusAdded:
		// Already submitted in an earlier run. Advance without
		// touching the remote or the counters.
		s.lastErr = ""
		s.advanceLocked()
		return s.snapshotLocked(), nil
	case domain.StatusSkipped:
		err := newSessionError("approve", "record was skipped", domain.ErrCardDecided)
		return s.snapshotLocked(), s.failLocked(err)
	}

	submission := card.Clone()
	if s.deckOverride != "" {
		submission.Deck = s.deckOverride
	}

	// The remote call runs outside the lock so snapshots and
	// connectivity probes stay responsive; the submitting flag keeps
	// other transitions out.
	s.submitting = true
	s.mu.Unlock()
	noteID, gerr := s.gateway.AddNote(ctx, submission)
	s.mu.Lock()
	s.submitting = false

	if gerr != nil {
		if errors.Is(gerr, anki.ErrConnection) {
			s.connected = false
			s.connErr = gerr.Error()
		}
		err := newSessionError("approve", "remote submission failed", gerr)
		s.logger.Warn("approve failed",
			slog.Int("index", s.cursor),
			slog.Bool("retryable", anki.IsRetryable(gerr)),
			slog.String("error", gerr.Error()))
		return s.snapshotLocked(), s.failLocked(err)
	}
	s.connected = true
	s.connErr = ""

	updated, uerr := s.store.Update(ctx, s.filename, s.cursor, func(c *domain.Card) error {
		if s.deckOverride != "" {
			c.Deck = s.deckOverride
		}
		return c.MarkAdded(noteID, time.Now())
	})
	if uerr != nil {
		// The note exists remotely but the file still says pending.
		// Surface loudly: retrying this approve would duplicate it.
		s.logger.Error("note added remotely but local persist failed",
			slog.Int("index", s.cursor),
			slog.Int64("note_id", noteID),
			slog.String("error", uerr.Error()))
		err := newSessionError("approve",
			fmt.Sprintf("note %d added remotely but persisting failed", noteID), uerr)
		return s.snapshotLocked(), s.failLocked(err)
	}

	s.cards[s.cursor] = updated
	s.added++
	s.lastErr = ""
	s.logger.Info("card approved",
		slog.Int("index", s.cursor),
		slog.Int64("note_id", noteID))
	s.advanceLocked()
	return s.snapshotLocked(), nil
}

// Skip marks the record under the cursor skipped and advances. Skipping
// an already-skipped record advances without touching the file or the
// counter; skipping an added record is an error.
func (s *Session) Skip(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTransition("skip"); err != nil {
		return s.snapshotLocked(), err
	}

	card := s.cards[s.cursor]
	switch card.Status {
	case domain.StatusAdded:
		err := newSessionError("skip", "record was already added", domain.ErrCardDecided)
		return s.snapshotLocked(), s.failLocked(err)
	case domain.StatusSkipped:
		s.lastErr = ""
		s.advanceLocked()
		return s.snapshotLocked(), nil
	}

	updated, uerr := s.store.Update(ctx, s.filename, s.cursor, func(c *domain.Card) error {
		return c.MarkSkipped()
	})
	if uerr != nil {
		err := newSessionError("skip", "persisting the skip failed", uerr)
		return s.snapshotLocked(), s.failLocked(err)
	}

	s.cards[s.cursor] = updated
	s.skipped++
	s.lastErr = ""
	s.logger.Info("card skipped", slog.Int("index", s.cursor))
	s.advanceLocked()
	return s.snapshotLocked(), nil
}

// StartEdit enters editing mode for the record under the cursor. Only
// pending records may be edited.
func (s *Session) StartEdit() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTransition("start_edit"); err != nil {
		return s.snapshotLocked(), err
	}

	if s.cards[s.cursor].Status.Terminal() {
		err := newSessionError("start_edit", "record is already decided", domain.ErrCardDecided)
		return s.snapshotLocked(), s.failLocked(err)
	}

	s.mode = ModeEditing
	return s.snapshotLocked(), nil
}

// CancelEdit leaves editing mode without mutating the record.
func (s *Session) CancelEdit() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return s.snapshotLocked(), newSessionError("cancel_edit", "no transitions after quit", ErrSessionClosed)
	}
	if s.mode != ModeEditing {
		return s.snapshotLocked(), newSessionError("cancel_edit", "nothing to cancel", ErrNotEditing)
	}

	s.mode = ModeBrowsing
	return s.snapshotLocked(), nil
}

// SaveEdit persists the edit to the record under the cursor and returns
// to browsing. The cursor does not advance: the caller re-reviews the
// edited record with freshly computed warnings. A rejected edit leaves
// the session in editing mode so the caller can correct it.
func (s *Session) SaveEdit(ctx context.Context, edit domain.CardEdit) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return s.snapshotLocked(), newSessionError("save_edit", "no transitions after quit", ErrSessionClosed)
	}
	if s.submitting {
		return s.snapshotLocked(), newSessionError("save_edit", "wait for the in-flight transition", ErrBusy)
	}
	if s.mode != ModeEditing {
		return s.snapshotLocked(), newSessionError("save_edit", "start an edit first", ErrNotEditing)
	}

	updated, uerr := s.store.Update(ctx, s.filename, s.cursor, func(c *domain.Card) error {
		return c.ApplyEdit(edit)
	})
	if uerr != nil {
		err := newSessionError("save_edit", "edit rejected", uerr)
		return s.snapshotLocked(), s.failLocked(err)
	}

	s.cards[s.cursor] = updated
	s.mode = ModeBrowsing
	s.lastErr = ""
	s.logger.Info("card edited", slog.Int("index", s.cursor))
	return s.snapshotLocked(), nil
}

// Quit closes the session. The record under the cursor is not mutated.
// Quitting an already-closed session is a no-op; quitting while a
// submission is in flight fails with ErrBusy so the remote write can
// finish and be acknowledged.
func (s *Session) Quit() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return s.snapshotLocked(), nil
	}
	if s.submitting {
		return s.snapshotLocked(), newSessionError("quit", "wait for the in-flight transition", ErrBusy)
	}

	s.state = StateClosed
	s.mode = ModeBrowsing
	s.logger.Info("session closed",
		slog.Int("added", s.added),
		slog.Int("skipped", s.skipped))
	return s.snapshotLocked(), nil
}

// RefreshConnectivity re-probes the remote and updates the snapshot's
// connectivity fields. It never mutates cards, counters or the cursor,
// and is allowed at any time before quit, including mid-submission.
func (s *Session) RefreshConnectivity(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if s.state == StateClosed {
		defer s.mu.Unlock()
		return s.snapshotLocked(), newSessionError("refresh_connectivity", "no transitions after quit", ErrSessionClosed)
	}
	gateway := s.gateway
	s.mu.Unlock()

	err := gateway.Ping(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.connected = false
		s.connErr = err.Error()
	} else {
		s.connected = true
		s.connErr = ""
	}
	return s.snapshotLocked(), nil
}
