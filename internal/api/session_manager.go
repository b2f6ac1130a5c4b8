package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/curator-api/internal/anki"
	"github.com/phrazzld/curator-api/internal/quality"
	"github.com/phrazzld/curator-api/internal/service/review"
	"github.com/phrazzld/curator-api/internal/store"
)

// ErrNoSession indicates no open review session exists for a filename.
var ErrNoSession = errors.New("no open review session for file")

// SessionManager tracks at most one open review session per filename,
// matching the single-reviewer-per-file model. Opening a file that
// already has a session quits and replaces it.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*review.Session

	store   *store.CardStore
	gateway anki.Gateway
	checker quality.Checker
	logger  *slog.Logger
}

// NewSessionManager creates a SessionManager.
func NewSessionManager(
	cardStore *store.CardStore,
	gateway anki.Gateway,
	checker quality.Checker,
	logger *slog.Logger,
) *SessionManager {
	if cardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("card store cannot be nil for SessionManager")
	}
	if gateway == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("gateway cannot be nil for SessionManager")
	}
	if checker == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("quality checker cannot be nil for SessionManager")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionManager")
	}
	return &SessionManager{
		sessions: make(map[string]*review.Session),
		store:    cardStore,
		gateway:  gateway,
		checker:  checker,
		logger:   logger.With(slog.String("component", "session_manager")),
	}
}

// Open starts a session on filename, quitting any session already open
// on the same file.
func (m *SessionManager) Open(ctx context.Context, filename string, opts ...review.Option) (*review.Session, error) {
	session, err := review.NewSession(ctx, filename, m.store, m.gateway, m.checker, m.logger, opts...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if prior, ok := m.sessions[filename]; ok {
		if _, err := prior.Quit(); err != nil && !errors.Is(err, review.ErrSessionClosed) {
			m.logger.Warn("failed to quit prior session",
				slog.String("filename", filename),
				slog.String("error", err.Error()))
		}
	}
	m.sessions[filename] = session
	return session, nil
}

// Get returns the open session for filename, or ErrNoSession.
func (m *SessionManager) Get(filename string) (*review.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[filename]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSession, filename)
	}
	return session, nil
}

// Close quits and forgets the session for filename. Closing a file
// with no session is a no-op.
func (m *SessionManager) Close(filename string) (review.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[filename]
	if !ok {
		return review.Snapshot{}, fmt.Errorf("%w: %s", ErrNoSession, filename)
	}

	// A quit rejected mid-submission keeps the session registered so
	// the in-flight approve can be acknowledged.
	snap, err := session.Quit()
	if err != nil {
		return snap, err
	}
	delete(m.sessions, filename)
	return snap, nil
}

// CloseAll quits every open session. Used during server shutdown.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for filename, session := range m.sessions {
		if _, err := session.Quit(); err != nil && !errors.Is(err, review.ErrSessionClosed) {
			m.logger.Warn("failed to quit session during shutdown",
				slog.String("filename", filename),
				slog.String("error", err.Error()))
		}
		delete(m.sessions, filename)
	}
}
