package ankiconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/curator-api/internal/anki"
	"github.com/phrazzld/curator-api/internal/domain"
)

const (
	// DefaultURL is where the AnkiConnect add-on listens by default.
	DefaultURL = "http://localhost:8765"

	// apiVersion is the AnkiConnect protocol version this client speaks.
	apiVersion = 6

	defaultTimeout = 10 * time.Second
)

// Client talks to a running AnkiConnect instance. It satisfies
// anki.Gateway and performs no retries of its own.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests, custom
// timeouts).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a client for the AnkiConnect endpoint at url. An empty
// url means DefaultURL.
func New(url string, logger *slog.Logger, opts ...Option) *Client {
	if url == "" {
		url = DefaultURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.With(slog.String("component", "ankiconnect")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type rpcRequest struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// invoke performs one AnkiConnect action and decodes the result into
// out (which may be nil when the result is irrelevant). Transport
// failures map to anki.ErrConnection; an error field in the envelope
// maps to anki.ErrRemoteRejected.
func (c *Client) invoke(ctx context.Context, action string, params, out any) error {
	body, err := json.Marshal(rpcRequest{Action: action, Version: apiVersion, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s unreachable at %s: %v", anki.ErrConnection, action, c.url, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned HTTP %d", anki.ErrConnection, action, resp.StatusCode)
	}

	var envelope rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: malformed %s response: %v", anki.ErrConnection, action, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("%w: %s", anki.ErrRemoteRejected, *envelope.Error)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("%w: unexpected %s result: %v", anki.ErrConnection, action, err)
		}
	}
	return nil
}

// Ping implements anki.Gateway using the version action as a cheap
// reachability probe.
func (c *Client) Ping(ctx context.Context) error {
	var version int
	if err := c.invoke(ctx, "version", nil, &version); err != nil {
		return err
	}
	c.logger.Debug("ankiconnect reachable", slog.Int("api_version", version))
	return nil
}

// AddNote implements anki.Gateway.
func (c *Client) AddNote(ctx context.Context, card *domain.Card) (int64, error) {
	params := map[string]any{"note": noteFromCard(card)}

	var noteID int64
	if err := c.invoke(ctx, "addNote", params, &noteID); err != nil {
		return 0, err
	}
	c.logger.Debug("note added",
		slog.Int64("note_id", noteID),
		slog.String("deck", card.Deck))
	return noteID, nil
}

// DeckNames implements anki.Gateway.
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var decks []string
	if err := c.invoke(ctx, "deckNames", nil, &decks); err != nil {
		return nil, err
	}
	return decks, nil
}

// ModelNames implements anki.Gateway.
func (c *Client) ModelNames(ctx context.Context) ([]string, error) {
	var models []string
	if err := c.invoke(ctx, "modelNames", nil, &models); err != nil {
		return nil, err
	}
	return models, nil
}

var _ anki.Gateway = (*Client)(nil)
