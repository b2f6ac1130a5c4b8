package ankiconnect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/curator-api/internal/anki"
	"github.com/phrazzld/curator-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCard() *domain.Card {
	return &domain.Card{
		Front:   "What is the capital of France?",
		Back:    "Paris",
		Context: "Also the largest city.",
		Tags:    []string{"geography"},
		Deck:    "Geography",
		Model:   domain.DefaultModel,
		Status:  domain.StatusPending,
	}
}

// fakeAnki answers the AnkiConnect envelope, capturing the last
// request for assertions.
func fakeAnki(t *testing.T, respond func(action string, params json.RawMessage) (any, *string)) (*httptest.Server, *[]rpcRequest) {
	t.Helper()
	var seen []rpcRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Action  string          `json:"action"`
			Version int             `json:"version"`
			Params  json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seen = append(seen, rpcRequest{Action: req.Action, Version: req.Version})

		result, errMsg := respond(req.Action, req.Params)
		resp := map[string]any{"result": result, "error": errMsg}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestPing(t *testing.T) {
	t.Parallel()

	srv, seen := fakeAnki(t, func(action string, _ json.RawMessage) (any, *string) {
		require.Equal(t, "version", action)
		return 6, nil
	})

	client := New(srv.URL, nil)
	require.NoError(t, client.Ping(context.Background()))
	require.Len(t, *seen, 1)
	assert.Equal(t, apiVersion, (*seen)[0].Version)
}

func TestPingConnectionFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	client := New(srv.URL, nil)
	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, anki.ErrConnection)
	assert.True(t, anki.IsRetryable(err))
}

func TestAddNote(t *testing.T) {
	t.Parallel()

	var gotParams json.RawMessage
	srv, _ := fakeAnki(t, func(action string, params json.RawMessage) (any, *string) {
		require.Equal(t, "addNote", action)
		gotParams = params
		return int64(1496198395707), nil
	})

	client := New(srv.URL, nil)
	noteID, err := client.AddNote(context.Background(), testCard())
	require.NoError(t, err)
	assert.Equal(t, int64(1496198395707), noteID)

	var params struct {
		Note notePayload `json:"note"`
	}
	require.NoError(t, json.Unmarshal(gotParams, &params))
	assert.Equal(t, "Geography", params.Note.DeckName)
	assert.Equal(t, domain.DefaultModel, params.Note.ModelName)
	assert.Equal(t, []string{"geography"}, params.Note.Tags)
	assert.False(t, params.Note.Options.AllowDuplicate)
	assert.Equal(t, "deck", params.Note.Options.DuplicateScope)
	assert.Equal(t, "What is the capital of France?", params.Note.Fields["Front"])
	// Context is appended to the back behind a separator, with
	// newlines converted for HTML rendering.
	assert.Equal(t, "Paris<br><br>---<br><br>Also the largest city.", params.Note.Fields["Back"])
}

func TestAddNoteDuplicateRejected(t *testing.T) {
	t.Parallel()

	srv, _ := fakeAnki(t, func(action string, _ json.RawMessage) (any, *string) {
		msg := "cannot create note because it is a duplicate"
		return nil, &msg
	})

	client := New(srv.URL, nil)
	_, err := client.AddNote(context.Background(), testCard())
	require.Error(t, err)
	assert.ErrorIs(t, err, anki.ErrRemoteRejected)
	assert.False(t, anki.IsRetryable(err))
	assert.Contains(t, err.Error(), "duplicate")
}

func TestAddNoteServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, nil)
	_, err := client.AddNote(context.Background(), testCard())
	assert.ErrorIs(t, err, anki.ErrConnection)
}

func TestDeckAndModelNames(t *testing.T) {
	t.Parallel()

	srv, _ := fakeAnki(t, func(action string, _ json.RawMessage) (any, *string) {
		switch action {
		case "deckNames":
			return []string{"Default", "Geography"}, nil
		case "modelNames":
			return []string{"Basic", "Cloze"}, nil
		}
		t.Fatalf("unexpected action %q", action)
		return nil, nil
	})

	client := New(srv.URL, nil)

	decks, err := client.DeckNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Default", "Geography"}, decks)

	models, err := client.ModelNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Basic", "Cloze"}, models)
}

func TestHTMLNewlines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a<br>b", htmlNewlines("a\nb"))
	assert.Equal(t, "a<br>b", htmlNewlines("a\r\nb"))
	assert.Equal(t, "a<br>b", htmlNewlines("a\rb"))
	assert.Equal(t, "plain", htmlNewlines("plain"))
}
