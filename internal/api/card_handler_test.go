package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/curator-api/internal/domain"
	"github.com/phrazzld/curator-api/internal/quality"
	"github.com/phrazzld/curator-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T, filename string, cards domain.Collection) *store.CardStore {
	t.Helper()
	cardStore, err := store.NewCardStore(t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, cardStore.Save(context.Background(), filename, cards))
	return cardStore
}

func testCards() domain.Collection {
	return domain.Collection{
		{
			Front:  "What is the capital of France?",
			Back:   "Paris, since the late 10th century.",
			Tags:   []string{"geography"},
			Deck:   domain.DefaultDeck,
			Model:  domain.DefaultModel,
			Status: domain.StatusPending,
		},
		{
			Front:  "What is the capital of Japan?",
			Back:   "Tokyo, officially since 1868.",
			Tags:   []string{},
			Deck:   domain.DefaultDeck,
			Model:  domain.DefaultModel,
			Status: domain.StatusPending,
		},
	}
}

func cardRouter(cardStore *store.CardStore) *chi.Mux {
	handler := NewCardHandler(cardStore, quality.New(), slog.Default())
	r := chi.NewRouter()
	r.Get("/api/cards/{filename}", handler.GetCollection)
	r.Put("/api/cards/{filename}/{index}", handler.UpdateCard)
	return r
}

func TestGetCollection(t *testing.T) {
	t.Parallel()

	cardStore := seedStore(t, "topic.json", testCards())
	router := cardRouter(cardStore)

	req := httptest.NewRequest(http.MethodGet, "/api/cards/topic.json", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp CollectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "topic.json", resp.Filename)
	assert.Equal(t, 2, resp.Counts.Total)
	assert.Equal(t, 2, resp.Counts.Pending)
	require.Len(t, resp.Cards, 2)
	require.Len(t, resp.Warnings, 2, "one warning list per card, even when empty")
}

func TestGetCollectionNotFound(t *testing.T) {
	t.Parallel()

	cardStore := seedStore(t, "topic.json", testCards())
	router := cardRouter(cardStore)

	req := httptest.NewRequest(http.MethodGet, "/api/cards/missing.json", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Card file not found", resp["error"])
}

func TestUpdateCard(t *testing.T) {
	t.Parallel()

	cardStore := seedStore(t, "topic.json", testCards())
	router := cardRouter(cardStore)

	body, err := json.Marshal(map[string]any{"front": "What city is the capital of France?"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/cards/topic.json/0", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp CardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "What city is the capital of France?", resp.Card.Front)
	assert.Equal(t, domain.StatusPending, resp.Card.Status)
	assert.NotNil(t, resp.Warnings)

	loaded, err := cardStore.Load(context.Background(), "topic.json")
	require.NoError(t, err)
	assert.Equal(t, "What city is the capital of France?", loaded[0].Front)
}

func TestUpdateCardBadIndex(t *testing.T) {
	t.Parallel()

	cardStore := seedStore(t, "topic.json", testCards())
	router := cardRouter(cardStore)

	req := httptest.NewRequest(http.MethodPut, "/api/cards/topic.json/nope",
		bytes.NewReader([]byte(`{"front":"x"}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/cards/topic.json/99",
		bytes.NewReader([]byte(`{"front":"x"}`)))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateCardDecidedConflict(t *testing.T) {
	t.Parallel()

	cards := testCards()
	require.NoError(t, cards[0].MarkSkipped())
	cardStore := seedStore(t, "topic.json", cards)
	router := cardRouter(cardStore)

	req := httptest.NewRequest(http.MethodPut, "/api/cards/topic.json/0",
		bytes.NewReader([]byte(`{"front":"rewritten"}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListFiles(t *testing.T) {
	t.Parallel()

	cardStore := seedStore(t, "topic.json", testCards())
	handler := NewFileHandler(cardStore, slog.Default())
	r := chi.NewRouter()
	r.Get("/api/files", handler.ListFiles)

	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp FileListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "topic.json", resp.Files[0].Filename)
	assert.Equal(t, 2, resp.Files[0].Total)
}
