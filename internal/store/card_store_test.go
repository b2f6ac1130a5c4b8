package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/curator-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *CardStore {
	t.Helper()
	s, err := NewCardStore(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

func pendingCollection(fronts ...string) domain.Collection {
	col := make(domain.Collection, 0, len(fronts))
	for _, front := range fronts {
		col = append(col, &domain.Card{
			Front:  front,
			Back:   "An answer long enough to stand alone.",
			Tags:   []string{},
			Deck:   domain.DefaultDeck,
			Model:  domain.DefaultModel,
			Status: domain.StatusPending,
		})
	}
	return col
}

func TestLoadNotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.Load(context.Background(), "missing.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadRejectsBadFilename(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for _, name := range []string{"", "../escape.json", "nested/file.json", "cards.txt", "a b.json"} {
		_, err := s.Load(context.Background(), name)
		assert.ErrorIs(t, err, ErrInvalidFilename, "filename %q", name)
	}
}

func TestLoadCorruptJSON(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "bad.json"), []byte("{not json"), 0o644))

	_, err := s.Load(context.Background(), "bad.json")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestLoadCorruptMissingRequiredField(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	data := []byte(`[{"front": "Q?", "back": "A"}, {"front": "", "back": "B"}]`)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "cards.json"), data, 0o644))

	_, err := s.Load(context.Background(), "cards.json")
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, err.Error(), "card 1")
}

// status==added with no anki_id violates the reconciliation invariant
// and must fail the whole load, not be silently repaired.
func TestLoadCorruptStatusMismatch(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	data := []byte(`[{"front": "Q?", "back": "A", "status": "added"}]`)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "cards.json"), data, 0o644))

	_, err := s.Load(context.Background(), "cards.json")
	require.ErrorIs(t, err, ErrCorrupt)
	assert.ErrorIs(t, err, domain.ErrCardAddedIncomplete)
}

func TestLoadLegacyFileDefaultsToPending(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	data := []byte(`[
  {"front": "Q1?", "back": "A1", "tags": ["x"], "deck": "Study"},
  {"front": "Q2?", "back": "A2"}
]`)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "legacy.json"), data, 0o644))

	col, err := s.Load(context.Background(), "legacy.json")
	require.NoError(t, err)
	require.Len(t, col, 2)
	for _, card := range col {
		assert.Equal(t, domain.StatusPending, card.Status)
		assert.Nil(t, card.AnkiID)
		assert.Nil(t, card.AddedAt)
	}
	assert.Equal(t, "Study", col[0].Deck)
	assert.Equal(t, domain.DefaultModel, col[0].Model)
}

func TestLoadSingleObjectFile(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	data := []byte(`{"front": "Q?", "back": "A"}`)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "single.json"), data, 0o644))

	col, err := s.Load(context.Background(), "single.json")
	require.NoError(t, err)
	require.Len(t, col, 1)
	assert.Equal(t, "Q?", col[0].Front)
}

// load -> save -> load yields field-for-field equal records.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	col := pendingCollection("Q1?", "Q2?", "Q3?")
	col[0].Context = "extra detail"
	col[0].Source = "https://example.com"
	require.NoError(t, col[1].MarkSkipped())
	require.NoError(t, col[2].MarkAdded(42, time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)))

	require.NoError(t, s.Save(ctx, "trip.json", col))
	first, err := s.Load(ctx, "trip.json")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "trip.json", first))
	second, err := s.Load(ctx, "trip.json")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, col.Counts(), second.Counts())
	require.NotNil(t, second[2].AnkiID)
	assert.Equal(t, int64(42), *second[2].AnkiID)
}

func TestCreateRefusesOverwrite(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	col := pendingCollection("Q?")

	require.NoError(t, s.Create(ctx, "new.json", col))
	err := s.Create(ctx, "new.json", col)
	assert.ErrorIs(t, err, ErrExists)
}

func TestUpdateStatusTransition(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "cards.json", pendingCollection("Q1?", "Q2?")))

	at := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	card, err := s.Update(ctx, "cards.json", 0, func(c *domain.Card) error {
		return c.MarkAdded(42, at)
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAdded, card.Status)
	require.NotNil(t, card.AnkiID)
	assert.Equal(t, int64(42), *card.AnkiID)

	// The transition is on disk, not just in the returned record.
	col, err := s.Load(ctx, "cards.json")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAdded, col[0].Status)
	assert.Equal(t, domain.StatusPending, col[1].Status)
}

func TestUpdateIndexOutOfRange(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "cards.json", pendingCollection("Q?")))

	for _, index := range []int{-1, 1, 99} {
		_, err := s.Update(ctx, "cards.json", index, func(c *domain.Card) error { return nil })
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", index)
	}
}

func TestUpdateValidationFailureLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "cards.json", pendingCollection("Q?")))

	_, err := s.Update(ctx, "cards.json", 0, func(c *domain.Card) error {
		c.Front = ""
		return nil
	})
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.ErrorIs(t, err, domain.ErrCardFrontEmpty)

	col, err := s.Load(ctx, "cards.json")
	require.NoError(t, err)
	assert.Equal(t, "Q?", col[0].Front)
}

func TestUpdateMutationErrorPropagates(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	col := pendingCollection("Q?")
	require.NoError(t, col[0].MarkSkipped())
	require.NoError(t, s.Save(ctx, "cards.json", col))

	_, err := s.Update(ctx, "cards.json", 0, func(c *domain.Card) error {
		return c.MarkAdded(1, time.Now())
	})
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.ErrorIs(t, err, domain.ErrCardDecided)
}

func TestPersistLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "cards.json", pendingCollection("Q1?", "Q2?")))

	_, err := s.Update(ctx, "cards.json", 0, func(c *domain.Card) error {
		return c.MarkSkipped()
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cards.json", entries[0].Name())
}

func TestListCollections(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	col := pendingCollection("Q1?", "Q2?", "Q3?")
	require.NoError(t, col[0].MarkAdded(7, time.Now()))
	require.NoError(t, col[1].MarkSkipped())
	require.NoError(t, s.Save(ctx, "topic.json", col))

	// A corrupt neighbor must not hide the good file.
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "broken.json"), []byte("oops"), 0o644))

	summaries, err := s.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byName := map[string]CollectionSummary{}
	for _, summary := range summaries {
		byName[summary.Filename] = summary
	}

	topic := byName["topic.json"]
	assert.Equal(t, 3, topic.Total)
	assert.Equal(t, 1, topic.Added)
	assert.Equal(t, 1, topic.Skipped)
	assert.Equal(t, 1, topic.Pending)
	assert.Empty(t, topic.Err)

	broken := byName["broken.json"]
	assert.NotEmpty(t, broken.Err)
	assert.Zero(t, broken.Total)
}
