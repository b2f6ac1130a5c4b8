package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"github.com/phrazzld/curator-api/internal/domain"
)

// Filenames are opaque keys, but they must be plain names inside the
// cards directory. Same rule the web layer applies before handing a
// filename down here.
var filenameRe = regexp.MustCompile(`^[\w\-]+\.json$`)

// ValidFilename reports whether name is an acceptable card-file key.
func ValidFilename(name string) bool {
	return filenameRe.MatchString(name)
}

// CardStore owns the cards directory and bridges in-memory collections
// to their backing JSON files. The mutex serializes the load-mutate-
// persist cycle so each update is atomic with respect to itself.
type CardStore struct {
	dir    string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewCardStore creates a store rooted at dir, creating the directory
// if needed.
func NewCardStore(dir string, logger *slog.Logger) (*CardStore, error) {
	if dir == "" {
		return nil, errors.New("cards directory cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cards directory %s: %w", dir, err)
	}
	return &CardStore{
		dir:    dir,
		logger: logger.With(slog.String("component", "card_store")),
	}, nil
}

// Dir returns the directory the store is rooted at.
func (s *CardStore) Dir() string {
	return s.dir
}

// Load reads and validates the collection stored under filename.
// Returns ErrNotFound if no such file exists and ErrCorrupt if the
// file cannot be parsed or violates a model invariant; a corrupt file
// never yields a partial collection.
func (s *CardStore) Load(ctx context.Context, filename string) (domain.Collection, error) {
	if !ValidFilename(filename) {
		return nil, NewStoreError(filename, "load", "bad filename", ErrInvalidFilename)
	}
	return s.load(filename)
}

func (s *CardStore) load(filename string) (domain.Collection, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewStoreError(filename, "load", "no such card file", ErrNotFound)
		}
		return nil, NewStoreError(filename, "load", "read failed", err)
	}

	col, err := decodeCollection(data)
	if err != nil {
		return nil, NewStoreError(filename, "load", "parse failed",
			fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	if err := col.Validate(); err != nil {
		return nil, NewStoreError(filename, "load", "invariant violated",
			fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	return col, nil
}

// decodeCollection accepts either a JSON array of cards or, as the
// generation tooling occasionally produced, a single card object.
func decodeCollection(data []byte) (domain.Collection, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var card domain.Card
		if err := json.Unmarshal(trimmed, &card); err != nil {
			return nil, err
		}
		return domain.Collection{&card}, nil
	}
	var col domain.Collection
	if err := json.Unmarshal(data, &col); err != nil {
		return nil, err
	}
	return col, nil
}

// Save validates the collection and fully overwrites the file under
// filename. Last write wins; there are no partial patches on disk.
func (s *CardStore) Save(ctx context.Context, filename string, col domain.Collection) error {
	if !ValidFilename(filename) {
		return NewStoreError(filename, "save", "bad filename", ErrInvalidFilename)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(filename, col)
}

// Create writes a brand-new collection and refuses to overwrite an
// existing file. Used by the generation pipeline.
func (s *CardStore) Create(ctx context.Context, filename string, col domain.Collection) error {
	if !ValidFilename(filename) {
		return NewStoreError(filename, "create", "bad filename", ErrInvalidFilename)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(filepath.Join(s.dir, filename)); err == nil {
		return NewStoreError(filename, "create", "refusing to overwrite", ErrExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return NewStoreError(filename, "create", "stat failed", err)
	}
	return s.persist(filename, col)
}

// Update is the store's critical section: load the current collection,
// apply one mutation to the record at index, re-validate and persist
// the whole collection back. On any failure nothing is written and the
// prior on-disk state is untouched. Returns the updated record.
func (s *CardStore) Update(
	ctx context.Context,
	filename string,
	index int,
	mutate func(*domain.Card) error,
) (*domain.Card, error) {
	if !ValidFilename(filename) {
		return nil, NewStoreError(filename, "update", "bad filename", ErrInvalidFilename)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.load(filename)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(col) {
		return nil, NewStoreError(filename, "update",
			fmt.Sprintf("index %d outside collection of %d", index, len(col)),
			ErrIndexOutOfRange)
	}

	card := col[index]
	if err := mutate(card); err != nil {
		return nil, NewStoreError(filename, "update", "mutation rejected",
			fmt.Errorf("%w: %w", ErrValidationFailed, err))
	}
	if err := card.Validate(); err != nil {
		return nil, NewStoreError(filename, "update", "mutated record invalid",
			fmt.Errorf("%w: %w", ErrValidationFailed, err))
	}

	if err := s.persist(filename, col); err != nil {
		return nil, err
	}

	s.logger.Debug("card updated",
		slog.String("filename", filename),
		slog.Int("index", index),
		slog.String("status", string(card.Status)))
	return card.Clone(), nil
}

// persist writes the collection to a temporary file in the cards
// directory and renames it into place. Rename is atomic on the same
// filesystem, so readers see either the old file or the new one.
func (s *CardStore) persist(filename string, col domain.Collection) error {
	if err := col.Validate(); err != nil {
		return NewStoreError(filename, "persist", "collection invalid",
			fmt.Errorf("%w: %w", ErrValidationFailed, err))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if col == nil {
		col = domain.Collection{}
	}
	if err := enc.Encode(col); err != nil {
		return NewStoreError(filename, "persist", "encode failed", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+filename+".tmp-*")
	if err != nil {
		return NewStoreError(filename, "persist", "temp file creation failed", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// Best effort: the temp file only survives an earlier failure.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return NewStoreError(filename, "persist", "write failed", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return NewStoreError(filename, "persist", "sync failed", err)
	}
	if err := tmp.Close(); err != nil {
		return NewStoreError(filename, "persist", "close failed", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return NewStoreError(filename, "persist", "chmod failed", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, filename)); err != nil {
		return NewStoreError(filename, "persist", "rename failed", err)
	}
	return nil
}

// CollectionSummary aggregates one card file for listings. A file that
// fails to load is reported through Err instead of hiding the rest of
// the directory.
type CollectionSummary struct {
	Filename string `json:"filename"`
	Total    int    `json:"total_cards"`
	Added    int    `json:"added_cards"`
	Skipped  int    `json:"skipped_cards"`
	Pending  int    `json:"pending_cards"`
	Err      string `json:"error,omitempty"`
}

// ListCollections scans the cards directory and returns a summary per
// card file, newest first.
func (s *CardStore) ListCollections(ctx context.Context) ([]CollectionSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cards directory %s: %w", s.dir, err)
	}

	type fileInfo struct {
		name  string
		mtime int64
	}
	var files []fileInfo
	for _, entry := range entries {
		if entry.IsDir() || !ValidFilename(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{name: entry.Name(), mtime: info.ModTime().UnixNano()})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].mtime != files[j].mtime {
			return files[i].mtime > files[j].mtime
		}
		return files[i].name < files[j].name
	})

	summaries := make([]CollectionSummary, 0, len(files))
	for _, f := range files {
		summary := CollectionSummary{Filename: f.name}
		col, err := s.load(f.name)
		if err != nil {
			s.logger.Warn("skipping unreadable card file",
				slog.String("filename", f.name),
				slog.String("error", err.Error()))
			summary.Err = err.Error()
		} else {
			counts := col.Counts()
			summary.Total = counts.Total
			summary.Added = counts.Added
			summary.Skipped = counts.Skipped
			summary.Pending = counts.Pending
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
