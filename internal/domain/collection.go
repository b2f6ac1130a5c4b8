package domain

import "fmt"

// Collection is the ordered, file-backed sequence of card records for
// one study topic. Insertion order is the review order.
type Collection []*Card

// Validate checks every record in the collection. The returned error
// identifies the offending index so that a corrupt file can be
// reported precisely. Loading is fail-closed: one bad record fails the
// whole collection.
func (col Collection) Validate() error {
	for i, card := range col {
		if card == nil {
			return fmt.Errorf("card %d: missing record", i)
		}
		if err := card.Validate(); err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}
	}
	return nil
}

// FirstPending returns the index of the first record with pending
// status, or -1 if every record has been decided. This is the resume
// point for a review session.
func (col Collection) FirstPending() int {
	for i, card := range col {
		if card.Status == StatusPending {
			return i
		}
	}
	return -1
}

// StatusCounts aggregates record statuses for summaries and for
// seeding session counters from persisted state.
type StatusCounts struct {
	Total   int
	Added   int
	Skipped int
	Pending int
}

// Counts tallies the collection's records by status.
func (col Collection) Counts() StatusCounts {
	counts := StatusCounts{Total: len(col)}
	for _, card := range col {
		switch card.Status {
		case StatusAdded:
			counts.Added++
		case StatusSkipped:
			counts.Skipped++
		default:
			counts.Pending++
		}
	}
	return counts
}

// Clone returns a deep copy of the collection.
func (col Collection) Clone() Collection {
	if col == nil {
		return nil
	}
	dup := make(Collection, len(col))
	for i, card := range col {
		dup[i] = card.Clone()
	}
	return dup
}
