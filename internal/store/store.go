// Package store persists match history and settled bet records behind
// narrow interfaces so the settlement core never touches I/O directly.
// Two implementations exist: flat files (a JSON match log and a CSV results
// table) and Postgres.
package store

import (
	"context"
	"errors"

	"BetPool/internal/engine"
	"BetPool/internal/match"
)

// ErrMatchNotFound is returned by Update and Delete for unknown match ids.
var ErrMatchNotFound = errors.New("match not found")

// MatchStore persists the ordered match history. Append order is
// chronological order for replay purposes.
type MatchStore interface {
	// Append adds a match to the end of the history.
	Append(ctx context.Context, m match.Match) error

	// List returns the full history in append order.
	List(ctx context.Context) ([]match.Match, error)

	// Update replaces the stored match with the same ID.
	Update(ctx context.Context, m match.Match) error

	// Delete removes the match with the given ID.
	Delete(ctx context.Context, id string) error
}

// ResultsStore persists the flat sequence of settled bet records. The
// sequence is either appended to (incremental settlement) or replaced
// wholesale (rebuild); individual rows are never patched.
type ResultsStore interface {
	// Append adds records to the end of the sequence.
	Append(ctx context.Context, records []engine.BetRecord) error

	// Overwrite replaces the entire sequence.
	Overwrite(ctx context.Context, records []engine.BetRecord) error

	// List returns the full sequence in stored order.
	List(ctx context.Context) ([]engine.BetRecord, error)
}
