// Package replay rebuilds the full bet-record sequence from match history.
// The rebuild is a pure deterministic function of (history, roster): the
// engine runs once per match in history order and outputs are concatenated,
// so incremental settlement and a rebuild always agree.
package replay

import (
	"context"

	"github.com/rs/zerolog"

	"BetPool/internal/engine"
	"BetPool/internal/match"
	"BetPool/internal/roster"
)

// Rebuild settles every match in history order and concatenates the
// per-match records (each block name-sorted, no cross-match sorting).
// It also reports how many malformed matches were skipped.
//
// Malformed records are logged and skipped; one bad row never aborts the
// rebuild. The context is checked between matches so callers can cancel a
// long rebuild at match granularity.
func Rebuild(ctx context.Context, history []match.Match, r *roster.Roster, log zerolog.Logger) ([]engine.BetRecord, int, error) {
	records := make([]engine.BetRecord, 0, len(history)*r.Len())
	skipped := 0

	for i, m := range history {
		select {
		case <-ctx.Done():
			return nil, skipped, ctx.Err()
		default:
		}

		if err := m.Validate(); err != nil {
			log.Warn().
				Int("index", i).
				Str("match_id", m.ID).
				Err(err).
				Msg("skipping malformed match during rebuild")
			skipped++
			continue
		}

		recs, err := engine.Settle(m.Team1, m.Team2, m.Winner, m.Team1Bettors, m.Team2Bettors, r)
		if err != nil {
			// Validate already rules out a bad winner; anything else is
			// still isolated to this match.
			log.Warn().
				Int("index", i).
				Str("match_id", m.ID).
				Err(err).
				Msg("skipping unsettleable match during rebuild")
			skipped++
			continue
		}

		records = append(records, recs...)
	}

	return records, skipped, nil
}
