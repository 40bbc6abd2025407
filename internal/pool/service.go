// Package pool orchestrates the betting pool: it owns the stores, runs the
// settlement engine for new matches, and rebuilds the results sequence
// whenever history is edited.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"BetPool/internal/engine"
	"BetPool/internal/match"
	"BetPool/internal/money"
	"BetPool/internal/observability"
	"BetPool/internal/replay"
	"BetPool/internal/roster"
	"BetPool/internal/store"
)

// ErrMissingTeam is returned for submissions without both team codes.
var ErrMissingTeam = errors.New("both team codes are required")

// Submission is the caller-facing match input, before an id and timestamp
// are assigned.
type Submission struct {
	Team1        string   `json:"team1"`
	Team2        string   `json:"team2"`
	Winner       string   `json:"winner"`
	Team1Bettors []string `json:"team1_bettors"`
	Team2Bettors []string `json:"team2_bettors"`
}

// Publisher emits settled-match events for downstream consumers.
// Publishing is best effort; failures are logged, never propagated.
type Publisher interface {
	PublishSettled(ctx context.Context, m match.Match, records []engine.BetRecord) error
}

// Standing is one row of the per-participant aggregate over all results.
type Standing struct {
	Name   string      `json:"name"`
	Bets   int         `json:"bets"`
	Wins   int         `json:"wins"`
	Staked money.Cents `json:"staked"`
	Net    money.Cents `json:"net"`
}

// Service wires the settlement engine, replay, and stores together. All
// mutations go through a single mutex: at most one writer touches the
// results store at a time, across both the HTTP and NATS surfaces.
type Service struct {
	mu      sync.Mutex
	matches store.MatchStore
	results store.ResultsStore
	roster  *roster.Roster
	pub     Publisher
	metrics *observability.Metrics
	log     zerolog.Logger
}

func NewService(
	matches store.MatchStore,
	results store.ResultsStore,
	r *roster.Roster,
	pub Publisher,
	metrics *observability.Metrics,
	log zerolog.Logger,
) *Service {
	return &Service{
		matches: matches,
		results: results,
		roster:  r,
		pub:     pub,
		metrics: metrics,
		log:     log,
	}
}

// SubmitMatch validates and settles a new match, appends it to history, and
// appends its bet records to the results store.
func (s *Service) SubmitMatch(ctx context.Context, sub Submission) (match.Match, []engine.BetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateSubmission(sub); err != nil {
		s.reject(err)
		return match.Match{}, nil, err
	}

	// Settle before persisting anything: a bad submission must not leave a
	// match in history with no matching records.
	start := time.Now()
	records, err := engine.Settle(sub.Team1, sub.Team2, sub.Winner, sub.Team1Bettors, sub.Team2Bettors, s.roster)
	if err != nil {
		s.reject(err)
		return match.Match{}, nil, err
	}

	m := match.Match{
		ID:           uuid.NewString(),
		Team1:        sub.Team1,
		Team2:        sub.Team2,
		Winner:       sub.Winner,
		Team1Bettors: sub.Team1Bettors,
		Team2Bettors: sub.Team2Bettors,
		Timestamp:    time.Now().UTC(),
	}

	writeStart := time.Now()
	if err := s.matches.Append(ctx, m); err != nil {
		s.storeError("match_append")
		return match.Match{}, nil, fmt.Errorf("append match: %w", err)
	}
	s.observeWrite("match_append", writeStart)

	writeStart = time.Now()
	if err := s.results.Append(ctx, records); err != nil {
		s.storeError("results_append")
		return match.Match{}, nil, fmt.Errorf("append results: %w", err)
	}
	s.observeWrite("results_append", writeStart)

	if s.metrics != nil {
		s.metrics.MatchesSettled.Inc()
		s.metrics.RecordsSettled.Add(float64(len(records)))
		s.metrics.SettleDuration.Observe(time.Since(start).Seconds())
	}

	s.log.Info().
		Str("match_id", m.ID).
		Str("game", m.Label()).
		Str("winner", m.Winner).
		Int("records", len(records)).
		Msg("match settled")

	s.publish(ctx, m, records)
	return m, records, nil
}

// UpdateMatch replaces a historical match (keeping its id and original
// timestamp) and rebuilds the entire results sequence.
func (s *Service) UpdateMatch(ctx context.Context, id string, sub Submission) (match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateSubmission(sub); err != nil {
		s.reject(err)
		return match.Match{}, err
	}

	existing, err := s.findLocked(ctx, id)
	if err != nil {
		return match.Match{}, err
	}

	updated := match.Match{
		ID:           existing.ID,
		Team1:        sub.Team1,
		Team2:        sub.Team2,
		Winner:       sub.Winner,
		Team1Bettors: sub.Team1Bettors,
		Team2Bettors: sub.Team2Bettors,
		Timestamp:    existing.Timestamp,
	}

	if err := s.matches.Update(ctx, updated); err != nil {
		s.storeError("match_update")
		return match.Match{}, err
	}

	if err := s.rebuildLocked(ctx); err != nil {
		return match.Match{}, err
	}
	s.log.Info().Str("match_id", id).Msg("match updated, results rebuilt")
	return updated, nil
}

// DeleteMatch removes a match from history and rebuilds the results.
func (s *Service) DeleteMatch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.matches.Delete(ctx, id); err != nil {
		if !errors.Is(err, store.ErrMatchNotFound) {
			s.storeError("match_delete")
		}
		return err
	}

	if err := s.rebuildLocked(ctx); err != nil {
		return err
	}
	s.log.Info().Str("match_id", id).Msg("match deleted, results rebuilt")
	return nil
}

// Rebuild regenerates the results store from the full match history.
// Idempotent: with unchanged history the output is identical.
func (s *Service) Rebuild(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildLocked(ctx)
}

func (s *Service) rebuildLocked(ctx context.Context) error {
	start := time.Now()

	history, err := s.matches.List(ctx)
	if err != nil {
		s.storeError("match_list")
		return fmt.Errorf("list matches: %w", err)
	}

	records, skipped, err := replay.Rebuild(ctx, history, s.roster, s.log)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	writeStart := time.Now()
	if err := s.results.Overwrite(ctx, records); err != nil {
		s.storeError("results_overwrite")
		return fmt.Errorf("overwrite results: %w", err)
	}
	s.observeWrite("results_overwrite", writeStart)

	if s.metrics != nil {
		s.metrics.RebuildRuns.Inc()
		s.metrics.RebuildDuration.Observe(time.Since(start).Seconds())
		s.metrics.RebuildSkipped.Add(float64(skipped))
		s.metrics.RebuildRecords.Set(float64(len(records)))
	}
	return nil
}

// Matches returns the full match history in chronological order.
func (s *Service) Matches(ctx context.Context) ([]match.Match, error) {
	return s.matches.List(ctx)
}

// Match returns one match by id.
func (s *Service) Match(ctx context.Context, id string) (match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(ctx, id)
}

// Results returns the full settled-record sequence.
func (s *Service) Results(ctx context.Context) ([]engine.BetRecord, error) {
	return s.results.List(ctx)
}

// Standings folds the results into per-participant totals, ordered by net
// result descending (name ascending on ties).
func (s *Service) Standings(ctx context.Context) ([]Standing, error) {
	records, err := s.results.List(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*Standing)
	for _, r := range records {
		st, ok := byName[r.Name]
		if !ok {
			st = &Standing{Name: r.Name}
			byName[r.Name] = st
		}
		st.Bets++
		st.Staked += r.BetAmount
		st.Net += r.NetResult
		if r.NetResult > 0 {
			st.Wins++
		}
	}

	standings := make([]Standing, 0, len(byName))
	for _, st := range byName {
		standings = append(standings, *st)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Net != standings[j].Net {
			return standings[i].Net > standings[j].Net
		}
		return standings[i].Name < standings[j].Name
	})
	return standings, nil
}

func (s *Service) findLocked(ctx context.Context, id string) (match.Match, error) {
	history, err := s.matches.List(ctx)
	if err != nil {
		return match.Match{}, fmt.Errorf("list matches: %w", err)
	}
	for _, m := range history {
		if m.ID == id {
			return m, nil
		}
	}
	return match.Match{}, fmt.Errorf("match %s: %w", id, store.ErrMatchNotFound)
}

func (s *Service) publish(ctx context.Context, m match.Match, records []engine.BetRecord) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishSettled(ctx, m, records); err != nil {
		if s.metrics != nil {
			s.metrics.PublishErrors.Inc()
		}
		s.log.Warn().Str("match_id", m.ID).Err(err).Msg("outbound publish failed")
	}
}

func (s *Service) reject(err error) {
	if s.metrics == nil {
		return
	}
	reason := "invalid_match"
	if errors.Is(err, engine.ErrInvalidWinner) {
		reason = "invalid_winner"
	}
	s.metrics.SettleRejected.WithLabelValues(reason).Inc()
}

func (s *Service) observeWrite(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.StoreWriteDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

func (s *Service) storeError(op string) {
	if s.metrics != nil {
		s.metrics.StoreErrors.WithLabelValues(op).Inc()
	}
}

func validateSubmission(sub Submission) error {
	if sub.Team1 == "" || sub.Team2 == "" {
		return ErrMissingTeam
	}
	if sub.Winner != sub.Team1 && sub.Winner != sub.Team2 {
		return engine.ErrInvalidWinner
	}
	return nil
}
