package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"BetPool/internal/engine"
	"BetPool/internal/match"
	"BetPool/internal/money"
)

// PostgresMatchStore persists match history in the pool.matches table.
// Insertion order is preserved by a bigserial sequence column.
type PostgresMatchStore struct {
	db *sql.DB
}

func NewPostgresMatchStore(db *sql.DB) *PostgresMatchStore {
	return &PostgresMatchStore{db: db}
}

func (s *PostgresMatchStore) Append(ctx context.Context, m match.Match) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pool.matches (id, team1, team2, winner, team1_bettors, team2_bettors, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.Team1, m.Team2, m.Winner, pq.Array(m.Team1Bettors), pq.Array(m.Team2Bettors), m.Timestamp)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (s *PostgresMatchStore) List(ctx context.Context) ([]match.Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, team1, team2, winner, team1_bettors, team2_bettors, ts
		FROM pool.matches
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var matches []match.Match
	for rows.Next() {
		var m match.Match
		var t1, t2 pq.StringArray
		if err := rows.Scan(&m.ID, &m.Team1, &m.Team2, &m.Winner, &t1, &t2, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.Team1Bettors = []string(t1)
		m.Team2Bettors = []string(t2)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *PostgresMatchStore) Update(ctx context.Context, m match.Match) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE pool.matches
		SET team1 = $2, team2 = $3, winner = $4, team1_bettors = $5, team2_bettors = $6
		WHERE id = $1
	`, m.ID, m.Team1, m.Team2, m.Winner, pq.Array(m.Team1Bettors), pq.Array(m.Team2Bettors))
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update match %s: %w", m.ID, ErrMatchNotFound)
	}
	return nil
}

func (s *PostgresMatchStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pool.matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete match %s: %w", id, ErrMatchNotFound)
	}
	return nil
}

// PostgresResultsStore persists bet records in the pool.bet_records table
// using multi-row INSERTs. Overwrite runs delete + insert in one
// transaction so readers never observe a half-rebuilt sequence.
type PostgresResultsStore struct {
	db *sql.DB
}

func NewPostgresResultsStore(db *sql.DB) *PostgresResultsStore {
	return &PostgresResultsStore{db: db}
}

func (s *PostgresResultsStore) Append(ctx context.Context, records []engine.BetRecord) error {
	if len(records) == 0 {
		return nil
	}
	return insertRecords(ctx, s.db, records)
}

func (s *PostgresResultsStore) Overwrite(ctx context.Context, records []engine.BetRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("overwrite results: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pool.bet_records`); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	if len(records) > 0 {
		if err := insertRecords(ctx, tx, records); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *PostgresResultsStore) List(ctx context.Context) ([]engine.BetRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, game, bet_type, team, bet_on, bet_amount_cents, net_result_cents
		FROM pool.bet_records
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var records []engine.BetRecord
	for rows.Next() {
		var r engine.BetRecord
		var amount, net int64
		if err := rows.Scan(&r.Name, &r.Game, &r.Kind, &r.Team, &r.BetOn, &amount, &net); err != nil {
			return nil, fmt.Errorf("scan bet record: %w", err)
		}
		r.BetAmount = money.Cents(amount)
		r.NetResult = money.Cents(net)
		records = append(records, r)
	}
	return records, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertRecords(ctx context.Context, db execer, records []engine.BetRecord) error {
	const cols = 7
	query := `INSERT INTO pool.bet_records
		(name, game, bet_type, team, bet_on, bet_amount_cents, net_result_cents)
		VALUES `

	values := make([]string, 0, len(records))
	args := make([]any, 0, len(records)*cols)
	for i, r := range records {
		base := i * cols
		values = append(values, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		args = append(args,
			r.Name, r.Game, string(r.Kind), r.Team, r.BetOn,
			int64(r.BetAmount), int64(r.NetResult),
		)
	}

	if _, err := db.ExecContext(ctx, query+strings.Join(values, ", "), args...); err != nil {
		return fmt.Errorf("insert bet records: %w", err)
	}
	return nil
}
