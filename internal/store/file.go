package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"BetPool/internal/engine"
	"BetPool/internal/match"
	"BetPool/internal/money"
)

// resultsHeader is the CSV column order of the results file.
var resultsHeader = []string{"Name", "Game", "Type", "Team", "BetOn", "BetAmount", "NetResult"}

// FileMatchStore keeps the match history as a single JSON array file.
// Every mutation rewrites the whole file through a temp file + rename, so
// readers never observe a torn write. A mutex serializes writers.
type FileMatchStore struct {
	mu   sync.Mutex
	path string
}

func NewFileMatchStore(path string) *FileMatchStore {
	return &FileMatchStore{path: path}
}

func (s *FileMatchStore) Append(ctx context.Context, m match.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := s.load()
	if err != nil {
		return err
	}
	matches = append(matches, m)
	return s.save(matches)
}

func (s *FileMatchStore) List(ctx context.Context) ([]match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileMatchStore) Update(ctx context.Context, m match.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := s.load()
	if err != nil {
		return err
	}
	for i := range matches {
		if matches[i].ID == m.ID {
			matches[i] = m
			return s.save(matches)
		}
	}
	return fmt.Errorf("update match %s: %w", m.ID, ErrMatchNotFound)
}

func (s *FileMatchStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := s.load()
	if err != nil {
		return err
	}

	kept := matches[:0]
	found := false
	for _, m := range matches {
		if m.ID == id {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return fmt.Errorf("delete match %s: %w", id, ErrMatchNotFound)
	}
	return s.save(kept)
}

func (s *FileMatchStore) load() ([]match.Match, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read matches: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var matches []match.Match
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("decode matches: %w", err)
	}
	return matches, nil
}

func (s *FileMatchStore) save(matches []match.Match) error {
	if matches == nil {
		matches = []match.Match{}
	}
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("encode matches: %w", err)
	}
	return atomicWrite(s.path, data)
}

// FileResultsStore keeps settled bet records as a CSV table with a fixed
// header. Append reads the current rows and rewrites the file through a
// rename, keeping the same atomicity guarantee as Overwrite.
type FileResultsStore struct {
	mu   sync.Mutex
	path string
}

func NewFileResultsStore(path string) *FileResultsStore {
	return &FileResultsStore{path: path}
}

func (s *FileResultsStore) Append(ctx context.Context, records []engine.BetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}
	return s.save(append(existing, records...))
}

func (s *FileResultsStore) Overwrite(ctx context.Context, records []engine.BetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(records)
}

func (s *FileResultsStore) List(ctx context.Context) ([]engine.BetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileResultsStore) load() ([]engine.BetRecord, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open results: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var records []engine.BetRecord
	for i, row := range rows[1:] { // skip header
		if len(row) != len(resultsHeader) {
			return nil, fmt.Errorf("results row %d: want %d columns, got %d", i+2, len(resultsHeader), len(row))
		}
		amount, err := money.Parse(row[5])
		if err != nil {
			return nil, fmt.Errorf("results row %d: %w", i+2, err)
		}
		net, err := money.Parse(row[6])
		if err != nil {
			return nil, fmt.Errorf("results row %d: %w", i+2, err)
		}
		records = append(records, engine.BetRecord{
			Name:      row[0],
			Game:      row[1],
			Kind:      engine.Kind(row[2]),
			Team:      row[3],
			BetOn:     row[4],
			BetAmount: amount,
			NetResult: net,
		})
	}
	return records, nil
}

func (s *FileResultsStore) save(records []engine.BetRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, resultsHeader)
	for _, r := range records {
		rows = append(rows, []string{
			r.Name,
			r.Game,
			string(r.Kind),
			r.Team,
			r.BetOn,
			r.BetAmount.String(),
			r.NetResult.String(),
		})
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return atomicWrite(s.path, buf.Bytes())
}

// atomicWrite writes data to a temp file in the target directory and
// renames it over the destination.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
