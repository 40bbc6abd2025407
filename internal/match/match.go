package match

import (
	"fmt"
	"time"
)

// Match is one settled (or to-be-settled) fixture in the pool's history.
// The bettor lists hold participant names as declared; they may contain
// names outside the roster and may overlap with the owner sets — the
// settlement engine normalizes both.
type Match struct {
	ID           string    `json:"id"`
	Team1        string    `json:"team1"`
	Team2        string    `json:"team2"`
	Winner       string    `json:"winner"`
	Team1Bettors []string  `json:"team1_bettors"`
	Team2Bettors []string  `json:"team2_bettors"`
	Timestamp    time.Time `json:"timestamp"`
}

// Label returns the display label used on every bet record for this match.
func (m Match) Label() string {
	return m.Team1 + " vs " + m.Team2
}

// Validate reports whether the record is well-formed enough to settle.
// History replay skips records failing this check instead of aborting.
func (m Match) Validate() error {
	if m.Team1 == "" || m.Team2 == "" {
		return fmt.Errorf("match %s: missing team", m.ID)
	}
	if m.Winner == "" {
		return fmt.Errorf("match %s: missing winner", m.ID)
	}
	if m.Winner != m.Team1 && m.Winner != m.Team2 {
		return fmt.Errorf("match %s: winner %q is neither %q nor %q", m.ID, m.Winner, m.Team1, m.Team2)
	}
	return nil
}
