package roster

import (
	"fmt"
	"sort"
)

// UnknownTeam is the home-team label for bettor names outside the roster.
const UnknownTeam = "Unknown"

// Member is one roster entry: a participant and their home team.
type Member struct {
	Name string
	Team string
}

// Roster maps participants to home teams and teams to their owners.
// It is immutable after construction and passed explicitly to every
// settlement call; there is no process-wide roster.
type Roster struct {
	homeTeam   map[string]string
	teamOwners map[string][]string
	names      []string
}

// New builds a Roster from member entries. Names must be unique.
func New(members []Member) (*Roster, error) {
	r := &Roster{
		homeTeam:   make(map[string]string, len(members)),
		teamOwners: make(map[string][]string),
	}
	for _, m := range members {
		if m.Name == "" || m.Team == "" {
			return nil, fmt.Errorf("roster: entry with empty name or team")
		}
		if _, dup := r.homeTeam[m.Name]; dup {
			return nil, fmt.Errorf("roster: duplicate participant %q", m.Name)
		}
		r.homeTeam[m.Name] = m.Team
		r.teamOwners[m.Team] = append(r.teamOwners[m.Team], m.Name)
		r.names = append(r.names, m.Name)
	}
	sort.Strings(r.names)
	for _, owners := range r.teamOwners {
		sort.Strings(owners)
	}
	return r, nil
}

// HomeTeam returns the participant's home team, or UnknownTeam when the
// name is not on the roster.
func (r *Roster) HomeTeam(name string) string {
	if team, ok := r.homeTeam[name]; ok {
		return team
	}
	return UnknownTeam
}

// Contains reports whether the name is a roster participant.
func (r *Roster) Contains(name string) bool {
	_, ok := r.homeTeam[name]
	return ok
}

// Owners returns the participants whose home team is the given team,
// sorted by name. The returned slice is a copy.
func (r *Roster) Owners(team string) []string {
	owners := r.teamOwners[team]
	out := make([]string, len(owners))
	copy(out, owners)
	return out
}

// Participants returns all roster names sorted ascending. The returned
// slice is a copy.
func (r *Roster) Participants() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the roster size.
func (r *Roster) Len() int {
	return len(r.names)
}
