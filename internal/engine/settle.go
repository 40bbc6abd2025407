package engine

import (
	"errors"
	"sort"

	"BetPool/internal/money"
	"BetPool/internal/roster"
)

// ErrInvalidWinner is returned when the declared winner is neither of the
// two teams in the match.
var ErrInvalidWinner = errors.New("winner is neither team1 nor team2")

// Kind distinguishes automatic owner stakes from pooled bets.
type Kind string

const (
	KindOwner    Kind = "Owner"
	KindNonOwner Kind = "Non-owner"
)

// Stake schedule. Owners of a solo-owned team stake 15; when a team has two
// owners against a solo-owned team, each of the two stakes 7.5. Every pooled
// non-owner bet is a flat 8.
const (
	ownerStakeSolo  = money.Cents(15 * money.Scale)
	ownerStakeSplit = money.Cents(75 * money.Scale / 10)
	poolStake       = money.Cents(8 * money.Scale)
)

// BetRecord is one settled row: a participant's stake and net outcome for a
// single match. Records are immutable once produced; re-settlement replaces
// a match's rows wholesale.
type BetRecord struct {
	Name      string      `json:"name"`
	Game      string      `json:"game"`
	Kind      Kind        `json:"type"`
	Team      string      `json:"team"`
	BetOn     string      `json:"bet_on"`
	BetAmount money.Cents `json:"bet_amount"`
	NetResult money.Cents `json:"net_result"`
}

type taggedBet struct {
	name string
	team string
}

// Settle computes the full settlement for one match: automatic owner stakes
// for both teams, explicit non-owner bets, and non-voters auto-assigned to
// the losing side, paid out pari-mutuel from a fixed-stake pool.
//
// Every roster participant appears in the output exactly once — as an owner,
// an explicit bettor, or an auto-assigned non-voter. Bettor names outside
// the roster are settled as non-owners with an "Unknown" home team. Owners
// appearing in a bettor list are discarded; owners never place pooled bets.
//
// Records are returned sorted by participant name ascending.
func Settle(team1, team2, winner string, team1Bettors, team2Bettors []string, r *roster.Roster) ([]BetRecord, error) {
	if winner != team1 && winner != team2 {
		return nil, ErrInvalidWinner
	}

	game := team1 + " vs " + team2
	losingTeam := team1
	if winner == team1 {
		losingTeam = team2
	}

	team1Owners := r.Owners(team1)
	team2Owners := r.Owners(team2)

	isOwner := make(map[string]bool, len(team1Owners)+len(team2Owners))
	for _, o := range team1Owners {
		isOwner[o] = true
	}
	for _, o := range team2Owners {
		isOwner[o] = true
	}

	records := make([]BetRecord, 0, r.Len())

	// Owner auto-stakes, sized by the owner-count pairing. Combinations
	// outside the schedule fall back to the solo stake; a team with zero
	// owners simply contributes no rows.
	team1Stake, team2Stake := ownerStakes(len(team1Owners), len(team2Owners))
	for _, owner := range team1Owners {
		records = append(records, ownerRecord(owner, game, team1, winner, team1Stake))
	}
	for _, owner := range team2Owners {
		records = append(records, ownerRecord(owner, game, team2, winner, team2Stake))
	}

	// Voting population. Voted is taken from the raw lists; owners are
	// excluded from the non-voter set regardless of whether they voted.
	voted := make(map[string]bool, len(team1Bettors)+len(team2Bettors))
	for _, b := range team1Bettors {
		voted[b] = true
	}
	for _, b := range team2Bettors {
		voted[b] = true
	}

	var nonVoters []string
	for _, p := range r.Participants() {
		if !voted[p] && !isOwner[p] {
			nonVoters = append(nonVoters, p)
		}
	}

	// Non-owner bettor list in precedence order: explicit team1 votes,
	// explicit team2 votes, then non-voters stuck on the losing side.
	// First occurrence wins on duplicate names.
	var pool []taggedBet
	for _, b := range team1Bettors {
		if !isOwner[b] {
			pool = append(pool, taggedBet{name: b, team: team1})
		}
	}
	for _, b := range team2Bettors {
		if !isOwner[b] {
			pool = append(pool, taggedBet{name: b, team: team2})
		}
	}
	for _, nv := range nonVoters {
		pool = append(pool, taggedBet{name: nv, team: losingTeam})
	}

	seen := make(map[string]bool, len(pool))
	unique := pool[:0]
	for _, tb := range pool {
		if seen[tb.name] {
			continue
		}
		seen[tb.name] = true
		unique = append(unique, tb)
	}

	// Fixed-stake pari-mutuel: the pool is the sum of stakes, split evenly
	// among winning bettors. No winners means no payout; every loser is
	// down exactly the stake.
	totalPool := money.Cents(len(unique)) * poolStake
	winners := 0
	for _, tb := range unique {
		if tb.team == winner {
			winners++
		}
	}

	var share money.Cents
	if winners > 0 {
		share = money.DivideHalfEven(totalPool, winners)
	}

	for _, tb := range unique {
		net := -poolStake
		if tb.team == winner {
			net = share - poolStake
		}
		records = append(records, BetRecord{
			Name:      tb.name,
			Game:      game,
			Kind:      KindNonOwner,
			Team:      r.HomeTeam(tb.name),
			BetOn:     tb.team,
			BetAmount: poolStake,
			NetResult: net,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records, nil
}

func ownerStakes(team1Count, team2Count int) (money.Cents, money.Cents) {
	switch {
	case team1Count == 2 && team2Count == 1:
		return ownerStakeSplit, ownerStakeSolo
	case team1Count == 1 && team2Count == 2:
		return ownerStakeSolo, ownerStakeSplit
	default:
		return ownerStakeSolo, ownerStakeSolo
	}
}

func ownerRecord(owner, game, team, winner string, stake money.Cents) BetRecord {
	net := -stake
	if team == winner {
		net = stake
	}
	return BetRecord{
		Name:      owner,
		Game:      game,
		Kind:      KindOwner,
		Team:      team,
		BetOn:     team,
		BetAmount: stake,
		NetResult: net,
	}
}
