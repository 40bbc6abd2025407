package ingestion

import (
	"encoding/json"
	"fmt"

	"BetPool/internal/pool"
)

// CommandType discriminates inbound match commands.
type CommandType string

const (
	CommandSubmit CommandType = "submit"
	CommandUpdate CommandType = "update"
	CommandDelete CommandType = "delete"
)

// Command is a parsed inbound message, ready for the pool service.
type Command struct {
	Type       CommandType
	MatchID    string // set for update and delete
	Submission pool.Submission
}

// Wire formats. Field names use snake_case to match upstream producers.
type submitJSON struct {
	Team1        string   `json:"team1"`
	Team2        string   `json:"team2"`
	Winner       string   `json:"winner"`
	Team1Bettors []string `json:"team1_bettors"`
	Team2Bettors []string `json:"team2_bettors"`
}

type updateJSON struct {
	ID string `json:"id"`
	submitJSON
}

type deleteJSON struct {
	ID string `json:"id"`
}

// ParseCommand converts a raw NATS message into a typed Command based on
// its subject. Unknown subjects and malformed payloads are errors; the
// caller acks and drops those rather than redelivering.
func ParseCommand(raw RawMessage) (Command, error) {
	switch raw.Subject {
	case SubjectSubmit:
		var j submitJSON
		if err := json.Unmarshal(raw.Data, &j); err != nil {
			return Command{}, fmt.Errorf("parse submit: %w", err)
		}
		return Command{Type: CommandSubmit, Submission: j.submission()}, nil

	case SubjectUpdate:
		var j updateJSON
		if err := json.Unmarshal(raw.Data, &j); err != nil {
			return Command{}, fmt.Errorf("parse update: %w", err)
		}
		if j.ID == "" {
			return Command{}, fmt.Errorf("parse update: missing id")
		}
		return Command{Type: CommandUpdate, MatchID: j.ID, Submission: j.submission()}, nil

	case SubjectDelete:
		var j deleteJSON
		if err := json.Unmarshal(raw.Data, &j); err != nil {
			return Command{}, fmt.Errorf("parse delete: %w", err)
		}
		if j.ID == "" {
			return Command{}, fmt.Errorf("parse delete: missing id")
		}
		return Command{Type: CommandDelete, MatchID: j.ID}, nil

	default:
		return Command{}, fmt.Errorf("unknown subject: %s", raw.Subject)
	}
}

func (j submitJSON) submission() pool.Submission {
	return pool.Submission{
		Team1:        j.Team1,
		Team2:        j.Team2,
		Winner:       j.Winner,
		Team1Bettors: j.Team1Bettors,
		Team2Bettors: j.Team2Bettors,
	}
}
