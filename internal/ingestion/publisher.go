package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"BetPool/internal/engine"
	"BetPool/internal/match"
)

// SettledPublisher publishes settled-match events to
// pool.ledger.settled.{match_id} after the records are persisted.
type SettledPublisher struct {
	js jetstream.JetStream
}

func NewSettledPublisher(js jetstream.JetStream) *SettledPublisher {
	return &SettledPublisher{js: js}
}

type settledRecordJSON struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Team      string `json:"team"`
	BetOn     string `json:"bet_on"`
	BetAmount string `json:"bet_amount"`
	NetResult string `json:"net_result"`
}

type settledJSON struct {
	MatchID   string              `json:"match_id"`
	Game      string              `json:"game"`
	Winner    string              `json:"winner"`
	SettledAt time.Time           `json:"settled_at"`
	Records   []settledRecordJSON `json:"records"`
}

// PublishSettled implements pool.Publisher.
func (p *SettledPublisher) PublishSettled(ctx context.Context, m match.Match, records []engine.BetRecord) error {
	evt := settledJSON{
		MatchID:   m.ID,
		Game:      m.Label(),
		Winner:    m.Winner,
		SettledAt: time.Now().UTC(),
		Records:   make([]settledRecordJSON, 0, len(records)),
	}
	for _, r := range records {
		evt.Records = append(evt.Records, settledRecordJSON{
			Name:      r.Name,
			Type:      string(r.Kind),
			Team:      r.Team,
			BetOn:     r.BetOn,
			BetAmount: r.BetAmount.String(),
			NetResult: r.NetResult.String(),
		})
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal settled event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", subjectSettled, m.ID)
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}
