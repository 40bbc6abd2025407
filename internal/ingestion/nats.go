// Package ingestion is the NATS surface: match commands come in over
// JetStream subjects and settled matches are published back out for
// downstream consumers (dashboards, notifiers).
package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
)

const (
	// StreamMatches holds inbound match commands.
	StreamMatches = "POOL_MATCHES"
	// StreamLedger holds outbound settled-match events.
	StreamLedger = "POOL_LEDGER"

	SubjectSubmit  = "pool.matches.submit"
	SubjectUpdate  = "pool.matches.update"
	SubjectDelete  = "pool.matches.delete"
	subjectSettled = "pool.ledger.settled"
)

// RawMessage is a consumed-but-unparsed command from NATS, ready for the
// shell to parse and hand to the pool service.
type RawMessage struct {
	Subject string
	Data    []byte
	AckFunc func()
	NakFunc func()
}

// Subscriber feeds match commands from JetStream into msgChan.
type Subscriber struct {
	js       jetstream.JetStream
	msgChan  chan<- RawMessage
	log      zerolog.Logger
	consumer jetstream.ConsumeContext
}

func NewSubscriber(js jetstream.JetStream, msgChan chan<- RawMessage, log zerolog.Logger) *Subscriber {
	return &Subscriber{js: js, msgChan: msgChan, log: log}
}

// Subscribe creates a durable consumer over all match-command subjects.
// Explicit ACK, bounded redelivery.
func (s *Subscriber) Subscribe(ctx context.Context) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamMatches, jetstream.ConsumerConfig{
		Durable:       "pool-matches",
		FilterSubject: "pool.matches.>",
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       30 * time.Second,
		MaxDeliver:    5,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return fmt.Errorf("create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		raw := RawMessage{
			Subject: msg.Subject(),
			Data:    msg.Data(),
			AckFunc: func() { msg.Ack() },
			NakFunc: func() { msg.Nak() },
		}

		select {
		case s.msgChan <- raw:
		case <-ctx.Done():
			msg.Nak()
		}
	})
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	s.consumer = cc
	s.log.Info().Str("stream", StreamMatches).Msg("subscribed to match commands")
	return nil
}

// Stop gracefully stops the consumer.
func (s *Subscriber) Stop() {
	if s.consumer != nil {
		s.consumer.Stop()
	}
}

// EnsureStreams creates the required JetStream streams if they don't exist.
func EnsureStreams(ctx context.Context, js jetstream.JetStream) error {
	streams := []jetstream.StreamConfig{
		{
			Name:      StreamMatches,
			Subjects:  []string{"pool.matches.>"},
			Storage:   jetstream.FileStorage,
			Retention: jetstream.LimitsPolicy,
			MaxAge:    72 * time.Hour,
			Replicas:  1,
		},
		{
			Name:      StreamLedger,
			Subjects:  []string{"pool.ledger.>"},
			Storage:   jetstream.FileStorage,
			Retention: jetstream.LimitsPolicy,
			MaxAge:    72 * time.Hour,
			Replicas:  1,
		},
	}

	for _, cfg := range streams {
		if _, err := js.CreateOrUpdateStream(ctx, cfg); err != nil {
			return fmt.Errorf("create stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

// Connect establishes a NATS connection and returns a JetStream context.
func Connect(url string, log zerolog.Logger) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Info().Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("jetstream: %w", err)
	}
	return nc, js, nil
}
