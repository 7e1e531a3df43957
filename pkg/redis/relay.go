package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/telegraph/pkg/logger"
	"github.com/dmitrymomot/telegraph/pkg/statemachine"
)

// Publisher is the part of a Redis client the relay needs.
// redis.UniversalClient satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Message is the JSON payload published for every state change.
type Message struct {
	Machine    string    `json:"machine"`
	RunID      string    `json:"run_id"`
	Source     string    `json:"source"`
	Transition string    `json:"transition"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	At         time.Time `json:"at"`
}

// Relay forwards engine changes to a Redis pub/sub channel so that other
// processes can follow the machine without polling it.
type Relay struct {
	pub     Publisher
	channel string
	machine string
	log     *slog.Logger
}

// NewRelay creates a relay publishing to channel. A nil log discards output.
func NewRelay(pub Publisher, channel, machine string, log *slog.Logger) *Relay {
	if log == nil {
		log = logger.Discard()
	}
	return &Relay{
		pub:     pub,
		channel: channel,
		machine: machine,
		log:     log.With(logger.Component("relay"), slog.String("channel", channel)),
	}
}

// Publish sends one change.
func (r *Relay) Publish(ctx context.Context, c statemachine.Change) error {
	payload, err := json.Marshal(Message{
		Machine:    r.machine,
		RunID:      c.RunID,
		Source:     string(c.Source),
		Transition: c.Transition,
		From:       c.From,
		To:         c.To,
		At:         c.At,
	})
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	if err := r.pub.Publish(ctx, r.channel, payload).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}

// Run publishes changes until the channel is closed or ctx is done. Publish
// failures are logged and skipped; a lost change never stops the relay.
// Run returns the number of changes that failed to publish.
func (r *Relay) Run(ctx context.Context, changes <-chan statemachine.Change) int {
	failed := 0
	for {
		select {
		case <-ctx.Done():
			return failed
		case c, ok := <-changes:
			if !ok {
				return failed
			}
			if err := r.Publish(ctx, c); err != nil {
				failed++
				r.log.WarnContext(ctx, "change not relayed",
					logger.RunID(c.RunID), logger.Transition(c.Transition), logger.Error(err))
			}
		}
	}
}
