package audit

import (
	"context"
	"time"

	"github.com/eaglebank/account-api/shared/events"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	Group = "account-audit"
	// ClaimIdle is how long a failed event waits before it is retried.
	ClaimIdle = time.Minute
)

// Trail writes one audit line per account lifecycle event.
type Trail struct {
	log zerolog.Logger
}

func NewTrail(log zerolog.Logger) *Trail {
	return &Trail{log: log.With().Str("component", "audit").Logger()}
}

// Handle matches events.Handler. Undecodable payloads are returned as errors so
// the message stays pending; unknown types are logged and acknowledged.
func (t *Trail) Handle(_ context.Context, event events.Event) error {
	entry := t.log.Info().Str("event", event.Type).Time("occurred_at", event.Timestamp)

	switch event.Type {
	case events.AccountCreated:
		data, err := events.Decode[events.AccountCreatedEvent](event)
		if err != nil {
			return err
		}
		entry.Str("account_id", data.AccountID).Str("email", data.Email).Str("user_type", data.UserType)
	case events.AccountUpdated:
		data, err := events.Decode[events.AccountUpdatedEvent](event)
		if err != nil {
			return err
		}
		entry.Str("account_id", data.AccountID).Str("email", data.Email)
		if data.PreviousEmail != "" {
			entry.Str("previous_email", data.PreviousEmail)
		}
	case events.AccountDeactivated:
		data, err := events.Decode[events.AccountDeactivatedEvent](event)
		if err != nil {
			return err
		}
		entry.Str("account_id", data.AccountID).Str("email", data.Email)
	case events.AccountPasswordReset:
		data, err := events.Decode[events.AccountPasswordResetEvent](event)
		if err != nil {
			return err
		}
		entry.Str("email", data.Email)
	default:
		entry.Discard()
		t.log.Warn().Str("event", event.Type).Msg("ignoring unknown account event")
		return nil
	}

	entry.Msg("account event")
	return nil
}

// NewSubscriber binds a Trail to the account events stream.
func NewSubscriber(client *goredis.Client, consumer string, log zerolog.Logger) *events.Subscriber {
	return events.NewSubscriber(client, events.SubscriberConfig{
		Group:     Group,
		Consumer:  consumer,
		Stream:    events.AccountEventsStream,
		Handler:   NewTrail(log).Handle,
		ClaimIdle: ClaimIdle,
		Logger:    log,
	})
}
