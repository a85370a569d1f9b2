// Package events publishes domain events about orders and accounts.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type Event string

const (
	OrderCompleted Event = "order.completed"
	OrderCancelled Event = "order.cancelled"
	UserCreated    Event = "user.created"
	UserPromoted   Event = "user.promoted"
)

// Publisher delivers an event. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event Event, payload any) error
}

// Envelope is the JSON body written for every event.
type Envelope struct {
	Event      Event     `json:"event"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

func encode(event Event, payload any, now time.Time) ([]byte, error) {
	data, err := json.Marshal(Envelope{Event: event, OccurredAt: now.UTC(), Data: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", event, err)
	}
	return data, nil
}

type OrderPayload struct {
	OrderID     string `json:"orderId"`
	UID         string `json:"uid"`
	Package     string `json:"package"`
	Credits     int    `json:"credits"`
	AmountCents int64  `json:"amountCents"`
	PaymentID   string `json:"paymentId,omitempty"`
}

type UserPayload struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// LogPublisher writes events to the log instead of a broker.
type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "events").Logger()}
}

func (p *LogPublisher) Publish(_ context.Context, event Event, payload any) error {
	data, err := encode(event, payload, time.Now())
	if err != nil {
		return err
	}
	p.logger.Info().Str("event", string(event)).RawJSON("envelope", data).Msg("event published")
	return nil
}
