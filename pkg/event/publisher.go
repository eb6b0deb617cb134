// Package event publishes booking lifecycle events to a message broker.
package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	BookingCreated    Type = "booking.created"
	BookingConfirmed  Type = "booking.confirmed"
	BookingCheckedIn  Type = "booking.checked_in"
	BookingCheckedOut Type = "booking.checked_out"
	BookingCancelled  Type = "booking.cancelled"
	BookingModified   Type = "booking.modified"
)

// Event is the envelope written to the broker. Payload is the serialized booking.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       Type            `json:"type"`
	Key        string          `json:"key"`
	Version    int64           `json:"version,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

func New(eventType Type, key string, payload any, now time.Time) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		Key:        key,
		OccurredAt: now.UTC(),
		Payload:    data,
	}, nil
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...Event) error { return nil }
func (NopPublisher) Close() error                            { return nil }
