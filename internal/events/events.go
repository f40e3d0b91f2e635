// Package events publishes booking lifecycle events.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
)

// BookingEvent is the payload of every booking event.
type BookingEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"event_type"`
	BookingID  uuid.UUID `json:"booking_id"`
	UserID     string    `json:"user_id"`
	ServiceID  uuid.UUID `json:"service_id"`
	Date       string    `json:"date"`
	TimeSlot   string    `json:"time_slot"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, e BookingEvent) error
}

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(ctx context.Context, e BookingEvent) error {
	return nil
}
