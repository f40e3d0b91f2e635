package domain

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID        uuid.UUID     `bun:"id,pk,type:uuid"`
	UserID    string        `bun:"user_id,notnull"`
	ServiceID uuid.UUID     `bun:"service_id,notnull,type:uuid"`
	Date      time.Time     `bun:"date,notnull,type:date"`
	TimeSlot  string        `bun:"time_slot,notnull"`
	Status    BookingStatus `bun:"status,notnull"`
	Notes     string        `bun:"notes"`
	CreatedAt time.Time     `bun:"created_at,notnull"`
	UpdatedAt time.Time     `bun:"updated_at,notnull"`
}

// Day returns the booking's calendar date.
func (b Booking) Day() civil.Date {
	return civil.DateOf(b.Date)
}

func (b *Booking) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if b.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			b.ID = id
		}
		if b.Status == "" {
			b.Status = BookingStatusPending
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		b.UpdatedAt = now
	}
	return nil
}
