package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/nguyenvuong1309/glow/internal/domain"
)

type BookingRepository interface {
	// Create inserts b. When b.ID already exists with the same contents the
	// stored booking is returned with created set to false.
	Create(ctx context.Context, b domain.Booking) (booking domain.Booking, created bool, err error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	Get(ctx context.Context, userID string, bookingID uuid.UUID) (domain.Booking, error)
	UpdateStatus(ctx context.Context, userID string, bookingID uuid.UUID, status domain.BookingStatus) (domain.Booking, error)
}
