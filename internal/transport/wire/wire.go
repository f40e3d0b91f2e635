// Package wire holds the JSON shapes shared by the gRPC and HTTP transports.
package wire

import (
	"time"

	"github.com/nguyenvuong1309/glow/internal/domain"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type Service struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	ImageURL        string  `json:"image_url"`
	Rating          float64 `json:"rating"`
}

type Slot struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type Booking struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ServiceID string    `json:"service_id"`
	Date      string    `json:"date"`
	TimeSlot  string    `json:"time_slot"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func Categories(in []domain.Category) []Category {
	out := make([]Category, 0, len(in))
	for _, c := range in {
		out = append(out, Category{ID: c.ID.String(), Name: c.Name, Icon: c.Icon})
	}
	return out
}

func FromService(s domain.Service) Service {
	return Service{
		ID:              s.ID.String(),
		Name:            s.Name,
		Category:        s.Category,
		Description:     s.Description,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		ImageURL:        s.ImageURL,
		Rating:          s.Rating,
	}
}

func Services(in []domain.Service) []Service {
	out := make([]Service, 0, len(in))
	for _, s := range in {
		out = append(out, FromService(s))
	}
	return out
}

func Slots(in []domain.Slot) []Slot {
	out := make([]Slot, 0, len(in))
	for _, s := range in {
		out = append(out, Slot{
			Date:  domain.FormatDate(s.Date),
			Start: domain.FormatClock(s.Start),
			End:   domain.FormatClock(s.End),
		})
	}
	return out
}

func FromBooking(b domain.Booking) Booking {
	return Booking{
		ID:        b.ID.String(),
		UserID:    b.UserID,
		ServiceID: b.ServiceID.String(),
		Date:      domain.FormatDate(b.Day()),
		TimeSlot:  b.TimeSlot,
		Status:    string(b.Status),
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt.UTC(),
		UpdatedAt: b.UpdatedAt.UTC(),
	}
}

func Bookings(in []domain.Booking) []Booking {
	out := make([]Booking, 0, len(in))
	for _, b := range in {
		out = append(out, FromBooking(b))
	}
	return out
}
