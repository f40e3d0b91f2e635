package grpc

import "github.com/nguyenvuong1309/glow/internal/transport/wire"

// Request and response structs are named after their glow.v1 messages, and
// json names are the protobuf field names.

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []wire.Category `json:"categories"`
}

type ListServicesRequest struct {
	Category string `json:"category,omitempty"`
}

type ListServicesResponse struct {
	Services []wire.Service `json:"services"`
}

type FilterServicesRequest struct {
	Categories    []string `json:"categories,omitempty"`
	DateFrom      string   `json:"date_from,omitempty"`
	DateTo        string   `json:"date_to,omitempty"`
	TimeFrom      string   `json:"time_from,omitempty"`
	TimeTo        string   `json:"time_to,omitempty"`
	QuickCategory string   `json:"quick_category,omitempty"`
}

type FilterServicesResponse struct {
	Services []wire.Service `json:"services"`
}

type GetServiceRequest struct {
	ID string `json:"id"`
}

type GetServiceResponse struct {
	Service wire.Service `json:"service"`
}

type ListSlotsRequest struct {
	ServiceID string `json:"service_id"`
	DateFrom  string `json:"date_from"`
	DateTo    string `json:"date_to"`
}

type ListSlotsResponse struct {
	Slots []wire.Slot `json:"slots"`
}

// UserID on booking requests is honoured only when authentication is not
// required.
type CreateBookingRequest struct {
	UserID    string `json:"user_id,omitempty"`
	ServiceID string `json:"service_id"`
	Date      string `json:"date"`
	TimeSlot  string `json:"time_slot"`
	Notes     string `json:"notes,omitempty"`
}

type CreateBookingResponse struct {
	Booking wire.Booking `json:"booking"`
}

type ListBookingsRequest struct {
	UserID string `json:"user_id,omitempty"`
}

type ListBookingsResponse struct {
	Bookings []wire.Booking `json:"bookings"`
}

type CancelBookingRequest struct {
	UserID    string `json:"user_id,omitempty"`
	BookingID string `json:"booking_id"`
}

type CancelBookingResponse struct {
	Booking wire.Booking `json:"booking"`
}
