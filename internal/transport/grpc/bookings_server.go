package grpc

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/nguyenvuong1309/glow/internal/auth"
	"github.com/nguyenvuong1309/glow/internal/domain"
	"github.com/nguyenvuong1309/glow/internal/service/bookings"
	"github.com/nguyenvuong1309/glow/internal/transport/wire"
)

type BookingsServer struct {
	svc bookingsService
	log *slog.Logger

	// allowRequestUserID lets unauthenticated development setups pass user_id
	// in the request body.
	allowRequestUserID bool
}

type bookingsService interface {
	Create(ctx context.Context, in bookings.CreateInput) (domain.Booking, error)
	List(ctx context.Context, userID string) ([]domain.Booking, error)
	Cancel(ctx context.Context, userID string, bookingID uuid.UUID) (domain.Booking, error)
}

var _ BookingsServiceServer = (*BookingsServer)(nil)

func NewBookingsServer(svc bookingsService, log *slog.Logger, allowRequestUserID bool) *BookingsServer {
	if log == nil {
		log = slog.Default()
	}
	return &BookingsServer{
		svc:                svc,
		log:                log.With(slog.String("component", "grpc.bookings")),
		allowRequestUserID: allowRequestUserID,
	}
}

func (s *BookingsServer) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*CreateBookingResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateBooking"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	userID, err := s.userID(ctx, req.UserID)
	if err != nil {
		log.Warn("unauthenticated")
		return nil, err
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("user_id", userID))
		return nil, status.Error(codes.InvalidArgument, "service_id must be a UUID")
	}

	b, err := s.svc.Create(ctx, bookings.CreateInput{
		UserID:         userID,
		ServiceID:      serviceID,
		Date:           req.Date,
		TimeSlot:       req.TimeSlot,
		Notes:          req.Notes,
		IdempotencyKey: idempotencyKey(ctx),
	})
	if err != nil {
		return nil, toStatus(log, "booking create", err,
			slog.String("user_id", userID),
			slog.String("service_id", serviceID.String()),
			slog.String("date", req.Date),
			slog.String("time_slot", req.TimeSlot),
		)
	}

	log.Info(
		"booking created",
		slog.String("booking_id", b.ID.String()),
		slog.String("user_id", b.UserID),
		slog.String("service_id", b.ServiceID.String()),
		slog.String("date", domain.FormatDate(b.Day())),
		slog.String("time_slot", b.TimeSlot),
	)
	return &CreateBookingResponse{Booking: wire.FromBooking(b)}, nil
}

func (s *BookingsServer) ListBookings(ctx context.Context, req *ListBookingsRequest) (*ListBookingsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListBookings"))

	if req == nil {
		req = &ListBookingsRequest{}
	}
	userID, err := s.userID(ctx, req.UserID)
	if err != nil {
		log.Warn("unauthenticated")
		return nil, err
	}

	list, err := s.svc.List(ctx, userID)
	if err != nil {
		return nil, toStatus(log, "bookings list", err, slog.String("user_id", userID))
	}

	log.Debug("bookings listed", slog.String("user_id", userID), slog.Int("count", len(list)))
	return &ListBookingsResponse{Bookings: wire.Bookings(list)}, nil
}

func (s *BookingsServer) CancelBooking(ctx context.Context, req *CancelBookingRequest) (*CancelBookingResponse, error) {
	log := s.log.With(slog.String("rpc", "CancelBooking"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	userID, err := s.userID(ctx, req.UserID)
	if err != nil {
		log.Warn("unauthenticated")
		return nil, err
	}
	id, err := uuid.Parse(req.BookingID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("user_id", userID))
		return nil, status.Error(codes.InvalidArgument, "booking_id must be a UUID")
	}

	b, err := s.svc.Cancel(ctx, userID, id)
	if err != nil {
		return nil, toStatus(log, "booking cancel", err, slog.String("booking_id", id.String()), slog.String("user_id", userID))
	}

	log.Info("booking cancelled", slog.String("booking_id", b.ID.String()), slog.String("user_id", userID))
	return &CancelBookingResponse{Booking: wire.FromBooking(b)}, nil
}

// userID prefers the authenticated subject. The request field is a
// development fallback.
func (s *BookingsServer) userID(ctx context.Context, fromRequest string) (string, error) {
	if id, ok := auth.UserIDFrom(ctx); ok {
		return id, nil
	}
	fromRequest = strings.TrimSpace(fromRequest)
	if s.allowRequestUserID && fromRequest != "" {
		return fromRequest, nil
	}
	return "", status.Error(codes.Unauthenticated, "authentication required")
}

func idempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("idempotency-key")
	if len(values) == 0 {
		values = md.Get("x-idempotency-key")
	}
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
