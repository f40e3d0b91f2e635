package bookings

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/nguyenvuong1309/glow/internal/domain"
	"github.com/nguyenvuong1309/glow/internal/events"
	"github.com/nguyenvuong1309/glow/internal/store"
)

const maxNotesLength = 500

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type Service struct {
	repo      store.BookingRepository
	catalog   store.CatalogRepository
	publisher events.Publisher
	logger    *slog.Logger
	loc       *time.Location
	now       func() time.Time
}

type Option func(*Service)

// WithClock overrides the clock used for the "not in the past" check.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the salon's time zone; "today" is evaluated there.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(repo store.BookingRepository, catalog store.CatalogRepository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		catalog:   catalog,
		publisher: events.Noop{},
		logger:    slog.Default(),
		loc:       time.UTC,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateInput struct {
	UserID         string
	ServiceID      uuid.UUID
	Date           string
	TimeSlot       string
	Notes          string
	IdempotencyKey string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Booking, error) {
	if in.UserID == "" {
		return domain.Booking{}, validationError("user_id is required")
	}
	if in.ServiceID == uuid.Nil {
		return domain.Booking{}, validationError("service_id is required")
	}
	if strings.TrimSpace(in.Date) == "" {
		return domain.Booking{}, validationError("date is required")
	}
	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return domain.Booking{}, validationError("date must be YYYY-MM-DD")
	}
	if strings.TrimSpace(in.TimeSlot) == "" {
		return domain.Booking{}, validationError("time_slot is required")
	}
	slot, err := domain.ParseClock(in.TimeSlot)
	if err != nil {
		return domain.Booking{}, validationError("time_slot must be HH:MM")
	}

	today := civil.DateOf(s.now().In(s.loc))
	if date.Before(today) {
		return domain.Booking{}, validationError("date must not be in the past")
	}

	notes := strings.TrimSpace(in.Notes)
	if utf8.RuneCountInString(notes) > maxNotesLength {
		return domain.Booking{}, validationError("notes too long")
	}

	svc, err := s.catalog.GetService(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Booking{}, validationError("unknown service")
		}
		return domain.Booking{}, err
	}
	if !domain.SlotFits(svc.Windows, date, slot, svc.Duration()) {
		return domain.Booking{}, validationError("time slot is not available for this service")
	}

	b := domain.Booking{
		UserID:    in.UserID,
		ServiceID: in.ServiceID,
		Date:      date.In(time.UTC),
		TimeSlot:  domain.FormatClock(slot),
		Status:    domain.BookingStatusPending,
		Notes:     notes,
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if len(key) > 256 {
			return domain.Booking{}, validationError("idempotency_key too long")
		}
		b.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("glow:create_booking:"+in.UserID+":"+key))
	}

	booking, created, err := s.repo.Create(ctx, b)
	if err != nil {
		return domain.Booking{}, err
	}

	// A replayed idempotency key already announced this booking.
	if created {
		s.publish(ctx, events.TypeBookingCreated, booking)
	}
	return booking, nil
}

// List returns the user's bookings, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Booking, error) {
	if userID == "" {
		return nil, validationError("user_id is required")
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Cancel(ctx context.Context, userID string, bookingID uuid.UUID) (domain.Booking, error) {
	if userID == "" {
		return domain.Booking{}, validationError("user_id is required")
	}
	if bookingID == uuid.Nil {
		return domain.Booking{}, validationError("booking_id is required")
	}

	b, err := s.repo.UpdateStatus(ctx, userID, bookingID, domain.BookingStatusCancelled)
	if err != nil {
		return domain.Booking{}, err
	}

	s.publish(ctx, events.TypeBookingCancelled, b)
	return b, nil
}

func (s *Service) publish(ctx context.Context, eventType string, b domain.Booking) {
	eventID, err := uuid.NewV7()
	if err != nil {
		eventID = uuid.New()
	}
	e := events.BookingEvent{
		EventID:    eventID.String(),
		Type:       eventType,
		BookingID:  b.ID,
		UserID:     b.UserID,
		ServiceID:  b.ServiceID,
		Date:       domain.FormatDate(b.Day()),
		TimeSlot:   b.TimeSlot,
		Status:     string(b.Status),
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "publish booking event failed",
			slog.String("event_type", eventType),
			slog.String("booking_id", b.ID.String()),
			slog.Any("err", err),
		)
	}
}
