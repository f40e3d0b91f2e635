package catalog

import (
	"context"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/nguyenvuong1309/glow/internal/domain"
	"github.com/nguyenvuong1309/glow/internal/store"
)

// MaxSlotRangeDays bounds ListSlots so a single request cannot expand an
// unbounded calendar.
const MaxSlotRangeDays = 31

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
	repo store.CatalogRepository
}

func NewService(repo store.CatalogRepository) *Service {
	return &Service{repo: repo}
}

// FilterInput is the raw, presentation-level form of domain.FilterCriteria.
// Empty strings mean "not set".
type FilterInput struct {
	Categories []string
	DateFrom   string
	DateTo     string
	TimeFrom   string
	TimeTo     string
}

// ParseFilterCriteria validates and normalises raw filter input. Inverted
// ranges are accepted; the engine resolves them.
func ParseFilterCriteria(in FilterInput) (domain.FilterCriteria, error) {
	var c domain.FilterCriteria

	seen := make(map[string]struct{}, len(in.Categories))
	for _, raw := range in.Categories {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		c.Categories = append(c.Categories, name)
	}

	var err error
	if c.DateFrom, err = parseOptionalDate(in.DateFrom, "date_from"); err != nil {
		return domain.FilterCriteria{}, err
	}
	if c.DateTo, err = parseOptionalDate(in.DateTo, "date_to"); err != nil {
		return domain.FilterCriteria{}, err
	}
	if c.TimeFrom, err = parseOptionalClock(in.TimeFrom, "time_from"); err != nil {
		return domain.FilterCriteria{}, err
	}
	if c.TimeTo, err = parseOptionalClock(in.TimeTo, "time_to"); err != nil {
		return domain.FilterCriteria{}, err
	}

	return c, nil
}

func parseOptionalDate(s, field string) (*civil.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, validationError(field + " must be YYYY-MM-DD")
	}
	return &d, nil
}

func parseOptionalClock(s, field string) (*civil.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := domain.ParseClock(s)
	if err != nil {
		return nil, validationError(field + " must be HH:MM")
	}
	return &t, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

// ListServices returns the catalog in catalog order. A non-empty category
// applies the single-select quick filter.
func (s *Service) ListServices(ctx context.Context, category string) ([]domain.Service, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterByCategory(services, strings.TrimSpace(category)), nil
}

// FilterAvailable runs the availability engine over the whole catalog, then
// layers the quick filter over its output.
func (s *Service) FilterAvailable(ctx context.Context, in FilterInput, quickCategory string) ([]domain.Service, error) {
	criteria, err := ParseFilterCriteria(in)
	if err != nil {
		return nil, err
	}

	catalog, err := s.repo.ListServicesWithAvailability(ctx)
	if err != nil {
		return nil, err
	}

	out := domain.FilterServices(catalog, criteria)
	return domain.FilterByCategory(out, strings.TrimSpace(quickCategory)), nil
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	if id == uuid.Nil {
		return domain.Service{}, validationError("service_id is required")
	}
	sa, err := s.repo.GetService(ctx, id)
	if err != nil {
		return domain.Service{}, err
	}
	return sa.Service, nil
}

// ListSlots expands the service's weekly windows into concrete bookable
// start times between from and to inclusive.
func (s *Service) ListSlots(ctx context.Context, serviceID uuid.UUID, from, to civil.Date) ([]domain.Slot, error) {
	if serviceID == uuid.Nil {
		return nil, validationError("service_id is required")
	}
	if !from.IsValid() || !to.IsValid() {
		return nil, validationError("date range is required")
	}
	if to.Before(from) {
		return nil, validationError("date_to must not be before date_from")
	}
	if to.DaysSince(from) >= MaxSlotRangeDays {
		return nil, validationError("date range too long")
	}

	sa, err := s.repo.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if sa.DurationMinutes <= 0 {
		return []domain.Slot{}, nil
	}

	slots, err := domain.ExpandSlots(sa.Windows, sa.Duration(), from, to)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []domain.Slot{}
	}
	return slots, nil
}
