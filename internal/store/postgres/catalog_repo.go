package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/nguyenvuong1309/glow/internal/domain"
	"github.com/nguyenvuong1309/glow/internal/store"
)

type categoryRow struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID   uuid.UUID `bun:"id,pk,type:uuid"`
	Name string    `bun:"name,notnull"`
	Icon string    `bun:"icon,notnull"`
}

type serviceRow struct {
	bun.BaseModel `bun:"table:services,alias:s"`

	ID              uuid.UUID         `bun:"id,pk,type:uuid"`
	Name            string            `bun:"name,notnull"`
	CategoryID      uuid.UUID         `bun:"category_id,notnull,type:uuid"`
	Category        *categoryRow      `bun:"rel:belongs-to,join:category_id=id"`
	Description     string            `bun:"description,notnull"`
	Price           float64           `bun:"price,notnull"`
	DurationMinutes int               `bun:"duration_minutes,notnull"`
	ImageURL        string            `bun:"image_url,notnull"`
	Rating          float64           `bun:"rating,notnull"`
	Position        int               `bun:"position,notnull"`
	Availability    []availabilityRow `bun:"rel:has-many,join:id=service_id"`
}

type availabilityRow struct {
	bun.BaseModel `bun:"table:service_availability,alias:sa"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	ServiceID uuid.UUID `bun:"service_id,notnull,type:uuid"`
	DayOfWeek int16     `bun:"day_of_week,notnull"`
	StartTime string    `bun:"start_time,notnull,type:time"`
	EndTime   string    `bun:"end_time,notnull,type:time"`
}

type CatalogRepo struct {
	db bun.IDB
}

func NewCatalogRepo(db bun.IDB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

var _ store.CatalogRepository = (*CatalogRepo)(nil)

func (r *CatalogRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryRow
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("c.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Category, 0, len(rows))
	for _, c := range rows {
		out = append(out, domain.Category{ID: c.ID, Name: c.Name, Icon: c.Icon})
	}
	return out, nil
}

func (r *CatalogRepo) ListServices(ctx context.Context) ([]domain.Service, error) {
	var rows []serviceRow
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Category").
		OrderExpr("s.position ASC, s.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Service, 0, len(rows))
	for _, s := range rows {
		out = append(out, toDomainService(s))
	}
	return out, nil
}

func (r *CatalogRepo) ListServicesWithAvailability(ctx context.Context) ([]domain.ServiceAvailability, error) {
	var rows []serviceRow
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Category").
		Relation("Availability", orderWindows).
		OrderExpr("s.position ASC, s.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ServiceAvailability, 0, len(rows))
	for _, s := range rows {
		sa, err := toDomainServiceAvailability(s)
		if err != nil {
			return nil, err
		}
		out = append(out, sa)
	}
	return out, nil
}

func (r *CatalogRepo) GetService(ctx context.Context, id uuid.UUID) (domain.ServiceAvailability, error) {
	var row serviceRow
	err := r.db.NewSelect().
		Model(&row).
		Relation("Category").
		Relation("Availability", orderWindows).
		Where("s.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ServiceAvailability{}, store.ErrNotFound
		}
		return domain.ServiceAvailability{}, err
	}
	return toDomainServiceAvailability(row)
}

func orderWindows(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("sa.day_of_week ASC, sa.start_time ASC")
}

func toDomainService(s serviceRow) domain.Service {
	category := ""
	if s.Category != nil {
		category = s.Category.Name
	}
	return domain.Service{
		ID:              s.ID,
		Name:            s.Name,
		Category:        category,
		Description:     s.Description,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		ImageURL:        s.ImageURL,
		Rating:          s.Rating,
	}
}

func toDomainServiceAvailability(s serviceRow) (domain.ServiceAvailability, error) {
	windows := make([]domain.AvailabilityWindow, 0, len(s.Availability))
	for _, a := range s.Availability {
		start, err := domain.ParseClock(a.StartTime)
		if err != nil {
			return domain.ServiceAvailability{}, fmt.Errorf("service %s availability %s start_time %q: %w", s.ID, a.ID, a.StartTime, err)
		}
		end, err := domain.ParseWindowEnd(a.EndTime)
		if err != nil {
			return domain.ServiceAvailability{}, fmt.Errorf("service %s availability %s end_time %q: %w", s.ID, a.ID, a.EndTime, err)
		}
		windows = append(windows, domain.AvailabilityWindow{
			ServiceID: s.ID,
			DayOfWeek: time.Weekday(a.DayOfWeek),
			Start:     start,
			End:       end,
		})
	}
	return domain.ServiceAvailability{Service: toDomainService(s), Windows: windows}, nil
}
