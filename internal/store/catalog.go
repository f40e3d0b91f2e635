package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/nguyenvuong1309/glow/internal/domain"
)

// CatalogRepository is the read side of the service catalog.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
	ListServicesWithAvailability(ctx context.Context) ([]domain.ServiceAvailability, error)
	GetService(ctx context.Context, id uuid.UUID) (domain.ServiceAvailability, error)
}
