package grpc

import (
	"context"
	"log/slog"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nguyenvuong1309/glow/internal/domain"
	"github.com/nguyenvuong1309/glow/internal/service/catalog"
	"github.com/nguyenvuong1309/glow/internal/transport/wire"
)

type CatalogServer struct {
	svc catalogService
	log *slog.Logger
}

type catalogService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListServices(ctx context.Context, category string) ([]domain.Service, error)
	FilterAvailable(ctx context.Context, in catalog.FilterInput, quickCategory string) ([]domain.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (domain.Service, error)
	ListSlots(ctx context.Context, serviceID uuid.UUID, from, to civil.Date) ([]domain.Slot, error)
}

var _ CatalogServiceServer = (*CatalogServer)(nil)

func NewCatalogServer(svc catalogService, log *slog.Logger) *CatalogServer {
	if log == nil {
		log = slog.Default()
	}
	return &CatalogServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.catalog")),
	}
}

func (s *CatalogServer) ListCategories(ctx context.Context, req *ListCategoriesRequest) (*ListCategoriesResponse, error) {
	log := s.log.With(slog.String("rpc", "ListCategories"))

	categories, err := s.svc.ListCategories(ctx)
	if err != nil {
		return nil, toStatus(log, "categories list", err)
	}
	return &ListCategoriesResponse{Categories: wire.Categories(categories)}, nil
}

func (s *CatalogServer) ListServices(ctx context.Context, req *ListServicesRequest) (*ListServicesResponse, error) {
	log := s.log.With(slog.String("rpc", "ListServices"))

	if req == nil {
		req = &ListServicesRequest{}
	}
	services, err := s.svc.ListServices(ctx, req.Category)
	if err != nil {
		return nil, toStatus(log, "services list", err, slog.String("category", req.Category))
	}

	log.Debug("services listed", slog.String("category", req.Category), slog.Int("count", len(services)))
	return &ListServicesResponse{Services: wire.Services(services)}, nil
}

func (s *CatalogServer) FilterServices(ctx context.Context, req *FilterServicesRequest) (*FilterServicesResponse, error) {
	log := s.log.With(slog.String("rpc", "FilterServices"))

	if req == nil {
		req = &FilterServicesRequest{}
	}
	services, err := s.svc.FilterAvailable(ctx, catalog.FilterInput{
		Categories: req.Categories,
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
		TimeFrom:   req.TimeFrom,
		TimeTo:     req.TimeTo,
	}, req.QuickCategory)
	if err != nil {
		return nil, toStatus(log, "services filter", err)
	}

	log.Debug(
		"services filtered",
		slog.Int("categories", len(req.Categories)),
		slog.String("date_from", req.DateFrom),
		slog.String("date_to", req.DateTo),
		slog.String("time_from", req.TimeFrom),
		slog.String("time_to", req.TimeTo),
		slog.Int("count", len(services)),
	)
	return &FilterServicesResponse{Services: wire.Services(services)}, nil
}

func (s *CatalogServer) GetService(ctx context.Context, req *GetServiceRequest) (*GetServiceResponse, error) {
	log := s.log.With(slog.String("rpc", "GetService"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		return nil, status.Error(codes.InvalidArgument, "id must be a UUID")
	}

	svc, err := s.svc.GetService(ctx, id)
	if err != nil {
		return nil, toStatus(log, "service get", err, slog.String("service_id", id.String()))
	}
	return &GetServiceResponse{Service: wire.FromService(svc)}, nil
}

func (s *CatalogServer) ListSlots(ctx context.Context, req *ListSlotsRequest) (*ListSlotsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListSlots"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := uuid.Parse(req.ServiceID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		return nil, status.Error(codes.InvalidArgument, "service_id must be a UUID")
	}
	from, err := domain.ParseDate(req.DateFrom)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "date_from must be YYYY-MM-DD")
	}
	to := from
	if req.DateTo != "" {
		if to, err = domain.ParseDate(req.DateTo); err != nil {
			return nil, status.Error(codes.InvalidArgument, "date_to must be YYYY-MM-DD")
		}
	}

	slots, err := s.svc.ListSlots(ctx, id, from, to)
	if err != nil {
		return nil, toStatus(log, "slots list", err, slog.String("service_id", id.String()))
	}
	return &ListSlotsResponse{Slots: wire.Slots(slots)}, nil
}
