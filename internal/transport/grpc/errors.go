package grpc

import (
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nguyenvuong1309/glow/internal/service/bookings"
	"github.com/nguyenvuong1309/glow/internal/service/catalog"
	"github.com/nguyenvuong1309/glow/internal/store"
)

// toStatus maps service and store errors to gRPC statuses. Unexpected errors
// are logged with detail and returned as a generic Internal.
func toStatus(log *slog.Logger, op string, err error, attrs ...any) error {
	var catalogErr *catalog.ValidationError
	if errors.As(err, &catalogErr) {
		log.Warn("invalid request", append([]any{slog.Any("err", err)}, attrs...)...)
		return status.Error(codes.InvalidArgument, catalogErr.Error())
	}
	var bookingErr *bookings.ValidationError
	if errors.As(err, &bookingErr) {
		log.Warn("invalid request", append([]any{slog.Any("err", err)}, attrs...)...)
		return status.Error(codes.InvalidArgument, bookingErr.Error())
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Info(op+" not found", attrs...)
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, store.ErrIdempotencyConflict):
		log.Info(op+" idempotency conflict", attrs...)
		return status.Error(codes.FailedPrecondition, "This request key was already used for a different booking. Try again.")
	case errors.Is(err, store.ErrConflict):
		log.Info(op+" conflict", attrs...)
		return status.Error(codes.FailedPrecondition, "The booking is already in that state.")
	}

	log.Error(op+" failed", append([]any{slog.Any("err", err)}, attrs...)...)
	return status.Error(codes.Internal, "internal error")
}
