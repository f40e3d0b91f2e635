package grpc

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/nguyenvuong1309/glow/internal/auth"
)

type tokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthInterceptor authenticates BookingsService calls. A valid bearer token
// puts its subject in the context; an invalid one is rejected. A missing
// token is rejected only when required is set. Catalog calls pass through.
func AuthInterceptor(v tokenVerifier, required bool) grpc.UnaryServerInterceptor {
	prefix := "/" + BookingsServiceName + "/"
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, prefix) {
			return handler(ctx, req)
		}

		token := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get("authorization"); len(values) > 0 {
				token = auth.BearerToken(values[0])
			}
		}

		if token == "" {
			if required {
				return nil, status.Error(codes.Unauthenticated, "authentication required")
			}
			return handler(ctx, req)
		}
		if v == nil {
			return nil, status.Error(codes.Unauthenticated, "authentication unavailable")
		}

		userID, err := v.Verify(token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		return handler(auth.WithUserID(ctx, userID), req)
	}
}

// DefaultRequestTimeoutInterceptor applies timeout to calls whose client
// sent no deadline.
func DefaultRequestTimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return handler(ctx, req)
	}
}
