package grpc

import (
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/nguyenvuong1309/glow/internal/auth"
	"github.com/nguyenvuong1309/glow/internal/domain"
	"github.com/nguyenvuong1309/glow/internal/proto/glowv1"
	"github.com/nguyenvuong1309/glow/internal/service/bookings"
	"github.com/nguyenvuong1309/glow/internal/service/catalog"
)

func startTestServer(t *testing.T, cat catalogService, bk bookingsService, v tokenVerifier) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		DefaultRequestTimeoutInterceptor(time.Second),
		AuthInterceptor(v, true),
	))
	RegisterCatalogServiceServer(srv, NewCatalogServer(cat, slog.Default()))
	RegisterBookingsServiceServer(srv, NewBookingsServer(bk, slog.Default(), false))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServer_ProtobufRoundTrip(t *testing.T) {
	cat := &fakeCatalogService{
		filterAvailableFn: func(ctx context.Context, in catalog.FilterInput, quickCategory string) ([]domain.Service, error) {
			if len(in.Categories) != 2 || in.DateFrom != "2025-03-05" {
				t.Errorf("input = %+v", in)
			}
			return []domain.Service{{ID: uuid.MustParse(testServiceID), Name: "Gel Manicure", Category: "Nail", DurationMinutes: 60}}, nil
		},
	}
	conn := startTestServer(t, cat, &fakeBookingsService{}, nil)

	var resp FilterServicesResponse
	err := Invoke(context.Background(), conn, "/glow.v1.CatalogService/FilterServices",
		&FilterServicesRequest{Categories: []string{"Nail", "Facial"}, DateFrom: "2025-03-05"}, &resp)
	if err != nil {
		t.Fatalf("Invoke error: %v", err)
	}
	if len(resp.Services) != 1 || resp.Services[0].ID != testServiceID || resp.Services[0].DurationMinutes != 60 {
		t.Fatalf("services = %+v", resp.Services)
	}
}

func TestServer_SchemaOnlyClient(t *testing.T) {
	cat := &fakeCatalogService{
		getServiceFn: func(ctx context.Context, id uuid.UUID) (domain.Service, error) {
			return domain.Service{ID: id, Name: "Gel Manicure", Price: 35, DurationMinutes: 60}, nil
		},
	}
	conn := startTestServer(t, cat, &fakeBookingsService{}, nil)

	method := glowv1.File.Services().ByName("CatalogService").Methods().ByName("GetService")
	req := dynamicpb.NewMessage(method.Input())
	req.Set(method.Input().Fields().ByName("id"), protoreflect.ValueOfString(testServiceID))
	resp := dynamicpb.NewMessage(method.Output())

	if err := conn.Invoke(context.Background(), "/glow.v1.CatalogService/GetService", req, resp); err != nil {
		t.Fatalf("Invoke error: %v", err)
	}
	svc := resp.Get(method.Output().Fields().ByName("service")).Message()
	fields := svc.Descriptor().Fields()
	if svc.Get(fields.ByName("name")).String() != "Gel Manicure" || svc.Get(fields.ByName("duration_minutes")).Int() != 60 {
		t.Fatalf("service = %v", svc)
	}
}

func TestServiceDescsMatchSchema(t *testing.T) {
	for _, desc := range []grpc.ServiceDesc{CatalogServiceDesc, BookingsServiceDesc} {
		sd := glowv1.File.Services().ByName(protoreflect.FullName(desc.ServiceName).Name())
		if sd == nil {
			t.Fatalf("service %s not in schema", desc.ServiceName)
		}
		if sd.Methods().Len() != len(desc.Methods) {
			t.Fatalf("%s methods = %d, schema has %d", desc.ServiceName, len(desc.Methods), sd.Methods().Len())
		}
		for _, m := range desc.Methods {
			if sd.Methods().ByName(protoreflect.Name(m.MethodName)) == nil {
				t.Fatalf("%s.%s not in schema", desc.ServiceName, m.MethodName)
			}
		}
	}
}

func TestServer_BookingsRequireToken(t *testing.T) {
	v, err := auth.NewVerifier("secret")
	if err != nil {
		t.Fatalf("NewVerifier error: %v", err)
	}

	var gotUser string
	bk := &fakeBookingsService{
		listFn: func(ctx context.Context, userID string) ([]domain.Booking, error) {
			gotUser = userID
			return []domain.Booking{{UserID: userID, Status: domain.BookingStatusPending}}, nil
		},
	}
	conn := startTestServer(t, &fakeCatalogService{}, bk, v)

	var resp ListBookingsResponse
	err = Invoke(context.Background(), conn, "/glow.v1.BookingsService/ListBookings", &ListBookingsRequest{UserID: "u1"}, &resp)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("code = %s, want %s", status.Code(err), codes.Unauthenticated)
	}

	bad := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer nope")
	err = Invoke(bad, conn, "/glow.v1.BookingsService/ListBookings", &ListBookingsRequest{}, &resp)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("code = %s, want %s", status.Code(err), codes.Unauthenticated)
	}

	token, err := v.Issue("u42", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
	if err := Invoke(ctx, conn, "/glow.v1.BookingsService/ListBookings", &ListBookingsRequest{UserID: "u1"}, &resp); err != nil {
		t.Fatalf("Invoke error: %v", err)
	}
	if gotUser != "u42" {
		t.Fatalf("user = %q, want token subject u42", gotUser)
	}
	if len(resp.Bookings) != 1 || resp.Bookings[0].Status != "pending" {
		t.Fatalf("bookings = %+v", resp.Bookings)
	}
}

func TestServer_CreateBookingCarriesIdempotencyMetadata(t *testing.T) {
	v, _ := auth.NewVerifier("secret")
	token, _ := v.Issue("u1", time.Hour)

	var gotKey string
	bk := &fakeBookingsService{
		createFn: func(ctx context.Context, in bookings.CreateInput) (domain.Booking, error) {
			gotKey = in.IdempotencyKey
			return domain.Booking{ID: uuid.New(), UserID: in.UserID, Status: domain.BookingStatusPending}, nil
		},
	}
	conn := startTestServer(t, &fakeCatalogService{}, bk, v)

	ctx := metadata.AppendToOutgoingContext(context.Background(),
		"authorization", "Bearer "+token,
		"idempotency-key", "k-1",
	)
	var resp CreateBookingResponse
	err := Invoke(ctx, conn, "/glow.v1.BookingsService/CreateBooking", validCreateRequest(), &resp)
	if err != nil {
		t.Fatalf("Invoke error: %v", err)
	}
	if gotKey != "k-1" {
		t.Fatalf("idempotency key = %q, want k-1", gotKey)
	}
	if resp.Booking.UserID != "u1" {
		t.Fatalf("booking = %+v", resp.Booking)
	}
}

func TestDefaultRequestTimeoutInterceptor_SetsDeadline(t *testing.T) {
	interceptor := DefaultRequestTimeoutInterceptor(time.Minute)

	var hasDeadline bool
	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{}, func(ctx context.Context, req any) (any, error) {
		_, hasDeadline = ctx.Deadline()
		return nil, nil
	})
	if err != nil {
		t.Fatalf("interceptor error: %v", err)
	}
	if !hasDeadline {
		t.Fatalf("expected deadline")
	}
}
