package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/nguyenvuong1309/glow/internal/proto/glowv1"
)

const (
	CatalogServiceName  = glowv1.CatalogServiceName
	BookingsServiceName = glowv1.BookingsServiceName
)

// unary builds a grpc.MethodHandler for a glow.v1 method. The request
// arrives as a protobuf message and is decoded into Req before the
// interceptor chain runs; the handler's Resp is encoded back to protobuf.
func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	// Both lookups panic at init if the structs drift from the schema.
	reqDesc := glowv1.MustMessage(new(Req))
	glowv1.MustMessage(new(Resp))

	invoke := func(srv any, ctx context.Context, req *Req) (any, error) {
		resp, err := call(srv.(S), ctx, req)
		if err != nil {
			return nil, err
		}
		out, err := glowv1.Encode(resp)
		if err != nil {
			return nil, status.Error(codes.Internal, "internal error")
		}
		return out, nil
	}

	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			msg := dynamicpb.NewMessage(reqDesc)
			if err := dec(msg); err != nil {
				return nil, err
			}
			in := new(Req)
			if err := glowv1.Decode(msg, in); err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
			if interceptor == nil {
				return invoke(srv, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return invoke(srv, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

type CatalogServiceServer interface {
	ListCategories(context.Context, *ListCategoriesRequest) (*ListCategoriesResponse, error)
	ListServices(context.Context, *ListServicesRequest) (*ListServicesResponse, error)
	FilterServices(context.Context, *FilterServicesRequest) (*FilterServicesResponse, error)
	GetService(context.Context, *GetServiceRequest) (*GetServiceResponse, error)
	ListSlots(context.Context, *ListSlotsRequest) (*ListSlotsResponse, error)
}

var CatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(CatalogServiceName, "ListCategories", CatalogServiceServer.ListCategories),
		unary(CatalogServiceName, "ListServices", CatalogServiceServer.ListServices),
		unary(CatalogServiceName, "FilterServices", CatalogServiceServer.FilterServices),
		unary(CatalogServiceName, "GetService", CatalogServiceServer.GetService),
		unary(CatalogServiceName, "ListSlots", CatalogServiceServer.ListSlots),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "glow/v1/glow.proto",
}

func RegisterCatalogServiceServer(s grpc.ServiceRegistrar, srv CatalogServiceServer) {
	s.RegisterService(&CatalogServiceDesc, srv)
}

type BookingsServiceServer interface {
	CreateBooking(context.Context, *CreateBookingRequest) (*CreateBookingResponse, error)
	ListBookings(context.Context, *ListBookingsRequest) (*ListBookingsResponse, error)
	CancelBooking(context.Context, *CancelBookingRequest) (*CancelBookingResponse, error)
}

var BookingsServiceDesc = grpc.ServiceDesc{
	ServiceName: BookingsServiceName,
	HandlerType: (*BookingsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(BookingsServiceName, "CreateBooking", BookingsServiceServer.CreateBooking),
		unary(BookingsServiceName, "ListBookings", BookingsServiceServer.ListBookings),
		unary(BookingsServiceName, "CancelBooking", BookingsServiceServer.CancelBooking),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "glow/v1/glow.proto",
}

func RegisterBookingsServiceServer(s grpc.ServiceRegistrar, srv BookingsServiceServer) {
	s.RegisterService(&BookingsServiceDesc, srv)
}
