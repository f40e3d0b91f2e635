// Package glowv1 holds the glow.v1 protobuf schema declared in
// proto/glow/v1/glow.proto. The descriptors are built at init and messages
// travel as dynamicpb messages, so the default gRPC proto codec carries them.
package glowv1

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	Package             = "glow.v1"
	CatalogServiceName  = Package + ".CatalogService"
	BookingsServiceName = Package + ".BookingsService"
)

// File is the glow/v1/glow.proto file descriptor.
var File = mustBuildFile()

// Message returns the descriptor for the message named after v's Go type.
func Message(v any) (protoreflect.MessageDescriptor, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("glowv1: %T is not a message struct", v)
	}
	md := File.Messages().ByName(protoreflect.Name(t.Name()))
	if md == nil {
		return nil, fmt.Errorf("glowv1: no message %s.%s", Package, t.Name())
	}
	return md, nil
}

// MustMessage is Message for package-level descriptors.
func MustMessage(v any) protoreflect.MessageDescriptor {
	md, err := Message(v)
	if err != nil {
		panic(err)
	}
	return md
}

func mustBuildFile() protoreflect.FileDescriptor {
	fd, err := protodesc.NewFile(fileProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("glowv1: build descriptor: %v", err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("glowv1: register descriptor: %v", err))
	}
	return fd
}

type field = descriptorpb.FieldDescriptorProto

func fileProto() *descriptorpb.FileDescriptorProto {
	timestamp := "." + string((&timestamppb.Timestamp{}).ProtoReflect().Descriptor().FullName())

	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String("glow/v1/glow.proto"),
		Package:    proto.String(Package),
		Dependency: []string{"google/protobuf/timestamp.proto"},
		Syntax:     proto.String("proto3"),
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/nguyenvuong1309/glow/internal/proto/glowv1;glowv1"),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			message("Category", str("id", 1), str("name", 2), str("icon", 3)),
			message("Service",
				str("id", 1),
				str("name", 2),
				str("category", 3),
				str("description", 4),
				double("price", 5),
				int32Field("duration_minutes", 6),
				str("image_url", 7),
				double("rating", 8),
			),
			message("Slot", str("date", 1), str("start", 2), str("end", 3)),
			message("Booking",
				str("id", 1),
				str("user_id", 2),
				str("service_id", 3),
				str("date", 4),
				str("time_slot", 5),
				str("status", 6),
				str("notes", 7),
				ref("created_at", 8, timestamp),
				ref("updated_at", 9, timestamp),
			),

			message("ListCategoriesRequest"),
			message("ListCategoriesResponse", repeated(ref("categories", 1, local("Category")))),
			message("ListServicesRequest", str("category", 1)),
			message("ListServicesResponse", repeated(ref("services", 1, local("Service")))),
			message("FilterServicesRequest",
				repeated(str("categories", 1)),
				str("date_from", 2),
				str("date_to", 3),
				str("time_from", 4),
				str("time_to", 5),
				str("quick_category", 6),
			),
			message("FilterServicesResponse", repeated(ref("services", 1, local("Service")))),
			message("GetServiceRequest", str("id", 1)),
			message("GetServiceResponse", ref("service", 1, local("Service"))),
			message("ListSlotsRequest", str("service_id", 1), str("date_from", 2), str("date_to", 3)),
			message("ListSlotsResponse", repeated(ref("slots", 1, local("Slot")))),

			message("CreateBookingRequest",
				str("user_id", 1),
				str("service_id", 2),
				str("date", 3),
				str("time_slot", 4),
				str("notes", 5),
			),
			message("CreateBookingResponse", ref("booking", 1, local("Booking"))),
			message("ListBookingsRequest", str("user_id", 1)),
			message("ListBookingsResponse", repeated(ref("bookings", 1, local("Booking")))),
			message("CancelBookingRequest", str("user_id", 1), str("booking_id", 2)),
			message("CancelBookingResponse", ref("booking", 1, local("Booking"))),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{
			service("CatalogService", "ListCategories", "ListServices", "FilterServices", "GetService", "ListSlots"),
			service("BookingsService", "CreateBooking", "ListBookings", "CancelBooking"),
		},
	}
}

func message(name string, fields ...*field) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

// service declares unary methods taking <Method>Request and returning
// <Method>Response.
func service(name string, methods ...string) *descriptorpb.ServiceDescriptorProto {
	sd := &descriptorpb.ServiceDescriptorProto{Name: proto.String(name)}
	for _, m := range methods {
		sd.Method = append(sd.Method, &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(m),
			InputType:  proto.String(local(m + "Request")),
			OutputType: proto.String(local(m + "Response")),
		})
	}
	return sd
}

func local(name string) string {
	return "." + Package + "." + name
}

func scalar(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *field {
	return &field{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func str(name string, number int32) *field {
	return scalar(name, number, descriptorpb.FieldDescriptorProto_TYPE_STRING)
}

func double(name string, number int32) *field {
	return scalar(name, number, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE)
}

func int32Field(name string, number int32) *field {
	return scalar(name, number, descriptorpb.FieldDescriptorProto_TYPE_INT32)
}

func ref(name string, number int32, typeName string) *field {
	f := scalar(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	f.TypeName = proto.String(typeName)
	return f
}

func repeated(f *field) *field {
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}
