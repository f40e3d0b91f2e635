package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/nguyenvuong1309/glow/internal/proto/glowv1"
)

// Invoke calls a glow.v1 method over cc. req and resp are the request and
// response structs of this package; they travel as protobuf.
func Invoke(ctx context.Context, cc grpc.ClientConnInterface, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := glowv1.Encode(req)
	if err != nil {
		return err
	}
	md, err := glowv1.Message(resp)
	if err != nil {
		return err
	}
	out := dynamicpb.NewMessage(md)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return err
	}
	return glowv1.Decode(out, resp)
}
