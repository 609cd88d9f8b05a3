package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/atinyakov/neoqrc/internal/redirect"
)

// Client calls neoqrc.v1.QRService. It implements redirect.Lookup.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Dial opens a plaintext connection to addr.
func Dial(addr string) (*grpc.ClientConn, error) {
	return grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

// Resolve asks the server for the destination of code.
func (c *Client) Resolve(ctx context.Context, code, device string) (*redirect.Target, error) {
	in, err := structpb.NewStruct(map[string]any{
		"code":   code,
		"device": device,
	})
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodResolve, in, out); err != nil {
		switch status.Code(err) {
		case codes.InvalidArgument:
			return nil, redirect.ErrMissingCode
		case codes.NotFound:
			return nil, redirect.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", redirect.ErrLookupFailed, err)
	}

	fields := out.GetFields()
	return &redirect.Target{
		ShortCode:      fields["short_code"].GetStringValue(),
		DestinationURL: fields["destination_url"].GetStringValue(),
		QRCodeID:       fields["qr_code_id"].GetStringValue(),
	}, nil
}
