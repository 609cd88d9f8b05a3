package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the QR code service.
const ServiceName = "neoqrc.v1.QRService"

// Full method names.
const (
	MethodResolve      = "/" + ServiceName + "/Resolve"
	MethodCreateQRCode = "/" + ServiceName + "/CreateQRCode"
	MethodUpdateQRCode = "/" + ServiceName + "/UpdateQRCode"
	MethodListQRCodes  = "/" + ServiceName + "/ListQRCodes"
	MethodGetStats     = "/" + ServiceName + "/GetStats"
)

// QRServiceServer is the server side of neoqrc.v1.QRService. Messages are
// protobuf Structs whose fields follow the JSON shape of the HTTP API.
type QRServiceServer interface {
	Resolve(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateQRCode(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateQRCode(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListQRCodes(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structMethod func(QRServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(QRServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(QRServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// QRServiceDesc describes neoqrc.v1.QRService for grpc.Server.RegisterService.
var QRServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*QRServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Resolve", Handler: unaryHandler(MethodResolve, QRServiceServer.Resolve)},
		{MethodName: "CreateQRCode", Handler: unaryHandler(MethodCreateQRCode, QRServiceServer.CreateQRCode)},
		{MethodName: "UpdateQRCode", Handler: unaryHandler(MethodUpdateQRCode, QRServiceServer.UpdateQRCode)},
		{MethodName: "ListQRCodes", Handler: unaryHandler(MethodListQRCodes, QRServiceServer.ListQRCodes)},
		{MethodName: "GetStats", Handler: unaryHandler(MethodGetStats, QRServiceServer.GetStats)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "neoqrc/v1/qr_service.proto",
}

// RegisterQRServiceServer registers srv on s.
func RegisterQRServiceServer(s grpc.ServiceRegistrar, srv QRServiceServer) {
	s.RegisterService(&QRServiceDesc, srv)
}
