// Package grpc exposes the QR code service over gRPC and provides the client
// that resolves redirects through it.
package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/atinyakov/neoqrc/internal/app/service"
	"github.com/atinyakov/neoqrc/internal/intercepters"
	"github.com/atinyakov/neoqrc/internal/middleware"
	"github.com/atinyakov/neoqrc/internal/models"
	"github.com/atinyakov/neoqrc/internal/redirect"
	"github.com/atinyakov/neoqrc/internal/storage"
)

// Server wraps the gRPC server and dependencies.
type Server struct {
	grpcServer *grpc.Server
	addr       string
	logger     *zap.Logger
}

// Options carries the dependencies of the gRPC server.
type Options struct {
	Addr          string
	TrustedSubnet string
	Logger        *zap.Logger
	Service       service.QRServiceIface
	Auth          service.AuthIface
	Lookup        redirect.Lookup
}

// New creates a new gRPC server instance.
func New(opts Options) *Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(intercepters.InterceptorLogger(opts.Logger)),
			intercepters.RealIPInterceptor,
			intercepters.WithTrustedSubnet(opts.TrustedSubnet, MethodGetStats),
			intercepters.WithJWT(opts.Auth, MethodCreateQRCode, MethodUpdateQRCode, MethodListQRCodes),
		),
	)

	RegisterQRServiceServer(s, &qrServer{
		service: opts.Service,
		lookup:  opts.Lookup,
	})

	return &Server{
		grpcServer: s,
		addr:       opts.Addr,
		logger:     opts.Logger,
	}
}

// Start listens on the configured address and serves until stopped.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.logger.Error("gRPC server failed to listen", zap.Error(err))
		return err
	}

	return s.Serve(lis)
}

// Serve serves on lis until stopped.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	return s.grpcServer.Serve(lis)
}

// GracefulStop shuts down the server gracefully.
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}

type qrServer struct {
	service service.QRServiceIface
	lookup  redirect.Lookup
}

type resolveRequest struct {
	Code   string `json:"code"`
	Device string `json:"device"`
}

type updateRequest struct {
	ID string `json:"id"`
	models.UpdateQRRequest
}

func (s *qrServer) Resolve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req resolveRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	if req.Device == "" {
		req.Device = service.DeviceClass(userAgent(ctx))
	}

	target, err := s.lookup.Resolve(ctx, req.Code, req.Device)
	if err != nil {
		return nil, toStatus(err)
	}

	return toStruct(models.ResolveResponse{
		ShortCode:      target.ShortCode,
		DestinationURL: target.DestinationURL,
		QRCodeID:       target.QRCodeID,
	})
}

func (s *qrServer) CreateQRCode(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req models.CreateQRRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}

	origin := models.Origin{
		IP:        intercepters.RealIP(ctx),
		UserAgent: userAgent(ctx),
	}

	qr, err := s.service.CreateQRCode(ctx, ownerID(ctx), req, origin)
	if err != nil {
		return nil, toStatus(err)
	}

	return toStruct(qr)
}

func (s *qrServer) UpdateQRCode(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req updateRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	qr, err := s.service.UpdateQRCode(ctx, ownerID(ctx), req.ID, req.UpdateQRRequest)
	if err != nil {
		return nil, toStatus(err)
	}

	return toStruct(qr)
}

func (s *qrServer) ListQRCodes(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	items, err := s.service.ListQRCodes(ctx, ownerID(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	if items == nil {
		items = []models.QRCodeResponse{}
	}

	return toStruct(map[string]any{"items": items})
}

func (s *qrServer) GetStats(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	stats, err := s.service.GetStats(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	return toStruct(stats)
}

func ownerID(ctx context.Context) string {
	return middleware.UserIDFromContext(ctx)
}

func userAgent(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if ua := md.Get("user-agent"); len(ua) > 0 {
		return ua[0]
	}
	return ""
}

// toStatus converts service errors into gRPC statuses.
func toStatus(err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, redirect.ErrMissingCode),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrTermsNotAccepted):
		code = codes.InvalidArgument
	case errors.Is(err, redirect.ErrNotFound),
		errors.Is(err, storage.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, redirect.ErrLookupFailed):
		code = codes.Unavailable
	case errors.Is(err, service.ErrExhaustedAttempts):
		code = codes.ResourceExhausted
	case errors.Is(err, service.ErrForbidden):
		code = codes.PermissionDenied
	case errors.Is(err, service.ErrNotDynamic):
		code = codes.FailedPrecondition
	case errors.Is(err, storage.ErrConflict):
		code = codes.AlreadyExists
	}

	if code == codes.Internal {
		return status.Error(code, "internal error")
	}
	return status.Error(code, err.Error())
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func fromStruct(in *structpb.Struct, dst any) error {
	b, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return status.Error(codes.InvalidArgument, fmt.Sprintf("decode request: %v", err))
	}
	return nil
}
