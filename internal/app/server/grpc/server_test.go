package grpc_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	grpcserver "github.com/atinyakov/neoqrc/internal/app/server/grpc"
	"github.com/atinyakov/neoqrc/internal/app/service"
	"github.com/atinyakov/neoqrc/internal/intercepters"
	"github.com/atinyakov/neoqrc/internal/mocks"
	"github.com/atinyakov/neoqrc/internal/models"
	"github.com/atinyakov/neoqrc/internal/redirect"
)

type deps struct {
	service *mocks.MockQRServiceIface
	auth    *mocks.MockAuthIface
	lookup  *mocks.MockLookup
}

func startServer(t *testing.T) (*grpc.ClientConn, deps) {
	t.Helper()

	ctrl := gomock.NewController(t)
	d := deps{
		service: mocks.NewMockQRServiceIface(ctrl),
		auth:    mocks.NewMockAuthIface(ctrl),
		lookup:  mocks.NewMockLookup(ctrl),
	}

	srv := grpcserver.New(grpcserver.Options{
		TrustedSubnet: "10.0.0.0/24",
		Logger:        zap.NewNop(),
		Service:       d.service,
		Auth:          d.auth,
		Lookup:        d.lookup,
	})

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.GracefulStop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn, d
}

func TestClient_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		lookupErr  error
		wantErr    error
		wantTarget *redirect.Target
	}{
		{
			name: "resolved",
			wantTarget: &redirect.Target{
				ShortCode:      "Ab3dE7q",
				DestinationURL: "https://example.com",
				QRCodeID:       "qr-1",
			},
		},
		{
			name:      "not found",
			lookupErr: redirect.ErrNotFound,
			wantErr:   redirect.ErrNotFound,
		},
		{
			name:      "missing code",
			lookupErr: redirect.ErrMissingCode,
			wantErr:   redirect.ErrMissingCode,
		},
		{
			name:      "store unavailable",
			lookupErr: errors.New("connection refused"),
			wantErr:   redirect.ErrLookupFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, d := startServer(t)

			d.lookup.EXPECT().
				Resolve(gomock.Any(), "Ab3dE7q", "mobile").
				Return(tt.wantTarget, tt.lookupErr)

			client := grpcserver.NewClient(conn)
			target, err := client.Resolve(context.Background(), "Ab3dE7q", "mobile")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, target)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTarget, target)
		})
	}
}

func TestCreateQRCode_IssuesToken(t *testing.T) {
	conn, d := startServer(t)

	d.auth.EXPECT().BuildJWTString().Return("fresh-token", "user-1", nil)
	d.service.EXPECT().
		CreateQRCode(gomock.Any(), "user-1", models.CreateQRRequest{
			Name:    "Flyer",
			URL:     "https://example.com",
			Dynamic: true,
		}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, req models.CreateQRRequest, origin models.Origin) (*models.QRCodeResponse, error) {
			assert.Equal(t, "203.0.113.9", origin.IP)
			return &models.QRCodeResponse{
				ID:             "qr-1",
				Name:           req.Name,
				Type:           "dynamic",
				ShortCode:      "Ab3dE7q",
				DestinationURL: req.URL,
				IsActive:       true,
			}, nil
		})

	in, err := structpb.NewStruct(map[string]any{
		"name":    "Flyer",
		"url":     "https://example.com",
		"dynamic": true,
	})
	require.NoError(t, err)

	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-real-ip", "203.0.113.9")
	var trailer metadata.MD
	out := new(structpb.Struct)
	err = conn.Invoke(ctx, grpcserver.MethodCreateQRCode, in, out, grpc.Trailer(&trailer))
	require.NoError(t, err)

	assert.Equal(t, "qr-1", out.GetFields()["id"].GetStringValue())
	assert.Equal(t, "Ab3dE7q", out.GetFields()["short_code"].GetStringValue())
	assert.Equal(t, []string{"fresh-token"}, trailer.Get(intercepters.NewTokenTrailer))
}

func TestUpdateQRCode(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		svcErr   error
		wantCode codes.Code
	}{
		{
			name:     "owner deactivates",
			input:    map[string]any{"id": "qr-1", "is_active": false},
			wantCode: codes.OK,
		},
		{
			name:     "stranger is rejected",
			input:    map[string]any{"id": "qr-1", "is_active": false},
			svcErr:   service.ErrForbidden,
			wantCode: codes.PermissionDenied,
		},
		{
			name:     "static code has no destination",
			input:    map[string]any{"id": "qr-1", "destination_url": "https://example.org"},
			svcErr:   service.ErrNotDynamic,
			wantCode: codes.FailedPrecondition,
		},
		{
			name:     "missing id",
			input:    map[string]any{"is_active": false},
			wantCode: codes.InvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, d := startServer(t)

			d.auth.EXPECT().ParseRawJWT("token-abc").Return(&service.Claims{UserID: "user-1"}, nil)
			if id, ok := tt.input["id"]; ok {
				d.service.EXPECT().
					UpdateQRCode(gomock.Any(), "user-1", id, gomock.Any()).
					Return(&models.QRCodeResponse{ID: "qr-1"}, tt.svcErr)
			}

			in, err := structpb.NewStruct(tt.input)
			require.NoError(t, err)

			ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer token-abc")
			err = conn.Invoke(ctx, grpcserver.MethodUpdateQRCode, in, new(structpb.Struct))
			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
}

func TestListQRCodes(t *testing.T) {
	conn, d := startServer(t)

	d.auth.EXPECT().ParseRawJWT("token-abc").Return(&service.Claims{UserID: "user-1"}, nil)
	d.service.EXPECT().ListQRCodes(gomock.Any(), "user-1").Return(nil, nil)

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer token-abc")
	out := new(structpb.Struct)
	err := conn.Invoke(ctx, grpcserver.MethodListQRCodes, &structpb.Struct{}, out)
	require.NoError(t, err)

	items := out.GetFields()["items"].GetListValue()
	require.NotNil(t, items)
	assert.Empty(t, items.GetValues())
}

func TestGetStats(t *testing.T) {
	tests := []struct {
		name     string
		realIP   string
		wantCode codes.Code
	}{
		{name: "trusted caller", realIP: "10.0.0.7", wantCode: codes.OK},
		{name: "outside subnet", realIP: "192.168.1.1", wantCode: codes.PermissionDenied},
		{name: "no address", wantCode: codes.PermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, d := startServer(t)

			if tt.wantCode == codes.OK {
				d.service.EXPECT().GetStats(gomock.Any()).Return(&models.StatsResponse{
					QRCodes: 4,
					Scans:   9,
					Leads:   2,
					Users:   3,
				}, nil)
			}

			ctx := context.Background()
			if tt.realIP != "" {
				ctx = metadata.AppendToOutgoingContext(ctx, "x-real-ip", tt.realIP)
			}

			out := new(structpb.Struct)
			err := conn.Invoke(ctx, grpcserver.MethodGetStats, &structpb.Struct{}, out)
			require.Equal(t, tt.wantCode, status.Code(err))
			if tt.wantCode == codes.OK {
				assert.Equal(t, float64(9), out.GetFields()["scans"].GetNumberValue())
			}
		})
	}
}
