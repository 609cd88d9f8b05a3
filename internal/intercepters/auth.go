package intercepters

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/atinyakov/neoqrc/internal/app/service"
	"github.com/atinyakov/neoqrc/internal/middleware"
)

// NewTokenTrailer names the trailer that carries a freshly issued owner token.
const NewTokenTrailer = "new-token"

// WithJWT identifies the owner of a call by its "authorization: Bearer"
// metadata. Calls without a token get a fresh owner id, whose token is sent
// back in the new-token trailer. When methods are given, other methods pass
// through untouched.
func WithJWT(auth service.AuthIface, methods ...string) grpc.UnaryServerInterceptor {
	guarded := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		guarded[m] = struct{}{}
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if len(guarded) > 0 {
			if _, ok := guarded[info.FullMethod]; !ok {
				return handler(ctx, req)
			}
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		var userID string
		authHeader := md.Get("authorization")

		if len(authHeader) == 0 {
			token, generatedID, err := auth.BuildJWTString()
			if err != nil {
				return nil, status.Errorf(codes.Internal, "failed to build JWT: %v", err)
			}
			userID = generatedID

			_ = grpc.SetTrailer(ctx, metadata.Pairs(NewTokenTrailer, token))
		} else {
			tokenString := strings.TrimPrefix(authHeader[0], "Bearer ")
			claims, err := auth.ParseRawJWT(tokenString)
			if err != nil {
				return nil, status.Errorf(codes.Unauthenticated, "invalid JWT: %v", err)
			}
			userID = claims.UserID
		}

		ctx = context.WithValue(ctx, middleware.UserIDKey, userID)

		return handler(ctx, req)
	}
}
