package intercepters

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type contextKey string

const RealIPKey contextKey = "real-ip"

// RealIPInterceptor stores the caller address in the context: the x-real-ip
// metadata when present, else the peer address.
func RealIPInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	if ip := callerIP(ctx); ip != "" {
		ctx = context.WithValue(ctx, RealIPKey, ip)
	}
	return handler(ctx, req)
}

// RealIP returns the address stored by RealIPInterceptor.
func RealIP(ctx context.Context) string {
	ip, _ := ctx.Value(RealIPKey).(string)
	return ip
}

// WithTrustedSubnet rejects calls to methods whose x-real-ip metadata lies
// outside subnet. An empty or malformed subnet rejects them all.
func WithTrustedSubnet(subnet string, methods ...string) grpc.UnaryServerInterceptor {
	guarded := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		guarded[m] = struct{}{}
	}

	var trusted *net.IPNet
	if subnet != "" {
		if _, ipNet, err := net.ParseCIDR(subnet); err == nil {
			trusted = ipNet
		}
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if _, ok := guarded[info.FullMethod]; !ok {
			return handler(ctx, req)
		}

		var ip net.IP
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ips := md.Get("x-real-ip"); len(ips) > 0 {
				ip = net.ParseIP(ips[0])
			}
		}

		if trusted == nil || ip == nil || !trusted.Contains(ip) {
			return nil, status.Error(codes.PermissionDenied, "caller is outside the trusted subnet")
		}

		return handler(ctx, req)
	}
}

func callerIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ips := md.Get("x-real-ip"); len(ips) > 0 && ips[0] != "" {
			return ips[0]
		}
	}

	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(p.Addr.String())
	if err != nil {
		return p.Addr.String()
	}
	return host
}
