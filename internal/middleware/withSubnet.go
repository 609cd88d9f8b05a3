package middleware

import (
	"net"
	"net/http"

	"go.uber.org/zap"
)

// WithSubnet lets through only requests whose client address (see
// WithRealIP) lies inside the trusted CIDR. An empty or malformed subnet
// rejects everything.
func WithSubnet(subnet string, log *zap.Logger) func(next http.Handler) http.Handler {
	var trusted *net.IPNet
	if subnet != "" {
		_, ipNet, err := net.ParseCIDR(subnet)
		if err != nil {
			log.Warn("invalid trusted subnet, internal endpoints are closed", zap.String("subnet", subnet), zap.Error(err))
		} else {
			trusted = ipNet
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := net.ParseIP(ClientIP(r))
			if trusted == nil || ip == nil || !trusted.Contains(ip) {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
