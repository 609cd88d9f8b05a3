package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ClientIPKey stores the caller address resolved by WithRealIP.
const ClientIPKey ContextKey = "clientIP"

// ClientIP returns the caller address resolved by WithRealIP, or the
// connection address when the request did not pass through it.
func ClientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(ClientIPKey).(string); ok && ip != "" {
		return ip
	}
	return remoteHost(r)
}

// WithRealIP resolves the caller address once per request. X-Real-IP and
// X-Forwarded-For are honoured only when the connection comes from the
// trusted proxy CIDR; otherwise the connection address is used as is.
func WithRealIP(trustedProxy string, log *zap.Logger) func(next http.Handler) http.Handler {
	var proxy *net.IPNet
	if trustedProxy != "" {
		_, ipNet, err := net.ParseCIDR(trustedProxy)
		if err != nil {
			log.Warn("invalid trusted proxy, forwarded headers are ignored", zap.String("proxy", trustedProxy), zap.Error(err))
		} else {
			proxy = ipNet
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := remoteHost(r)
			if peer := net.ParseIP(ip); proxy != nil && peer != nil && proxy.Contains(peer) {
				if forwarded := forwardedIP(r); forwarded != "" {
					ip = forwarded
				}
			}

			ctx := context.WithValue(r.Context(), ClientIPKey, ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func forwardedIP(r *http.Request) string {
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return ""
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
