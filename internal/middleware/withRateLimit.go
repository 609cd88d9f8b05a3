package middleware

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/atinyakov/neoqrc/internal/ratelimit"
)

// KeyFunc picks the rate limit bucket of a request.
type KeyFunc func(r *http.Request) string

// ByClientIP buckets requests by caller address.
func ByClientIP(r *http.Request) string {
	return "ip:" + ClientIP(r)
}

// ByOwner buckets requests by owner id, falling back to the caller address.
// It must run after WithJWT. Owner ids are free to mint, so routes keyed by
// owner are also limited ByClientIP.
func ByOwner(r *http.Request) string {
	if userID := UserIDFromContext(r.Context()); userID != "" {
		return "owner:" + userID
	}
	return ByClientIP(r)
}

// WithRateLimit rejects requests over rule with 429. Limiter failures let
// the request through.
func WithRateLimit(limiter ratelimit.Limiter, rule ratelimit.Rule, key KeyFunc, log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := limiter.Allow(r.Context(), key(r), rule)
			if err != nil {
				log.Warn("rate limiter unavailable", zap.String("rule", rule.Name), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

			if !decision.Allowed {
				retryAfter := int(math.Ceil(decision.ResetAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "Too many requests. Try again in " + ratelimit.FormatRemaining(decision.ResetAfter) + ".",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
