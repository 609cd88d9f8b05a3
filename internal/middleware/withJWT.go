package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/neoqrc/internal/app/service"
)

// ContextKey is a custom type used for keys in the context.
type ContextKey string

// UserIDKey is the key used to store and retrieve the owner id from the context.
const UserIDKey ContextKey = "userID"

// TokenCookie names the cookie that carries the owner token.
const TokenCookie = "token"

// InjectUserID adds the owner id to the request context.
func InjectUserID(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), UserIDKey, userID)
	return req.WithContext(ctx)
}

// UserIDFromContext returns the owner id put there by WithJWT.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// WithJWT identifies the owner of a request by the token cookie or an
// "Authorization: Bearer" header. Requests without a valid token get a fresh
// owner id and a new cookie.
func WithJWT(auth service.AuthIface, log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := ""

			if token := bearerToken(r); token != "" {
				claims, err := auth.ParseRawJWT(token)
				if err != nil {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				userID = claims.UserID
			} else if cookie, err := r.Cookie(TokenCookie); err == nil {
				claims, err := auth.ParseClaims(cookie)
				if err != nil {
					log.Debug("discarding invalid owner token", zap.Error(err))
				} else {
					userID = claims.UserID
				}
			}

			if userID == "" {
				tokenString, generatedID, err := auth.BuildJWTString()
				if err != nil {
					log.Error("failed to issue owner token", zap.Error(err))
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     TokenCookie,
					Value:    tokenString,
					Expires:  time.Now().Add(service.TokenExp),
					HttpOnly: true,
					Path:     "/",
				})
				userID = generatedID
			}

			next.ServeHTTP(w, InjectUserID(r, userID))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
