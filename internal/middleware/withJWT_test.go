package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/atinyakov/neoqrc/internal/app/service"
	"github.com/atinyakov/neoqrc/internal/mocks"
)

func TestInjectUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	userID := "abc123"
	newReq := InjectUserID(req, userID)

	require.Equal(t, userID, newReq.Context().Value(UserIDKey))
	require.Equal(t, userID, UserIDFromContext(newReq.Context()))
	require.Empty(t, UserIDFromContext(req.Context()))
}

func captureUserID(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestWithJWT(t *testing.T) {
	t.Run("no token cookie – generate new token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAuth := mocks.NewMockAuthIface(ctrl)

		mockAuth.EXPECT().
			BuildJWTString().
			Return("mock-token", "generated-user-id", nil)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		var gotUserID string
		WithJWT(mockAuth, zap.NewNop())(captureUserID(&gotUserID)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Result().StatusCode)
		assert.Equal(t, "generated-user-id", gotUserID)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, TokenCookie, cookies[0].Name)
		assert.Equal(t, "mock-token", cookies[0].Value)
	})

	t.Run("valid token cookie – parse claims", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAuth := mocks.NewMockAuthIface(ctrl)
		cookie := &http.Cookie{Name: TokenCookie, Value: "valid-token"}

		mockAuth.EXPECT().
			ParseClaims(gomock.Any()).
			Return(&service.Claims{UserID: "existing-user-id"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()

		var gotUserID string
		WithJWT(mockAuth, zap.NewNop())(captureUserID(&gotUserID)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Result().StatusCode)
		assert.Equal(t, "existing-user-id", gotUserID)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("invalid token cookie – reissue", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAuth := mocks.NewMockAuthIface(ctrl)

		mockAuth.EXPECT().ParseClaims(gomock.Any()).Return(nil, errors.New("invalid token"))
		mockAuth.EXPECT().BuildJWTString().Return("fresh-token", "fresh-user-id", nil)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "bad-token"})
		rec := httptest.NewRecorder()

		var gotUserID string
		WithJWT(mockAuth, zap.NewNop())(captureUserID(&gotUserID)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Result().StatusCode)
		assert.Equal(t, "fresh-user-id", gotUserID)
	})

	t.Run("bearer header", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAuth := mocks.NewMockAuthIface(ctrl)

		mockAuth.EXPECT().ParseRawJWT("header-token").Return(&service.Claims{UserID: "cli-user"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer header-token")
		rec := httptest.NewRecorder()

		var gotUserID string
		WithJWT(mockAuth, zap.NewNop())(captureUserID(&gotUserID)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Result().StatusCode)
		assert.Equal(t, "cli-user", gotUserID)
	})

	t.Run("invalid bearer header", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAuth := mocks.NewMockAuthIface(ctrl)

		mockAuth.EXPECT().ParseRawJWT("nope").Return(nil, errors.New("invalid token"))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called on error")
		})
		WithJWT(mockAuth, zap.NewNop())(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Result().StatusCode)
	})

	t.Run("token generation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockAuth := mocks.NewMockAuthIface(ctrl)

		mockAuth.EXPECT().
			BuildJWTString().
			Return("", "", errors.New("fail"))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called on error")
		})
		WithJWT(mockAuth, zap.NewNop())(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Result().StatusCode)
	})
}
