package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/atinyakov/neoqrc/internal/app/service"
	"github.com/atinyakov/neoqrc/internal/middleware"
	"github.com/atinyakov/neoqrc/internal/mocks"
	"github.com/atinyakov/neoqrc/internal/models"
	"github.com/atinyakov/neoqrc/internal/storage"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateQRCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockQRServiceIface(ctrl)
	h := NewPost(mockService, zap.NewNop())

	tests := []struct {
		name         string
		body         string
		setup        func()
		expectedCode int
	}{
		{
			name: "dynamic code created",
			body: `{"name":"Flyer","url":"https://example.com","dynamic":true}`,
			setup: func() {
				mockService.EXPECT().
					CreateQRCode(gomock.Any(), "owner-1", models.CreateQRRequest{Name: "Flyer", URL: "https://example.com", Dynamic: true}, models.Origin{IP: "203.0.113.4", UserAgent: "curl/8"}).
					Return(&models.QRCodeResponse{ID: "qr-1", Type: storage.TypeDynamic, ShortCode: "abc123"}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "invalid input",
			body: `{"name":"","url":"ftp://example.com"}`,
			setup: func() {
				mockService.EXPECT().
					CreateQRCode(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, service.ErrInvalidInput)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "attempts exhausted",
			body: `{"name":"Flyer","url":"https://example.com","dynamic":true}`,
			setup: func() {
				mockService.EXPECT().
					CreateQRCode(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, service.ErrExhaustedAttempts)
			},
			expectedCode: http.StatusServiceUnavailable,
		},
		{
			name:         "unknown field",
			body:         `{"name":"Flyer","color":"red"}`,
			setup:        func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "empty body",
			body:         ``,
			setup:        func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "storage failure",
			body: `{"name":"Flyer","url":"https://example.com"}`,
			setup: func() {
				mockService.EXPECT().
					CreateQRCode(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("connection reset"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			req := jsonRequest(http.MethodPost, "/api/qr", tt.body)
			req.RemoteAddr = "203.0.113.4:5123"
			req.Header.Set("User-Agent", "curl/8")
			req = middleware.InjectUserID(req, "owner-1")
			w := httptest.NewRecorder()

			h.CreateQRCode(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}
}

func TestCreateQRCode_HidesInternalErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockQRServiceIface(ctrl)
	h := NewPost(mockService, zap.NewNop())

	mockService.EXPECT().
		CreateQRCode(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("pq: password authentication failed"))

	w := httptest.NewRecorder()
	h.CreateQRCode(w, jsonRequest(http.MethodPost, "/api/qr", `{"name":"a","url":"https://a.io"}`))

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), body.Error)
}

func TestCreateQRCode_WrongContentType(t *testing.T) {
	h := NewPost(mocks.NewMockQRServiceIface(gomock.NewController(t)), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/qr", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	h.CreateQRCode(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestUpdateQRCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockQRServiceIface(ctrl)
	h := NewPatch(mockService, zap.NewNop())

	active := false
	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{"updated", nil, http.StatusOK},
		{"not owner", service.ErrForbidden, http.StatusForbidden},
		{"static code", service.ErrNotDynamic, http.StatusConflict},
		{"unknown code", storage.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp *models.QRCodeResponse
			if tt.err == nil {
				resp = &models.QRCodeResponse{ID: "qr-1", IsActive: false}
			}
			mockService.EXPECT().
				UpdateQRCode(gomock.Any(), "owner-1", "qr-1", models.UpdateQRRequest{IsActive: &active}).
				Return(resp, tt.err)

			req := jsonRequest(http.MethodPatch, "/api/qr/qr-1", `{"is_active":false}`)
			req = middleware.InjectUserID(withURLParam(req, "id", "qr-1"), "owner-1")
			w := httptest.NewRecorder()

			h.UpdateQRCode(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestGetQRCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockQRServiceIface(ctrl)
	h := NewGet(mockService, zap.NewNop())

	mockService.EXPECT().GetQRCode(gomock.Any(), "qr-1").Return(&models.QRCodeResponse{ID: "qr-1", Name: "Flyer"}, nil)
	mockService.EXPECT().GetQRCode(gomock.Any(), "missing").Return(nil, storage.ErrNotFound)

	w := httptest.NewRecorder()
	h.QRCode(w, withURLParam(httptest.NewRequest(http.MethodGet, "/api/qr/qr-1", nil), "id", "qr-1"))
	require.Equal(t, http.StatusOK, w.Code)
	var got models.QRCodeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "Flyer", got.Name)

	w = httptest.NewRecorder()
	h.QRCode(w, withURLParam(httptest.NewRequest(http.MethodGet, "/api/qr/missing", nil), "id", "missing"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQRCodesByUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockQRServiceIface(ctrl)
	h := NewGet(mockService, zap.NewNop())

	t.Run("with codes", func(t *testing.T) {
		mockService.EXPECT().ListQRCodes(gomock.Any(), "owner-1").Return([]models.QRCodeResponse{{ID: "qr-1"}, {ID: "qr-2"}}, nil)

		w := httptest.NewRecorder()
		h.QRCodesByUserID(w, middleware.InjectUserID(httptest.NewRequest(http.MethodGet, "/api/qr", nil), "owner-1"))

		require.Equal(t, http.StatusOK, w.Code)
		var got []models.QRCodeResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Len(t, got, 2)
	})

	t.Run("no codes", func(t *testing.T) {
		mockService.EXPECT().ListQRCodes(gomock.Any(), "owner-2").Return(nil, nil)

		w := httptest.NewRecorder()
		h.QRCodesByUserID(w, middleware.InjectUserID(httptest.NewRequest(http.MethodGet, "/api/qr", nil), "owner-2"))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("no owner", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.QRCodesByUserID(w, httptest.NewRequest(http.MethodGet, "/api/qr", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockQRServiceIface(ctrl)
	h := NewGet(mockService, zap.NewNop())

	png := []byte("\x89PNG\r\n\x1a\n")

	t.Run("clamped size", func(t *testing.T) {
		mockService.EXPECT().RenderImage(gomock.Any(), "qr-1", 1024).Return(png, nil)

		w := httptest.NewRecorder()
		h.Image(w, withURLParam(httptest.NewRequest(http.MethodGet, "/api/qr/qr-1/image.png?size=5000", nil), "id", "qr-1"))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.True(t, bytes.Equal(png, w.Body.Bytes()))
	})

	t.Run("default size", func(t *testing.T) {
		mockService.EXPECT().RenderImage(gomock.Any(), "qr-1", 300).Return(png, nil)

		w := httptest.NewRecorder()
		h.Image(w, withURLParam(httptest.NewRequest(http.MethodGet, "/api/qr/qr-1/image.png", nil), "id", "qr-1"))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad size", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Image(w, withURLParam(httptest.NewRequest(http.MethodGet, "/api/qr/qr-1/image.png?size=big", nil), "id", "qr-1"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAnalytics(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockQRServiceIface(ctrl)
	h := NewGet(mockService, zap.NewNop())

	mockService.EXPECT().Analytics(gomock.Any(), "owner-1", "qr-1").
		Return(&models.Analytics{QRCodeID: "qr-1", TotalScans: 3, ByDevice: map[string]int{"mobile": 3}}, nil)
	mockService.EXPECT().Analytics(gomock.Any(), "intruder", "qr-1").Return(nil, service.ErrForbidden)

	w := httptest.NewRecorder()
	h.Analytics(w, middleware.InjectUserID(withURLParam(httptest.NewRequest(http.MethodGet, "/api/qr/qr-1/analytics", nil), "id", "qr-1"), "owner-1"))
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Analytics
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, 3, got.ByDevice["mobile"])

	w = httptest.NewRecorder()
	h.Analytics(w, middleware.InjectUserID(withURLParam(httptest.NewRequest(http.MethodGet, "/api/qr/qr-1/analytics", nil), "id", "qr-1"), "intruder"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCaptureLead(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockQRServiceIface(ctrl)
	h := NewPost(mockService, zap.NewNop())

	t.Run("captured", func(t *testing.T) {
		mockService.EXPECT().
			CaptureLead(gomock.Any(), "qr-1", models.LeadRequest{Name: "Ana", Email: "ana@example.com", AcceptedTerms: true}, gomock.Any()).
			Return(&storage.Lead{ID: "lead-1", QRCodeID: "qr-1"}, nil)

		req := jsonRequest(http.MethodPost, "/api/qr/qr-1/leads", `{"name":"Ana","email":"ana@example.com","accepted_terms":true}`)
		w := httptest.NewRecorder()
		h.CaptureLead(w, withURLParam(req, "id", "qr-1"))

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("terms not accepted", func(t *testing.T) {
		mockService.EXPECT().
			CaptureLead(gomock.Any(), "qr-1", gomock.Any(), gomock.Any()).
			Return(nil, service.ErrTermsNotAccepted)

		req := jsonRequest(http.MethodPost, "/api/qr/qr-1/leads", `{"name":"Ana","email":"ana@example.com"}`)
		w := httptest.NewRecorder()
		h.CaptureLead(w, withURLParam(req, "id", "qr-1"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeads(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockQRServiceIface(ctrl)
	h := NewGet(mockService, zap.NewNop())

	mockService.EXPECT().ListLeads(gomock.Any(), "owner-1").Return(nil, nil)

	w := httptest.NewRecorder()
	h.Leads(w, middleware.InjectUserID(httptest.NewRequest(http.MethodGet, "/api/leads", nil), "owner-1"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockQRServiceIface(ctrl)
	h := NewGet(mockService, zap.NewNop())

	mockService.EXPECT().GetStats(gomock.Any()).Return(&models.StatsResponse{QRCodes: 4, Scans: 10, Leads: 2, Users: 3}, nil)

	w := httptest.NewRecorder()
	h.Stats(w, httptest.NewRequest(http.MethodGet, "/api/internal/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"qr_codes":4,"scans":10,"leads":2,"users":3}`, w.Body.String())
}

func TestPingDB(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockQRServiceIface(ctrl)
	h := NewGet(mockService, zap.NewNop())

	t.Run("Success", func(t *testing.T) {
		mockService.EXPECT().PingContext(gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		h.PingDB(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failure", func(t *testing.T) {
		mockService.EXPECT().PingContext(gomock.Any()).Return(errors.New("db error"))

		w := httptest.NewRecorder()
		h.PingDB(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
