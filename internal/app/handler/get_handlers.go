package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/neoqrc/internal/app/service"
	"github.com/atinyakov/neoqrc/internal/middleware"
	"github.com/atinyakov/neoqrc/internal/qrimage"
	"github.com/atinyakov/neoqrc/internal/storage"
)

type GetHandler struct {
	service service.QRServiceIface
	logger  *zap.Logger
}

func NewGet(s service.QRServiceIface, l *zap.Logger) *GetHandler {
	return &GetHandler{
		service: s,
		logger:  l,
	}
}

// QRCode returns the public details of a QR code.
func (h *GetHandler) QRCode(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	qr, err := h.service.GetQRCode(ctx, chi.URLParam(req, "id"))
	if err != nil {
		writeError(res, h.logger, err)
		return
	}

	writeJSON(res, http.StatusOK, qr)
}

// QRCodesByUserID lists the caller's QR codes, newest first.
func (h *GetHandler) QRCodesByUserID(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	userID := middleware.UserIDFromContext(req.Context())
	if userID == "" {
		http.Error(res, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	codes, err := h.service.ListQRCodes(ctx, userID)
	if err != nil {
		writeError(res, h.logger, err)
		return
	}

	if len(codes) == 0 {
		res.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(res, http.StatusOK, codes)
}

// Image renders the QR code as PNG. The size query parameter is clamped
// to the supported range.
func (h *GetHandler) Image(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	size := qrimage.DefaultSize
	if raw := req.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(res, h.logger, &malformedRequest{status: http.StatusBadRequest, msg: "size must be an integer"})
			return
		}
		size = qrimage.ClampSize(parsed)
	}

	png, err := h.service.RenderImage(ctx, chi.URLParam(req, "id"), size)
	if err != nil {
		writeError(res, h.logger, err)
		return
	}

	res.Header().Set("Content-Type", "image/png")
	res.Header().Set("Content-Length", strconv.Itoa(len(png)))
	res.WriteHeader(http.StatusOK)
	if _, err := res.Write(png); err != nil {
		h.logger.Warn("failed to write qr image", zap.Error(err))
	}
}

// Analytics returns the scan and lead aggregates of one of the caller's codes.
func (h *GetHandler) Analytics(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	analytics, err := h.service.Analytics(ctx, middleware.UserIDFromContext(req.Context()), chi.URLParam(req, "id"))
	if err != nil {
		writeError(res, h.logger, err)
		return
	}

	writeJSON(res, http.StatusOK, analytics)
}

// Leads lists the leads captured by the caller's codes.
func (h *GetHandler) Leads(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	userID := middleware.UserIDFromContext(req.Context())
	if userID == "" {
		http.Error(res, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	leads, err := h.service.ListLeads(ctx, userID)
	if err != nil {
		writeError(res, h.logger, err)
		return
	}
	if leads == nil {
		leads = []storage.Lead{}
	}

	writeJSON(res, http.StatusOK, leads)
}

func (h *GetHandler) Stats(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	stats, err := h.service.GetStats(ctx)
	if err != nil {
		writeError(res, h.logger, err)
		return
	}

	writeJSON(res, http.StatusOK, stats)
}

func (h *GetHandler) PingDB(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()
	if err := h.service.PingContext(ctx); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}
