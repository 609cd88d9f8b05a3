package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/neoqrc/internal/app/service"
	"github.com/atinyakov/neoqrc/internal/middleware"
	"github.com/atinyakov/neoqrc/internal/models"
)

type PostHandler struct {
	service service.QRServiceIface
	logger  *zap.Logger
}

func NewPost(s service.QRServiceIface, l *zap.Logger) *PostHandler {
	return &PostHandler{
		service: s,
		logger:  l,
	}
}

// CreateQRCode handles POST requests creating static or dynamic QR codes.
func (h *PostHandler) CreateQRCode(res http.ResponseWriter, req *http.Request) {
	var request models.CreateQRRequest
	if err := decodeJSONBody(res, req, &request); err != nil {
		writeError(res, h.logger, err)
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), 10*time.Second)
	defer cancel()

	qr, err := h.service.CreateQRCode(ctx, middleware.UserIDFromContext(req.Context()), request, originOf(req))
	if err != nil {
		writeError(res, h.logger, err)
		return
	}

	h.logger.Info("qr code created", zap.String("id", qr.ID), zap.String("type", qr.Type))
	writeJSON(res, http.StatusCreated, qr)
}

// CaptureLead stores a lead submitted on the public form of a QR code.
func (h *PostHandler) CaptureLead(res http.ResponseWriter, req *http.Request) {
	var request models.LeadRequest
	if err := decodeJSONBody(res, req, &request); err != nil {
		writeError(res, h.logger, err)
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), 10*time.Second)
	defer cancel()

	lead, err := h.service.CaptureLead(ctx, chi.URLParam(req, "id"), request, originOf(req))
	if err != nil {
		writeError(res, h.logger, err)
		return
	}

	writeJSON(res, http.StatusCreated, lead)
}
