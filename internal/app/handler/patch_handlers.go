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

type PatchHandler struct {
	service service.QRServiceIface
	logger  *zap.Logger
}

func NewPatch(s service.QRServiceIface, l *zap.Logger) *PatchHandler {
	return &PatchHandler{
		service: s,
		logger:  l,
	}
}

// UpdateQRCode applies the owner's changes to a QR code.
func (h *PatchHandler) UpdateQRCode(res http.ResponseWriter, req *http.Request) {
	var request models.UpdateQRRequest
	if err := decodeJSONBody(res, req, &request); err != nil {
		writeError(res, h.logger, err)
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	qr, err := h.service.UpdateQRCode(ctx, middleware.UserIDFromContext(req.Context()), chi.URLParam(req, "id"), request)
	if err != nil {
		writeError(res, h.logger, err)
		return
	}

	writeJSON(res, http.StatusOK, qr)
}
