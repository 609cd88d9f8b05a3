package handler

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/neoqrc/internal/app/service"
	"github.com/atinyakov/neoqrc/internal/models"
	"github.com/atinyakov/neoqrc/internal/redirect"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	countdownPage = template.Must(template.ParseFS(templateFS, "templates/countdown.html"))
	errorPage     = template.Must(template.ParseFS(templateFS, "templates/error.html"))
)

type countdownData struct {
	Refresh     string
	Seconds     int
	Destination string
}

type errorData struct {
	Title   string
	Message string
}

// RedirectHandler serves the redirect links carried by dynamic QR codes.
type RedirectHandler struct {
	lookup    redirect.Lookup
	countdown int
	logger    *zap.Logger
}

// NewRedirect creates a RedirectHandler. A negative countdown selects
// redirect.DefaultCountdown.
func NewRedirect(lookup redirect.Lookup, countdown int, l *zap.Logger) *RedirectHandler {
	if countdown < 0 {
		countdown = redirect.DefaultCountdown
	}

	return &RedirectHandler{
		lookup:    lookup,
		countdown: countdown,
		logger:    l,
	}
}

// Page resolves the code and answers with the countdown interstitial, whose
// meta refresh performs the navigation. Its "Go now" link points at the
// destination itself so skipping the countdown is not a second visit. With
// ?go=1, or a zero countdown, it answers with a 302 instead.
func (h *RedirectHandler) Page(res http.ResponseWriter, req *http.Request) {
	code := chi.URLParam(req, "code")
	target, err := h.lookup.Resolve(req.Context(), code, service.DeviceClass(req.UserAgent()))
	if err != nil {
		h.renderError(res, err)
		return
	}

	if req.URL.Query().Get("go") == "1" || h.countdown == 0 {
		http.Redirect(res, req, target.DestinationURL, http.StatusFound)
		return
	}

	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.Header().Set("Cache-Control", "no-store")
	res.WriteHeader(http.StatusOK)

	err = countdownPage.Execute(res, countdownData{
		Refresh:     strconv.Itoa(h.countdown) + ";url=" + target.DestinationURL,
		Seconds:     h.countdown,
		Destination: target.DestinationURL,
	})
	if err != nil {
		h.logger.Error("failed to render countdown page", zap.Error(err))
	}
}

// Missing answers redirect links without a code.
func (h *RedirectHandler) Missing(res http.ResponseWriter, req *http.Request) {
	h.renderError(res, redirect.ErrMissingCode)
}

// Resolve answers with the resolved destination as JSON.
func (h *RedirectHandler) Resolve(res http.ResponseWriter, req *http.Request) {
	target, err := h.lookup.Resolve(req.Context(), chi.URLParam(req, "code"), service.DeviceClass(req.UserAgent()))
	if err != nil {
		writeError(res, h.logger, err)
		return
	}

	writeJSON(res, http.StatusOK, models.ResolveResponse{
		ShortCode:      target.ShortCode,
		DestinationURL: target.DestinationURL,
		QRCodeID:       target.QRCodeID,
	})
}

func (h *RedirectHandler) renderError(res http.ResponseWriter, err error) {
	status := errorStatus(err)
	data := errorData{Title: "Invalid QR Code", Message: "QR Code not found or deactivated."}

	switch {
	case errors.Is(err, redirect.ErrMissingCode):
		data.Message = "No redirect code was provided."
	case errors.Is(err, redirect.ErrNotFound):
	default:
		h.logger.Error("redirect failed", zap.Error(err))
		data.Title = "Redirect failed"
		data.Message = "The redirect could not be processed. Please try again."
	}

	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.WriteHeader(status)
	if err := errorPage.Execute(res, data); err != nil {
		h.logger.Error("failed to render error page", zap.Error(err))
	}
}
