// Package server assembles the HTTP router of the QR code service.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/neoqrc/internal/app/handler"
	"github.com/atinyakov/neoqrc/internal/app/service"
	"github.com/atinyakov/neoqrc/internal/middleware"
	"github.com/atinyakov/neoqrc/internal/ratelimit"
	"github.com/atinyakov/neoqrc/internal/redirect"
)

// Options carries the dependencies of the router.
type Options struct {
	Logger        *zap.Logger
	Service       service.QRServiceIface
	Auth          service.AuthIface
	Lookup        redirect.Lookup
	Limiter       ratelimit.Limiter
	TrustedSubnet string
	// TrustedProxy is the CIDR whose X-Real-IP and X-Forwarded-For headers
	// are believed.
	TrustedProxy string
	// Countdown is the interstitial length in seconds.
	Countdown int
}

func Init(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	redirects := handler.NewRedirect(opts.Lookup, opts.Countdown, logger)
	get := handler.NewGet(opts.Service, logger)
	post := handler.NewPost(opts.Service, logger)
	patch := handler.NewPatch(opts.Service, logger)

	withJWT := middleware.WithJWT(opts.Auth, logger)

	r := chi.NewRouter()
	r.Use(middleware.WithRealIP(opts.TrustedProxy, logger))
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.WithGzipRequest)
	r.Use(middleware.WithGzipResponse)

	r.Get("/ping", get.PingDB)

	r.Get("/r/", redirects.Missing)
	r.Get("/r/{code}", redirects.Page)
	r.Get("/api/r/{code}", redirects.Resolve)

	r.Get("/api/qr/{id}", get.QRCode)
	r.Get("/api/qr/{id}/image.png", get.Image)
	r.With(
		middleware.WithRateLimit(opts.Limiter, ratelimit.CaptureLead, middleware.ByClientIP, logger),
	).Post("/api/qr/{id}/leads", post.CaptureLead)

	r.Group(func(r chi.Router) {
		r.Use(withJWT)

		r.With(
			middleware.WithRateLimit(opts.Limiter, ratelimit.CreateQR, middleware.ByClientIP, logger),
			middleware.WithRateLimit(opts.Limiter, ratelimit.CreateQR, middleware.ByOwner, logger),
		).Post("/api/qr", post.CreateQRCode)
		r.Get("/api/qr", get.QRCodesByUserID)
		r.Patch("/api/qr/{id}", patch.UpdateQRCode)
		r.Get("/api/qr/{id}/analytics", get.Analytics)
		r.Get("/api/leads", get.Leads)
	})

	r.With(middleware.WithSubnet(opts.TrustedSubnet, logger)).Get("/api/internal/stats", get.Stats)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
