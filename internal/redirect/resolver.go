// Package redirect resolves short codes to their destinations and drives the
// countdown that precedes the hard navigation to them.
package redirect

//go:generate mockgen -source=resolver.go -destination=../mocks/redirect_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/neoqrc/internal/shortcode"
	"github.com/atinyakov/neoqrc/internal/storage"
)

var (
	ErrMissingCode  = errors.New("short code is missing")
	ErrNotFound     = errors.New("redirect not found")
	ErrLookupFailed = errors.New("redirect lookup failed")
)

const (
	// DefaultLookupTimeout bounds a single store lookup.
	DefaultLookupTimeout = 3 * time.Second

	// ScanCampaign is the campaign name written on redirect scans.
	ScanCampaign = "Dynamic QR Code"

	// UnknownPlace fills scan geography; redirects do not geolocate.
	UnknownPlace = "Unknown"
)

// Target is a resolved redirect.
type Target struct {
	ShortCode      string
	DestinationURL string
	QRCodeID       string
}

// Lookup resolves a short code for a device class.
type Lookup interface {
	Resolve(ctx context.Context, code, device string) (*Target, error)
}

type Store interface {
	FindActiveRedirect(ctx context.Context, code string) (*storage.Redirect, error)
}

// Cache holds active redirects. Set must drop r when the cache was
// invalidated after generation was read.
type Cache interface {
	Get(code string) (*storage.Redirect, bool)
	Generation() uint64
	Set(r *storage.Redirect, generation uint64) bool
}

// ScanRecorder accepts scans without blocking.
type ScanRecorder interface {
	Record(scan storage.Scan)
}

// Resolver implements Lookup over a redirect store.
type Resolver struct {
	store    Store
	cache    Cache
	recorder ScanRecorder
	timeout  time.Duration
	logger   *zap.Logger
}

// NewResolver creates a Resolver. cache and recorder may be nil; a
// non-positive timeout selects DefaultLookupTimeout.
func NewResolver(store Store, cache Cache, recorder ScanRecorder, timeout time.Duration, logger *zap.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}

	return &Resolver{
		store:    store,
		cache:    cache,
		recorder: recorder,
		timeout:  timeout,
		logger:   logger,
	}
}

// Resolve returns the active redirect for code and records a scan for it.
// Malformed codes are reported as ErrNotFound without touching the store.
func (r *Resolver) Resolve(ctx context.Context, code, device string) (*Target, error) {
	if code == "" {
		return nil, ErrMissingCode
	}
	if !shortcode.IsValid(code) {
		return nil, ErrNotFound
	}

	rec, err := r.find(ctx, code)
	if err != nil {
		return nil, err
	}

	r.recordScan(rec, device)

	return &Target{
		ShortCode:      rec.ShortCode,
		DestinationURL: rec.DestinationURL,
		QRCodeID:       rec.QRCodeID,
	}, nil
}

func (r *Resolver) find(ctx context.Context, code string) (*storage.Redirect, error) {
	if r.cache != nil {
		if rec, ok := r.cache.Get(code); ok {
			return rec, nil
		}
	}

	var generation uint64
	if r.cache != nil {
		generation = r.cache.Generation()
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rec, err := r.store.FindActiveRedirect(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("redirect lookup failed", zap.String("short_code", code), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	if !rec.IsActive {
		return nil, ErrNotFound
	}

	if r.cache != nil && !r.cache.Set(rec, generation) {
		r.logger.Debug("redirect changed during lookup, not cached", zap.String("short_code", code))
	}
	return rec, nil
}

func (r *Resolver) recordScan(rec *storage.Redirect, device string) {
	if r.recorder == nil {
		return
	}
	if device == "" {
		device = "desktop"
	}

	r.recorder.Record(storage.Scan{
		QRCodeID:     rec.QRCodeID,
		CampaignName: ScanCampaign,
		City:         UnknownPlace,
		State:        UnknownPlace,
		Device:       device,
		ScannedAt:    time.Now().UTC(),
	})
}
