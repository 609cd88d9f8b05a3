package service

//go:generate mockgen -source=interface.go -destination=../../mocks/service_mock.go -package=mocks

import (
	"context"

	"github.com/atinyakov/neoqrc/internal/geo"
	"github.com/atinyakov/neoqrc/internal/models"
	"github.com/atinyakov/neoqrc/internal/storage"
)

// Storage is implemented by storage.MemoryStorage, storage.FileStorage and
// repository.Repository.
type Storage interface {
	CreateQRCode(context.Context, storage.QRCode) (*storage.QRCode, error)
	UpdateQRCode(context.Context, storage.QRCode) error
	FindQRCodeByID(context.Context, string) (*storage.QRCode, error)
	FindQRCodesByUserID(context.Context, string) ([]storage.QRCode, error)

	ShortCodeInUse(context.Context, string) (bool, error)
	InsertRedirect(context.Context, storage.Redirect) (*storage.Redirect, error)
	UpdateRedirect(context.Context, storage.Redirect) error
	FindActiveRedirect(context.Context, string) (*storage.Redirect, error)
	FindRedirectByQRCodeID(context.Context, string) (*storage.Redirect, error)

	RecordScans(context.Context, []storage.Scan) error
	FindScansByQRCodeID(context.Context, string) ([]storage.Scan, error)

	InsertLead(context.Context, storage.Lead) (*storage.Lead, error)
	FindLeadsByQRCodeIDs(context.Context, []string) ([]storage.Lead, error)

	GetStats(context.Context) (*storage.Stats, error)
	PingContext(context.Context) error
}

// QRServiceIface is the surface the HTTP and gRPC transports depend on.
type QRServiceIface interface {
	CreateQRCode(ctx context.Context, userID string, req models.CreateQRRequest, origin models.Origin) (*models.QRCodeResponse, error)
	UpdateQRCode(ctx context.Context, userID, id string, req models.UpdateQRRequest) (*models.QRCodeResponse, error)
	GetQRCode(ctx context.Context, id string) (*models.QRCodeResponse, error)
	ListQRCodes(ctx context.Context, userID string) ([]models.QRCodeResponse, error)
	RenderImage(ctx context.Context, id string, size int) ([]byte, error)
	Analytics(ctx context.Context, userID, id string) (*models.Analytics, error)
	CaptureLead(ctx context.Context, qrID string, req models.LeadRequest, origin models.Origin) (*storage.Lead, error)
	ListLeads(ctx context.Context, userID string) ([]storage.Lead, error)
	GetStats(ctx context.Context) (*models.StatsResponse, error)
	PingContext(ctx context.Context) error
}

// Locator resolves a client address to a location.
type Locator interface {
	Locate(ctx context.Context, ip string) (*geo.Location, error)
}

// CacheInvalidator drops a cached redirect after the owner changes it.
type CacheInvalidator interface {
	Delete(code string)
}
