package storage

import (
	"errors"
	"fmt"
	"time"
)

// QR code types.
const (
	TypeStatic  = "static"
	TypeDynamic = "dynamic"
)

var (
	// ErrNotFound is returned when a record does not exist or, for redirects,
	// is not active.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("data conflict")

	// ErrShortCodeConflict is the ErrConflict of a short code that is already
	// taken. Allocation retries only on it.
	ErrShortCodeConflict = fmt.Errorf("short code taken: %w", ErrConflict)
)

// QRCode is a generated QR code owned by a user.
type QRCode struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	URL             string    `json:"url"`
	CampaignName    string    `json:"campaign_name"`
	FgColor         string    `json:"fg_color"`
	BgColor         string    `json:"bg_color"`
	Type            string    `json:"type"`
	IsActive        bool      `json:"is_active"`
	ShortCode       string    `json:"short_code,omitempty"`
	CreatedLocation string    `json:"created_location"`
	CreatedDevice   string    `json:"created_device"`
	CreatedAt       time.Time `json:"created_at"`
}

// Redirect maps a short code to the destination of a dynamic QR code.
type Redirect struct {
	ID             string    `json:"id"`
	ShortCode      string    `json:"short_code"`
	QRCodeID       string    `json:"qr_code_id"`
	DestinationURL string    `json:"destination_url"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Scan is a visit recorded when a redirect is resolved.
type Scan struct {
	ID           string    `json:"id"`
	QRCodeID     string    `json:"qr_code_id"`
	CampaignName string    `json:"campaign_name"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Device       string    `json:"device"`
	ScannedAt    time.Time `json:"scanned_at"`
}

// Lead is a contact captured by a scan-gated form.
type Lead struct {
	ID        string    `json:"id"`
	QRCodeID  string    `json:"qr_code_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Device    string    `json:"device"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats holds totals for the admin dashboard.
type Stats struct {
	QRCodes int
	Scans   int
	Leads   int
	Users   int
}
