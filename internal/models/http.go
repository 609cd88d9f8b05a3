// Package models defines the request and response data structures exchanged
// between clients and the QR code service.
package models

import "time"

// Origin describes who issued a request.
type Origin struct {
	// IP is the client address used for geolocation and rate limiting.
	IP string
	// UserAgent is used to classify the device.
	UserAgent string
}

// CreateQRRequest represents a request to generate a QR code.
type CreateQRRequest struct {
	// Name is a human label for the code.
	Name string `json:"name" validate:"required,max=100"`

	// URL is the destination. For dynamic codes it becomes the target of the
	// redirect; for static codes it is encoded directly.
	URL string `json:"url" validate:"required,http_url"`

	// CampaignName is cut to 100 characters rather than rejected.
	CampaignName string `json:"campaign_name,omitempty"`
	FgColor      string `json:"fg_color,omitempty" validate:"omitempty,hexcolor,len=4|len=7"`
	BgColor      string `json:"bg_color,omitempty" validate:"omitempty,hexcolor,len=4|len=7"`

	// Dynamic requests a short-code redirect so the destination can change later.
	Dynamic bool `json:"dynamic"`
}

// UpdateQRRequest carries the owner's changes. Nil fields are left untouched.
type UpdateQRRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitnil,min=1,max=100"`
	DestinationURL *string `json:"destination_url,omitempty" validate:"omitnil,required,http_url"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

// QRCodeResponse is the public view of a QR code.
type QRCodeResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	URL             string    `json:"url"`
	Type            string    `json:"type"`
	ShortCode       string    `json:"short_code,omitempty"`
	DestinationURL  string    `json:"destination_url,omitempty"`
	CampaignName    string    `json:"campaign_name,omitempty"`
	FgColor         string    `json:"fg_color"`
	BgColor         string    `json:"bg_color"`
	IsActive        bool      `json:"is_active"`
	CreatedLocation string    `json:"created_location"`
	CreatedDevice   string    `json:"created_device"`
	CreatedAt       time.Time `json:"created_at"`
}

// LeadRequest is submitted by the lead capture form.
type LeadRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Email         string `json:"email" validate:"required,email"`
	AcceptedTerms bool   `json:"accepted_terms"`
}

// Analytics aggregates the scans and leads of one QR code.
type Analytics struct {
	QRCodeID   string         `json:"qr_code_id"`
	TotalScans int            `json:"total_scans"`
	TotalLeads int            `json:"total_leads"`
	ByDevice   map[string]int `json:"by_device"`
	ByCity     map[string]int `json:"by_city"`
	// ByDay is keyed by YYYY-MM-DD in UTC.
	ByDay map[string]int `json:"by_day"`
}

// ResolveResponse is the JSON answer of a redirect resolution.
type ResolveResponse struct {
	ShortCode      string `json:"short_code"`
	DestinationURL string `json:"destination_url"`
	QRCodeID       string `json:"qr_code_id"`
}

// StatsResponse holds service totals for the admin dashboard.
type StatsResponse struct {
	QRCodes int `json:"qr_codes"`
	Scans   int `json:"scans"`
	Leads   int `json:"leads"`
	Users   int `json:"users"`
}

// ErrorResponse is the JSON body of a failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}
