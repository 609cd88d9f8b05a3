package service

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/atinyakov/neoqrc/internal/models"
)

const (
	// MaxNameLength bounds QR code and lead names.
	MaxNameLength = 100
	// MaxCampaignLength bounds campaign names.
	MaxCampaignLength = 100
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks req against its validate tags. Failures wrap
// ErrInvalidInput and name the first offending field.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	fe := fieldErrs[0]
	switch {
	case fe.Tag() == "required", fe.Tag() == "min":
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, fe.Field())
	case strings.HasSuffix(fe.Field(), "color"):
		return fmt.Errorf("%w: invalid color %q", ErrInvalidInput, fe.Value())
	case fe.Tag() == "max":
		return fmt.Errorf("%w: %s longer than %s characters", ErrInvalidInput, fe.Field(), fe.Param())
	case fe.Tag() == "http_url":
		return fmt.Errorf("%w: %s must be an absolute http or https url", ErrInvalidInput, fe.Field())
	case fe.Tag() == "email":
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return fmt.Errorf("%w: %s failed %s", ErrInvalidInput, fe.Field(), fe.Tag())
}

func normalizeCreate(req *models.CreateQRRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.URL = strings.TrimSpace(req.URL)
	req.FgColor = strings.ToLower(strings.TrimSpace(req.FgColor))
	req.BgColor = strings.ToLower(strings.TrimSpace(req.BgColor))
}

func normalizeUpdate(req *models.UpdateQRRequest) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if req.DestinationURL != nil {
		destination := strings.TrimSpace(*req.DestinationURL)
		req.DestinationURL = &destination
	}
}

func normalizeLead(req *models.LeadRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
}

// NormalizeText trims s and cuts it to maxLength runes.
func NormalizeText(s string, maxLength int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxLength {
		s = string([]rune(s)[:maxLength])
	}
	return s
}

// Escape HTML-escapes user text before it is stored.
func Escape(s string) string {
	return html.EscapeString(s)
}

// NormalizeColor lower-cases a colour, substituting fallback for empty input.
func NormalizeColor(color, fallback string) string {
	color = strings.ToLower(strings.TrimSpace(color))
	if color == "" {
		return fallback
	}
	return color
}

// Device classes.
const (
	DeviceMobile  = "mobile"
	DeviceDesktop = "desktop"
)

// DeviceClass classifies a User-Agent header as mobile or desktop.
func DeviceClass(userAgent string) string {
	if strings.Contains(userAgent, "Mobile") || strings.Contains(userAgent, "Android") {
		return DeviceMobile
	}
	return DeviceDesktop
}
