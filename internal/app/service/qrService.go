package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/neoqrc/internal/geo"
	"github.com/atinyakov/neoqrc/internal/models"
	"github.com/atinyakov/neoqrc/internal/qrimage"
	"github.com/atinyakov/neoqrc/internal/shortcode"
	"github.com/atinyakov/neoqrc/internal/storage"
)

// Fallback locations when geolocation is unavailable.
const (
	RemoteLocation = "Remote, Global"
	UnknownPlace   = "Unknown"
)

type QRService struct {
	repository Storage
	allocator  *Allocator
	locator    Locator
	cache      CacheInvalidator
	logger     *zap.Logger
	baseURL    string
}

// NewQRService wires the QR code service. locator and cache may be nil.
func NewQRService(repo Storage, allocator *Allocator, locator Locator, cache CacheInvalidator, logger *zap.Logger, baseURL string) *QRService {
	return &QRService{
		repository: repo,
		allocator:  allocator,
		locator:    locator,
		cache:      cache,
		logger:     logger,
		baseURL:    baseURL,
	}
}

func (s *QRService) PingContext(ctx context.Context) error {
	return s.repository.PingContext(ctx)
}

// CreateQRCode stores a static code, or a dynamic code together with its
// redirect record. A dynamic code's url is its redirect link.
func (s *QRService) CreateQRCode(ctx context.Context, userID string, req models.CreateQRRequest, origin models.Origin) (*models.QRCodeResponse, error) {
	normalizeCreate(&req)
	if err := Validate(req); err != nil {
		return nil, err
	}
	destination := req.URL

	qr := storage.QRCode{
		UserID:          userID,
		Name:            Escape(req.Name),
		URL:             destination,
		CampaignName:    Escape(NormalizeText(req.CampaignName, MaxCampaignLength)),
		FgColor:         NormalizeColor(req.FgColor, qrimage.DefaultForeground),
		BgColor:         NormalizeColor(req.BgColor, qrimage.DefaultBackground),
		Type:            storage.TypeStatic,
		IsActive:        true,
		CreatedLocation: s.creationLocation(ctx, origin.IP),
		CreatedDevice:   DeviceClass(origin.UserAgent),
	}

	if !req.Dynamic {
		created, err := s.repository.CreateQRCode(ctx, qr)
		if err != nil {
			return nil, err
		}
		return s.toResponse(created, ""), nil
	}

	qr.Type = storage.TypeDynamic
	qr.URL = ""
	created, err := s.repository.CreateQRCode(ctx, qr)
	if err != nil {
		return nil, err
	}

	code, err := s.allocator.Issue(ctx, func(ctx context.Context, code string) error {
		_, err := s.repository.InsertRedirect(ctx, storage.Redirect{
			ShortCode:      code,
			QRCodeID:       created.ID,
			DestinationURL: destination,
			IsActive:       true,
		})
		return err
	})
	if err != nil {
		s.logger.Error("short code issuance failed", zap.String("qr_code_id", created.ID), zap.Error(err))
		created.IsActive = false
		if uerr := s.repository.UpdateQRCode(ctx, *created); uerr != nil {
			s.logger.Error("failed to deactivate orphan qr code", zap.String("qr_code_id", created.ID), zap.Error(uerr))
		}
		return nil, err
	}

	created.ShortCode = code
	created.URL = shortcode.BuildRedirectURL(s.baseURL, code)
	if err := s.repository.UpdateQRCode(ctx, *created); err != nil {
		return nil, err
	}

	s.logger.Info("dynamic qr code created", zap.String("qr_code_id", created.ID), zap.String("short_code", code))
	return s.toResponse(created, destination), nil
}

// UpdateQRCode applies the owner's changes. Activation toggles the QR code
// and its redirect together.
func (s *QRService) UpdateQRCode(ctx context.Context, userID, id string, req models.UpdateQRRequest) (*models.QRCodeResponse, error) {
	normalizeUpdate(&req)
	if err := Validate(req); err != nil {
		return nil, err
	}

	qr, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		qr.Name = Escape(*req.Name)
	}

	var redirect *storage.Redirect
	if qr.Type == storage.TypeDynamic {
		redirect, err = s.repository.FindRedirectByQRCodeID(ctx, qr.ID)
		if err != nil {
			return nil, fmt.Errorf("find redirect: %w", err)
		}
	}

	var previous storage.Redirect
	if redirect != nil {
		previous = *redirect
	}

	if req.DestinationURL != nil {
		if redirect == nil {
			return nil, ErrNotDynamic
		}
		redirect.DestinationURL = *req.DestinationURL
	}

	if req.IsActive != nil {
		qr.IsActive = *req.IsActive
		if redirect != nil {
			redirect.IsActive = *req.IsActive
		}
	}

	if redirect != nil {
		if err := s.repository.UpdateRedirect(ctx, *redirect); err != nil {
			return nil, err
		}
		s.invalidate(redirect.ShortCode)
	}
	if err := s.repository.UpdateQRCode(ctx, *qr); err != nil {
		if redirect != nil {
			s.restoreRedirect(ctx, previous)
		}
		return nil, err
	}

	destination := ""
	if redirect != nil {
		destination = redirect.DestinationURL
	}
	return s.toResponse(qr, destination), nil
}

// restoreRedirect puts back a redirect whose QR code update failed.
func (s *QRService) restoreRedirect(ctx context.Context, previous storage.Redirect) {
	if err := s.repository.UpdateRedirect(ctx, previous); err != nil {
		s.logger.Error("failed to roll back redirect",
			zap.String("qr_code_id", previous.QRCodeID),
			zap.String("short_code", previous.ShortCode),
			zap.Error(err),
		)
	}
	s.invalidate(previous.ShortCode)
}

func (s *QRService) invalidate(code string) {
	if s.cache != nil {
		s.cache.Delete(code)
	}
}

func (s *QRService) GetQRCode(ctx context.Context, id string) (*models.QRCodeResponse, error) {
	qr, err := s.repository.FindQRCodeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(qr, s.destinationOf(ctx, qr)), nil
}

func (s *QRService) ListQRCodes(ctx context.Context, userID string) ([]models.QRCodeResponse, error) {
	codes, err := s.repository.FindQRCodesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.QRCodeResponse, 0, len(codes))
	for i := range codes {
		result = append(result, *s.toResponse(&codes[i], s.destinationOf(ctx, &codes[i])))
	}
	return result, nil
}

func (s *QRService) RenderImage(ctx context.Context, id string, size int) ([]byte, error) {
	qr, err := s.repository.FindQRCodeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return qrimage.Render(qr.URL, qrimage.Options{
		Size:       size,
		Foreground: qr.FgColor,
		Background: qr.BgColor,
	})
}

// Analytics aggregates scans and leads of a QR code owned by userID.
func (s *QRService) Analytics(ctx context.Context, userID, id string) (*models.Analytics, error) {
	qr, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	scans, err := s.repository.FindScansByQRCodeID(ctx, qr.ID)
	if err != nil {
		return nil, err
	}
	leads, err := s.repository.FindLeadsByQRCodeIDs(ctx, []string{qr.ID})
	if err != nil {
		return nil, err
	}

	result := &models.Analytics{
		QRCodeID:   qr.ID,
		TotalScans: len(scans),
		TotalLeads: len(leads),
		ByDevice:   make(map[string]int),
		ByCity:     make(map[string]int),
		ByDay:      make(map[string]int),
	}
	for _, scan := range scans {
		result.ByDevice[scan.Device]++
		result.ByCity[scan.City]++
		result.ByDay[scan.ScannedAt.UTC().Format("2006-01-02")]++
	}

	return result, nil
}

// CaptureLead stores a contact left on the public form of a QR code.
func (s *QRService) CaptureLead(ctx context.Context, qrID string, req models.LeadRequest, origin models.Origin) (*storage.Lead, error) {
	if !req.AcceptedTerms {
		return nil, ErrTermsNotAccepted
	}

	normalizeLead(&req)
	if err := Validate(req); err != nil {
		return nil, err
	}

	qr, err := s.repository.FindQRCodeByID(ctx, qrID)
	if err != nil {
		return nil, err
	}
	if !qr.IsActive {
		return nil, storage.ErrNotFound
	}

	lead := storage.Lead{
		QRCodeID: qr.ID,
		Name:     Escape(req.Name),
		Email:    req.Email,
		City:     UnknownPlace,
		State:    UnknownPlace,
		Device:   DeviceClass(origin.UserAgent),
	}
	if loc := s.locate(ctx, origin.IP); loc != nil {
		if loc.City != "" {
			lead.City = loc.City
		}
		if loc.Region != "" {
			lead.State = loc.Region
		}
	}

	return s.repository.InsertLead(ctx, lead)
}

// ListLeads returns the leads captured by every QR code of userID.
func (s *QRService) ListLeads(ctx context.Context, userID string) ([]storage.Lead, error) {
	codes, err := s.repository.FindQRCodesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, nil
	}

	ids := make([]string, len(codes))
	for i, qr := range codes {
		ids[i] = qr.ID
	}

	return s.repository.FindLeadsByQRCodeIDs(ctx, ids)
}

func (s *QRService) GetStats(ctx context.Context) (*models.StatsResponse, error) {
	stats, err := s.repository.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	return &models.StatsResponse{
		QRCodes: stats.QRCodes,
		Scans:   stats.Scans,
		Leads:   stats.Leads,
		Users:   stats.Users,
	}, nil
}

func (s *QRService) owned(ctx context.Context, userID, id string) (*storage.QRCode, error) {
	qr, err := s.repository.FindQRCodeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if userID == "" || qr.UserID != userID {
		return nil, ErrForbidden
	}
	return qr, nil
}

func (s *QRService) destinationOf(ctx context.Context, qr *storage.QRCode) string {
	if qr.Type != storage.TypeDynamic {
		return ""
	}

	redirect, err := s.repository.FindRedirectByQRCodeID(ctx, qr.ID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("redirect lookup failed", zap.String("qr_code_id", qr.ID), zap.Error(err))
		}
		return ""
	}
	return redirect.DestinationURL
}

func (s *QRService) creationLocation(ctx context.Context, ip string) string {
	loc := s.locate(ctx, ip)
	if loc == nil || loc.String() == "" {
		return RemoteLocation
	}
	return loc.String()
}

func (s *QRService) locate(ctx context.Context, ip string) *geo.Location {
	if s.locator == nil {
		return nil
	}

	loc, err := s.locator.Locate(ctx, ip)
	if err != nil {
		s.logger.Debug("geolocation unavailable", zap.String("ip", ip), zap.Error(err))
		return nil
	}
	return loc
}

func (s *QRService) toResponse(qr *storage.QRCode, destination string) *models.QRCodeResponse {
	return &models.QRCodeResponse{
		ID:              qr.ID,
		Name:            qr.Name,
		URL:             qr.URL,
		Type:            qr.Type,
		ShortCode:       qr.ShortCode,
		DestinationURL:  destination,
		CampaignName:    qr.CampaignName,
		FgColor:         qr.FgColor,
		BgColor:         qr.BgColor,
		IsActive:        qr.IsActive,
		CreatedLocation: qr.CreatedLocation,
		CreatedDevice:   qr.CreatedDevice,
		CreatedAt:       qr.CreatedAt,
	}
}
