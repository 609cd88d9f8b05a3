// Package storage holds the record types of the service together with the
// in-memory and file-backed stores used when no database is configured.
package storage

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage keeps every record in process memory.
type MemoryStorage struct {
	mu sync.RWMutex

	qrCodes   map[string]QRCode
	redirects map[string]Redirect // keyed by short code
	byQRCode  map[string]string   // qr code id -> short code
	scans     []Scan
	leads     []Lead

	// journal, when set, durably records a write before it is applied.
	journal func(kind string, values ...any) error
}

func CreateMemoryStorage() (*MemoryStorage, error) {
	return &MemoryStorage{
		qrCodes:   make(map[string]QRCode),
		redirects: make(map[string]Redirect),
		byQRCode:  make(map[string]string),
	}, nil
}

func (m *MemoryStorage) CreateQRCode(_ context.Context, qr QRCode) (*QRCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if qr.ID == "" {
		qr.ID = uuid.NewString()
	}
	if _, exists := m.qrCodes[qr.ID]; exists {
		return nil, ErrConflict
	}
	if qr.CreatedAt.IsZero() {
		qr.CreatedAt = time.Now().UTC()
	}

	if err := m.record(entryQRCode, qr); err != nil {
		return nil, err
	}
	m.qrCodes[qr.ID] = qr
	return &qr, nil
}

func (m *MemoryStorage) UpdateQRCode(_ context.Context, qr QRCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.qrCodes[qr.ID]; !exists {
		return ErrNotFound
	}

	if err := m.record(entryQRCodeUpdate, qr); err != nil {
		return err
	}
	m.qrCodes[qr.ID] = qr
	return nil
}

func (m *MemoryStorage) FindQRCodeByID(_ context.Context, id string) (*QRCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	qr, exists := m.qrCodes[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &qr, nil
}

// FindQRCodesByUserID returns the user's QR codes, newest first.
func (m *MemoryStorage) FindQRCodesByUserID(_ context.Context, userID string) ([]QRCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []QRCode
	for _, qr := range m.qrCodes {
		if qr.UserID == userID {
			result = append(result, qr)
		}
	}

	slices.SortFunc(result, func(a, b QRCode) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result, nil
}

// ShortCodeInUse reports whether any redirect, active or not, holds code.
func (m *MemoryStorage) ShortCodeInUse(_ context.Context, code string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.redirects[code]
	return exists, nil
}

// InsertRedirect stores r. A taken short code fails with
// ErrShortCodeConflict, a QR code that already has a redirect with
// ErrConflict.
func (m *MemoryStorage) InsertRedirect(_ context.Context, r Redirect) (*Redirect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.redirects[r.ShortCode]; exists {
		return nil, ErrShortCodeConflict
	}
	if _, exists := m.byQRCode[r.QRCodeID]; exists {
		return nil, ErrConflict
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	if err := m.record(entryRedirect, r); err != nil {
		return nil, err
	}
	m.putRedirect(r)
	return &r, nil
}

func (m *MemoryStorage) UpdateRedirect(_ context.Context, r Redirect) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.redirects[r.ShortCode]
	if !exists || current.ID != r.ID {
		return ErrNotFound
	}

	r.UpdatedAt = time.Now().UTC()
	if err := m.record(entryRedirectUpdate, r); err != nil {
		return err
	}
	m.putRedirect(r)
	return nil
}

func (m *MemoryStorage) record(kind string, values ...any) error {
	if m.journal == nil {
		return nil
	}
	return m.journal(kind, values...)
}

func (m *MemoryStorage) putRedirect(r Redirect) {
	m.redirects[r.ShortCode] = r
	m.byQRCode[r.QRCodeID] = r.ShortCode
}

func (m *MemoryStorage) FindActiveRedirect(_ context.Context, code string) (*Redirect, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, exists := m.redirects[code]
	if !exists || !r.IsActive {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemoryStorage) FindRedirectByQRCodeID(_ context.Context, qrCodeID string) (*Redirect, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	code, exists := m.byQRCode[qrCodeID]
	if !exists {
		return nil, ErrNotFound
	}

	r := m.redirects[code]
	return &r, nil
}

func (m *MemoryStorage) RecordScans(_ context.Context, scans []Scan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]Scan, len(scans))
	values := make([]any, len(scans))
	for i, s := range scans {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		stored[i] = s
		values[i] = s
	}

	if err := m.record(entryScan, values...); err != nil {
		return err
	}
	m.scans = append(m.scans, stored...)
	return nil
}

func (m *MemoryStorage) FindScansByQRCodeID(_ context.Context, qrCodeID string) ([]Scan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Scan
	for _, s := range m.scans {
		if s.QRCodeID == qrCodeID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *MemoryStorage) InsertLead(_ context.Context, l Lead) (*Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	if err := m.record(entryLead, l); err != nil {
		return nil, err
	}
	m.leads = append(m.leads, l)
	return &l, nil
}

func (m *MemoryStorage) FindLeadsByQRCodeIDs(_ context.Context, ids []string) ([]Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Lead
	for _, l := range m.leads {
		if slices.Contains(ids, l.QRCodeID) {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *MemoryStorage) GetStats(_ context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make(map[string]struct{})
	for _, qr := range m.qrCodes {
		if qr.UserID != "" {
			users[qr.UserID] = struct{}{}
		}
	}

	return &Stats{
		QRCodes: len(m.qrCodes),
		Scans:   len(m.scans),
		Leads:   len(m.leads),
		Users:   len(users),
	}, nil
}

func (m *MemoryStorage) PingContext(_ context.Context) error {
	return errors.ErrUnsupported
}
