// Package repository is the PostgreSQL implementation of the service storage.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/atinyakov/neoqrc/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS qr_codes (
	id UUID PRIMARY KEY,
	user_id TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	url TEXT NOT NULL DEFAULT '',
	campaign_name TEXT NOT NULL DEFAULT '',
	fg_color TEXT NOT NULL DEFAULT '#000000',
	bg_color TEXT NOT NULL DEFAULT '#ffffff',
	type TEXT NOT NULL DEFAULT 'static',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	short_code TEXT NOT NULL DEFAULT '',
	created_location TEXT NOT NULL DEFAULT '',
	created_device TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS qr_codes_user_id_idx ON qr_codes (user_id);

CREATE TABLE IF NOT EXISTS redirects (
	id UUID PRIMARY KEY,
	short_code TEXT UNIQUE NOT NULL,
	qr_code_id UUID UNIQUE NOT NULL REFERENCES qr_codes (id),
	destination_url TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS scans (
	id UUID PRIMARY KEY,
	qr_code_id UUID NOT NULL REFERENCES qr_codes (id),
	campaign_name TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	device TEXT NOT NULL DEFAULT '',
	scanned_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS scans_qr_code_id_idx ON scans (qr_code_id);

CREATE TABLE IF NOT EXISTS leads (
	id UUID PRIMARY KEY,
	qr_code_id UUID NOT NULL REFERENCES qr_codes (id),
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	city TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	device TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const (
	qrCodeColumns   = "id, user_id, name, url, campaign_name, fg_color, bg_color, type, is_active, short_code, created_location, created_device, created_at"
	redirectColumns = "id, short_code, qr_code_id, destination_url, is_active, created_at, updated_at"
	scanColumns     = "id, qr_code_id, campaign_name, city, state, device, scanned_at"
	leadColumns     = "id, qr_code_id, name, email, city, state, device, created_at"

	insertQRCodeQuery = "INSERT INTO qr_codes (" + qrCodeColumns + ") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);"
	updateQRCodeQuery = "UPDATE qr_codes SET name = $1, url = $2, campaign_name = $3, fg_color = $4, bg_color = $5, is_active = $6, short_code = $7 WHERE id = $8;"
	qrCodeByIDQuery   = "SELECT " + qrCodeColumns + " FROM qr_codes WHERE id = $1;"
	qrCodesByUser     = "SELECT " + qrCodeColumns + " FROM qr_codes WHERE user_id = $1 ORDER BY created_at DESC;"

	shortCodeInUseQuery   = "SELECT EXISTS (SELECT 1 FROM redirects WHERE short_code = $1);"
	insertRedirectQuery   = "INSERT INTO redirects (" + redirectColumns + ") VALUES ($1, $2, $3, $4, $5, $6, $7);"
	updateRedirectQuery   = "UPDATE redirects SET destination_url = $1, is_active = $2, updated_at = $3 WHERE id = $4 AND short_code = $5;"
	activeRedirectQuery   = "SELECT " + redirectColumns + " FROM redirects WHERE short_code = $1 AND is_active = TRUE;"
	redirectByQRCodeQuery = "SELECT " + redirectColumns + " FROM redirects WHERE qr_code_id = $1;"

	insertScanQuery  = "INSERT INTO scans (" + scanColumns + ") VALUES ($1, $2, $3, $4, $5, $6, $7);"
	scansByQRCode    = "SELECT " + scanColumns + " FROM scans WHERE qr_code_id = $1 ORDER BY scanned_at;"
	insertLeadQuery  = "INSERT INTO leads (" + leadColumns + ") VALUES ($1, $2, $3, $4, $5, $6, $7, $8);"
	leadsByQRCodeIDs = "SELECT " + leadColumns + " FROM leads WHERE qr_code_id IN (%s) ORDER BY created_at DESC;"

	statsQuery = `SELECT
	(SELECT COUNT(*) FROM qr_codes),
	(SELECT COUNT(*) FROM scans),
	(SELECT COUNT(*) FROM leads),
	(SELECT COUNT(DISTINCT user_id) FROM qr_codes WHERE user_id <> '');`
)

// InitDB opens a pgx connection pool for dsn and creates the tables.
func InitDB(dsn string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	logger.Info("Database connected and tables ready")
	return db, nil
}

type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

func CreateRepository(db *sql.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQRCode(row rowScanner) (*storage.QRCode, error) {
	var qr storage.QRCode
	err := row.Scan(&qr.ID, &qr.UserID, &qr.Name, &qr.URL, &qr.CampaignName, &qr.FgColor, &qr.BgColor,
		&qr.Type, &qr.IsActive, &qr.ShortCode, &qr.CreatedLocation, &qr.CreatedDevice, &qr.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &qr, nil
}

func scanRedirect(row rowScanner) (*storage.Redirect, error) {
	var r storage.Redirect
	err := row.Scan(&r.ID, &r.ShortCode, &r.QRCodeID, &r.DestinationURL, &r.IsActive, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// shortCodeConstraint is the name Postgres gives the short_code UNIQUE
// constraint of the redirects table.
const shortCodeConstraint = "redirects_short_code_key"

// mapError turns driver errors into storage sentinels.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if pgErr.ConstraintName == shortCodeConstraint {
			return storage.ErrShortCodeConflict
		}
		return fmt.Errorf("%w: %s", storage.ErrConflict, pgErr.ConstraintName)
	}

	return err
}

func (r *Repository) CreateQRCode(ctx context.Context, qr storage.QRCode) (*storage.QRCode, error) {
	if qr.ID == "" {
		qr.ID = uuid.NewString()
	}
	if qr.CreatedAt.IsZero() {
		qr.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, insertQRCodeQuery,
		qr.ID, qr.UserID, qr.Name, qr.URL, qr.CampaignName, qr.FgColor, qr.BgColor,
		qr.Type, qr.IsActive, qr.ShortCode, qr.CreatedLocation, qr.CreatedDevice, qr.CreatedAt)
	if err != nil {
		r.logger.Error("insert qr code", zap.Error(err))
		return nil, mapError(err)
	}

	return &qr, nil
}

func (r *Repository) UpdateQRCode(ctx context.Context, qr storage.QRCode) error {
	res, err := r.db.ExecContext(ctx, updateQRCodeQuery,
		qr.Name, qr.URL, qr.CampaignName, qr.FgColor, qr.BgColor, qr.IsActive, qr.ShortCode, qr.ID)
	if err != nil {
		return mapError(err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (r *Repository) FindQRCodeByID(ctx context.Context, id string) (*storage.QRCode, error) {
	qr, err := scanQRCode(r.db.QueryRowContext(ctx, qrCodeByIDQuery, id))
	if err != nil {
		return nil, mapError(err)
	}
	return qr, nil
}

func (r *Repository) FindQRCodesByUserID(ctx context.Context, userID string) ([]storage.QRCode, error) {
	rows, err := r.db.QueryContext(ctx, qrCodesByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []storage.QRCode
	for rows.Next() {
		qr, err := scanQRCode(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *qr)
	}

	return result, rows.Err()
}

func (r *Repository) ShortCodeInUse(ctx context.Context, code string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, shortCodeInUseQuery, code).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// InsertRedirect stores rec. A taken short_code surfaces as
// storage.ErrShortCodeConflict, a second redirect for qr_code_id as
// storage.ErrConflict.
func (r *Repository) InsertRedirect(ctx context.Context, rec storage.Redirect) (*storage.Redirect, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, insertRedirectQuery,
		rec.ID, rec.ShortCode, rec.QRCodeID, rec.DestinationURL, rec.IsActive, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		err = mapError(err)
		if errors.Is(err, storage.ErrConflict) {
			r.logger.Debug("redirect conflict", zap.String("short_code", rec.ShortCode))
		} else {
			r.logger.Error("insert redirect", zap.Error(err))
		}
		return nil, err
	}

	return &rec, nil
}

func (r *Repository) UpdateRedirect(ctx context.Context, rec storage.Redirect) error {
	res, err := r.db.ExecContext(ctx, updateRedirectQuery,
		rec.DestinationURL, rec.IsActive, time.Now().UTC(), rec.ID, rec.ShortCode)
	if err != nil {
		return mapError(err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (r *Repository) FindActiveRedirect(ctx context.Context, code string) (*storage.Redirect, error) {
	rec, err := scanRedirect(r.db.QueryRowContext(ctx, activeRedirectQuery, code))
	if err != nil {
		return nil, mapError(err)
	}
	return rec, nil
}

func (r *Repository) FindRedirectByQRCodeID(ctx context.Context, qrCodeID string) (*storage.Redirect, error) {
	rec, err := scanRedirect(r.db.QueryRowContext(ctx, redirectByQRCodeQuery, qrCodeID))
	if err != nil {
		return nil, mapError(err)
	}
	return rec, nil
}

// RecordScans inserts the batch in one transaction.
func (r *Repository) RecordScans(ctx context.Context, scans []storage.Scan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, s := range scans {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.ScannedAt.IsZero() {
			s.ScannedAt = time.Now().UTC()
		}

		_, err = tx.ExecContext(ctx, insertScanQuery, s.ID, s.QRCodeID, s.CampaignName, s.City, s.State, s.Device, s.ScannedAt)
		if err != nil {
			r.logger.Error("insert scan, rolling back", zap.Error(err))
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) FindScansByQRCodeID(ctx context.Context, qrCodeID string) ([]storage.Scan, error) {
	rows, err := r.db.QueryContext(ctx, scansByQRCode, qrCodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []storage.Scan
	for rows.Next() {
		var s storage.Scan
		if err := rows.Scan(&s.ID, &s.QRCodeID, &s.CampaignName, &s.City, &s.State, &s.Device, &s.ScannedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}

	return result, rows.Err()
}

func (r *Repository) InsertLead(ctx context.Context, l storage.Lead) (*storage.Lead, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, insertLeadQuery, l.ID, l.QRCodeID, l.Name, l.Email, l.City, l.State, l.Device, l.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	return &l, nil
}

func (r *Repository) FindLeadsByQRCodeIDs(ctx context.Context, ids []string) ([]storage.Lead, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(leadsByQRCodeIDs, strings.Join(placeholders, ", ")), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []storage.Lead
	for rows.Next() {
		var l storage.Lead
		if err := rows.Scan(&l.ID, &l.QRCodeID, &l.Name, &l.Email, &l.City, &l.State, &l.Device, &l.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, l)
	}

	return result, rows.Err()
}

func (r *Repository) GetStats(ctx context.Context) (*storage.Stats, error) {
	var stats storage.Stats
	err := r.db.QueryRowContext(ctx, statsQuery).Scan(&stats.QRCodes, &stats.Scans, &stats.Leads, &stats.Users)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *Repository) PingContext(c context.Context) error {
	return r.db.PingContext(c)
}
