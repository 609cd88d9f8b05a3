package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/neoqrc/internal/storage"
)

func TestMemoryStorage_InsertAndFindRedirect(t *testing.T) {
	mem, _ := storage.CreateMemoryStorage()
	ctx := context.Background()

	record := storage.Redirect{
		ShortCode:      "abc123",
		QRCodeID:       "qr-1",
		DestinationURL: "https://example.com/x",
		IsActive:       true,
	}

	created, err := mem.InsertRedirect(ctx, record)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	// Same short code again - should conflict
	_, err = mem.InsertRedirect(ctx, storage.Redirect{ShortCode: "abc123", QRCodeID: "qr-2", IsActive: true})
	assert.ErrorIs(t, err, storage.ErrShortCodeConflict)
	assert.ErrorIs(t, err, storage.ErrConflict)

	// Second redirect for the same QR code - conflicts, but not on the code
	_, err = mem.InsertRedirect(ctx, storage.Redirect{ShortCode: "def456", QRCodeID: "qr-1", IsActive: true})
	assert.ErrorIs(t, err, storage.ErrConflict)
	assert.NotErrorIs(t, err, storage.ErrShortCodeConflict)

	found, err := mem.FindActiveRedirect(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x", found.DestinationURL)

	_, err = mem.FindActiveRedirect(ctx, "zzzz99")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	inUse, err := mem.ShortCodeInUse(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, inUse)

	inUse, err = mem.ShortCodeInUse(ctx, "zzzz99")
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestMemoryStorage_DeactivatedRedirect(t *testing.T) {
	mem, _ := storage.CreateMemoryStorage()
	ctx := context.Background()

	created, err := mem.InsertRedirect(ctx, storage.Redirect{
		ShortCode:      "k9x0aa",
		QRCodeID:       "qr-1",
		DestinationURL: "https://example.com",
		IsActive:       true,
	})
	require.NoError(t, err)

	created.IsActive = false
	require.NoError(t, mem.UpdateRedirect(ctx, *created))

	_, err = mem.FindActiveRedirect(ctx, "k9x0aa")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Deactivated codes stay reserved.
	inUse, err := mem.ShortCodeInUse(ctx, "k9x0aa")
	require.NoError(t, err)
	assert.True(t, inUse)

	byQR, err := mem.FindRedirectByQRCodeID(ctx, "qr-1")
	require.NoError(t, err)
	assert.False(t, byQR.IsActive)
}

func TestMemoryStorage_UpdateRedirectUnknown(t *testing.T) {
	mem, _ := storage.CreateMemoryStorage()

	err := mem.UpdateRedirect(context.Background(), storage.Redirect{ID: "nope", ShortCode: "abc123"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMemoryStorage_QRCodes(t *testing.T) {
	mem, _ := storage.CreateMemoryStorage()
	ctx := context.Background()

	older, err := mem.CreateQRCode(ctx, storage.QRCode{UserID: "userX", Name: "old", CreatedAt: time.Now().Add(-time.Hour)})
	require.NoError(t, err)
	newer, err := mem.CreateQRCode(ctx, storage.QRCode{UserID: "userX", Name: "new"})
	require.NoError(t, err)
	_, err = mem.CreateQRCode(ctx, storage.QRCode{UserID: "userY", Name: "other"})
	require.NoError(t, err)

	codes, err := mem.FindQRCodesByUserID(ctx, "userX")
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, newer.ID, codes[0].ID)
	assert.Equal(t, older.ID, codes[1].ID)

	codes, err = mem.FindQRCodesByUserID(ctx, "unknown")
	assert.NoError(t, err)
	assert.Nil(t, codes)

	older.Name = "renamed"
	require.NoError(t, mem.UpdateQRCode(ctx, *older))

	found, err := mem.FindQRCodeByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", found.Name)

	_, err = mem.FindQRCodeByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMemoryStorage_ScansLeadsStats(t *testing.T) {
	mem, _ := storage.CreateMemoryStorage()
	ctx := context.Background()

	_, _ = mem.CreateQRCode(ctx, storage.QRCode{ID: "qr-1", UserID: "userX"})
	_, _ = mem.CreateQRCode(ctx, storage.QRCode{ID: "qr-2", UserID: "userX"})
	_, _ = mem.CreateQRCode(ctx, storage.QRCode{ID: "qr-3", UserID: "userY"})

	err := mem.RecordScans(ctx, []storage.Scan{
		{QRCodeID: "qr-1", Device: "mobile"},
		{QRCodeID: "qr-1", Device: "desktop"},
		{QRCodeID: "qr-3", Device: "mobile"},
	})
	require.NoError(t, err)

	scans, err := mem.FindScansByQRCodeID(ctx, "qr-1")
	require.NoError(t, err)
	assert.Len(t, scans, 2)
	assert.NotEmpty(t, scans[0].ID)

	_, err = mem.InsertLead(ctx, storage.Lead{QRCodeID: "qr-2", Email: "a@b.co"})
	require.NoError(t, err)
	_, err = mem.InsertLead(ctx, storage.Lead{QRCodeID: "qr-3", Email: "c@d.co"})
	require.NoError(t, err)

	leads, err := mem.FindLeadsByQRCodeIDs(ctx, []string{"qr-1", "qr-2"})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "a@b.co", leads[0].Email)

	stats, err := mem.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.QRCodes)
	assert.Equal(t, 3, stats.Scans)
	assert.Equal(t, 2, stats.Leads)
	assert.Equal(t, 2, stats.Users)
}

func TestMemoryStorage_PingContext(t *testing.T) {
	mem, _ := storage.CreateMemoryStorage()

	err := mem.PingContext(context.Background())
	assert.True(t, errors.Is(err, errors.ErrUnsupported))
}
