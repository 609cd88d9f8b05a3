package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileStorage_ReplayAfterReopen(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "storage.jsonl")

	fs, err := NewFileStorage(path, logger)
	require.NoError(t, err)

	qr, err := fs.CreateQRCode(ctx, QRCode{UserID: "user-1", Name: "menu", Type: TypeDynamic, IsActive: true})
	require.NoError(t, err)

	r, err := fs.InsertRedirect(ctx, Redirect{
		ShortCode:      "abc123",
		QRCodeID:       qr.ID,
		DestinationURL: "https://example.com/a",
		IsActive:       true,
	})
	require.NoError(t, err)

	r.DestinationURL = "https://example.com/b"
	require.NoError(t, fs.UpdateRedirect(ctx, *r))

	require.NoError(t, fs.RecordScans(ctx, []Scan{{QRCodeID: qr.ID, Device: "mobile"}}))
	_, err = fs.InsertLead(ctx, Lead{QRCodeID: qr.ID, Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	require.NoError(t, fs.Close())

	reopened, err := NewFileStorage(path, logger)
	require.NoError(t, err)
	defer reopened.Close()

	found, err := reopened.FindActiveRedirect(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/b", found.DestinationURL)
	assert.Equal(t, qr.ID, found.QRCodeID)

	codes, err := reopened.FindQRCodesByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, "menu", codes[0].Name)

	scans, err := reopened.FindScansByQRCodeID(ctx, qr.ID)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.NotEmpty(t, scans[0].ID)

	stats, err := reopened.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Leads)

	// Reserved codes survive a restart.
	_, err = reopened.InsertRedirect(ctx, Redirect{ShortCode: "abc123", QRCodeID: "other"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestFileStorage_CorruptJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{not json}\n"), 0600))

	_, err := NewFileStorage(path, zap.NewNop())
	assert.Error(t, err)
}

func TestFileStorage_UnknownEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unknown.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"kind":"mystery","data":{}}`+"\n"), 0600))

	_, err := NewFileStorage(path, zap.NewNop())
	assert.ErrorContains(t, err, "mystery")
}

func TestFileStorage_PingAndClose(t *testing.T) {
	fs, err := NewFileStorage(filepath.Join(t.TempDir(), "ping.jsonl"), zap.NewNop())
	require.NoError(t, err)

	assert.NoError(t, fs.PingContext(context.Background()))

	require.NoError(t, fs.Close())
	assert.NoError(t, fs.Close())
	assert.Error(t, fs.PingContext(context.Background()))
}

func TestFileStorage_FailedJournalLeavesMemoryUntouched(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStorage(filepath.Join(t.TempDir(), "closed.jsonl"), zap.NewNop())
	require.NoError(t, err)

	r, err := fs.InsertRedirect(ctx, Redirect{ShortCode: "abc123", QRCodeID: "qr-1", DestinationURL: "https://a.io", IsActive: true})
	require.NoError(t, err)
	require.NoError(t, fs.Close())

	_, err = fs.CreateQRCode(ctx, QRCode{ID: "qr-2", UserID: "user-1"})
	assert.Error(t, err)
	_, err = fs.FindQRCodeByID(ctx, "qr-2")
	assert.ErrorIs(t, err, ErrNotFound)

	r.IsActive = false
	assert.Error(t, fs.UpdateRedirect(ctx, *r))
	found, err := fs.FindActiveRedirect(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, found.IsActive)

	assert.Error(t, fs.RecordScans(ctx, []Scan{{QRCodeID: "qr-1"}}))
	scans, err := fs.FindScansByQRCodeID(ctx, "qr-1")
	require.NoError(t, err)
	assert.Empty(t, scans)
}
