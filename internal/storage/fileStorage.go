package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const (
	entryQRCode         = "qr_code"
	entryQRCodeUpdate   = "qr_code_update"
	entryRedirect       = "redirect"
	entryRedirectUpdate = "redirect_update"
	entryScan           = "scan"
	entryLead           = "lead"
)

// journalEntry is one line of the storage file.
type journalEntry struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// FileStorage serves reads from memory and appends every write to a
// JSON-lines journal that is replayed on start. A write reaches memory only
// after its journal line is flushed.
type FileStorage struct {
	*MemoryStorage

	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	logger *zap.Logger
}

func NewFileStorage(p string, logger *zap.Logger) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Dir(p), 0770); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(p, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0660)
	if err != nil {
		return nil, err
	}

	mem, _ := CreateMemoryStorage()
	fs := &FileStorage{
		MemoryStorage: mem,
		file:          file,
		writer:        bufio.NewWriter(file),
		logger:        logger,
	}

	if err := fs.replay(); err != nil {
		file.Close()
		return nil, err
	}
	mem.journal = fs.append

	return fs, nil
}

func (fs *FileStorage) replay() error {
	if _, err := fs.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	count := 0
	scanner := bufio.NewScanner(fs.file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry journalEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return fmt.Errorf("failed to parse journal line %d: %w", count+1, err)
		}
		if err := fs.apply(entry); err != nil {
			return fmt.Errorf("failed to apply journal line %d: %w", count+1, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	fs.logger.Info("storage journal replayed", zap.Int("entries", count))
	return nil
}

func (fs *FileStorage) apply(entry journalEntry) error {
	m := fs.MemoryStorage
	m.mu.Lock()
	defer m.mu.Unlock()

	switch entry.Kind {
	case entryQRCode, entryQRCodeUpdate:
		var qr QRCode
		if err := json.Unmarshal(entry.Data, &qr); err != nil {
			return err
		}
		m.qrCodes[qr.ID] = qr
	case entryRedirect, entryRedirectUpdate:
		var r Redirect
		if err := json.Unmarshal(entry.Data, &r); err != nil {
			return err
		}
		m.putRedirect(r)
	case entryScan:
		var s Scan
		if err := json.Unmarshal(entry.Data, &s); err != nil {
			return err
		}
		m.scans = append(m.scans, s)
	case entryLead:
		var l Lead
		if err := json.Unmarshal(entry.Data, &l); err != nil {
			return err
		}
		m.leads = append(m.leads, l)
	default:
		return fmt.Errorf("unknown journal entry kind %q", entry.Kind)
	}

	return nil
}

func (fs *FileStorage) append(kind string, values ...any) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.file == nil {
		return errors.New("storage file is closed")
	}

	for _, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		line, err := json.Marshal(journalEntry{Kind: kind, Data: data})
		if err != nil {
			return err
		}
		if _, err := fs.writer.Write(append(line, '\n')); err != nil {
			return err
		}
	}

	return fs.writer.Flush()
}

func (fs *FileStorage) PingContext(_ context.Context) error {
	if fs.file == nil {
		return errors.New("storage file is closed")
	}
	_, err := fs.file.Stat()
	return err
}

func (fs *FileStorage) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.file == nil {
		return nil
	}
	if err := fs.writer.Flush(); err != nil {
		return err
	}

	err := fs.file.Close()
	fs.file = nil
	return err
}
