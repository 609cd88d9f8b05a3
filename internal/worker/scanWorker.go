package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/neoqrc/internal/storage"
)

const (
	// DefaultFlushInterval is how often buffered scans are written.
	DefaultFlushInterval = 10 * time.Second
	// DefaultBufferSize is the capacity of the scan queue.
	DefaultBufferSize = 1024

	batchSize    = 25
	flushTimeout = 3 * time.Second
)

type Repo interface {
	RecordScans(context.Context, []storage.Scan) error
}

// Publisher forwards recorded scans to an event stream.
type Publisher interface {
	Publish(context.Context, []storage.Scan) error
}

// ScanWorker persists scans in batches off the request path.
type ScanWorker struct {
	in        chan storage.Scan
	logger    *zap.Logger
	repo      Repo
	publisher Publisher
	interval  time.Duration
	dropped   atomic.Int64

	mu      sync.RWMutex
	stopped bool
}

// NewScanWorker creates a worker. publisher may be nil.
func NewScanWorker(logger *zap.Logger, repo Repo, publisher Publisher, bufferSize int, interval time.Duration) *ScanWorker {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if interval <= 0 {
		interval = DefaultFlushInterval
	}

	return &ScanWorker{
		in:        make(chan storage.Scan, bufferSize),
		logger:    logger,
		repo:      repo,
		publisher: publisher,
		interval:  interval,
	}
}

// Record queues scan without blocking. When the queue is full or the worker
// has stopped the scan is dropped.
func (w *ScanWorker) Record(scan storage.Scan) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		w.dropped.Add(1)
		w.logger.Warn("scan worker stopped, dropping scan", zap.String("qr_code_id", scan.QRCodeID))
		return
	}

	select {
	case w.in <- scan:
	default:
		w.dropped.Add(1)
		w.logger.Warn("scan queue full, dropping scan", zap.String("qr_code_id", scan.QRCodeID))
	}
}

// Dropped returns the number of scans lost to a full queue or a stopped
// worker.
func (w *ScanWorker) Dropped() int64 {
	return w.dropped.Load()
}

// Run flushes queued scans until ctx is cancelled, then drains the queue.
func (w *ScanWorker) Run(ctx context.Context) error {
	w.logger.Info("Scan worker started", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var scans []storage.Scan

	flush := func() {
		if len(scans) == 0 {
			return
		}

		w.logger.Debug("Flushing scans", zap.Int("count", len(scans)))
		fctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()

		if err := w.repo.RecordScans(fctx, scans); err != nil {
			w.logger.Error("Cannot record scans", zap.Int("count", len(scans)), zap.Error(err))
		} else if w.publisher != nil {
			if err := w.publisher.Publish(fctx, scans); err != nil {
				w.logger.Warn("Cannot publish scans", zap.Error(err))
			}
		}

		scans = nil
	}

	for {
		select {
		case scan := <-w.in:
			scans = append(scans, scan)
			if len(scans) > batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			w.mu.Lock()
			w.stopped = true
			w.mu.Unlock()

			for len(w.in) > 0 {
				scans = append(scans, <-w.in)
			}
			flush()
			w.logger.Info("Scan worker stopped")
			return nil
		}
	}
}
