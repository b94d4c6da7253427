package transfer

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"imageImporter/worker/drive"
	"imageImporter/worker/models"
	"imageImporter/worker/retry"
	"imageImporter/worker/storage"
)

var (
	transfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "importer_transfers_total",
		Help: "File transfers by outcome.",
	}, []string{"result"})

	transferRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "importer_transfer_retries_total",
		Help: "Transfer attempts that failed and were retried.",
	})

	transferDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "importer_transfer_duration_seconds",
		Help:    "Time spent on one file including retries.",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	})

	transferredBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "importer_transferred_bytes_total",
		Help: "Bytes uploaded to the object store.",
	})
)

// Transferer copies single files from Drive to the object store.
type Transferer struct {
	files    drive.FileService
	uploader storage.Uploader
	policy   retry.Policy
	prefix   string
	logger   *zap.Logger
}

func NewTransferer(files drive.FileService, uploader storage.Uploader, policy retry.Policy, prefix string, logger *zap.Logger) *Transferer {
	return &Transferer{
		files:    files,
		uploader: uploader,
		policy:   policy,
		prefix:   prefix,
		logger:   logger,
	}
}

// Transfer downloads entry and uploads it under a key derived from its
// name. A failed download or upload restarts the whole file.
func (t *Transferer) Transfer(ctx context.Context, entry models.FileEntry) (models.TransferResult, error) {
	start := time.Now()
	defer func() {
		transferDuration.Observe(time.Since(start).Seconds())
	}()

	key := storage.ObjectKey(t.prefix, entry.Name)

	var publicURL string
	err := retry.Do(ctx, t.policy, func(ctx context.Context) error {
		data, err := t.download(ctx, entry)
		if err != nil {
			return err
		}

		url, err := t.uploader.Upload(ctx, key, data, entry.MimeType)
		if err != nil {
			return err
		}

		transferredBytesTotal.Add(float64(len(data)))
		publicURL = url
		return nil
	}, func(attempt int, err error) {
		transferRetriesTotal.Inc()
		t.logger.Warn("Transfer attempt failed",
			zap.String("file_id", entry.ID),
			zap.String("file_name", entry.Name),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	})
	if err != nil {
		transfersTotal.WithLabelValues("failed").Inc()
		return models.TransferResult{}, fmt.Errorf("transfer %s (%s): %w", entry.Name, entry.ID, err)
	}

	transfersTotal.WithLabelValues("success").Inc()
	t.logger.Debug("File transferred",
		zap.String("file_id", entry.ID),
		zap.String("key", key),
		zap.String("url", publicURL),
	)

	return models.TransferResult{
		FileID:    entry.ID,
		FileName:  entry.Name,
		MimeType:  entry.MimeType,
		Size:      entry.Size,
		PublicURL: publicURL,
	}, nil
}

func (t *Transferer) download(ctx context.Context, entry models.FileEntry) ([]byte, error) {
	body, err := t.files.Download(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var buf bytes.Buffer
	if entry.Size != nil {
		buf.Grow(int(*entry.Size))
	}
	if _, err := buf.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", drive.ErrTransport, entry.ID, err)
	}
	return buf.Bytes(), nil
}
