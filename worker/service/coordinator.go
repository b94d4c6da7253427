package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"imageImporter/worker/models"
	"imageImporter/worker/pool"
	"imageImporter/worker/retry"
)

type FolderLister interface {
	ListImages(ctx context.Context, folderID string) ([]models.FileEntry, error)
}

type FileTransferer interface {
	Transfer(ctx context.Context, entry models.FileEntry) (models.TransferResult, error)
}

// ProgressFunc is called after each file finishes, successfully or not.
type ProgressFunc func(done, total int)

// Coordinator lists a folder and transfers its images on a bounded pool.
type Coordinator struct {
	lister   FolderLister
	transfer FileTransferer
	workers  int
	policy   retry.Policy
	logger   *zap.Logger
}

func NewCoordinator(lister FolderLister, transfer FileTransferer, workers int, policy retry.Policy, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		lister:   lister,
		transfer: transfer,
		workers:  workers,
		policy:   policy,
		logger:   logger,
	}
}

// ImportFolder returns the successful transfers in completion order. Files
// that fail after their own retries are logged and left out. An error is
// returned when the folder cannot be listed or ctx ends before every file
// was attempted.
func (c *Coordinator) ImportFolder(ctx context.Context, folderID string, progress ProgressFunc) ([]models.TransferResult, error) {
	var uploaded []models.TransferResult

	err := retry.Do(ctx, c.policy, func(ctx context.Context) error {
		entries, err := c.lister.ListImages(ctx, folderID)
		if err != nil {
			return err
		}
		uploaded, err = c.fanOut(ctx, entries, progress)
		return err
	}, func(attempt int, err error) {
		c.logger.Warn("Folder import attempt failed",
			zap.String("folder_id", folderID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	})
	if err != nil {
		return nil, err
	}

	return uploaded, nil
}

func (c *Coordinator) fanOut(ctx context.Context, entries []models.FileEntry, progress ProgressFunc) ([]models.TransferResult, error) {
	if len(entries) == 0 {
		c.logger.Info("No images found in folder")
		return nil, nil
	}

	results := pool.Run(ctx, c.workers, entries, c.transfer.Transfer, func(done int) {
		if progress != nil {
			progress(done, len(entries))
		}
	})

	// Transfers cut short by cancellation are not per-file failures.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("import interrupted: %w", err)
	}

	uploaded := make([]models.TransferResult, 0, len(results))
	for _, res := range results {
		if !res.OK() {
			c.logger.Error("Failed processing file",
				zap.String("file_id", res.Input.ID),
				zap.String("file_name", res.Input.Name),
				zap.Error(res.Err),
			)
			continue
		}
		uploaded = append(uploaded, res.Value)
	}

	c.logger.Info("Uploaded files",
		zap.Int("uploaded", len(uploaded)),
		zap.Int("total", len(entries)),
	)

	return uploaded, nil
}
