package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"imageImporter/worker/models"
	"imageImporter/worker/repository"
)

type Counts struct {
	Imported int
	Updated  int
	Total    int
}

// Reconciler upserts transferred files into the catalog keyed by their
// Drive id.
type Reconciler struct {
	logger *zap.Logger
}

func NewReconciler(logger *zap.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

func (r *Reconciler) Reconcile(ctx context.Context, repo repository.ImageRepository, results []models.TransferResult) (Counts, error) {
	counts := Counts{Total: len(results)}

	for _, res := range results {
		inserted, err := r.upsert(ctx, repo, res)
		if err != nil {
			return Counts{}, err
		}
		if inserted {
			counts.Imported++
		} else {
			counts.Updated++
		}
	}

	r.logger.Info("Import reconciled",
		zap.Int("imported", counts.Imported),
		zap.Int("updated", counts.Updated),
		zap.Int("total", counts.Total),
	)

	return counts, nil
}

func (r *Reconciler) upsert(ctx context.Context, repo repository.ImageRepository, res models.TransferResult) (bool, error) {
	existing, err := repo.FindByDriveID(ctx, res.FileID)
	switch {
	case err == nil:
		return false, r.update(ctx, repo, existing, res)
	case !errors.Is(err, repository.ErrImageNotFound):
		return false, err
	}

	img := &models.ImageRecord{}
	img.Apply(res)
	err = repo.Insert(ctx, img)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, repository.ErrDuplicateImage) {
		return false, err
	}

	// Another job inserted the same file between lookup and insert.
	existing, err = repo.FindByDriveID(ctx, res.FileID)
	if err != nil {
		return false, fmt.Errorf("reload image %s: %w", res.FileID, err)
	}
	return false, r.update(ctx, repo, existing, res)
}

func (r *Reconciler) update(ctx context.Context, repo repository.ImageRepository, img *models.ImageRecord, res models.TransferResult) error {
	img.Apply(res)
	return repo.Update(ctx, img)
}
