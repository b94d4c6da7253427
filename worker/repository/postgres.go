package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"imageImporter/worker/models"
)

type PostgresRepo struct {
	db DBTX
}

func NewPostgresRepo(db DBTX) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) FindByDriveID(ctx context.Context, driveID string) (*models.ImageRecord, error) {
	query := `
		SELECT id, name, google_drive_id, size, mime_type, storage_path, public_url, created_at
		FROM images
		WHERE google_drive_id = $1`

	img := &models.ImageRecord{}
	err := r.db.QueryRow(ctx, query, driveID).Scan(
		&img.ID,
		&img.Name,
		&img.GoogleDriveID,
		&img.Size,
		&img.MimeType,
		&img.StoragePath,
		&img.PublicURL,
		&img.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find image %s: %w", driveID, err)
	}

	return img, nil
}

// Insert stores a new record and fills in its id and created_at.
func (r *PostgresRepo) Insert(ctx context.Context, img *models.ImageRecord) error {
	query := `
		INSERT INTO images (name, google_drive_id, size, mime_type, storage_path, public_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		img.Name,
		img.GoogleDriveID,
		img.Size,
		img.MimeType,
		img.StoragePath,
		img.PublicURL,
	).Scan(&img.ID, &img.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateImage
	}
	if err != nil {
		return fmt.Errorf("insert image %s: %w", img.GoogleDriveID, err)
	}

	return nil
}

// Update overwrites the mutable columns of the row with img.ID. created_at
// is never touched.
func (r *PostgresRepo) Update(ctx context.Context, img *models.ImageRecord) error {
	query := `
		UPDATE images
		SET name = $1, size = $2, mime_type = $3, storage_path = $4, public_url = $5
		WHERE id = $6`

	tag, err := r.db.Exec(ctx, query,
		img.Name,
		img.Size,
		img.MimeType,
		img.StoragePath,
		img.PublicURL,
		img.ID,
	)
	if err != nil {
		return fmt.Errorf("update image %d: %w", img.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrImageNotFound
	}

	return nil
}
