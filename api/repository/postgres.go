package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"imageImporter/api/models"
)

type PostgresRepo struct {
	db DBTX
}

func NewPostgresRepo(db DBTX) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) List(ctx context.Context, limit, offset int) ([]models.Image, error) {
	query := `
		SELECT id, name, google_drive_id, size, mime_type, storage_path, public_url, created_at
		FROM images
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	images, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Image, error) {
		var img models.Image
		err := row.Scan(
			&img.ID,
			&img.Name,
			&img.GoogleDriveID,
			&img.Size,
			&img.MimeType,
			&img.StoragePath,
			&img.PublicURL,
			&img.CreatedAt,
		)
		return img, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan images: %w", err)
	}

	return images, nil
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM images`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}
	return total, nil
}
