package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"imageImporter/worker/models"
)

var (
	ErrImageNotFound  = errors.New("image not found")
	ErrDuplicateImage = errors.New("image with this google drive id already exists")
)

// DBTX is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ImageRepository interface {
	FindByDriveID(ctx context.Context, driveID string) (*models.ImageRecord, error)
	Insert(ctx context.Context, img *models.ImageRecord) error
	Update(ctx context.Context, img *models.ImageRecord) error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}
