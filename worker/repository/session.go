package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Session is one database connection held for the length of a job.
type Session interface {
	Images() ImageRepository
	Close()
}

type Sessions interface {
	Open(ctx context.Context) (Session, error)
}

type PoolSessions struct {
	pool *pgxpool.Pool
}

func NewPoolSessions(pool *pgxpool.Pool) *PoolSessions {
	return &PoolSessions{pool: pool}
}

func (s *PoolSessions) Open(ctx context.Context) (Session, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &connSession{conn: conn, images: NewPostgresRepo(conn)}, nil
}

type connSession struct {
	conn   *pgxpool.Conn
	images *PostgresRepo
}

func (s *connSession) Images() ImageRepository { return s.images }

func (s *connSession) Close() { s.conn.Release() }
