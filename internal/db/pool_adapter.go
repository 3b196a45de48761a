package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// PoolAdapter exposes a *pgxpool.Pool as sparkload.DBConnection for the
// database manager.
type PoolAdapter struct {
	pool *pgxpool.Pool
}

func NewPoolAdapter(pool *pgxpool.Pool) *PoolAdapter {
	return &PoolAdapter{pool: pool}
}

func (p *PoolAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

func (p *PoolAdapter) QueryRow(ctx context.Context, sql string, args ...any) sparkload.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

// Acquire obtains a dedicated connection. The caller must Release it.
func (p *PoolAdapter) Acquire(ctx context.Context) (sparkload.PooledConnection, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

var (
	_ sparkload.DBConnection     = (*PoolAdapter)(nil)
	_ sparkload.PooledConnection = (*pgxpool.Conn)(nil)
)
