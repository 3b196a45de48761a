package sparkload

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBConnection abstracts the server-level operations DatabaseManager needs.
type DBConnection interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
	// Acquire obtains a dedicated connection for statements that cannot run
	// inside a transaction block (CREATE DATABASE, DROP DATABASE).
	// Caller must call Release() on the returned PooledConnection when done.
	Acquire(ctx context.Context) (PooledConnection, error)
}

// Row represents a single row returned by QueryRow.
type Row interface {
	Scan(dest ...any) error
}

// PooledConnection represents a connection acquired from a pool.
type PooledConnection interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Release()
}

// DatabaseManager drops and recreates the target database.
type DatabaseManager interface {
	Exists(ctx context.Context, conn DBConnection, dbName string) (bool, error)
	Create(ctx context.Context, conn DBConnection, dbName string) error
	Drop(ctx context.Context, conn DBConnection, dbName string) error
	TerminateConnections(ctx context.Context, conn DBConnection, dbName string) error
	// Reset drops dbName if present and creates it empty.
	Reset(ctx context.Context, conn DBConnection, dbName string) error
}
