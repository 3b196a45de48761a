package manager

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

const (
	queryDatabaseExists       = "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"
	queryTerminateConnections = `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()
	`
)

// Manager is stateless.
type Manager struct{}

func New() *Manager {
	return &Manager{}
}

func (m *Manager) Exists(ctx context.Context, conn sparkload.DBConnection, dbName string) (bool, error) {
	var exists bool
	if err := conn.QueryRow(ctx, queryDatabaseExists, dbName).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check database existence: %w", err)
	}
	return exists, nil
}

// Create creates dbName with UTF8 encoding from template0.
func (m *Manager) Create(ctx context.Context, conn sparkload.DBConnection, dbName string) error {
	stmt := fmt.Sprintf("CREATE DATABASE %s WITH ENCODING 'UTF8' TEMPLATE template0", pgx.Identifier{dbName}.Sanitize())
	if err := execDedicated(ctx, conn, stmt); err != nil {
		return fmt.Errorf("failed to create database %q: %w", dbName, err)
	}
	return nil
}

// Drop drops dbName if it exists.
func (m *Manager) Drop(ctx context.Context, conn sparkload.DBConnection, dbName string) error {
	stmt := fmt.Sprintf("DROP DATABASE IF EXISTS %s", pgx.Identifier{dbName}.Sanitize())
	if err := execDedicated(ctx, conn, stmt); err != nil {
		return fmt.Errorf("failed to drop database %q: %w", dbName, err)
	}
	return nil
}

func (m *Manager) TerminateConnections(ctx context.Context, conn sparkload.DBConnection, dbName string) error {
	if _, err := conn.Exec(ctx, queryTerminateConnections, dbName); err != nil {
		return fmt.Errorf("failed to terminate connections to database %q: %w", dbName, err)
	}
	return nil
}

// Reset terminates other sessions on dbName, drops it and creates it empty.
func (m *Manager) Reset(ctx context.Context, conn sparkload.DBConnection, dbName string) error {
	exists, err := m.Exists(ctx, conn, dbName)
	if err != nil {
		return err
	}
	if exists {
		if err := m.TerminateConnections(ctx, conn, dbName); err != nil {
			return err
		}
		if err := m.Drop(ctx, conn, dbName); err != nil {
			return err
		}
	}
	return m.Create(ctx, conn, dbName)
}

func execDedicated(ctx context.Context, conn sparkload.DBConnection, stmt string) error {
	pooled, err := conn.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer pooled.Release()

	_, err = pooled.Exec(ctx, stmt)
	return err
}

var _ sparkload.DatabaseManager = (*Manager)(nil)
