package store

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schemaSQL string

// Execer runs a statement. pgx.Tx, *pgxpool.Conn and *pgxpool.Pool satisfy it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Schema creates and drops the five tables.
type Schema struct{}

func NewSchema() *Schema {
	return &Schema{}
}

// SQL returns the DDL Create runs.
func (s *Schema) SQL() string {
	return schemaSQL
}

// Create runs CREATE TABLE IF NOT EXISTS for every table; it is safe to repeat.
func (s *Schema) Create(ctx context.Context, q Execer) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Drop removes every table if present.
func (s *Schema) Drop(ctx context.Context, q Execer) error {
	names := make([]string, len(dropTables))
	for i, t := range dropTables {
		names[i] = pgx.Identifier{string(t)}.Sanitize()
	}
	if _, err := q.Exec(ctx, "DROP TABLE IF EXISTS "+strings.Join(names, ", ")); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return nil
}
