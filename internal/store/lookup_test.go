package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRow struct {
	values []string
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		*(d.(*string)) = r.values[i]
	}
	return nil
}

type stubQuerier struct {
	row  stubRow
	sql  string
	args []any
}

func (q *stubQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sql = sql
	q.args = args
	return q.row
}

func TestCatalogLookup_Hit(t *testing.T) {
	q := &stubQuerier{row: stubRow{values: []string{"S1", "A1"}}}

	songID, artistID, ok, err := NewCatalogLookup(q).ResolveSong(context.Background(), "Setanta matins", "Elena", 269.58322)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "S1", songID)
	assert.Equal(t, "A1", artistID)
	assert.Equal(t, []any{"Setanta matins", "Elena", 269.58322}, q.args)
	assert.Contains(t, q.sql, "JOIN artists")
}

func TestCatalogLookup_Miss(t *testing.T) {
	q := &stubQuerier{row: stubRow{err: pgx.ErrNoRows}}

	songID, artistID, ok, err := NewCatalogLookup(q).ResolveSong(context.Background(), "Unknown", "Nobody", 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, songID)
	assert.Empty(t, artistID)
}

func TestCatalogLookup_QueryError(t *testing.T) {
	boom := errors.New("conn closed")
	q := &stubQuerier{row: stubRow{err: boom}}

	_, _, ok, err := NewCatalogLookup(q).ResolveSong(context.Background(), "T", "A", 1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}
