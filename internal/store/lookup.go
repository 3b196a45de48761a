package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// Querier runs a single-row query. pgx.Tx, *pgxpool.Conn and *pgxpool.Pool satisfy it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CatalogLookup resolves song plays against the committed catalog, inside
// whatever transaction q belongs to.
type CatalogLookup struct {
	q Querier
}

func NewCatalogLookup(q Querier) *CatalogLookup {
	return &CatalogLookup{q: q}
}

func (c *CatalogLookup) ResolveSong(ctx context.Context, title, artist string, duration float64) (string, string, bool, error) {
	var songID, artistID string
	err := c.q.QueryRow(ctx, songSelect, title, artist, duration).Scan(&songID, &artistID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("look up %q by %q: %w", title, artist, err)
	}
	return songID, artistID, true, nil
}

var _ sparkload.SongResolver = (*CatalogLookup)(nil)
