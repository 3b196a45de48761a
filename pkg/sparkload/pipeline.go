package sparkload

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// FileDiscoverer finds dataset files and reads them back.
type FileDiscoverer interface {
	// Discover returns every matching file under root.
	// A missing root fails with ErrSourceNotFound; an empty root does not fail.
	Discover(ctx context.Context, root string) (FileSet, error)

	// ReadFile returns the content of a path produced by Discover.
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// SongResolver looks up the catalog ids for a song play.
// ok is false when no catalog entry matches; that is not an error.
type SongResolver interface {
	ResolveSong(ctx context.Context, title, artist string, duration float64) (songID, artistID string, ok bool, err error)
}

// BatchSender is the subset of pgx.Tx the loader needs.
type BatchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Transactor begins the per-file transaction. *pgxpool.Conn and *pgxpool.Pool satisfy it.
type Transactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// FileProcessor transforms and loads one file inside tx.
// It returns the rows loaded per table. It must not commit.
type FileProcessor func(ctx context.Context, tx pgx.Tx, path string, content []byte) (map[Table]int64, error)
