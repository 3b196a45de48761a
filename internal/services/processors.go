package services

import (
	"bytes"
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/sparkload/internal/metrics"
	"github.com/vvka-141/sparkload/internal/store"
	"github.com/vvka-141/sparkload/internal/transform"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// CatalogProcessor transforms one song file and loads artists and songs in tx.
func CatalogProcessor(loader *store.Loader) sparkload.FileProcessor {
	return func(ctx context.Context, tx pgx.Tx, _ string, content []byte) (map[sparkload.Table]int64, error) {
		rows, err := transform.TransformCatalog(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		return loader.LoadCatalog(ctx, tx, rows)
	}
}

// EventProcessor transforms one log file, resolving plays against the catalog
// through tx, and loads time, users and songplays in tx.
func EventProcessor(loader *store.Loader, logger sparkload.Logger, rec *metrics.Recorder) sparkload.FileProcessor {
	return func(ctx context.Context, tx pgx.Tx, path string, content []byte) (map[sparkload.Table]int64, error) {
		rows, err := transform.TransformEventLog(ctx, bytes.NewReader(content), store.NewCatalogLookup(tx))
		if err != nil {
			return nil, err
		}

		counts, err := loader.LoadEvents(ctx, tx, rows)
		if err != nil {
			return nil, err
		}

		if n := rows.Unresolved(); n > 0 {
			logger.Verbose("%s: %d of %d song plays have no catalog match", path, n, len(rows.SongPlays))
			rec.Unresolved(n)
		}
		return counts, nil
	}
}
