package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// Loader queues one statement per row into a single pgx.Batch per table,
// so each table of a file costs one round trip.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

// Load inserts rows into table through q and returns the rows affected.
// Time rows that already exist count as zero.
func (l *Loader) Load(ctx context.Context, q sparkload.BatchSender, table sparkload.Table, rows []sparkload.Tuple) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	sql, err := insertQuery(table)
	if err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(sql, row...)
	}

	results := q.SendBatch(ctx, batch)

	var affected int64
	for i := range rows {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, fmt.Errorf("insert into %s, row %d: %w", table, i+1, err)
		}
		affected += tag.RowsAffected()
	}

	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("complete %s batch: %w", table, err)
	}
	return affected, nil
}

// LoadCatalog loads artists, then songs.
func (l *Loader) LoadCatalog(ctx context.Context, q sparkload.BatchSender, rows sparkload.CatalogRows) (map[sparkload.Table]int64, error) {
	artists := make([]sparkload.Tuple, len(rows.Artists))
	for i, r := range rows.Artists {
		artists[i] = r.Tuple()
	}
	songs := make([]sparkload.Tuple, len(rows.Songs))
	for i, r := range rows.Songs {
		songs[i] = r.Tuple()
	}

	return l.loadAll(ctx, q, []tableRows{
		{sparkload.TableArtists, artists},
		{sparkload.TableSongs, songs},
	})
}

// LoadEvents loads time, users, then songplays.
func (l *Loader) LoadEvents(ctx context.Context, q sparkload.BatchSender, rows sparkload.EventRows) (map[sparkload.Table]int64, error) {
	times := make([]sparkload.Tuple, len(rows.Times))
	for i, r := range rows.Times {
		times[i] = r.Tuple()
	}
	users := make([]sparkload.Tuple, len(rows.Users))
	for i, r := range rows.Users {
		users[i] = r.Tuple()
	}
	plays := make([]sparkload.Tuple, len(rows.SongPlays))
	for i, r := range rows.SongPlays {
		plays[i] = r.Tuple()
	}

	return l.loadAll(ctx, q, []tableRows{
		{sparkload.TableTime, times},
		{sparkload.TableUsers, users},
		{sparkload.TableSongplays, plays},
	})
}

type tableRows struct {
	table sparkload.Table
	rows  []sparkload.Tuple
}

func (l *Loader) loadAll(ctx context.Context, q sparkload.BatchSender, tables []tableRows) (map[sparkload.Table]int64, error) {
	counts := make(map[sparkload.Table]int64, len(tables))
	for _, t := range tables {
		n, err := l.Load(ctx, q, t.table, t.rows)
		if err != nil {
			return nil, err
		}
		counts[t.table] = n
	}
	return counts, nil
}
