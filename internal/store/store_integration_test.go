package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/sparkload/internal/store"
	testhelpers "github.com/vvka-141/sparkload/internal/testing"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

func loadInTx(t *testing.T, pool *pgxpool.Pool, fn func(ctx context.Context, q sparkload.BatchSender) error) {
	t.Helper()
	ctx := context.Background()

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx) //nolint:errcheck

	require.NoError(t, fn(ctx, tx))
	require.NoError(t, tx.Commit(ctx))
}

func countRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&n))
	return n
}

func TestStore_CatalogThenLookup(t *testing.T) {
	pool, _ := testhelpers.NewSchemaDB(t, "sparkload_store_catalog")
	loader := store.NewLoader()
	loc := "Dubai UAE"

	loadInTx(t, pool, func(ctx context.Context, q sparkload.BatchSender) error {
		_, err := loader.LoadCatalog(ctx, q, sparkload.CatalogRows{
			Songs:   []sparkload.SongRow{{SongID: "S1", Title: "X", ArtistID: "A1", Year: 2000, Duration: 200.5}},
			Artists: []sparkload.ArtistRow{{ArtistID: "A1", Name: "Y", Location: &loc}},
		})
		return err
	})

	lookup := store.NewCatalogLookup(pool)
	songID, artistID, ok, err := lookup.ResolveSong(context.Background(), "X", "Y", 200.5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "S1", songID)
	assert.Equal(t, "A1", artistID)

	_, _, ok, err = lookup.ResolveSong(context.Background(), "X", "Y", 200.6)
	require.NoError(t, err)
	assert.False(t, ok)

	var lat *float64
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT latitude FROM artists WHERE artist_id = 'A1'").Scan(&lat))
	assert.Nil(t, lat)
}

func TestStore_RerunSemantics(t *testing.T) {
	pool, _ := testhelpers.NewSchemaDB(t, "sparkload_store_rerun")
	loader := store.NewLoader()
	start := time.UnixMilli(1541440000000).UTC()

	load := func(level string) map[sparkload.Table]int64 {
		var counts map[sparkload.Table]int64
		loadInTx(t, pool, func(ctx context.Context, q sparkload.BatchSender) error {
			var err error
			counts, err = loader.LoadEvents(ctx, q, sparkload.EventRows{
				Times: []sparkload.TimeRow{{StartTime: start, Hour: 17, Day: 5, Week: 45, Month: 11, Year: 2018, Weekday: 0}},
				Users: []sparkload.UserRow{{UserID: "8", FirstName: "Kaylee", LastName: "Summers", Gender: "F", Level: level}},
				SongPlays: []sparkload.SongPlayRow{
					{ID: uuid.New(), StartTime: start, UserID: "8", Level: level, SessionID: 139, Location: "Phoenix", UserAgent: "Mozilla"},
				},
			})
			return err
		})
		return counts
	}

	first := load("free")
	assert.Equal(t, int64(1), first[sparkload.TableTime])

	second := load("paid")
	assert.Zero(t, second[sparkload.TableTime], "existing time rows are left alone")
	assert.Equal(t, int64(1), second[sparkload.TableUsers])

	var level string
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT level FROM users WHERE user_id = '8'").Scan(&level))
	assert.Equal(t, "paid", level)

	assert.Equal(t, 1, countRows(t, pool, "time"))
	assert.Equal(t, 1, countRows(t, pool, "users"))
	assert.Equal(t, 2, countRows(t, pool, "songplays"))

	var nullSongs int
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT count(*) FROM songplays WHERE song_id IS NULL AND artist_id IS NULL").Scan(&nullSongs))
	assert.Equal(t, 2, nullSongs)
}

func TestStore_SchemaCreateIsRepeatableAndDrop(t *testing.T) {
	pool, _ := testhelpers.NewSchemaDB(t, "sparkload_store_schema")
	ctx := context.Background()
	schema := store.NewSchema()

	require.NoError(t, schema.Create(ctx, pool))
	require.NoError(t, schema.Drop(ctx, pool))

	var n int
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT count(*) FROM information_schema.tables WHERE table_schema = 'public' AND table_name = ANY($1)",
		[]string{"songs", "artists", "users", "time", "songplays"}).Scan(&n))
	assert.Zero(t, n)
}
