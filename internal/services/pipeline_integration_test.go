package services_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/sparkload/internal/db"
	"github.com/vvka-141/sparkload/internal/db/manager"
	"github.com/vvka-141/sparkload/internal/files/discovery"
	"github.com/vvka-141/sparkload/internal/logging"
	"github.com/vvka-141/sparkload/internal/services"
	testhelpers "github.com/vvka-141/sparkload/internal/testing"
	"github.com/vvka-141/sparkload/internal/testing/fixtures"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

func TestPipeline_EndToEnd(t *testing.T) {
	pool, connString := testhelpers.NewSchemaDB(t, "sparkload_pipeline")
	ctx := context.Background()

	connConfig, err := db.ParseConnectionString(connString)
	require.NoError(t, err)

	b := fixtures.NewDatasetBuilder("/data").
		AddSong("A/A/TRAAAAW128F429D538.json", fixtures.Song{SongID: "SOMZWCG12A8C13C480", Title: "I Didn't Mean To", ArtistID: "ARD7TVE1187B99BFB1", ArtistName: "Casual", Duration: 218.93179}).
		AddLog("2018/11/2018-11-05-events.json",
			fixtures.Play{TS: 1541440000000, UserID: "8", FirstName: "Kaylee", Level: "free", Song: "I Didn't Mean To", Artist: "Casual", Length: 218.93179, SessionID: 139},
			fixtures.Play{TS: 1541440000000, UserID: "8", FirstName: "Kaylee", Level: "paid", Song: "Unknown", Artist: "Nobody", Length: 12, SessionID: 139},
		)
	logger := logging.NewNullLogger()

	run := func() sparkload.RunReport {
		var progress bytes.Buffer
		p := services.NewPipeline(
			services.NewSessionManager(db.Factory(logger), logger),
			discovery.New(b.Build(), ""),
			&progress,
			logger,
		)
		report, err := p.Run(ctx, sparkload.LoadConfig{
			Connection:   connConfig,
			SongDataPath: b.SongRoot(),
			LogDataPath:  b.LogRoot(),
		})
		require.NoError(t, err)
		assert.Contains(t, progress.String(), "1/1 files processed.")
		return report
	}

	first := run()
	assert.Equal(t, int64(1), first.TotalRows(sparkload.TableTime), "second event at the same instant collides")
	assert.Equal(t, int64(2), first.TotalRows(sparkload.TableSongplays))

	run()

	var level string
	require.NoError(t, pool.QueryRow(ctx, "SELECT level FROM users WHERE user_id = '8'").Scan(&level))
	assert.Equal(t, "paid", level)

	var plays, matched int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*), count(song_id) FROM songplays").Scan(&plays, &matched))
	assert.Equal(t, 4, plays)
	assert.Equal(t, 2, matched)

	var songID, artistID string
	require.NoError(t, pool.QueryRow(ctx, "SELECT song_id, artist_id FROM songplays WHERE song_id IS NOT NULL LIMIT 1").Scan(&songID, &artistID))
	assert.Equal(t, "SOMZWCG12A8C13C480", songID)
	assert.Equal(t, "ARD7TVE1187B99BFB1", artistID)
}

func TestSchemaService_ResetIntegration(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	ctx := context.Background()
	dbName := testhelpers.UniqueDBName("sparkload_reset")
	t.Cleanup(func() { testhelpers.CleanupTestDB(t, connString, dbName) })

	maint, err := db.ParseConnectionString(connString)
	require.NoError(t, err)
	target := *maint
	target.Database = dbName

	logger := logging.NewNullLogger()
	factory := db.Factory(logger)
	svc := services.NewSchemaService(factory, services.NewSessionManager(factory, logger), manager.New(), logger)

	require.NoError(t, svc.Reset(ctx, &target, maint.Database))
	require.NoError(t, svc.Reset(ctx, &target, maint.Database), "reset of an existing database")

	pool := testhelpers.GetTestPool(t, connString, dbName)
	var n int
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT count(*) FROM information_schema.tables WHERE table_schema = 'public'").Scan(&n))
	assert.Equal(t, 5, n)
}
