package store

import (
	"fmt"

	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// Conflict handling per table: catalog and user rows overwrite, so the last
// file loaded wins; time rows collide constantly and are kept as first
// written; songplays use client-generated keys and never collide.
var insertQueries = map[sparkload.Table]string{
	sparkload.TableSongs: `INSERT INTO songs (song_id, title, artist_id, year, duration)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (song_id) DO UPDATE SET
    title = EXCLUDED.title, artist_id = EXCLUDED.artist_id,
    year = EXCLUDED.year, duration = EXCLUDED.duration`,

	sparkload.TableArtists: `INSERT INTO artists (artist_id, name, location, latitude, longitude)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (artist_id) DO UPDATE SET
    name = EXCLUDED.name, location = EXCLUDED.location,
    latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude`,

	sparkload.TableUsers: `INSERT INTO users (user_id, first_name, last_name, gender, level)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE SET
    first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
    gender = EXCLUDED.gender, level = EXCLUDED.level`,

	sparkload.TableTime: `INSERT INTO time (start_time, hour, day, week, month, year, weekday)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (start_time) DO NOTHING`,

	sparkload.TableSongplays: `INSERT INTO songplays (songplay_id, start_time, user_id, level, song_id, artist_id, session_id, location, user_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
}

// songSelect finds the catalog ids of a play by exact title, artist name and duration.
const songSelect = `SELECT s.song_id, a.artist_id
FROM songs s
JOIN artists a ON s.artist_id = a.artist_id
WHERE s.title = $1 AND a.name = $2 AND s.duration = $3
LIMIT 1`

// dropTables lists tables in an order that is safe to drop.
var dropTables = []sparkload.Table{
	sparkload.TableSongplays, sparkload.TableUsers, sparkload.TableSongs, sparkload.TableArtists, sparkload.TableTime,
}

func insertQuery(table sparkload.Table) (string, error) {
	q, ok := insertQueries[table]
	if !ok {
		return "", fmt.Errorf("no insert statement for table %q", table)
	}
	return q, nil
}
