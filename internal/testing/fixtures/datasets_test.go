package fixtures

import (
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSongJSON_IsValid(t *testing.T) {
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(Song{SongID: "S1", Title: `Say "Hi"`, ArtistID: "A1", Duration: 200.5}.JSON()), &rec))
	assert.Equal(t, "S1", rec["song_id"])
	assert.Equal(t, `Say "Hi"`, rec["title"])
	assert.Nil(t, rec["artist_latitude"])
}

func TestPlayJSON_IsValid(t *testing.T) {
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(Play{TS: 1541440000000, UserID: "8", Song: "X", Artist: "Y", Length: 1.5}.JSON()), &rec))
	assert.Equal(t, "NextSong", rec["page"])
	assert.Equal(t, "8", rec["userId"])
}

func TestJSON_EscapesControlAndUnicode(t *testing.T) {
	title := "Bell\x01 \u2028 Beyonc\u00e9"

	song := Song{SongID: "S1", Title: title, ArtistID: "A1"}.JSON()
	require.True(t, json.Valid([]byte(song)), song)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(song), &rec))
	assert.Equal(t, title, rec["title"])

	play := Play{TS: 1, UserID: "8", Song: title, Artist: "A\tB"}.JSON()
	require.True(t, json.Valid([]byte(play)), play)
	require.NoError(t, json.Unmarshal([]byte(play), &rec))
	assert.Equal(t, title, rec["song"])
	assert.Equal(t, "A\tB", rec["artist"])
}

func TestDatasetBuilder_Build(t *testing.T) {
	mfs := NewDatasetBuilder("/data").
		AddSong("A/TRA.json", Song{SongID: "S1", ArtistID: "A1"}).
		AddLog("2018-11-05-events.json", Play{UserID: "1"}, Play{UserID: "2"}).
		Build()

	content, err := mfs.ReadFile(context.Background(), "/data/log_data/2018-11-05-events.json")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(content), "\n"))

	_, err = mfs.Open(context.Background(), "/data/song_data")
	require.NoError(t, err)
}

func TestDatasetBuilder_EmptyRootsExist(t *testing.T) {
	b := NewDatasetBuilder("/empty")
	mfs := b.Build()

	_, err := mfs.Open(context.Background(), b.LogRoot())
	assert.NoError(t, err)
}

