package fixtures

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/vvka-141/sparkload/internal/files/filesystem"
)

// Song describes one catalog file.
type Song struct {
	SongID     string
	Title      string
	ArtistID   string
	ArtistName string
	Year       int
	Duration   float64
}

type songDoc struct {
	NumSongs        int      `json:"num_songs"`
	ArtistID        string   `json:"artist_id"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
	ArtistLocation  string   `json:"artist_location"`
	ArtistName      string   `json:"artist_name"`
	SongID          string   `json:"song_id"`
	Title           string   `json:"title"`
	Duration        float64  `json:"duration"`
	Year            int      `json:"year"`
}

// JSON renders the song the way the catalog dataset stores it.
func (s Song) JSON() string {
	return mustMarshal(songDoc{
		NumSongs:   1,
		ArtistID:   s.ArtistID,
		ArtistName: s.ArtistName,
		SongID:     s.SongID,
		Title:      s.Title,
		Duration:   s.Duration,
		Year:       s.Year,
	})
}

// Play describes one NextSong event.
type Play struct {
	TS        int64
	UserID    string
	FirstName string
	Level     string
	Song      string
	Artist    string
	Length    float64
	SessionID int64
}

type playDoc struct {
	Artist        string  `json:"artist"`
	Auth          string  `json:"auth"`
	FirstName     string  `json:"firstName"`
	Gender        string  `json:"gender"`
	ItemInSession int     `json:"itemInSession"`
	LastName      string  `json:"lastName"`
	Length        float64 `json:"length"`
	Level         string  `json:"level"`
	Location      string  `json:"location"`
	Method        string  `json:"method"`
	Page          string  `json:"page"`
	Registration  float64 `json:"registration"`
	SessionID     int64   `json:"sessionId"`
	Song          string  `json:"song"`
	Status        int     `json:"status"`
	TS            int64   `json:"ts"`
	UserAgent     string  `json:"userAgent"`
	UserID        string  `json:"userId"`
}

// JSON renders the play as one event-log line.
func (p Play) JSON() string {
	return mustMarshal(playDoc{
		Artist:       p.Artist,
		Auth:         "Logged In",
		FirstName:    p.FirstName,
		Gender:       "F",
		LastName:     "Doe",
		Length:       p.Length,
		Level:        p.Level,
		Location:     "Tampa, FL",
		Method:       "PUT",
		Page:         "NextSong",
		Registration: 1540835983796,
		SessionID:    p.SessionID,
		Song:         p.Song,
		Status:       200,
		TS:           p.TS,
		UserAgent:    "Mozilla/5.0",
		UserID:       p.UserID,
	})
}

func mustMarshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("fixtures: marshal %T: %v", v, err))
	}
	return string(b)
}

// HomePageEvent is a non-song event line; it must produce no rows.
const HomePageEvent = `{"artist": null, "auth": "Logged In", "firstName": "Walter", "gender": "M", "itemInSession": 0, "lastName": "Frye", "length": null, "level": "free", "location": "San Francisco, CA", "method": "GET", "page": "Home", "registration": 1540919166796.0, "sessionId": 38, "song": null, "status": 200, "ts": 1541105830796, "userAgent": "Mozilla/5.0", "userId": "39"}`

// DatasetBuilder assembles song_data and log_data trees in memory.
//
// Example usage:
//
//	fs := NewDatasetBuilder("/data").
//	    AddSong("A/A/A/TRAAA.json", Song{SongID: "S1", ...}).
//	    AddLog("2018/11/2018-11-05-events.json", Play{...}, Play{...}).
//	    Build()
type DatasetBuilder struct {
	root  string
	files map[string]string
}

func NewDatasetBuilder(root string) *DatasetBuilder {
	return &DatasetBuilder{root: strings.TrimSuffix(root, "/"), files: make(map[string]string)}
}

// SongRoot returns the catalog dataset root.
func (b *DatasetBuilder) SongRoot() string { return b.root + "/song_data" }

// LogRoot returns the event-log dataset root.
func (b *DatasetBuilder) LogRoot() string { return b.root + "/log_data" }

// AddSong writes one catalog file at rel under song_data.
func (b *DatasetBuilder) AddSong(rel string, s Song) *DatasetBuilder {
	b.files[b.SongRoot()+"/"+rel] = s.JSON()
	return b
}

// AddLog writes one event-log file at rel under log_data, one play per line.
func (b *DatasetBuilder) AddLog(rel string, plays ...Play) *DatasetBuilder {
	lines := make([]string, len(plays))
	for i, p := range plays {
		lines[i] = p.JSON()
	}
	b.files[b.LogRoot()+"/"+rel] = strings.Join(lines, "\n") + "\n"
	return b
}

// AddRaw writes arbitrary content at an absolute path.
func (b *DatasetBuilder) AddRaw(path, content string) *DatasetBuilder {
	b.files[path] = content
	return b
}

// Build returns the tree as a MemoryFileSystem. Both dataset roots exist
// even when no file was added under them.
func (b *DatasetBuilder) Build() *filesystem.MemoryFileSystem {
	mfs := filesystem.NewMemoryFileSystem(b.root)
	mfs.AddDir(b.SongRoot())
	mfs.AddDir(b.LogRoot())
	for p, content := range b.files {
		mfs.AddFile(p, content)
	}
	return mfs
}
