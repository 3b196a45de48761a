package sparkload

import (
	"time"

	"github.com/google/uuid"
)

// Table identifies a destination table.
type Table string

const (
	TableSongs     Table = "songs"
	TableArtists   Table = "artists"
	TableUsers     Table = "users"
	TableTime      Table = "time"
	TableSongplays Table = "songplays"
)

// Tables lists every destination table in creation order.
var Tables = []Table{TableSongs, TableArtists, TableUsers, TableTime, TableSongplays}

// Tuple is one row of positional statement arguments.
type Tuple = []any

// SongRow is one row of the songs table.
type SongRow struct {
	SongID   string
	Title    string
	ArtistID string
	Year     int
	Duration float64
}

// Tuple returns the row in songs column order.
func (r SongRow) Tuple() Tuple {
	return Tuple{r.SongID, r.Title, r.ArtistID, r.Year, r.Duration}
}

// ArtistRow is one row of the artists table.
// Location and coordinates are nil when the source record carries null.
type ArtistRow struct {
	ArtistID  string
	Name      string
	Location  *string
	Latitude  *float64
	Longitude *float64
}

// Tuple returns the row in artists column order.
func (r ArtistRow) Tuple() Tuple {
	return Tuple{r.ArtistID, r.Name, r.Location, r.Latitude, r.Longitude}
}

// UserRow is one row of the users table.
type UserRow struct {
	UserID    string
	FirstName string
	LastName  string
	Gender    string
	Level     string
}

// Tuple returns the row in users column order.
func (r UserRow) Tuple() Tuple {
	return Tuple{r.UserID, r.FirstName, r.LastName, r.Gender, r.Level}
}

// TimeRow is one row of the time dimension, derived from a single event timestamp.
type TimeRow struct {
	StartTime time.Time
	Hour      int
	Day       int
	Week      int // ISO 8601 week of year
	Month     int
	Year      int
	Weekday   int // Monday=0 ... Sunday=6
}

// Tuple returns the row in time column order.
func (r TimeRow) Tuple() Tuple {
	return Tuple{r.StartTime, r.Hour, r.Day, r.Week, r.Month, r.Year, r.Weekday}
}

// SongPlayRow is one row of the songplays fact table.
// SongID and ArtistID are nil when the play could not be matched to the catalog.
type SongPlayRow struct {
	ID        uuid.UUID
	StartTime time.Time
	UserID    string
	Level     string
	SongID    *string
	ArtistID  *string
	SessionID int64
	Location  string
	UserAgent string
}

// Tuple returns the row in songplays column order.
func (r SongPlayRow) Tuple() Tuple {
	return Tuple{r.ID, r.StartTime, r.UserID, r.Level, r.SongID, r.ArtistID, r.SessionID, r.Location, r.UserAgent}
}

// CatalogRows is the output of transforming one catalog file.
type CatalogRows struct {
	Songs   []SongRow
	Artists []ArtistRow
}

// EventRows is the output of transforming one event-log file.
// Each slice is in source-file order; nothing is sorted or deduplicated.
type EventRows struct {
	Times     []TimeRow
	Users     []UserRow
	SongPlays []SongPlayRow
}

// Unresolved counts song plays that did not match a catalog entry.
func (e EventRows) Unresolved() int {
	n := 0
	for _, sp := range e.SongPlays {
		if sp.SongID == nil {
			n++
		}
	}
	return n
}
