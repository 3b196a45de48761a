package transform

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// TransformEventLog reads listening events from r and returns rows for every
// NextSong event, in file order. Other pages are dropped.
//
// Each play is matched against the catalog through resolver on
// (song, artist, length). A miss leaves the song and artist ids NULL; so does
// an event with any of the three missing, without a lookup.
func TransformEventLog(ctx context.Context, r io.Reader, resolver sparkload.SongResolver) (sparkload.EventRows, error) {
	var rows sparkload.EventRows

	_, err := decodeEach(r, func(n int, raw *json.RawMessage) error {
		var page eventPage
		if err := json.Unmarshal(*raw, &page); err != nil {
			return fmt.Errorf("record %d: %w: %w", n, sparkload.ErrMalformedRecord, err)
		}
		if page.Page != sparkload.NextSongPage {
			return nil
		}
		rec := &eventRecord{}
		if err := json.Unmarshal(*raw, rec); err != nil {
			return fmt.Errorf("record %d: %w: %w", n, sparkload.ErrMalformedRecord, err)
		}
		if err := validateRecord(n, rec); err != nil {
			return err
		}

		tr := NewTimeRow(*rec.TS)
		rows.Times = append(rows.Times, tr)

		user := sparkload.UserRow{
			UserID:    string(rec.UserID),
			FirstName: ptrValue(rec.FirstName),
			LastName:  ptrValue(rec.LastName),
			Gender:    ptrValue(rec.Gender),
			Level:     rec.Level,
		}
		rows.Users = append(rows.Users, user)

		play := sparkload.SongPlayRow{
			ID:        uuid.New(),
			StartTime: tr.StartTime,
			UserID:    user.UserID,
			Level:     rec.Level,
			SessionID: rec.SessionID,
			Location:  ptrValue(rec.Location),
			UserAgent: ptrValue(rec.UserAgent),
		}
		if rec.Song != nil && rec.Artist != nil && rec.Length != nil {
			songID, artistID, ok, err := resolver.ResolveSong(ctx, *rec.Song, *rec.Artist, *rec.Length)
			if err != nil {
				return fmt.Errorf("record %d: resolve song: %w", n, err)
			}
			if ok {
				play.SongID = &songID
				play.ArtistID = &artistID
			}
		}
		rows.SongPlays = append(rows.SongPlays, play)
		return nil
	})
	if err != nil {
		return sparkload.EventRows{}, err
	}
	return rows, nil
}
