package transform

import (
	"fmt"
	"io"

	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// TransformCatalog reads song records from r and returns one song and one
// artist row per record, values copied as they are.
//
// An empty input, invalid JSON or a record without song_id or artist_id fails
// the whole file.
func TransformCatalog(r io.Reader) (sparkload.CatalogRows, error) {
	var rows sparkload.CatalogRows

	n, err := decodeEach(r, func(n int, rec *songRecord) error {
		if err := validateRecord(n, rec); err != nil {
			return err
		}
		rows.Songs = append(rows.Songs, sparkload.SongRow{
			SongID:   rec.SongID,
			Title:    rec.Title,
			ArtistID: rec.ArtistID,
			Year:     rec.Year,
			Duration: rec.Duration,
		})
		rows.Artists = append(rows.Artists, sparkload.ArtistRow{
			ArtistID:  rec.ArtistID,
			Name:      rec.ArtistName,
			Location:  rec.ArtistLocation,
			Latitude:  rec.ArtistLatitude,
			Longitude: rec.ArtistLongitude,
		})
		return nil
	})
	if err != nil {
		return sparkload.CatalogRows{}, err
	}
	if n == 0 {
		return sparkload.CatalogRows{}, fmt.Errorf("no song record found: %w", sparkload.ErrMalformedRecord)
	}
	return rows, nil
}
