package transform

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// songRecord is one object of a catalog file.
type songRecord struct {
	NumSongs        int      `json:"num_songs"`
	ArtistID        string   `json:"artist_id" validate:"required"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
	ArtistLocation  *string  `json:"artist_location"`
	ArtistName      string   `json:"artist_name"`
	SongID          string   `json:"song_id" validate:"required"`
	Title           string   `json:"title"`
	Duration        float64  `json:"duration"`
	Year            int      `json:"year"`
}

// eventPage is decoded ahead of eventRecord so that non-playback lines are
// dropped without type-checking fields they never contribute.
type eventPage struct {
	Page string `json:"page"`
}

// eventRecord is the part of a NextSong line the star schema reads.
// Fields that are null for logged-out or unmatched events are pointers.
type eventRecord struct {
	Artist    *string    `json:"artist"`
	FirstName *string    `json:"firstName"`
	Gender    *string    `json:"gender"`
	LastName  *string    `json:"lastName"`
	Length    *float64   `json:"length"`
	Level     string     `json:"level"`
	Location  *string    `json:"location"`
	Page      string     `json:"page"`
	SessionID int64      `json:"sessionId"`
	Song      *string    `json:"song"`
	TS        *int64     `json:"ts" validate:"required"`
	UserAgent *string    `json:"userAgent"`
	UserID    flexString `json:"userId" validate:"required"`
}

// flexString accepts a JSON string or number. Numbers keep their literal text.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*s = flexString(n.String())
	}
	return nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateRecord reports the first missing required field as ErrMissingField.
func validateRecord(n int, rec any) error {
	err := getValidator().Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, len(verrs))
		for i, fe := range verrs {
			fields[i] = fe.Field()
		}
		return fmt.Errorf("record %d: %s: %w", n, strings.Join(fields, ", "), sparkload.ErrMissingField)
	}
	return fmt.Errorf("record %d: %w", n, err)
}

func ptrValue[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
