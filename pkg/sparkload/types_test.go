package sparkload_test

import (
	"errors"
	"testing"

	"github.com/vvka-141/sparkload/pkg/sparkload"
)

func TestParseErrorPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    sparkload.ErrorPolicy
		wantErr bool
	}{
		{"", sparkload.ErrorPolicyAbort, false},
		{"abort", sparkload.ErrorPolicyAbort, false},
		{"continue", sparkload.ErrorPolicyContinue, false},
		{"skip", sparkload.ErrorPolicyAbort, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := sparkload.ParseErrorPolicy(tt.in)
			if tt.wantErr {
				if !errors.Is(err, sparkload.ErrInvalidConfig) {
					t.Fatalf("ParseErrorPolicy(%q) error = %v, want ErrInvalidConfig", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseErrorPolicy(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseErrorPolicy(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestErrorPolicyString(t *testing.T) {
	if s := sparkload.ErrorPolicyContinue.String(); s != "continue" {
		t.Errorf("String() = %q, want continue", s)
	}
	if s := sparkload.ErrorPolicyAbort.String(); s != "abort" {
		t.Errorf("String() = %q, want abort", s)
	}
}

func validLoadConfig() sparkload.LoadConfig {
	return sparkload.LoadConfig{
		Connection:   &sparkload.ConnectionConfig{Host: "localhost", Port: 5432, Database: "sparkifydb"},
		SongDataPath: sparkload.DefaultSongDataPath,
		LogDataPath:  sparkload.DefaultLogDataPath,
		Extension:    sparkload.DefaultExtension,
	}
}

func TestLoadConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*sparkload.LoadConfig)
		wantErr bool
	}{
		{"valid", func(*sparkload.LoadConfig) {}, false},
		{"empty extension allowed", func(c *sparkload.LoadConfig) { c.Extension = "" }, false},
		{"missing connection", func(c *sparkload.LoadConfig) { c.Connection = nil }, true},
		{"missing song data", func(c *sparkload.LoadConfig) { c.SongDataPath = "" }, true},
		{"missing log data", func(c *sparkload.LoadConfig) { c.LogDataPath = "" }, true},
		{"extension without dot", func(c *sparkload.LoadConfig) { c.Extension = "json" }, true},
		{"negative timeout", func(c *sparkload.LoadConfig) { c.Timeout = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validLoadConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, sparkload.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadConfigDatasetsOrder(t *testing.T) {
	cfg := validLoadConfig()
	ds := cfg.Datasets()
	if len(ds) != 2 {
		t.Fatalf("Datasets() returned %d entries, want 2", len(ds))
	}
	if ds[0].Kind != sparkload.DatasetCatalog || ds[0].Root != cfg.SongDataPath {
		t.Errorf("first dataset = %+v, want catalog at %s", ds[0], cfg.SongDataPath)
	}
	if ds[1].Kind != sparkload.DatasetEvents || ds[1].Root != cfg.LogDataPath {
		t.Errorf("second dataset = %+v, want events at %s", ds[1], cfg.LogDataPath)
	}
}

func TestDatasetKindString(t *testing.T) {
	if s := sparkload.DatasetCatalog.String(); s != "catalog" {
		t.Errorf("DatasetCatalog.String() = %q", s)
	}
	if s := sparkload.DatasetEvents.String(); s != "events" {
		t.Errorf("DatasetEvents.String() = %q", s)
	}
}

func TestReportRows(t *testing.T) {
	var catalog sparkload.DatasetReport
	catalog.AddRows(map[sparkload.Table]int64{sparkload.TableSongs: 1, sparkload.TableArtists: 1})
	catalog.AddRows(map[sparkload.Table]int64{sparkload.TableSongs: 2})

	var events sparkload.DatasetReport
	events.AddRows(map[sparkload.Table]int64{sparkload.TableSongplays: 5})

	run := sparkload.RunReport{Datasets: []sparkload.DatasetReport{catalog, events}}
	if got := run.TotalRows(sparkload.TableSongs); got != 3 {
		t.Errorf("TotalRows(songs) = %d, want 3", got)
	}
	if got := run.TotalRows(sparkload.TableSongplays); got != 5 {
		t.Errorf("TotalRows(songplays) = %d, want 5", got)
	}
	if got := run.TotalRows(sparkload.TableUsers); got != 0 {
		t.Errorf("TotalRows(users) = %d, want 0", got)
	}
}

func TestEventRowsUnresolved(t *testing.T) {
	song, artist := "SOABC", "ARXYZ"
	rows := sparkload.EventRows{SongPlays: []sparkload.SongPlayRow{
		{SongID: &song, ArtistID: &artist},
		{},
		{},
	}}
	if got := rows.Unresolved(); got != 2 {
		t.Errorf("Unresolved() = %d, want 2", got)
	}
}
