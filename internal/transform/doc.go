// Package transform turns raw dataset files into table rows.
//
// Catalog files hold song records and yield one song and one artist row per
// record. Event-log files hold newline-delimited listening events; only
// NextSong events produce rows, one each for time, users and songplays.
//
// Both decoders stream records with goccy/go-json, so a file may hold any
// number of concatenated or newline-separated JSON objects.
package transform
