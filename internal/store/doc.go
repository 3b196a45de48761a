// Package store writes transformed rows to PostgreSQL and reads the catalog
// back for song-play resolution.
//
// Nothing here commits. Every call runs on the caller's transaction so a
// file's rows land together or not at all.
package store
