// Package logging provides implementations of the sparkload.Logger interface.
//
// ConsoleLogger is the default and writes human-oriented lines to stderr.
// JSONLogger emits one zerolog JSON object per line for log shippers.
// NullLogger discards everything and is meant for tests.
package logging
