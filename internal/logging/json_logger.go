package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// JSONLogger writes one JSON object per line through zerolog.
// Verbose maps to the debug level.
type JSONLogger struct {
	log zerolog.Logger
}

// NewJSONLogger creates a JSONLogger on stderr.
func NewJSONLogger(verbose bool) *JSONLogger {
	return NewJSONLoggerTo(os.Stderr, verbose)
}

// NewJSONLoggerTo creates a JSONLogger on w.
func NewJSONLoggerTo(w io.Writer, verbose bool) *JSONLogger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return &JSONLogger{
		log: zerolog.New(w).Level(level).Hook(timestampHook{}).With().Str("app", "sparkload").Logger(),
	}
}

// timestampHook stamps each event in RFC 3339 with nanoseconds, leaving the
// process-wide zerolog.TimeFieldFormat alone.
type timestampHook struct{}

func (timestampHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str(zerolog.TimestampFieldName, time.Now().Format(time.RFC3339Nano))
}

func (l *JSONLogger) Verbose(format string, args ...interface{}) {
	l.log.Debug().Msg(render(format, args))
}

func (l *JSONLogger) Info(format string, args ...interface{}) {
	l.log.Info().Msg(render(format, args))
}

func (l *JSONLogger) Error(format string, args ...interface{}) {
	l.log.Error().Msg(render(format, args))
}

func render(format string, args []interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
