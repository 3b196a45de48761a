package logging

import (
	"fmt"
	"strings"

	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// Formats accepted by --log-format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New returns the stderr logger for format. An empty format means console.
func New(format string, verbose bool) (sparkload.Logger, error) {
	switch strings.ToLower(format) {
	case "", FormatConsole:
		return NewConsoleLogger(verbose), nil
	case FormatJSON:
		return NewJSONLogger(verbose), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want console or json): %w", format, sparkload.ErrInvalidConfig)
	}
}

var (
	_ sparkload.Logger = (*ConsoleLogger)(nil)
	_ sparkload.Logger = (*JSONLogger)(nil)
	_ sparkload.Logger = (*NullLogger)(nil)
)
