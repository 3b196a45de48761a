package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ConsoleLogger writes log lines to a writer, stderr by default.
// Prefixes are colored only when the writer is a terminal.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	verbose bool
	out     io.Writer
	mu      sync.Mutex

	verboseStyle lipgloss.Style
	errorStyle   lipgloss.Style
	styled       bool
}

// NewConsoleLogger creates a ConsoleLogger on stderr.
// If verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewConsoleLoggerTo(os.Stderr, verbose)
}

// NewConsoleLoggerTo creates a ConsoleLogger on w.
func NewConsoleLoggerTo(w io.Writer, verbose bool) *ConsoleLogger {
	renderer := lipgloss.NewRenderer(w)
	return &ConsoleLogger{
		verbose:      verbose,
		out:          w,
		verboseStyle: renderer.NewStyle().Faint(true),
		errorStyle:   renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		styled:       isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write(l.prefix("[VERBOSE]", l.verboseStyle), format, args)
}

func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write("", format, args)
}

func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.write(l.prefix("[ERROR]", l.errorStyle), format, args)
}

func (l *ConsoleLogger) prefix(tag string, style lipgloss.Style) string {
	if l.styled {
		tag = style.Render(tag)
	}
	return tag + " "
}

func (l *ConsoleLogger) write(prefix, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.out, prefix+msg+"\n")
}
