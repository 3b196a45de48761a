package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// NewApprover picks the approver for a destructive command. Without force,
// stdin must be a terminal so the user can answer the prompt.
func NewApprover(force, verbose bool) (sparkload.Approver, error) {
	if force {
		return NewForcedApprover(verbose), nil
	}
	if !isTerminal(os.Stdin) {
		return nil, fmt.Errorf("stdin is not a terminal; pass --force to confirm non-interactively: %w", sparkload.ErrInvalidConfig)
	}
	return NewInteractiveApprover(verbose), nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

type styles struct {
	danger lipgloss.Style
	ok     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		danger: r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		ok:     r.NewStyle().Foreground(lipgloss.Color("10")),
	}
}
