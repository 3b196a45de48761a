package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// InteractiveApprover asks the user to type the database name before a
// destructive operation.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

// NewInteractiveApprover creates an InteractiveApprover on stdin and stderr.
func NewInteractiveApprover(verbose bool) sparkload.Approver {
	return &InteractiveApprover{verbose: verbose, input: os.Stdin, output: os.Stderr}
}

func (a *InteractiveApprover) RequestApproval(ctx context.Context, dbName, action string) (bool, error) {
	styles := newStyles(a.output)
	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, styles.danger.Render(fmt.Sprintf("WARNING: You are about to %s in database '%s'", action, dbName)))
	fmt.Fprintln(a.output, "This will permanently delete the loaded data!")
	fmt.Fprintf(a.output, "\nTo confirm, type the database name '%s' and press Enter: ", dbName)

	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	// The read cannot be interrupted; a cancelled prompt leaves the goroutine
	// blocked until the process exits.
	go func() {
		line, err := bufio.NewReader(a.input).ReadString('\n')
		if err != nil && line == "" {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(line)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == dbName {
			fmt.Fprintln(a.output, styles.ok.Render("✓ Confirmed."))
			return true, nil
		}
		fmt.Fprintf(a.output, "✗ Input '%s' does not match database name '%s'. Operation cancelled.\n", input, dbName)
		return false, nil
	}
}

var _ sparkload.Approver = (*InteractiveApprover)(nil)
