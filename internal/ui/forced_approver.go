package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// ForcedApprover approves without a prompt after a visible countdown.
// It backs the --force flag.
type ForcedApprover struct {
	verbose   bool
	output    io.Writer
	countdown time.Duration
	sleepFn   func(time.Duration)
}

// NewForcedApprover creates a ForcedApprover that writes to stderr.
func NewForcedApprover(verbose bool) sparkload.Approver {
	return &ForcedApprover{
		verbose:   verbose,
		output:    os.Stderr,
		countdown: sparkload.DefaultForceApprovalCountdown,
		sleepFn:   time.Sleep,
	}
}

func (a *ForcedApprover) RequestApproval(ctx context.Context, dbName, action string) (bool, error) {
	styles := newStyles(a.output)
	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, styles.danger.Render(fmt.Sprintf("DANGER: --force will %s in database '%s'", action, dbName)))
	fmt.Fprintln(a.output, "All affected rows are permanently deleted.")

	seconds := int(a.countdown.Seconds())
	if seconds <= 0 {
		seconds = int(sparkload.DefaultForceApprovalCountdown.Seconds())
	}
	for i := seconds; i > 0; i-- {
		if err := ctx.Err(); err != nil {
			fmt.Fprintln(a.output)
			return false, err
		}
		fmt.Fprintf(a.output, "\rProceeding in: %d seconds... (Press Ctrl+C to cancel)", i)
		a.sleepFn(time.Second)
	}
	if err := ctx.Err(); err != nil {
		fmt.Fprintln(a.output)
		return false, err
	}

	fmt.Fprintf(a.output, "\r%s                              \n", styles.ok.Render("✓ Proceeding..."))
	return true, nil
}

var _ sparkload.Approver = (*ForcedApprover)(nil)
