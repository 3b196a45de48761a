package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/sparkload/internal/metrics"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// BatchDriver runs one dataset: discover, then one transaction per file.
// Progress lines go to the progress writer; diagnostics go to the logger.
type BatchDriver struct {
	discoverer sparkload.FileDiscoverer
	progress   io.Writer
	logger     sparkload.Logger
	policy     sparkload.ErrorPolicy
	metrics    *metrics.Recorder
}

func NewBatchDriver(discoverer sparkload.FileDiscoverer, progress io.Writer, logger sparkload.Logger, policy sparkload.ErrorPolicy) *BatchDriver {
	if discoverer == nil {
		panic("discoverer cannot be nil")
	}
	if progress == nil {
		panic("progress writer cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &BatchDriver{discoverer: discoverer, progress: progress, logger: logger, policy: policy}
}

// WithMetrics returns a copy of the driver that records file outcomes on r.
func (d *BatchDriver) WithMetrics(r *metrics.Recorder) *BatchDriver {
	clone := *d
	clone.metrics = r
	return &clone
}

// Run processes every file of dataset. Each file is read, handed to fn inside
// its own transaction, and committed; a failing file is rolled back and
// handled per the driver's error policy.
func (d *BatchDriver) Run(ctx context.Context, tx sparkload.Transactor, dataset sparkload.Dataset, fn sparkload.FileProcessor) (sparkload.DatasetReport, error) {
	start := time.Now()
	report := sparkload.DatasetReport{Dataset: dataset}
	finish := func(err error) (sparkload.DatasetReport, error) {
		report.Duration = time.Since(start)
		return report, err
	}

	set, err := d.discoverer.Discover(ctx, dataset.Root)
	if err != nil {
		return finish(fmt.Errorf("%s dataset: %w", dataset.Kind, err))
	}

	total := set.Len()
	report.Found = total
	fmt.Fprintf(d.progress, "%d files found in %s\n", total, dataset.Root)

	var fileErrs []error
	for i, path := range set.Files {
		if err := ctx.Err(); err != nil {
			report.Skipped = total - i
			d.metrics.FilesSkipped(dataset.Kind, report.Skipped)
			return finish(fmt.Errorf("%s dataset interrupted after %d/%d files: %w", dataset.Kind, i, total, err))
		}

		rows, err := d.processFile(ctx, tx, path, fn)
		if err != nil {
			report.Failed++
			report.Failures = append(report.Failures, sparkload.FileFailure{Path: path, Err: err})
			d.metrics.FileDone(dataset.Kind, metrics.StatusFailed)
			d.logger.Error("%s: %v", path, err)

			if d.policy == sparkload.ErrorPolicyAbort {
				report.Skipped = total - i - 1
				d.metrics.FilesSkipped(dataset.Kind, report.Skipped)
				return finish(fmt.Errorf("%w: %s: %w", sparkload.ErrFileFailed, path, err))
			}
			fileErrs = append(fileErrs, fmt.Errorf("%s: %w", path, err))
			continue
		}

		report.Processed++
		report.AddRows(rows)
		d.metrics.FileDone(dataset.Kind, metrics.StatusProcessed)
		d.metrics.RowsLoaded(rows)
		fmt.Fprintf(d.progress, "%d/%d files processed.\n", i+1, total)
	}

	if len(fileErrs) > 0 {
		return finish(fmt.Errorf("%w: %d of %d %s files failed: %w",
			sparkload.ErrPartialLoad, report.Failed, total, dataset.Kind, errors.Join(fileErrs...)))
	}

	d.logger.Verbose("%s dataset: %d files loaded in %s", dataset.Kind, report.Processed, time.Since(start).Round(time.Millisecond))
	return finish(nil)
}

// processFile commits the file's rows or rolls them all back.
func (d *BatchDriver) processFile(ctx context.Context, t sparkload.Transactor, path string, fn sparkload.FileProcessor) (rows map[sparkload.Table]int64, err error) {
	content, err := d.discoverer.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	tx, err := t.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		// Rollback must still reach the server after ctx is cancelled.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			d.logger.Verbose("rollback %s: %v", path, rbErr)
		}
	}()

	rows, err = fn(ctx, tx, path, content)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return rows, nil
}
