package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vvka-141/sparkload/internal/metrics"
	"github.com/vvka-141/sparkload/internal/store"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// pushTimeout bounds the Pushgateway call made after the run.
const pushTimeout = 10 * time.Second

// Pipeline runs a full load: catalog first, then events, on one session.
// Thread-Safety: NOT safe for concurrent Run() calls on the same instance.
type Pipeline struct {
	sessions   SessionOpener
	discoverer sparkload.FileDiscoverer
	progress   io.Writer
	logger     sparkload.Logger
	loader     *store.Loader
	schema     *store.Schema
	recorder   *metrics.Recorder
	pusher     *metrics.Pusher
	now        func() time.Time
}

// NewPipeline creates a Pipeline with all dependencies injected.
// Panics on nil dependencies; these are wiring errors, not runtime conditions.
func NewPipeline(sessions SessionOpener, discoverer sparkload.FileDiscoverer, progress io.Writer, logger sparkload.Logger) *Pipeline {
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if discoverer == nil {
		panic("discoverer cannot be nil")
	}
	if progress == nil {
		panic("progress writer cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Pipeline{
		sessions:   sessions,
		discoverer: discoverer,
		progress:   progress,
		logger:     logger,
		loader:     store.NewLoader(),
		schema:     store.NewSchema(),
		now:        time.Now,
	}
}

// WithMetrics enables run metrics. pusher may be nil to record without pushing.
func (p *Pipeline) WithMetrics(recorder *metrics.Recorder, pusher *metrics.Pusher) *Pipeline {
	p.recorder = recorder
	p.pusher = pusher
	return p
}

// Run loads both datasets. A catalog pass that stops early (missing root,
// abort policy, cancellation) prevents the event pass: events resolve
// against the catalog and would load with unmatched song ids.
// Under the continue policy both passes run and their failures are joined
// into one ErrPartialLoad.
func (p *Pipeline) Run(ctx context.Context, cfg sparkload.LoadConfig) (report sparkload.RunReport, err error) {
	if err := cfg.Validate(); err != nil {
		return report, fmt.Errorf("invalid configuration: %w", err)
	}

	start := p.now()
	defer func() {
		report.Duration = p.now().Sub(start)
		p.finishMetrics(ctx, report.Duration, err)
	}()

	p.logger.Verbose("Error policy: %s", cfg.OnError)

	session, err := p.sessions.Open(ctx, cfg.Connection)
	if err != nil {
		return report, err
	}
	defer session.Close()

	if cfg.CreateSchema {
		p.logger.Verbose("Creating tables if missing")
		if err := p.schema.Create(ctx, session); err != nil {
			return report, err
		}
	}

	driver := NewBatchDriver(p.discoverer, p.progress, p.logger, cfg.OnError).WithMetrics(p.recorder)

	var partial []error
	for _, dataset := range cfg.Datasets() {
		dr, err := driver.Run(ctx, session, dataset, p.processor(dataset.Kind))
		report.Datasets = append(report.Datasets, dr)
		if err == nil {
			continue
		}
		if errors.Is(err, sparkload.ErrPartialLoad) {
			partial = append(partial, err)
			continue
		}
		return report, errors.Join(append(partial, err)...)
	}

	if len(partial) > 0 {
		return report, errors.Join(partial...)
	}

	p.logger.Info("✓ Loaded %d songs, %d artists, %d users, %d time rows, %d song plays",
		report.TotalRows(sparkload.TableSongs), report.TotalRows(sparkload.TableArtists),
		report.TotalRows(sparkload.TableUsers), report.TotalRows(sparkload.TableTime),
		report.TotalRows(sparkload.TableSongplays))
	return report, nil
}

func (p *Pipeline) processor(kind sparkload.DatasetKind) sparkload.FileProcessor {
	if kind == sparkload.DatasetCatalog {
		return CatalogProcessor(p.loader)
	}
	return EventProcessor(p.loader, p.logger, p.recorder)
}

func (p *Pipeline) finishMetrics(ctx context.Context, d time.Duration, runErr error) {
	if p.recorder == nil {
		return
	}
	p.recorder.RunFinished(d, runErr, p.now())

	if p.pusher == nil {
		return
	}
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()
	if err := p.pusher.Push(pushCtx, p.recorder); err != nil {
		p.logger.Error("%v", err)
		return
	}
	p.logger.Verbose("Pushed metrics to %s", p.pusher)
}
