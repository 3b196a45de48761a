package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// DefaultJob is the Pushgateway job label used when none is configured.
const DefaultJob = "sparkload"

// File outcome labels.
const (
	StatusProcessed = "processed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// Recorder holds the run's collectors. A nil *Recorder discards everything,
// so callers never need to check whether metrics are enabled.
type Recorder struct {
	registry    *prometheus.Registry
	files       *prometheus.CounterVec
	rows        *prometheus.CounterVec
	unresolved  prometheus.Counter
	runDuration prometheus.Gauge
	runSuccess  prometheus.Gauge
	lastRun     prometheus.Gauge
}

// NewRecorder registers the sparkload collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sparkload",
			Name:      "files_total",
			Help:      "Dataset files by outcome.",
		}, []string{"dataset", "status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sparkload",
			Name:      "rows_inserted_total",
			Help:      "Rows affected per destination table.",
		}, []string{"table"}),
		unresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sparkload",
			Name:      "songplay_unresolved_total",
			Help:      "Song plays loaded without a catalog match.",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sparkload",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of the last run.",
		}),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sparkload",
			Name:      "run_success",
			Help:      "1 if the last run loaded every file, 0 otherwise.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sparkload",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}
	r.registry.MustRegister(r.files, r.rows, r.unresolved, r.runDuration, r.runSuccess, r.lastRun)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) FileDone(kind sparkload.DatasetKind, status string) {
	if r == nil {
		return
	}
	r.files.WithLabelValues(kind.String(), status).Inc()
}

func (r *Recorder) FilesSkipped(kind sparkload.DatasetKind, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.files.WithLabelValues(kind.String(), StatusSkipped).Add(float64(n))
}

func (r *Recorder) RowsLoaded(rows map[sparkload.Table]int64) {
	if r == nil {
		return
	}
	for table, n := range rows {
		r.rows.WithLabelValues(string(table)).Add(float64(n))
	}
}

func (r *Recorder) Unresolved(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.unresolved.Add(float64(n))
}

// RunFinished records the outcome of the whole run.
func (r *Recorder) RunFinished(d time.Duration, err error, now time.Time) {
	if r == nil {
		return
	}
	r.runDuration.Set(d.Seconds())
	if err == nil {
		r.runSuccess.Set(1)
	} else {
		r.runSuccess.Set(0)
	}
	r.lastRun.Set(float64(now.Unix()))
}

// Pusher delivers a registry to a Pushgateway.
type Pusher struct {
	endpoint string
	job      string
}

// NewPusher returns nil when endpoint is empty; a nil *Pusher does nothing.
func NewPusher(endpoint, job string) *Pusher {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil
	}
	job = strings.TrimSpace(job)
	if job == "" {
		job = DefaultJob
	}
	return &Pusher{endpoint: endpoint, job: job}
}

func (p *Pusher) String() string {
	if p == nil {
		return "disabled"
	}
	return fmt.Sprintf("%s (job=%s)", p.endpoint, p.job)
}

// Push replaces the job's metric group with the recorder's current values.
func (p *Pusher) Push(ctx context.Context, r *Recorder) error {
	if p == nil || r == nil {
		return nil
	}
	if err := push.New(p.endpoint, p.job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", p.endpoint, err)
	}
	return nil
}
