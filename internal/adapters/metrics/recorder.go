// Package metrics collects run metrics with Prometheus and writes them in textfile format.
package metrics

import (
	"os"
	"path/filepath"
	"time"

	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/core/ports"
	prom "github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/zerr"
)

const namespace = "deps"

var _ ports.MetricsRecorder = (*Recorder)(nil)

// Recorder implements ports.MetricsRecorder on a private Prometheus registry.
type Recorder struct {
	registry     *prom.Registry
	jobDuration  *prom.HistogramVec
	jobResults   *prom.CounterVec
	cacheLookups *prom.CounterVec
	filesChanged *prom.CounterVec
	runDuration  prom.Gauge
	runInfo      *prom.GaugeVec
}

// NewRecorder constructs and registers the run metrics.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prom.NewRegistry(),
		jobDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of individual jobs by kind",
			Buckets:   []float64{0.01, 0.1, 1, 10, 60, 300, 900, 1800, 3600},
		}, []string{"kind"}),
		jobResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "job_results_total",
			Help:      "Job results by kind and final status",
		}, []string{"kind", "status"}),
		cacheLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache record lookups of CMake jobs by result",
		}, []string{"result"}),
		filesChanged: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_changed_total",
			Help:      "Install actions that created, updated or linked a file",
		}, []string{"kind"}),
		runDuration: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
		runInfo: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "run_info",
			Help:      "Identity of the last run",
		}, []string{"run_id", "mode"}),
	}
	r.registry.MustRegister(r.jobDuration, r.jobResults, r.cacheLookups, r.filesChanged, r.runDuration, r.runInfo)
	return r
}

// ObserveJob records the final status and duration of a job.
func (r *Recorder) ObserveJob(kind, status string, d time.Duration) {
	r.jobDuration.WithLabelValues(kind).Observe(d.Seconds())
	r.jobResults.WithLabelValues(kind, status).Inc()
}

// ObserveCache records a cache lookup.
func (r *Recorder) ObserveCache(hit bool) {
	res := "miss"
	if hit {
		res = "hit"
	}
	r.cacheLookups.WithLabelValues(res).Inc()
}

// ObserveFiles records changed files of a job.
func (r *Recorder) ObserveFiles(kind string, changed int) {
	r.filesChanged.WithLabelValues(kind).Add(float64(changed))
}

// ObserveRun records the run identity and wall time.
func (r *Recorder) ObserveRun(runID, mode string, d time.Duration) {
	r.runInfo.Reset()
	r.runInfo.WithLabelValues(runID, mode).Set(1)
	r.runDuration.Set(d.Seconds())
}

// WriteTo writes all metrics to path in the node exporter textfile format.
// The file is replaced atomically.
func (r *Recorder) WriteTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMetricsWriteFailed.Error()), "path", path)
	}
	if err := prom.WriteToTextfile(path, r.registry); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMetricsWriteFailed.Error()), "path", path)
	}
	return nil
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prom.Registry {
	return r.registry
}
