package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.RunRecorder = (*Recorder)(nil)

// Recorder keeps run metrics in its own registry.
type Recorder struct {
	registry *prometheus.Registry
	textfile string

	// Decisions processed by job and outcome
	Decisions *prometheus.CounterVec

	// Duration of the last run by job
	Duration *prometheus.GaugeVec

	// Completion time of the last run by job
	LastRun *prometheus.GaugeVec
}

// NewRecorder creates a recorder. An empty textfile keeps metrics in memory.
func NewRecorder(textfile string) *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		textfile: textfile,
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "juricasync_decisions_total",
			Help: "Decisions processed by job and outcome",
		}, []string{"job", "outcome"}),
		Duration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "juricasync_run_duration_seconds",
			Help: "Duration of the last run by job",
		}, []string{"job"}),
		LastRun: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "juricasync_last_run_timestamp_seconds",
			Help: "Completion time of the last run by job",
		}, []string{"job"}),
	}
}

// Registry returns the registry holding the run metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRun records the summary and duration of one job run.
func (r *Recorder) ObserveRun(job string, summary domain.RunSummary, elapsed time.Duration) {
	if r == nil {
		return
	}
	for _, o := range domain.Outcomes {
		r.Decisions.WithLabelValues(job, o.String()).Add(float64(summary.Count(o)))
	}
	r.Duration.WithLabelValues(job).Set(elapsed.Seconds())
	r.LastRun.WithLabelValues(job).SetToCurrentTime()
}

// Flush writes the metrics to the textfile, if one is configured.
func (r *Recorder) Flush() error {
	if r == nil || r.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.textfile, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
