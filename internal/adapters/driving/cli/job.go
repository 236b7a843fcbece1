package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/logger"
)

// runJob runs one half of a batch job. A failure to read the batch is logged
// and counted, never returned: the process exits normally.
func runJob(ctx context.Context, name string, run func(context.Context) (domain.RunSummary, error)) domain.RunSummary {
	logger.SetJob(name)
	started := time.Now()

	summary, err := run(ctx)
	if err != nil {
		logger.Error("%s failed: %v", name, err)
	}

	if jobConfig.RunRecorder != nil {
		jobConfig.RunRecorder.ObserveRun(name, summary, time.Since(started))
	}
	return summary
}

// flushMetrics persists run metrics. A failure is logged only.
func flushMetrics() {
	if jobConfig.RunRecorder == nil {
		return
	}
	if err := jobConfig.RunRecorder.Flush(); err != nil {
		logger.Warn("Failed to write metrics: %v", err)
	}
}
