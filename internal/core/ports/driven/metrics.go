package driven

import (
	"time"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

// RunRecorder keeps metrics about batch job runs.
type RunRecorder interface {
	// ObserveRun records the summary and duration of one job run.
	ObserveRun(job string, summary domain.RunSummary, elapsed time.Duration)

	// Flush persists recorded metrics.
	Flush() error
}
