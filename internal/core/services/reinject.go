package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
	"github.com/custodia-labs/juricasync/internal/core/ports/driving"
	"github.com/custodia-labs/juricasync/internal/logger"
)

// Ensure Reinjector implements the interface.
var _ driving.Reinjector = (*Reinjector)(nil)

// Reinjector approves source decisions once their labelling is done.
type Reinjector struct {
	source    driven.SourceStore
	decisions driven.DecisionStore
	indexing  driven.IndexingService
	now       func() time.Time
}

// NewReinjector creates a new reinjector.
func NewReinjector(source driven.SourceStore, decisions driven.DecisionStore, indexing driven.IndexingService) *Reinjector {
	return &Reinjector{
		source:    source,
		decisions: decisions,
		indexing:  indexing,
		now:       time.Now,
	}
}

// Reinject approves the source decision of every labelled normalized
// decision. A failing decision is recorded in its history and skipped.
func (r *Reinjector) Reinject(ctx context.Context) (domain.RunSummary, error) {
	var summary domain.RunSummary

	labelled, err := r.decisions.ListByLabelStatus(ctx, domain.LabelStatusDone, domain.SourceName)
	if err != nil {
		summary.Record(domain.OutcomeErroneous)
		return summary, fmt.Errorf("list labelled decisions: %w", err)
	}
	logger.Info("Reinjecting %d labelled decision(s)", len(labelled))

	for i := range labelled {
		n := &labelled[i]
		if err := r.approve(ctx, n.SourceID); err != nil {
			logger.Error("Reinjection failed for decision %s: %v", n.ID, err)
			if auditErr := r.indexing.UpdateDecision(ctx, domain.NormalizedAudit(n, "").WithError(err)); auditErr != nil {
				logger.Warn("Failed to record error for decision %s: %v", n.ID, auditErr)
			}
			summary.Record(domain.OutcomeErroneous)
			continue
		}
		summary.Record(domain.OutcomeUpdated)
	}

	logger.Info("Reinjection done - %s", summary)
	return summary, nil
}

func (r *Reinjector) approve(ctx context.Context, sourceID int64) error {
	if _, err := r.source.Get(ctx, sourceID); err != nil {
		return fmt.Errorf("get source decision %d: %w", sourceID, err)
	}
	if err := r.source.MarkApproved(ctx, sourceID, r.now()); err != nil {
		return fmt.Errorf("approve source decision %d: %w", sourceID, err)
	}
	return nil
}
