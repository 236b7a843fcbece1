package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
	"github.com/custodia-labs/juricasync/internal/logger"
)

// DiffClassifier compares re-collected decisions with their mirrored copy.
type DiffClassifier struct {
	raw driven.RawDecisionStore
}

// NewDiffClassifier creates a new diff classifier.
func NewDiffClassifier(raw driven.RawDecisionStore) *DiffClassifier {
	return &DiffClassifier{raw: raw}
}

// Classify partitions decisions, preserving their order. A decision never
// mirrored is collected without changes. A mirrored decision is collected
// with its changes, or rejected when no updatable field differs. A mirror
// read failure is logged as an error and rejects the decision.
func (c *DiffClassifier) Classify(ctx context.Context, decisions []domain.Decision) domain.FilterResult {
	var result domain.FilterResult
	for _, d := range decisions {
		mirrored, err := c.raw.Get(ctx, d.ID())
		switch {
		case errors.Is(err, domain.ErrNotFound):
			result.Collected = append(result.Collected, domain.Candidate{Decision: d})
		case err != nil:
			logger.Error("Reading mirrored decision %d failed: %v", d.ID(), err)
			result.Rejected = append(result.Rejected, domain.Rejection{Decision: d, Reason: err.Error()})
		default:
			changes := Diff(mirrored, d)
			if changes.Empty() {
				result.Rejected = append(result.Rejected, domain.Rejection{Decision: d, Reason: domain.ReasonNoSignificantDiff})
				continue
			}
			result.Collected = append(result.Collected, domain.Candidate{Decision: d, Changes: changes})
		}
	}
	return result
}

// Diff compares the updatable fields of two versions of a decision.
// Values are equal when their JSON forms are; a missing key differs from a
// nil value. Returns nil when nothing differs.
func Diff(previous, current domain.Decision) *domain.ChangeSet {
	var changes *domain.ChangeSet
	for _, f := range domain.UpdatableFields {
		before, after := previous.Serialized(f), current.Serialized(f)
		if before == after {
			continue
		}
		if changes == nil {
			changes = &domain.ChangeSet{Changes: make(map[domain.Field]domain.Change)}
		}

		if domain.SensitiveFields.Has(f) {
			changes.Changes[f] = domain.Change{Old: domain.SensitivePlaceholder, New: domain.SensitivePlaceholder}
		} else {
			changes.Changes[f] = domain.Change{Old: before, New: after}
		}
		if domain.ShouldNotUpdateFields.Has(f) {
			changes.Anomaly = true
		}
		if domain.ReprocessFields.Has(f) {
			changes.Reprocess = true
		}
	}
	return changes
}
