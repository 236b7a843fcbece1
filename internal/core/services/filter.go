package services

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
)

// Age limits of first-time collection.
const (
	maxDecisionAgeMonths = 6
	maxDecisionLead      = 24 * time.Hour
)

// AcceptanceFilter selects the decisions worth collecting for the first time.
type AcceptanceFilter struct {
	raw driven.RawDecisionStore
	now func() time.Time
}

// NewAcceptanceFilter creates a new acceptance filter.
func NewAcceptanceFilter(raw driven.RawDecisionStore) *AcceptanceFilter {
	return &AcceptanceFilter{raw: raw, now: time.Now}
}

// Filter partitions decisions, preserving their order. Whitelisted decisions
// skip the age and duplicate checks. A decision that cannot be checked is
// rejected with the error message; Filter itself never fails.
func (f *AcceptanceFilter) Filter(ctx context.Context, decisions []domain.Decision, whitelist domain.Whitelist) domain.FilterResult {
	var result domain.FilterResult
	for _, d := range decisions {
		if reason := f.check(ctx, d, whitelist); reason != "" {
			result.Rejected = append(result.Rejected, domain.Rejection{Decision: d, Reason: reason})
			continue
		}
		result.Collected = append(result.Collected, domain.Candidate{Decision: d})
	}
	return result
}

// check returns the rejection reason of d, or "" when it is collected.
func (f *AcceptanceFilter) check(ctx context.Context, d domain.Decision, whitelist domain.Whitelist) string {
	date, err := d.Date(domain.FieldDate)
	if err != nil {
		return err.Error()
	}

	id := d.ID()
	listed := whitelist.Contains(id)
	now := f.now()
	switch {
	case !listed && !date.AddDate(0, maxDecisionAgeMonths, 0).After(now):
		return domain.ReasonTooOld
	case !listed && date.Sub(now) > maxDecisionLead:
		return domain.ReasonTooEarly
	case listed:
		return ""
	}

	_, err = f.raw.Get(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ""
	case err != nil:
		return err.Error()
	default:
		return domain.ReasonAlreadyCollected
	}
}
