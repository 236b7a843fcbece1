package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
	"github.com/custodia-labs/juricasync/internal/core/ports/driving"
	"github.com/custodia-labs/juricasync/internal/logger"
)

// Ensure ScreeningImporter implements the interface.
var _ driving.ScreeningImporter = (*ScreeningImporter)(nil)

// ScreeningImporter applies the verdicts of the screening service to the
// raw mirror and the normalized store.
type ScreeningImporter struct {
	raw       driven.RawDecisionStore
	decisions driven.DecisionStore
	indexing  driven.IndexingService
	screening driven.ScreeningService
}

// NewScreeningImporter creates a new screening importer.
func NewScreeningImporter(
	raw driven.RawDecisionStore,
	decisions driven.DecisionStore,
	indexing driven.IndexingService,
	screening driven.ScreeningService,
) *ScreeningImporter {
	return &ScreeningImporter{
		raw:       raw,
		decisions: decisions,
		indexing:  indexing,
		screening: screening,
	}
}

// ImportReleased normalizes the decisions screened as public and removes
// them from the screening service.
func (s *ScreeningImporter) ImportReleased(ctx context.Context) (domain.RunSummary, error) {
	var summary domain.RunSummary

	released, err := s.screening.Released(ctx)
	if err != nil {
		summary.Record(domain.OutcomeErroneous)
		return summary, fmt.Errorf("list released decisions: %w", err)
	}

	for _, entry := range released {
		if !ours(entry) {
			logger.Debug("Skipping released decision %s:%d", entry.SourceDB, entry.SourceID)
			summary.Record(domain.OutcomeSkipped)
			continue
		}
		outcome, err := s.importReleased(ctx, entry)
		if err != nil {
			logger.Error("Import of released decision %d failed: %v", entry.SourceID, err)
			outcome = domain.OutcomeErroneous
		}
		summary.Record(outcome)
	}
	return summary, nil
}

func (s *ScreeningImporter) importReleased(ctx context.Context, entry domain.ScreenedDecision) (domain.Outcome, error) {
	row, err := s.raw.Get(ctx, entry.SourceID)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Released decision %d is not in the raw mirror", entry.SourceID)
		return domain.OutcomeSkipped, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get raw decision: %w", err)
	}

	existing, err := s.decisions.FindBySource(ctx, entry.SourceID, domain.SourceName)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("find normalized decision: %w", err)
	}
	if existing != nil && existing.Locked {
		logger.Warn("Released decision %d is locked in decisions, not overwritten", entry.SourceID)
		if err := s.indexing.UpdateDecision(ctx, domain.NormalizedAudit(existing, "is-public, locked in decisions")); err != nil {
			return 0, fmt.Errorf("audit locked decision: %w", err)
		}
		if err := s.release(ctx, entry, row, "is-public"); err != nil {
			return 0, err
		}
		return domain.OutcomeSkipped, nil
	}

	n, err := s.indexing.NormalizeDecision(ctx, row, existing)
	if err != nil {
		return 0, fmt.Errorf("normalize decision: %w", err)
	}
	public := true
	n.Public = &public

	outcome := domain.OutcomeCreated
	if existing == nil {
		if err := s.decisions.Insert(ctx, n); err != nil {
			return 0, fmt.Errorf("insert normalized decision: %w", err)
		}
		if err := s.indexing.IndexDecision(ctx, domain.NormalizedAudit(n, "is-public, import in decisions")); err != nil {
			return 0, fmt.Errorf("index normalized decision: %w", err)
		}
	} else {
		outcome = domain.OutcomeUpdated
		n.ID = existing.ID
		if err := s.decisions.Replace(ctx, n); err != nil {
			return 0, fmt.Errorf("replace normalized decision: %w", err)
		}
		if err := s.indexing.IndexDecision(ctx, domain.NormalizedAudit(n, "is-public, update in decisions")); err != nil {
			return 0, fmt.Errorf("index normalized decision: %w", err)
		}
	}

	if err := s.release(ctx, entry, row, "is-public"); err != nil {
		return 0, err
	}
	return outcome, nil
}

// CleanNotPublic removes the decisions screened as not public from every
// store and from the screening service.
func (s *ScreeningImporter) CleanNotPublic(ctx context.Context) (domain.RunSummary, error) {
	var summary domain.RunSummary

	rejected, err := s.screening.NotPublic(ctx)
	if err != nil {
		summary.Record(domain.OutcomeErroneous)
		return summary, fmt.Errorf("list not public decisions: %w", err)
	}

	for _, entry := range rejected {
		if !ours(entry) {
			logger.Debug("Skipping not public decision %s:%d", entry.SourceDB, entry.SourceID)
			summary.Record(domain.OutcomeSkipped)
			continue
		}
		outcome, err := s.clean(ctx, entry)
		if err != nil {
			logger.Error("Cleaning of not public decision %d failed: %v", entry.SourceID, err)
			outcome = domain.OutcomeErroneous
		}
		summary.Record(outcome)
	}
	return summary, nil
}

func (s *ScreeningImporter) clean(ctx context.Context, entry domain.ScreenedDecision) (domain.Outcome, error) {
	row, err := s.raw.Get(ctx, entry.SourceID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.OutcomeSkipped, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get raw decision: %w", err)
	}

	existing, err := s.decisions.FindBySource(ctx, entry.SourceID, domain.SourceName)
	switch {
	case err == nil:
		if err := s.decisions.Delete(ctx, existing.ID); err != nil {
			return 0, fmt.Errorf("delete normalized decision: %w", err)
		}
	case !errors.Is(err, domain.ErrNotFound):
		return 0, fmt.Errorf("find normalized decision: %w", err)
	}
	if err := s.raw.Delete(ctx, entry.SourceID); err != nil {
		return 0, fmt.Errorf("delete raw decision: %w", err)
	}

	if err := s.release(ctx, entry, row, "not-public"); err != nil {
		return 0, err
	}
	return domain.OutcomeDeleted, nil
}

// release removes a decision from the screening service and records it.
func (s *ScreeningImporter) release(ctx context.Context, entry domain.ScreenedDecision, row domain.Decision, verdict string) error {
	result, err := s.screening.Delete(ctx, entry)
	if err != nil {
		return fmt.Errorf("delete from screening: %w", err)
	}
	message := fmt.Sprintf("%s, deleted from Judifiltre: %s", verdict, result)
	if err := s.indexing.UpdateDecision(ctx, domain.RawAudit(row, message)); err != nil {
		return fmt.Errorf("audit screening deletion: %w", err)
	}
	return nil
}

func ours(entry domain.ScreenedDecision) bool {
	return entry.SourceID != 0 && entry.SourceDB == domain.SourceName
}
