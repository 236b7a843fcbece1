package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
	"github.com/custodia-labs/juricasync/internal/core/ports/driving"
	"github.com/custodia-labs/juricasync/internal/logger"
)

// Ensure Collector implements the interface.
var _ driving.Collector = (*Collector)(nil)

// isoMillis formats creation timestamps of normalized decisions.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Audit messages.
const (
	msgRawImport        = "import in rawJurica"
	msgRawImportSync    = "import in rawJurica (sync)"
	msgNormalized       = "import in decisions"
	msgNormalizedSync   = "import in decisions (sync)"
	msgNonPublic        = "non-public"
	msgSubmitted        = "submitted to Judifiltre: "
	msgOriginalModified = " - original text could have been changed"
)

// CollectorStores groups the stores used by the collector.
type CollectorStores struct {
	Source     driven.SourceStore
	References driven.ReferenceStore
	Raw        driven.RawDecisionStore
	Decisions  driven.DecisionStore
	SyncState  driven.SyncStateStore
}

// Collector copies decisions from the source database into the raw mirror
// and the normalized store.
type Collector struct {
	source    driven.SourceStore
	raw       driven.RawDecisionStore
	decisions driven.DecisionStore
	syncStore driven.SyncStateStore
	indexing  driven.IndexingService
	screening driven.ScreeningService
	whitelist driven.WhitelistLoader

	enricher   *Enricher
	filter     *AcceptanceFilter
	classifier *DiffClassifier
	redactor   *Redactor

	settings domain.CollectSettings
	now      func() time.Time
}

// NewCollector creates a new collector.
// The whitelist loader is optional - if nil, no decision is whitelisted.
func NewCollector(
	stores CollectorStores,
	indexing driven.IndexingService,
	screening driven.ScreeningService,
	whitelist driven.WhitelistLoader,
	settings domain.CollectSettings,
) *Collector {
	return &Collector{
		source:     stores.Source,
		raw:        stores.Raw,
		decisions:  stores.Decisions,
		syncStore:  stores.SyncState,
		indexing:   indexing,
		screening:  screening,
		whitelist:  whitelist,
		enricher:   NewEnricher(stores.References),
		filter:     NewAcceptanceFilter(stores.Raw),
		classifier: NewDiffClassifier(stores.Raw),
		redactor:   NewRedactor(indexing),
		settings:   settings,
		now:        time.Now,
	}
}

// CollectNew collects the decisions created during the collection window
// and never processed.
func (c *Collector) CollectNew(ctx context.Context) (domain.RunSummary, error) {
	var summary domain.RunSummary

	months := c.settings.NewWindowMonths
	if months <= 0 {
		months = domain.DefaultSettings().Collect.NewWindowMonths
	}
	since := midnight(c.now()).AddDate(0, -months, 0)

	rows, err := c.source.ListNew(ctx, since)
	if err != nil {
		summary.Record(domain.OutcomeErroneous)
		return summary, fmt.Errorf("list new decisions: %w", err)
	}
	logger.Info("Collecting %d new decision(s) created since %s", len(rows), since.Format(time.DateOnly))

	result := c.filter.Filter(ctx, c.enrichAll(ctx, rows), c.loadWhitelist(ctx))
	for _, r := range result.Rejected {
		logger.Debug("Decision %d rejected: %s", r.Decision.ID(), r.Reason)
		summary.Record(domain.OutcomeSkipped)
	}
	for _, candidate := range result.Collected {
		summary.Record(c.collect(ctx, candidate.Decision))
	}

	logger.Info("Collect done - %s", summary)
	return summary, nil
}

// SyncUpdated re-collects the decisions modified since the last sync and
// records the start of this run as the next starting point.
func (c *Collector) SyncUpdated(ctx context.Context) (domain.RunSummary, error) {
	var summary domain.RunSummary
	start := c.now()

	since := midnight(c.lastSync(ctx, start))
	rows, err := c.source.ListUpdated(ctx, since)
	if err != nil {
		summary.Record(domain.OutcomeErroneous)
		return summary, fmt.Errorf("list updated decisions: %w", err)
	}
	logger.Info("Syncing %d decision(s) modified since %s", len(rows), since.Format(time.DateOnly))

	result := c.classifier.Classify(ctx, c.enrichAll(ctx, rows))
	for _, r := range result.Rejected {
		logger.Debug("Decision %d rejected: %s", r.Decision.ID(), r.Reason)
		summary.Record(domain.OutcomeSkipped)
	}
	for _, candidate := range result.Collected {
		summary.Record(c.sync(ctx, candidate))
	}

	state := domain.SyncState{SourceName: domain.SourceName, LastSync: start}
	if err := c.syncStore.Save(ctx, state); err != nil {
		return summary, fmt.Errorf("save sync state: %w", err)
	}

	logger.Info("Sync done - %s", summary)
	return summary, nil
}

func (c *Collector) lastSync(ctx context.Context, now time.Time) time.Time {
	fallback := c.settings.SyncFallback
	if fallback <= 0 {
		fallback = domain.DefaultSettings().Collect.SyncFallback
	}

	state, err := c.syncStore.Get(ctx, domain.SourceName)
	switch {
	case err == nil && !state.LastSync.IsZero():
		return state.LastSync
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		logger.Warn("Failed to read sync state, syncing the last %s: %v", fallback, err)
	}
	return now.Add(-fallback)
}

func (c *Collector) loadWhitelist(ctx context.Context) domain.Whitelist {
	if c.whitelist == nil {
		return nil
	}
	whitelist, err := c.whitelist.Load(ctx)
	if err != nil {
		logger.Warn("Failed to load whitelist, continuing without it: %v", err)
		return nil
	}
	return whitelist
}

func (c *Collector) enrichAll(ctx context.Context, rows []domain.Decision) []domain.Decision {
	enriched := make([]domain.Decision, len(rows))
	for i, row := range rows {
		enriched[i] = c.enricher.Enrich(ctx, row)
	}
	return enriched
}

// collect stores a decision accepted for the first time.
func (c *Collector) collect(ctx context.Context, d domain.Decision) domain.Outcome {
	outcome, err := c.collectDecision(ctx, d)
	if err != nil {
		logger.Error("Collect failed for decision %d: %v", d.ID(), err)
		c.markErroneous(ctx, d, err)
		return domain.OutcomeErroneous
	}
	return outcome
}

//nolint:gocyclo // Sequential stages with one error exit each
func (c *Collector) collectDecision(ctx context.Context, d domain.Decision) (domain.Outcome, error) {
	id := d.ID()
	codes := d.Codes()
	d[domain.FieldIndexed] = nil

	// 1. Publication policy
	rejected, err := c.indexing.ShouldBeRejected(ctx, codes)
	if err != nil {
		return 0, fmt.Errorf("check rejection policy: %w", err)
	}
	if rejected {
		logger.Warn("Decision %d rejected as non-public", id)
		if err := c.indexing.UpdateDecision(ctx, domain.RawAudit(d, msgNonPublic)); err != nil {
			return 0, fmt.Errorf("audit rejection: %w", err)
		}
		if err := c.source.SetStatus(ctx, id, domain.StatusErroneous); err != nil {
			return 0, fmt.Errorf("set status: %w", err)
		}
		return domain.OutcomeSkipped, nil
	}

	// 2. Redaction of partially public decisions
	partial, err := c.indexing.IsPartiallyPublic(ctx, codes)
	if err != nil {
		return 0, fmt.Errorf("check partial publication: %w", err)
	}
	if partial {
		text, err := c.redactor.Redact(ctx, d)
		if err != nil {
			return 0, err
		}
		d[domain.FieldHTMLSource] = text
	}

	// 3. Raw mirror
	if err := c.raw.Insert(ctx, d); err != nil {
		return 0, fmt.Errorf("insert raw decision: %w", err)
	}
	if err := c.indexing.IndexDecision(ctx, domain.RawAudit(d, msgRawImport)); err != nil {
		return 0, fmt.Errorf("index raw decision: %w", err)
	}
	if err := c.indexing.IndexAffaire(ctx, d); err != nil {
		return 0, fmt.Errorf("index affaire: %w", err)
	}

	// 4. Screening or normalization
	screen, err := c.indexing.ShouldBeSentToScreening(ctx, codes)
	if err != nil {
		return 0, fmt.Errorf("check screening policy: %w", err)
	}
	if screen {
		return c.submit(ctx, d)
	}

	outcome := domain.OutcomeCreated
	existing, err := c.decisions.FindBySource(ctx, id, domain.SourceName)
	switch {
	case err == nil:
		logger.Warn("Decision %d seems new but a related normalized record %s already exists", id, existing.ID)
		entry := domain.NormalizedAudit(existing, fmt.Sprintf("SDER record %s already exists", existing.ID))
		if err := c.indexing.UpdateDecision(ctx, entry); err != nil {
			return 0, fmt.Errorf("audit existing normalized decision: %w", err)
		}
		outcome = domain.OutcomeSkipped
	case errors.Is(err, domain.ErrNotFound):
		if err := c.insertNormalized(ctx, d, msgNormalized); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("find normalized decision: %w", err)
	}

	if err := c.source.SetStatus(ctx, id, domain.StatusPending); err != nil {
		return 0, fmt.Errorf("set status: %w", err)
	}
	return outcome, nil
}

// submit sends a decision to the screening service. The decision stays in
// the raw mirror whatever the result.
func (c *Collector) submit(ctx context.Context, d domain.Decision) (domain.Outcome, error) {
	result, err := c.screening.Submit(ctx, domain.NewSubmission(d))
	if err != nil {
		return 0, fmt.Errorf("submit to screening: %w", err)
	}
	if err := c.indexing.UpdateDecision(ctx, domain.RawAudit(d, msgSubmitted+result.String())); err != nil {
		return 0, fmt.Errorf("audit submission: %w", err)
	}
	if err := c.source.SetStatus(ctx, d.ID(), domain.StatusPending); err != nil {
		return 0, fmt.Errorf("set status: %w", err)
	}
	return domain.OutcomeSubmitted, nil
}

// sync stores a re-collected decision.
func (c *Collector) sync(ctx context.Context, candidate domain.Candidate) domain.Outcome {
	outcome, err := c.syncDecision(ctx, candidate)
	if err != nil {
		logger.Error("Sync failed for decision %d - changelog: %s: %v",
			candidate.Decision.ID(), candidate.Changes.Changelog(), err)
		c.markErroneous(ctx, candidate.Decision, err)
		return domain.OutcomeErroneous
	}
	return outcome
}

//nolint:gocyclo // Sequential stages with one error exit each
func (c *Collector) syncDecision(ctx context.Context, candidate domain.Candidate) (domain.Outcome, error) {
	d, changes := candidate.Decision, candidate.Changes
	id := d.ID()
	d[domain.FieldIndexed] = nil

	// 1. Raw mirror
	outcome := domain.OutcomeCreated
	if changes.Empty() {
		if err := c.raw.Insert(ctx, d); err != nil {
			return 0, fmt.Errorf("insert raw decision: %w", err)
		}
		if err := c.indexing.IndexDecision(ctx, domain.RawAudit(d, msgRawImportSync)); err != nil {
			return 0, fmt.Errorf("index raw decision: %w", err)
		}
	} else {
		outcome = domain.OutcomeUpdated
		if changes.Reprocess {
			d[domain.FieldStatus] = int64(domain.StatusReset)
			d[domain.FieldPseudoHTML] = nil
			if err := c.source.SetStatus(ctx, id, domain.StatusReset); err != nil {
				return 0, fmt.Errorf("reset status: %w", err)
			}
		}
		if err := c.indexing.UpdateDecision(ctx, domain.RawAudit(d, rawUpdateMessage(changes))); err != nil {
			return 0, fmt.Errorf("audit raw update: %w", err)
		}
		if err := c.raw.Replace(ctx, d); err != nil {
			return 0, fmt.Errorf("replace raw decision: %w", err)
		}
	}
	if err := c.indexing.IndexAffaire(ctx, d); err != nil {
		return 0, fmt.Errorf("index affaire: %w", err)
	}

	// 2. Normalized store
	existing, err := c.decisions.FindBySource(ctx, id, domain.SourceName)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if err := c.insertNormalized(ctx, d, msgNormalizedSync); err != nil {
			return 0, err
		}
		return outcome, nil
	case err != nil:
		return 0, fmt.Errorf("find normalized decision: %w", err)
	case changes.Empty():
		return outcome, nil
	case existing.Locked:
		logger.Info("Normalized decision %s is locked, keeping it", existing.ID)
		return outcome, nil
	}

	n, err := c.indexing.NormalizeDecision(ctx, d, existing)
	if err != nil {
		return 0, fmt.Errorf("normalize decision: %w", err)
	}
	n.ID = existing.ID
	n.DateCreation = c.now().UTC().Format(isoMillis)
	n.Zoning = nil
	if changes.Reprocess {
		n.ResetLabelling()
	}
	if err := c.decisions.Replace(ctx, n); err != nil {
		return 0, fmt.Errorf("replace normalized decision: %w", err)
	}
	if err := c.indexing.UpdateDecision(ctx, domain.NormalizedAudit(n, normalizedUpdateMessage(changes))); err != nil {
		return 0, fmt.Errorf("audit normalized update: %w", err)
	}
	return outcome, nil
}

func (c *Collector) insertNormalized(ctx context.Context, d domain.Decision, message string) error {
	n, err := c.indexing.NormalizeDecision(ctx, d, nil)
	if err != nil {
		return fmt.Errorf("normalize decision: %w", err)
	}
	if err := c.decisions.Insert(ctx, n); err != nil {
		return fmt.Errorf("insert normalized decision: %w", err)
	}
	if err := c.indexing.IndexDecision(ctx, domain.NormalizedAudit(n, message)); err != nil {
		return fmt.Errorf("index normalized decision: %w", err)
	}
	return nil
}

// markErroneous records a failure in the history of d and flags it
// erroneous at the source. Failures here are only logged.
func (c *Collector) markErroneous(ctx context.Context, d domain.Decision, cause error) {
	id := d.ID()
	if err := c.indexing.UpdateDecision(ctx, domain.RawAudit(d, "").WithError(cause)); err != nil {
		logger.Warn("Failed to record error for decision %d: %v", id, err)
	}
	if err := c.source.SetStatus(ctx, id, domain.StatusErroneous); err != nil {
		logger.Error("Failed to mark decision %d erroneous: %v", id, err)
	}
}

func rawUpdateMessage(changes *domain.ChangeSet) string {
	msg := "update in rawJurica"
	if changes.Reprocess {
		msg += " and reprocessed"
	}
	msg += " (sync)"
	if changes.Anomaly {
		msg += msgOriginalModified
	}
	return msg + " - changelog: " + changes.Changelog()
}

func normalizedUpdateMessage(changes *domain.ChangeSet) string {
	msg := "update in decisions"
	if changes.Reprocess {
		msg += " and reprocessed"
	}
	return msg + " (sync) - changelog: " + changes.Changelog()
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
