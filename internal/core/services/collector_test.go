package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/juricasync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/juricasync/internal/core/domain"
)

var collectNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)

// failingSource lists nothing and fails every listing.
type failingSource struct {
	*memory.SourceStore
}

func (failingSource) ListNew(context.Context, time.Time) ([]domain.Decision, error)     { return nil, errBoom }
func (failingSource) ListUpdated(context.Context, time.Time) ([]domain.Decision, error) { return nil, errBoom }

type collectorFixture struct {
	source    *memory.SourceStore
	raw       *memory.RawDecisionStore
	decisions *memory.DecisionStore
	syncStore *memory.SyncStateStore
	indexing  *mockIndexing
	screening *mockScreening
	collector *Collector
}

func newCollectorFixture(rows ...domain.Decision) *collectorFixture {
	f := &collectorFixture{
		source:    memory.NewSourceStore(rows...),
		raw:       memory.NewRawDecisionStore(),
		decisions: memory.NewDecisionStore(),
		syncStore: memory.NewSyncStateStore(),
		indexing:  newMockIndexing(),
		screening: &mockScreening{},
	}
	f.collector = NewCollector(CollectorStores{
		Source:     f.source,
		References: f.source,
		Raw:        f.raw,
		Decisions:  f.decisions,
		SyncState:  f.syncStore,
	}, f.indexing, f.screening, nil, domain.DefaultSettings().Collect)
	f.collector.now = func() time.Time { return collectNow }
	f.collector.filter.now = f.collector.now
	return f
}

func (f *collectorFixture) status(t *testing.T, id int64) int64 {
	t.Helper()
	row, err := f.source.Get(context.Background(), id)
	require.NoError(t, err)
	status, ok := row.Int(domain.FieldStatus)
	require.True(t, ok)
	return status
}

func sourceRow(id int64, nac string) domain.Decision {
	return domain.Decision{
		domain.FieldID:               id,
		domain.FieldHTMLSource:       "<p>text</p>",
		domain.FieldDate:             "2024-06-01",
		domain.FieldCreationDate:     "2024-06-10",
		domain.FieldUpdateDate:       "2024-06-15",
		domain.FieldNAC:              nac,
		domain.FieldJurisdictionCode: "CA75",
		domain.FieldStatus:           int64(0),
		domain.FieldSolutionID:       int64(1),
		domain.FieldIndLegalEntity:   int64(0),
	}
}

func TestCollector_CollectNew_Public(t *testing.T) {
	f := newCollectorFixture(sourceRow(1, "11A"))

	summary, err := f.collector.CollectNew(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{New: 1}, summary)
	assert.Equal(t, 1, f.raw.Len())
	assert.Equal(t, 1, f.decisions.Len())
	assert.Equal(t, int64(domain.StatusPending), f.status(t, 1))
	assert.Equal(t, []string{"import in rawJurica"}, messages(f.indexing.indexed, domain.OriginRaw))
	assert.Equal(t, []string{"import in decisions"}, messages(f.indexing.indexed, domain.OriginNormalized))
	assert.Equal(t, []int64{1}, f.indexing.affaires)

	mirrored, err := f.raw.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, mirrored.Has(domain.FieldIndexed))
	assert.Nil(t, mirrored[domain.FieldIndexed])
}

func TestCollector_CollectNew_NonPublic(t *testing.T) {
	f := newCollectorFixture(sourceRow(1, "00A"))
	f.indexing.rejectNAC["00A"] = true

	summary, err := f.collector.CollectNew(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{Skipped: 1}, summary)
	assert.Equal(t, 0, f.raw.Len())
	assert.Equal(t, 0, f.decisions.Len())
	assert.Equal(t, int64(domain.StatusErroneous), f.status(t, 1))
	assert.Equal(t, []string{"non-public"}, messages(f.indexing.updated, domain.OriginRaw))
}

func TestCollector_CollectNew_PartiallyPublic(t *testing.T) {
	row := sourceRow(1, "11B")
	row[domain.FieldHTMLSource] = redactionText
	f := newCollectorFixture(row)
	f.indexing.partialNAC["11B"] = true
	f.indexing.zoning = &domain.Zoning{Zones: map[string]domain.Zone{
		domain.ZoneIntroduction: {{Start: 0, End: 4}},
		domain.ZoneDispositif:   {{Start: 20, End: 24}},
	}}

	summary, err := f.collector.CollectNew(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{New: 1}, summary)
	mirrored, err := f.raw.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "AAAA"+RedactionSeparator+"ZZZZ", mirrored.String(domain.FieldHTMLSource))
}

func TestCollector_CollectNew_PartiallyPublicWithoutDispositif(t *testing.T) {
	f := newCollectorFixture(sourceRow(1, "11B"))
	f.indexing.partialNAC["11B"] = true
	f.indexing.zoning = &domain.Zoning{Zones: map[string]domain.Zone{
		domain.ZoneIntroduction: {{Start: 0, End: 4}},
	}}

	summary, err := f.collector.CollectNew(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{Errors: 1}, summary)
	assert.Equal(t, 0, f.raw.Len())
	assert.Equal(t, 0, f.decisions.Len())
	assert.Equal(t, int64(domain.StatusErroneous), f.status(t, 1))

	require.Len(t, f.indexing.updated, 1)
	var redactionErr *domain.RedactionError
	require.True(t, errors.As(f.indexing.updated[0].Err, &redactionErr))
	assert.Equal(t, "it has no dispositif", redactionErr.Reason)
}

func TestCollector_CollectNew_Screening(t *testing.T) {
	f := newCollectorFixture(sourceRow(1, "22B"))
	f.indexing.screenNAC["22B"] = true

	summary, err := f.collector.CollectNew(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{Submitted: 1}, summary)
	assert.Equal(t, 1, f.raw.Len())
	assert.Equal(t, 0, f.decisions.Len())
	assert.Equal(t, int64(domain.StatusPending), f.status(t, 1))

	require.Len(t, f.screening.submitted, 1)
	assert.Equal(t, domain.Submission{
		SourceID:     1,
		SourceDB:     domain.SourceName,
		DecisionDate: "2024-06-01",
		Jurisdiction: "CA75",
		ClassCode:    "22B",
		Publicity:    domain.PublicityUnspecified,
	}, f.screening.submitted[0])
	assert.Equal(t, []string{`submitted to Judifiltre: {"status":"queued"}`}, messages(f.indexing.updated, domain.OriginRaw))
}

func TestCollector_CollectNew_ScreeningFailure(t *testing.T) {
	f := newCollectorFixture(sourceRow(1, "22B"))
	f.indexing.screenNAC["22B"] = true
	f.screening.submitErr = errBoom

	summary, err := f.collector.CollectNew(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{Errors: 1}, summary)
	assert.Equal(t, 1, f.raw.Len())
	assert.Equal(t, int64(domain.StatusErroneous), f.status(t, 1))
	require.Len(t, f.indexing.updated, 1)
	assert.ErrorIs(t, f.indexing.updated[0].Err, errBoom)
}

func TestCollector_CollectNew_NormalizedAlreadyExists(t *testing.T) {
	f := newCollectorFixture(sourceRow(1, "11A"))
	existing := &domain.NormalizedDecision{SourceID: 1, SourceName: domain.SourceName}
	require.NoError(t, f.decisions.Insert(context.Background(), existing))

	summary, err := f.collector.CollectNew(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{Skipped: 1}, summary)
	assert.Equal(t, 1, f.raw.Len())
	assert.Equal(t, 1, f.decisions.Len())
	assert.Equal(t, int64(domain.StatusPending), f.status(t, 1))
	assert.Equal(t, []string{"SDER record " + existing.ID + " already exists"},
		messages(f.indexing.updated, domain.OriginNormalized))
}

func TestCollector_CollectNew_FiltersBatch(t *testing.T) {
	old := sourceRow(2, "11A")
	old[domain.FieldDate] = "2023-01-01"
	f := newCollectorFixture(sourceRow(1, "11A"), old, sourceRow(3, "11A"))
	require.NoError(t, f.raw.Insert(context.Background(), sourceRow(3, "11A")))

	summary, err := f.collector.CollectNew(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{New: 1, Skipped: 2}, summary)
	assert.Equal(t, int64(domain.StatusReset), f.status(t, 2))
	assert.Equal(t, int64(domain.StatusReset), f.status(t, 3))
}

func TestCollector_CollectNew_OutsideWindow(t *testing.T) {
	old := sourceRow(1, "11A")
	old[domain.FieldCreationDate] = "2024-05-14"
	f := newCollectorFixture(old, sourceRow(2, "11A"))

	summary, err := f.collector.CollectNew(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{New: 1}, summary)
	_, err = f.raw.Get(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCollector_CollectNew_FailureDoesNotStopBatch(t *testing.T) {
	f := newCollectorFixture(sourceRow(1, "11A"), sourceRow(2, "11A"), sourceRow(3, "11A"))
	f.indexing.normalizeErr[2] = errBoom

	summary, err := f.collector.CollectNew(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{New: 2, Errors: 1}, summary)
	assert.Equal(t, 2, f.decisions.Len())
	assert.Equal(t, int64(domain.StatusPending), f.status(t, 1))
	assert.Equal(t, int64(domain.StatusErroneous), f.status(t, 2))
	assert.Equal(t, int64(domain.StatusPending), f.status(t, 3))
}

func TestCollector_CollectNew_ListFailure(t *testing.T) {
	f := newCollectorFixture()
	f.collector.source = failingSource{f.source}

	summary, err := f.collector.CollectNew(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, domain.RunSummary{Errors: 1}, summary)
}

func TestCollector_CollectNew_Whitelist(t *testing.T) {
	old := sourceRow(5, "11A")
	old[domain.FieldDate] = "2020-01-01"

	t.Run("whitelisted decision is collected", func(t *testing.T) {
		f := newCollectorFixture(old)
		f.collector.whitelist = &mockWhitelist{ids: []int64{5}}

		summary, err := f.collector.CollectNew(context.Background())

		require.NoError(t, err)
		assert.Equal(t, domain.RunSummary{New: 1}, summary)
	})

	t.Run("unreadable whitelist is ignored", func(t *testing.T) {
		f := newCollectorFixture(old)
		f.collector.whitelist = &mockWhitelist{err: errBoom}

		summary, err := f.collector.CollectNew(context.Background())

		require.NoError(t, err)
		assert.Equal(t, domain.RunSummary{Skipped: 1}, summary)
	})
}

func TestCollector_CollectNew_OccultationBlock(t *testing.T) {
	f := newCollectorFixture(sourceRow(1, "11A"))
	f.source.SetNACBlock("11A", 3)
	f.source.SetOccultationBlock(3, domain.Attributes{
		domain.FieldBlockID:        int64(3),
		domain.FieldIndLegalEntity: int64(1),
		domain.FieldIndAddress:     int64(1),
	})

	_, err := f.collector.CollectNew(context.Background())
	require.NoError(t, err)

	mirrored, err := f.raw.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), mirrored[domain.FieldOccultationBlock])
	assert.Equal(t, int64(0), mirrored[domain.FieldIndLegalEntity])
	assert.Equal(t, int64(1), mirrored[domain.FieldIndAddress])
	assert.False(t, mirrored.Has(domain.FieldBlockID))
}

func TestCollector_SyncUpdated_NewDecision(t *testing.T) {
	f := newCollectorFixture(sourceRow(1, "11A"))

	summary, err := f.collector.SyncUpdated(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{New: 1}, summary)
	assert.Equal(t, []string{"import in rawJurica (sync)"}, messages(f.indexing.indexed, domain.OriginRaw))
	assert.Equal(t, []string{"import in decisions (sync)"}, messages(f.indexing.indexed, domain.OriginNormalized))

	state, err := f.syncStore.Get(context.Background(), domain.SourceName)
	require.NoError(t, err)
	assert.True(t, state.LastSync.Equal(collectNow))
}

func TestCollector_SyncUpdated_NoDifference(t *testing.T) {
	f := newCollectorFixture(sourceRow(1, "11A"))

	_, err := f.collector.SyncUpdated(context.Background())
	require.NoError(t, err)
	summary, err := f.collector.SyncUpdated(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{Skipped: 1}, summary)
	assert.Equal(t, 1, f.raw.Len())
	assert.Equal(t, 1, f.decisions.Len())
	assert.Empty(t, f.indexing.updated)
}

func TestCollector_SyncUpdated_InformationalChange(t *testing.T) {
	ctx := context.Background()
	f := newCollectorFixture(sourceRow(1, "11A"))
	_, err := f.collector.SyncUpdated(ctx)
	require.NoError(t, err)
	before, err := f.decisions.FindBySource(ctx, 1, domain.SourceName)
	require.NoError(t, err)
	before.Zoning = map[string]any{"zones": "cached"}
	require.NoError(t, f.decisions.Replace(ctx, before))

	changed := sourceRow(1, "11A")
	changed[domain.FieldSolutionID] = int64(2)
	f.source.Put(changed)

	summary, err := f.collector.SyncUpdated(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{Updated: 1}, summary)
	changelog := `{"ID_SOLUTION":{"old":"1","new":"2"}}`
	assert.Equal(t, []string{"update in rawJurica (sync) - changelog: " + changelog},
		messages(f.indexing.updated, domain.OriginRaw))
	assert.Equal(t, []string{"update in decisions (sync) - changelog: " + changelog},
		messages(f.indexing.updated, domain.OriginNormalized))

	mirrored, err := f.raw.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), mirrored[domain.FieldSolutionID])

	after, err := f.decisions.FindBySource(ctx, 1, domain.SourceName)
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Nil(t, after.Zoning)
	assert.Equal(t, collectNow.UTC().Format(isoMillis), after.DateCreation)
}

func TestCollector_SyncUpdated_Reprocess(t *testing.T) {
	ctx := context.Background()
	f := newCollectorFixture(sourceRow(1, "11A"))
	_, err := f.collector.SyncUpdated(ctx)
	require.NoError(t, err)
	labelled, err := f.decisions.FindBySource(ctx, 1, domain.SourceName)
	require.NoError(t, err)
	labelled.LabelStatus = domain.LabelStatusDone
	labelled.PseudoText = "[PERSONNE 1]"
	labelled.PseudoStatus = 2
	labelled.LabelTreatments = []map[string]any{{"source": "NLP"}}
	require.NoError(t, f.decisions.Replace(ctx, labelled))

	changed := sourceRow(1, "11A")
	changed[domain.FieldIndLegalEntity] = int64(1)
	changed[domain.FieldStatus] = int64(domain.StatusPending)
	changed[domain.FieldPseudoHTML] = "<p>pseudo</p>"
	f.source.Put(changed)

	summary, err := f.collector.SyncUpdated(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{Updated: 1}, summary)
	assert.Equal(t, int64(domain.StatusReset), f.status(t, 1))

	mirrored, err := f.raw.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(domain.StatusReset), mirrored[domain.FieldStatus])
	assert.True(t, mirrored.Has(domain.FieldPseudoHTML))
	assert.Nil(t, mirrored[domain.FieldPseudoHTML])

	raw := messages(f.indexing.updated, domain.OriginRaw)
	require.Len(t, raw, 1)
	assert.Contains(t, raw[0], "update in rawJurica and reprocessed (sync) - changelog: ")
	normalized := messages(f.indexing.updated, domain.OriginNormalized)
	require.Len(t, normalized, 1)
	assert.Contains(t, normalized[0], "update in decisions and reprocessed (sync) - changelog: ")

	after, err := f.decisions.FindBySource(ctx, 1, domain.SourceName)
	require.NoError(t, err)
	assert.Equal(t, domain.LabelStatusToBeTreated, after.LabelStatus)
	assert.Empty(t, after.PseudoText)
	assert.Zero(t, after.PseudoStatus)
	assert.Empty(t, after.LabelTreatments)
}

func TestCollector_SyncUpdated_Anomaly(t *testing.T) {
	ctx := context.Background()
	f := newCollectorFixture(sourceRow(1, "11A"))
	_, err := f.collector.SyncUpdated(ctx)
	require.NoError(t, err)

	changed := sourceRow(1, "11A")
	changed[domain.FieldXML] = "<xml>changed</xml>"
	f.source.Put(changed)

	summary, err := f.collector.SyncUpdated(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{Updated: 1}, summary)
	assert.Equal(t, []string{
		"update in rawJurica (sync) - original text could have been changed - changelog: " +
			`{"XML":{"old":"[SENSITIVE]","new":"[SENSITIVE]"}}`,
	}, messages(f.indexing.updated, domain.OriginRaw))
}

func TestCollector_SyncUpdated_LockedDecision(t *testing.T) {
	ctx := context.Background()
	f := newCollectorFixture(sourceRow(1, "11A"))
	_, err := f.collector.SyncUpdated(ctx)
	require.NoError(t, err)
	locked, err := f.decisions.FindBySource(ctx, 1, domain.SourceName)
	require.NoError(t, err)
	locked.Locked = true
	locked.PseudoText = "[PERSONNE 1]"
	require.NoError(t, f.decisions.Replace(ctx, locked))

	changed := sourceRow(1, "11A")
	changed[domain.FieldSolutionID] = int64(2)
	f.source.Put(changed)

	summary, err := f.collector.SyncUpdated(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{Updated: 1}, summary)
	assert.Len(t, messages(f.indexing.updated, domain.OriginRaw), 1)
	assert.Empty(t, messages(f.indexing.updated, domain.OriginNormalized))

	after, err := f.decisions.FindBySource(ctx, 1, domain.SourceName)
	require.NoError(t, err)
	assert.Equal(t, *locked, *after)
}

func TestCollector_SyncUpdated_UsesLastSync(t *testing.T) {
	ctx := context.Background()
	recent := sourceRow(1, "11A")
	recent[domain.FieldUpdateDate] = "2024-06-12"
	stale := sourceRow(2, "11A")
	stale[domain.FieldUpdateDate] = "2024-06-10"
	f := newCollectorFixture(recent, stale)
	lastSync := time.Date(2024, 6, 12, 18, 30, 0, 0, time.Local)
	require.NoError(t, f.syncStore.Save(ctx, domain.SyncState{SourceName: domain.SourceName, LastSync: lastSync}))

	summary, err := f.collector.SyncUpdated(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{New: 1}, summary)
	_, err = f.raw.Get(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	state, err := f.syncStore.Get(ctx, domain.SourceName)
	require.NoError(t, err)
	assert.True(t, state.LastSync.Equal(collectNow))
}

func TestCollector_SyncUpdated_ListFailure(t *testing.T) {
	f := newCollectorFixture()
	f.collector.source = failingSource{f.source}

	summary, err := f.collector.SyncUpdated(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, domain.RunSummary{Errors: 1}, summary)
	_, err = f.syncStore.Get(context.Background(), domain.SourceName)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
