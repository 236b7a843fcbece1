package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
)

var errBoom = errors.New("boom")

// --- Mock implementations shared by the service tests ---

// mockIndexing implements driven.IndexingService. Publication policy is
// driven by the NAC code of the decision.
type mockIndexing struct {
	rejectNAC  map[string]bool
	partialNAC map[string]bool
	screenNAC  map[string]bool
	policyErr  error

	cleaned   string
	cleanErr  error
	zoning    *domain.Zoning
	zoningErr error

	normalizeErr map[int64]error
	auditErr     error

	indexed  []domain.AuditEntry
	updated  []domain.AuditEntry
	affaires []int64
}

var _ driven.IndexingService = (*mockIndexing)(nil)

func newMockIndexing() *mockIndexing {
	return &mockIndexing{
		rejectNAC:    map[string]bool{},
		partialNAC:   map[string]bool{},
		screenNAC:    map[string]bool{},
		normalizeErr: map[int64]error{},
	}
}

func (m *mockIndexing) NormalizeDecision(
	_ context.Context,
	d domain.Decision,
	existing *domain.NormalizedDecision,
) (*domain.NormalizedDecision, error) {
	if err := m.normalizeErr[d.ID()]; err != nil {
		return nil, err
	}
	n := &domain.NormalizedDecision{
		SourceID:        d.ID(),
		SourceName:      domain.SourceName,
		LabelStatus:     domain.LabelStatusToBeTreated,
		LabelTreatments: []map[string]any{},
		OriginalText:    d.String(domain.FieldHTMLSource),
		Metadata:        map[string]any{"portalis": d[domain.FieldPortalis]},
	}
	if existing != nil {
		n.ID = existing.ID
		n.Locked = existing.Locked
		n.LabelStatus = existing.LabelStatus
		n.LabelTreatments = existing.LabelTreatments
		n.PseudoText = existing.PseudoText
		n.PseudoStatus = existing.PseudoStatus
		n.DateCreation = existing.DateCreation
		n.Zoning = existing.Zoning
	}
	return n, nil
}

func (m *mockIndexing) IndexDecision(_ context.Context, entry domain.AuditEntry) error {
	if m.auditErr != nil {
		return m.auditErr
	}
	m.indexed = append(m.indexed, entry)
	return nil
}

func (m *mockIndexing) UpdateDecision(_ context.Context, entry domain.AuditEntry) error {
	if m.auditErr != nil {
		return m.auditErr
	}
	m.updated = append(m.updated, entry)
	return nil
}

func (m *mockIndexing) IndexAffaire(_ context.Context, d domain.Decision) error {
	m.affaires = append(m.affaires, d.ID())
	return nil
}

func (m *mockIndexing) CleanContent(_ context.Context, html string) (string, error) {
	if m.cleanErr != nil {
		return "", m.cleanErr
	}
	if m.cleaned != "" {
		return m.cleaned, nil
	}
	return html, nil
}

func (m *mockIndexing) GetZones(_ context.Context, _ int64, _ string) (*domain.Zoning, error) {
	return m.zoning, m.zoningErr
}

func (m *mockIndexing) ShouldBeRejected(_ context.Context, codes domain.PublicationCodes) (bool, error) {
	return m.rejectNAC[codes.NAC], m.policyErr
}

func (m *mockIndexing) IsPartiallyPublic(_ context.Context, codes domain.PublicationCodes) (bool, error) {
	return m.partialNAC[codes.NAC], nil
}

func (m *mockIndexing) ShouldBeSentToScreening(_ context.Context, codes domain.PublicationCodes) (bool, error) {
	return m.screenNAC[codes.NAC], nil
}

// messages returns the audit messages recorded for an origin.
func messages(entries []domain.AuditEntry, origin domain.Origin) []string {
	var result []string
	for _, e := range entries {
		if e.Origin == origin {
			result = append(result, e.Message)
		}
	}
	return result
}

// mockScreening implements driven.ScreeningService.
type mockScreening struct {
	submitted []domain.Submission
	submitErr error

	released  []domain.ScreenedDecision
	notPublic []domain.ScreenedDecision
	listErr   error
	deleted   []domain.ScreenedDecision
	deleteErr error
}

var _ driven.ScreeningService = (*mockScreening)(nil)

func (m *mockScreening) Submit(_ context.Context, s domain.Submission) (domain.ScreeningResult, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	m.submitted = append(m.submitted, s)
	return domain.ScreeningResult{"status": "queued"}, nil
}

func (m *mockScreening) Delete(_ context.Context, d domain.ScreenedDecision) (domain.ScreeningResult, error) {
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	m.deleted = append(m.deleted, d)
	return domain.ScreeningResult{"deleted": true}, nil
}

func (m *mockScreening) Released(_ context.Context) ([]domain.ScreenedDecision, error) {
	return m.released, m.listErr
}

func (m *mockScreening) NotPublic(_ context.Context) ([]domain.ScreenedDecision, error) {
	return m.notPublic, m.listErr
}

// mockWhitelist implements driven.WhitelistLoader.
type mockWhitelist struct {
	ids []int64
	err error
}

func (m *mockWhitelist) Load(_ context.Context) (domain.Whitelist, error) {
	if m.err != nil {
		return nil, m.err
	}
	return domain.NewWhitelist(m.ids...), nil
}

// failingRawStore implements driven.RawDecisionStore, failing every call.
type failingRawStore struct{}

func (failingRawStore) Get(context.Context, int64) (domain.Decision, error) { return nil, errBoom }
func (failingRawStore) Insert(context.Context, domain.Decision) error       { return errBoom }
func (failingRawStore) Replace(context.Context, domain.Decision) error      { return errBoom }
func (failingRawStore) Delete(context.Context, int64) error                 { return errBoom }

// failingReferences implements driven.ReferenceStore, failing every call.
type failingReferences struct{}

func (failingReferences) NACBlock(context.Context, string) (int64, error) { return 0, errBoom }
func (failingReferences) OccultationBlock(context.Context, int64) (domain.Attributes, error) {
	return nil, errBoom
}
