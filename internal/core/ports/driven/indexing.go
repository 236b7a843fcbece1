package driven

import (
	"context"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

// IndexingService is the normalization and history service shared by every
// collector. It owns the text tools and the publication policy.
type IndexingService interface {
	// NormalizeDecision builds the normalized form of a decision. When
	// existing is set, the result keeps its identity.
	NormalizeDecision(ctx context.Context, d domain.Decision, existing *domain.NormalizedDecision) (*domain.NormalizedDecision, error)

	// IndexDecision opens the history of a decision with a first entry.
	IndexDecision(ctx context.Context, entry domain.AuditEntry) error

	// UpdateDecision appends an entry to the history of a decision.
	UpdateDecision(ctx context.Context, entry domain.AuditEntry) error

	// IndexAffaire refreshes the case file the decision belongs to.
	IndexAffaire(ctx context.Context, d domain.Decision) error

	// CleanContent converts source HTML into plain decision text.
	CleanContent(ctx context.Context, html string) (string, error)

	// GetZones returns the zoning of a cleaned decision text.
	GetZones(ctx context.Context, id int64, text string) (*domain.Zoning, error)

	// ShouldBeRejected reports whether the codes forbid any publication.
	ShouldBeRejected(ctx context.Context, codes domain.PublicationCodes) (bool, error)

	// IsPartiallyPublic reports whether only some zones may be published.
	IsPartiallyPublic(ctx context.Context, codes domain.PublicationCodes) (bool, error)

	// ShouldBeSentToScreening reports whether publication awaits a screening verdict.
	ShouldBeSentToScreening(ctx context.Context, codes domain.PublicationCodes) (bool, error)
}

// ScreeningService decides out of band whether a decision is public.
type ScreeningService interface {
	// Submit sends a decision for screening.
	Submit(ctx context.Context, s domain.Submission) (domain.ScreeningResult, error)

	// Delete removes a decision from the screening service.
	Delete(ctx context.Context, d domain.ScreenedDecision) (domain.ScreeningResult, error)

	// Released returns the decisions screened as public.
	Released(ctx context.Context) ([]domain.ScreenedDecision, error)

	// NotPublic returns the decisions screened as not public.
	NotPublic(ctx context.Context) ([]domain.ScreenedDecision, error)
}
