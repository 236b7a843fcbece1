package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

// SourceStore reads decisions from the source database and writes back
// their processing status.
type SourceStore interface {
	// ListNew returns decisions never processed, with an HTML source and
	// created on or after since, ordered by identifier.
	ListNew(ctx context.Context, since time.Time) ([]domain.Decision, error)

	// ListUpdated returns decisions with an HTML source modified after since,
	// ordered by identifier.
	ListUpdated(ctx context.Context, since time.Time) ([]domain.Decision, error)

	// Get retrieves a decision by identifier.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id int64) (domain.Decision, error)

	// SetStatus writes the processing status of a decision.
	SetStatus(ctx context.Context, id int64, status domain.Status) error

	// MarkApproved writes the approved status, the approval label and
	// refreshed modification dates, and clears the subscriber send date.
	MarkApproved(ctx context.Context, id int64, at time.Time) error
}

// ReferenceStore reads the reference tables joined during enrichment.
type ReferenceStore interface {
	// NACBlock returns the occultation block identifier of a NAC code.
	// Returns domain.ErrNotFound if the code is unknown or has no block.
	NACBlock(ctx context.Context, nac string) (int64, error)

	// OccultationBlock returns the attributes of an occultation block,
	// without the block identifier itself.
	// Returns domain.ErrNotFound if the block does not exist.
	OccultationBlock(ctx context.Context, blockID int64) (domain.Attributes, error)
}
