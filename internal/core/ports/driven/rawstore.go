package driven

import (
	"context"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

// RawDecisionStore persists the raw mirror, one decision per source identifier.
type RawDecisionStore interface {
	// Get retrieves a mirrored decision by source identifier.
	// Returns domain.ErrNotFound if it was never mirrored.
	Get(ctx context.Context, id int64) (domain.Decision, error)

	// Insert stores a new decision keyed by its identifier.
	// Returns domain.ErrAlreadyExists if the identifier is taken.
	Insert(ctx context.Context, d domain.Decision) error

	// Replace overwrites the mirrored decision with the same identifier.
	// Returns domain.ErrNotFound if it does not exist.
	Replace(ctx context.Context, d domain.Decision) error

	// Delete removes a mirrored decision. Deleting a missing one is not an error.
	Delete(ctx context.Context, id int64) error
}
