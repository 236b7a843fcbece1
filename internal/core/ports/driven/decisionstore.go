package driven

import (
	"context"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

// DecisionStore persists normalized decisions.
type DecisionStore interface {
	// FindBySource retrieves the normalized decision of a source decision.
	// Returns domain.ErrNotFound if there is none.
	FindBySource(ctx context.Context, sourceID int64, sourceName string) (*domain.NormalizedDecision, error)

	// Insert stores a new normalized decision, assigning its ID when empty.
	// Returns domain.ErrAlreadyExists if the source already has one.
	Insert(ctx context.Context, n *domain.NormalizedDecision) error

	// Replace overwrites the normalized decision with the same ID.
	// Returns domain.ErrNotFound if it does not exist.
	Replace(ctx context.Context, n *domain.NormalizedDecision) error

	// Delete removes a normalized decision. Deleting a missing one is not an error.
	Delete(ctx context.Context, id string) error

	// ListByLabelStatus returns the normalized decisions of a source in the
	// given labelling state.
	ListByLabelStatus(ctx context.Context, status domain.LabelStatus, sourceName string) ([]domain.NormalizedDecision, error)
}
