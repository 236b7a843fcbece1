package driven

import (
	"context"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

// SyncStateStore persists sync progress.
type SyncStateStore interface {
	// Save stores or updates sync state.
	Save(ctx context.Context, state domain.SyncState) error

	// Get retrieves sync state for a source database.
	// Returns domain.ErrNotFound if no sync was recorded.
	Get(ctx context.Context, sourceName string) (*domain.SyncState, error)
}
