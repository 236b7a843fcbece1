package driving

import (
	"context"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

// Collector runs the collection jobs against the source database.
//
// Both jobs process decisions one at a time in identifier order. A failing
// decision is marked erroneous and counted; it never stops the batch. The
// returned error is only set when the batch itself could not be read.
type Collector interface {
	// CollectNew collects decisions never processed before.
	CollectNew(ctx context.Context) (domain.RunSummary, error)

	// SyncUpdated re-collects decisions modified since the last sync.
	SyncUpdated(ctx context.Context) (domain.RunSummary, error)
}

// Reinjector writes labelling results back to the source database.
type Reinjector interface {
	// Reinject approves every source decision whose labelling is done.
	Reinject(ctx context.Context) (domain.RunSummary, error)
}

// ScreeningImporter applies the verdicts of the screening service.
type ScreeningImporter interface {
	// ImportReleased normalizes decisions screened as public.
	ImportReleased(ctx context.Context) (domain.RunSummary, error)

	// CleanNotPublic removes decisions screened as not public.
	CleanNotPublic(ctx context.Context) (domain.RunSummary, error)
}
