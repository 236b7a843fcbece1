package driven

import (
	"context"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

// WhitelistLoader loads the identifiers exempt from the collection checks.
type WhitelistLoader interface {
	// Load reads the whitelist. A missing whitelist is empty, not an error.
	Load(ctx context.Context) (domain.Whitelist, error)
}
