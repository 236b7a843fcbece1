package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
)

// Ensure WhitelistLoader implements the interface.
var _ driven.WhitelistLoader = (*WhitelistLoader)(nil)

// WhitelistLoader reads a JSON array of decision identifiers.
type WhitelistLoader struct {
	path string
}

// NewWhitelistLoader creates a loader for path. An empty path or a missing
// file yields an empty whitelist.
func NewWhitelistLoader(path string) *WhitelistLoader {
	return &WhitelistLoader{path: path}
}

// Load reads the whitelist. It is read on every call.
func (l *WhitelistLoader) Load(_ context.Context) (domain.Whitelist, error) {
	if l.path == "" {
		return domain.NewWhitelist(), nil
	}

	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewWhitelist(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read whitelist: %w", err)
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parse whitelist %s: %w", l.path, err)
	}
	return domain.NewWhitelist(ids...), nil
}
