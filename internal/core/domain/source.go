package domain

import "time"

// SyncState tracks incremental re-collection progress for a source database.
type SyncState struct {
	// SourceName identifies the source database, e.g. "jurica".
	SourceName string

	// LastSync is when the last successful sync run started. The next run
	// re-reads every decision modified after this date.
	LastSync time.Time
}

// Whitelist holds decision identifiers exempt from the age and duplicate
// checks of first-time collection.
type Whitelist map[int64]struct{}

// NewWhitelist builds a whitelist from identifiers.
func NewWhitelist(ids ...int64) Whitelist {
	w := make(Whitelist, len(ids))
	for _, id := range ids {
		w[id] = struct{}{}
	}
	return w
}

// Contains reports whether id is whitelisted. A nil whitelist contains nothing.
func (w Whitelist) Contains(id int64) bool {
	_, ok := w[id]
	return ok
}
