package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestSyncState_Fields tests SyncState structure fields
func TestSyncState_Fields(t *testing.T) {
	lastSync := time.Now()
	syncState := SyncState{
		SourceName: SourceName,
		LastSync:   lastSync,
	}

	assert.Equal(t, "jurica", syncState.SourceName)
	assert.Equal(t, lastSync, syncState.LastSync)
}

func TestWhitelist_Contains(t *testing.T) {
	w := NewWhitelist(12, 34)

	assert.True(t, w.Contains(12))
	assert.True(t, w.Contains(34))
	assert.False(t, w.Contains(56))
}

func TestWhitelist_NilContainsNothing(t *testing.T) {
	var w Whitelist
	assert.False(t, w.Contains(1))
}
