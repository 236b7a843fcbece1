package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

func TestSyncStateStore_SaveGet(t *testing.T) {
	store := NewSyncStateStore()
	ctx := context.Background()

	_, err := store.Get(ctx, domain.SourceName)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first := time.Now().Add(-time.Hour)
	second := time.Now()
	require.NoError(t, store.Save(ctx, domain.SyncState{SourceName: domain.SourceName, LastSync: first}))
	require.NoError(t, store.Save(ctx, domain.SyncState{SourceName: domain.SourceName, LastSync: second}))

	state, err := store.Get(ctx, domain.SourceName)
	require.NoError(t, err)
	assert.Equal(t, second.Unix(), state.LastSync.Unix())
}
