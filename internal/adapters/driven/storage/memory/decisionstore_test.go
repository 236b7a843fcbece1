package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

func TestDecisionStore_InsertAssignsID(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()

	n := &domain.NormalizedDecision{SourceID: 1, SourceName: domain.SourceName}
	require.NoError(t, store.Insert(ctx, n))
	assert.NotEmpty(t, n.ID)

	got, err := store.FindBySource(ctx, 1, domain.SourceName)
	require.NoError(t, err)
	assert.Equal(t, n.ID, got.ID)

	_, err = store.FindBySource(ctx, 1, "jurinet")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDecisionStore_OnePerSource(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, &domain.NormalizedDecision{SourceID: 1, SourceName: domain.SourceName}))
	err := store.Insert(ctx, &domain.NormalizedDecision{SourceID: 1, SourceName: domain.SourceName})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	require.NoError(t, store.Insert(ctx, &domain.NormalizedDecision{SourceID: 1, SourceName: "jurinet"}))
	assert.Equal(t, 2, store.Len())
}

func TestDecisionStore_ReplaceDelete(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()

	n := &domain.NormalizedDecision{SourceID: 1, SourceName: domain.SourceName}
	assert.ErrorIs(t, store.Replace(ctx, &domain.NormalizedDecision{ID: "nope"}), domain.ErrNotFound)
	require.NoError(t, store.Insert(ctx, n))

	n.Locked = true
	require.NoError(t, store.Replace(ctx, n))
	got, err := store.FindBySource(ctx, 1, domain.SourceName)
	require.NoError(t, err)
	assert.True(t, got.Locked)

	require.NoError(t, store.Delete(ctx, n.ID))
	_, err = store.FindBySource(ctx, 1, domain.SourceName)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDecisionStore_ListByLabelStatus(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()

	for _, n := range []*domain.NormalizedDecision{
		{SourceID: 3, SourceName: domain.SourceName, LabelStatus: domain.LabelStatusDone},
		{SourceID: 1, SourceName: domain.SourceName, LabelStatus: domain.LabelStatusDone},
		{SourceID: 2, SourceName: domain.SourceName, LabelStatus: domain.LabelStatusToBeTreated},
		{SourceID: 4, SourceName: "jurinet", LabelStatus: domain.LabelStatusDone},
	} {
		require.NoError(t, store.Insert(ctx, n))
	}

	done, err := store.ListByLabelStatus(ctx, domain.LabelStatusDone, domain.SourceName)
	require.NoError(t, err)
	require.Len(t, done, 2)
	assert.Equal(t, int64(1), done[0].SourceID)
	assert.Equal(t, int64(3), done[1].SourceID)
}
