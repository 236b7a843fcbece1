package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

func TestRawDecisionStore_InsertGet(t *testing.T) {
	store := NewRawDecisionStore()
	ctx := context.Background()

	d := domain.Decision{domain.FieldID: int64(42), domain.FieldPortalis: "ABCD-E-FGH-1"}
	require.NoError(t, store.Insert(ctx, d))

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got[domain.FieldMirrorID])
	assert.Equal(t, "ABCD-E-FGH-1", got[domain.FieldPortalis])
	assert.NotContains(t, d, domain.FieldMirrorID)

	got[domain.FieldPortalis] = "changed"
	again, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "ABCD-E-FGH-1", again[domain.FieldPortalis])
}

func TestRawDecisionStore_InsertErrors(t *testing.T) {
	store := NewRawDecisionStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, domain.Decision{domain.FieldID: int64(1)}))
	assert.ErrorIs(t, store.Insert(ctx, domain.Decision{domain.FieldID: int64(1)}), domain.ErrAlreadyExists)
	assert.ErrorIs(t, store.Insert(ctx, domain.Decision{}), domain.ErrInvalidInput)
}

func TestRawDecisionStore_ReplaceDelete(t *testing.T) {
	store := NewRawDecisionStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.Replace(ctx, domain.Decision{domain.FieldID: int64(1)}), domain.ErrNotFound)

	require.NoError(t, store.Insert(ctx, domain.Decision{domain.FieldID: int64(1), domain.FieldStatus: int64(0)}))
	require.NoError(t, store.Replace(ctx, domain.Decision{domain.FieldMirrorID: int64(1), domain.FieldStatus: int64(1)}))

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got[domain.FieldStatus])
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, 1))
	require.NoError(t, store.Delete(ctx, 1))
	_, err = store.Get(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
