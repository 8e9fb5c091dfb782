package docstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinestock/cinestock-backend/pkg/docstore"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryPutGet(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	require.NoError(t, store.Put(ctx, "inventory", "popcorn", record{Name: "popcorn", Count: 3}))

	doc, err := store.GetByID(ctx, "inventory", "popcorn")
	require.NoError(t, err)

	var got record
	require.NoError(t, doc.Decode(&got))
	assert.Equal(t, "popcorn", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestMemoryGetByIDNotFound(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	_, err := store.GetByID(ctx, "inventory", "missing")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestMemoryLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	require.NoError(t, store.Put(ctx, "inventory", "popcorn", record{Count: 1}))
	require.NoError(t, store.Put(ctx, "inventory", "popcorn", record{Count: 2}))

	docs, err := store.Get(ctx, "inventory")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	var got record
	require.NoError(t, docs[0].Decode(&got))
	assert.Equal(t, 2, got.Count)
}

func TestMemoryInsertionOrderPreserved(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	names := []string{"popcorn", "nachos", "cola", "candy"}
	for i, name := range names {
		require.NoError(t, store.Put(ctx, "inventory", name, record{Name: name, Count: i}))
	}

	// Updating an early document must not move it to the back.
	require.NoError(t, store.Put(ctx, "inventory", "popcorn", record{Name: "popcorn", Count: 99}))

	docs, err := store.Get(ctx, "inventory")
	require.NoError(t, err)
	require.Len(t, docs, len(names))
	for i, doc := range docs {
		assert.Equal(t, names[i], doc.ID)
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	require.NoError(t, store.Put(ctx, "inventory", "popcorn", record{}))
	require.NoError(t, store.Delete(ctx, "inventory", "popcorn"))

	_, err := store.GetByID(ctx, "inventory", "popcorn")
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "inventory", "popcorn"), docstore.ErrNotFound)
}

func TestMemoryFailNext(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	boom := errors.New("connection reset")
	store.FailNext = boom

	assert.ErrorIs(t, store.Put(ctx, "inventory", "popcorn", record{}), boom)

	// Failure is consumed; the next call succeeds.
	assert.NoError(t, store.Put(ctx, "inventory", "popcorn", record{}))
}

func TestMemoryCollectionsIsolated(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	require.NoError(t, store.Put(ctx, "inventory", "popcorn", record{}))
	require.NoError(t, store.Put(ctx, "movements", "m-1", record{}))

	docs, err := store.Get(ctx, "inventory")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docs, err = store.Get(ctx, "movements")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}
