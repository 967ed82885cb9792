package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

func useMemoryStore(t *testing.T) *memory.VectorStore {
	t.Helper()
	store := memory.NewVectorStore()
	openVectorStore = func(_ context.Context, _ *domain.VectorStoreSettings) (driven.VectorStore, error) {
		return store, nil
	}
	return store
}

func TestInspectCmd_ShowsCollection(t *testing.T) {
	setupCLI(t, nil)
	store := useMemoryStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, domain.CollectionSpec{Name: domain.DefaultCollection, VectorSize: 3}))
	require.NoError(t, store.Upsert(ctx, domain.DefaultCollection, []domain.Point{
		{ID: 1, Vector: []float32{1, 2, 3}},
		{ID: 2, Vector: []float32{4, 5, 6}},
	}))

	output, err := execute(t, "inspect", "--backend", "memory")
	require.NoError(t, err)

	assert.Contains(t, output, "Collection "+domain.DefaultCollection)
	assert.Contains(t, output, "Vector size: 3")
	assert.Contains(t, output, "Distance:    Cosine")
	assert.Contains(t, output, "Points:      2")
}

func TestInspectCmd_All(t *testing.T) {
	setupCLI(t, nil)
	store := useMemoryStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, domain.CollectionSpec{Name: "a", VectorSize: 2}))
	require.NoError(t, store.CreateCollection(ctx, domain.CollectionSpec{Name: "b", VectorSize: 2}))

	output, err := execute(t, "inspect", "--backend", "memory", "--collection", "b", "--all")
	require.NoError(t, err)

	assert.Contains(t, output, "  a\n")
	assert.Contains(t, output, "Collection b")
}

func TestInspectCmd_MissingCollection(t *testing.T) {
	setupCLI(t, nil)
	store := useMemoryStore(t)
	require.NoError(t, store.CreateCollection(context.Background(), domain.CollectionSpec{Name: "other", VectorSize: 2}))

	_, err := execute(t, "inspect", "--backend", "memory")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Contains(t, err.Error(), "available: other")
}
