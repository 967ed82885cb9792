package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func testPoints(n, dims int) []domain.Point {
	points := make([]domain.Point, n)
	for i := range points {
		vec := make([]float32, dims)
		for j := range vec {
			vec[j] = float32(i) + float32(j)/10
		}
		points[i] = domain.Point{
			ID:     domain.PointID(i),
			Vector: vec,
			Payload: domain.Payload{
				ChunkID:       domain.ChunkID(i),
				ScenarioTitle: "Managing a difficult conversation",
				Category:      string(domain.CategoryCrisis),
				ChunkIndex:    i + 1,
				TotalChunks:   n,
				Content:       "chunk text",
				Tags:          []string{"crisis", "conflict_resolution", "stress_management"},
			},
		}
	}
	return points
}

func TestNewStore_RequiresPath(t *testing.T) {
	_, err := NewStore("")
	assert.True(t, errors.Is(err, domain.ErrMissingConfig))
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.CreateCollection(ctx, domain.CollectionSpec{Name: "c", VectorSize: 3}))
	require.NoError(t, store.Upsert(ctx, "c", testPoints(2, 3)))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	info, err := reopened.GetCollection(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 2, info.PointCount)
}

func TestStore_CreateAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	names, err := store.ListCollections(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, store.CreateCollection(ctx, domain.CollectionSpec{Name: "b", VectorSize: 4, Distance: domain.DistanceDot}))
	require.NoError(t, store.CreateCollection(ctx, domain.CollectionSpec{Name: "a", VectorSize: 4}))

	names, err = store.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	info, err := store.GetCollection(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.CollectionInfo{Name: "a", VectorSize: 4, Distance: domain.DistanceCosine}, *info)
}

func TestStore_CreateCollection_Rejects(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCollection(ctx, domain.CollectionSpec{Name: "c", VectorSize: 4}))

	err := store.CreateCollection(ctx, domain.CollectionSpec{Name: "c", VectorSize: 8})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	info, err := store.GetCollection(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 4, info.VectorSize, "existing collection shape must not change")

	err = store.CreateCollection(ctx, domain.CollectionSpec{Name: "d", VectorSize: 0})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	err = store.CreateCollection(ctx, domain.CollectionSpec{Name: "e", VectorSize: 4, Distance: "Manhattan"})
	assert.True(t, errors.Is(err, domain.ErrUnsupportedType))
}

func TestStore_Upsert_Idempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, domain.CollectionSpec{Name: "c", VectorSize: 3}))

	points := testPoints(5, 3)
	require.NoError(t, store.Upsert(ctx, "c", points))
	require.NoError(t, store.Upsert(ctx, "c", points))

	info, err := store.GetCollection(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 5, info.PointCount)

	stored, err := store.Points(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, points, stored)
}

func TestStore_Upsert_Overwrites(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, domain.CollectionSpec{Name: "c", VectorSize: 3}))
	require.NoError(t, store.Upsert(ctx, "c", testPoints(2, 3)))

	updated := testPoints(1, 3)
	updated[0].Vector = []float32{9, 9, 9}
	updated[0].Payload.Content = "rewritten"
	require.NoError(t, store.Upsert(ctx, "c", updated))

	stored, err := store.Points(ctx, "c")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, []float32{9, 9, 9}, stored[0].Vector)
	assert.Equal(t, "rewritten", stored[0].Payload.Content)
}

func TestStore_Upsert_DimensionMismatchCommitsNothing(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, domain.CollectionSpec{Name: "c", VectorSize: 3}))

	points := testPoints(3, 3)
	points[2].Vector = []float32{1, 2}

	err := store.Upsert(ctx, "c", points)
	assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))

	info, err := store.GetCollection(ctx, "c")
	require.NoError(t, err)
	assert.Zero(t, info.PointCount)
}

func TestStore_Upsert_UnknownCollection(t *testing.T) {
	store := setupTestStore(t)

	err := store.Upsert(context.Background(), "missing", testPoints(1, 3))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_Upsert_Empty(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.Upsert(context.Background(), "missing", nil))
}

func TestStore_GetCollection_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetCollection(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_Ping(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Ping(context.Background()))

	require.NoError(t, store.Close())
	err = store.Ping(context.Background())
	assert.True(t, errors.Is(err, domain.ErrVectorStoreUnavailable))
}

func TestFloat32Encoding(t *testing.T) {
	vec := []float32{0, -1.5, 3.25, 1e-7}

	decoded, err := bytesToFloat32Slice(float32SliceToBytes(vec))
	require.NoError(t, err)
	assert.Equal(t, vec, decoded)

	_, err = bytesToFloat32Slice([]byte{1, 2, 3})
	assert.Error(t, err)
}
