package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

func TestAssemblePoints(t *testing.T) {
	chunks := []domain.Chunk{{Content: "first"}, {Content: "second"}, {Content: "third"}}
	vectors := [][]float32{{0.1}, {0.2}, {0.3}}
	meta := domain.DocumentMetadata{
		Category: domain.CategoryCrisis,
		Title:    "Handling an urgent team conflict",
		Tags:     []string{"crisis", "conflict_resolution", "stress_management"},
	}

	points, err := AssemblePoints(chunks, vectors, meta)
	require.NoError(t, err)
	require.Len(t, points, 3)

	for i, p := range points {
		assert.Equal(t, uint64(i+1), p.ID)
		assert.Equal(t, vectors[i], p.Vector)
		assert.Equal(t, domain.ChunkID(i), p.Payload.ChunkID)
		assert.Equal(t, i+1, p.Payload.ChunkIndex)
		assert.Equal(t, 3, p.Payload.TotalChunks)
		assert.Equal(t, chunks[i].Content, p.Payload.Content)
		assert.Equal(t, "Crisis Handling", p.Payload.Category)
		assert.Equal(t, meta.Title, p.Payload.ScenarioTitle)
		assert.Equal(t, meta.Tags, p.Payload.Tags)
	}
	assert.Equal(t, "scenario_chunk_0001", points[0].Payload.ChunkID)

	// Tags are copied per point.
	points[0].Payload.Tags[0] = "changed"
	assert.Equal(t, "crisis", points[1].Payload.Tags[0])
	assert.Equal(t, "crisis", meta.Tags[0])
}

func TestAssemblePoints_NilTagsBecomeEmpty(t *testing.T) {
	points, err := AssemblePoints([]domain.Chunk{{Content: "a"}}, [][]float32{{1}}, domain.DocumentMetadata{})
	require.NoError(t, err)
	assert.NotNil(t, points[0].Payload.Tags)
	assert.Empty(t, points[0].Payload.Tags)
}

func TestAssemblePoints_LengthMismatch(t *testing.T) {
	_, err := AssemblePoints([]domain.Chunk{{Content: "a"}, {Content: "b"}}, [][]float32{{1}}, domain.DocumentMetadata{})
	assert.True(t, errors.Is(err, domain.ErrShapeMismatch))
}

func TestAssemblePoints_Empty(t *testing.T) {
	points, err := AssemblePoints(nil, nil, domain.DocumentMetadata{})
	require.NoError(t, err)
	assert.Empty(t, points)
}
