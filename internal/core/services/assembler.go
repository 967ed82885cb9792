package services

import (
	"fmt"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// AssemblePoints zips chunks, vectors and document metadata into points.
// Point identity depends on position only, so re-running on the same
// document yields the same IDs.
func AssemblePoints(chunks []domain.Chunk, vectors [][]float32, meta domain.DocumentMetadata) ([]domain.Point, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("%w: %d chunks but %d vectors", domain.ErrShapeMismatch, len(chunks), len(vectors))
	}

	points := make([]domain.Point, len(chunks))
	for i, chunk := range chunks {
		tags := make([]string, len(meta.Tags))
		copy(tags, meta.Tags)

		points[i] = domain.Point{
			ID:     domain.PointID(i),
			Vector: vectors[i],
			Payload: domain.Payload{
				ChunkID:       domain.ChunkID(i),
				ScenarioTitle: meta.Title,
				Category:      meta.Category.String(),
				ChunkIndex:    i + 1,
				TotalChunks:   len(chunks),
				Content:       chunk.Content,
				Tags:          tags,
			},
		}
	}
	return points, nil
}
