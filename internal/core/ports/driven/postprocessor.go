package driven

import (
	"context"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// PostProcessor is one step between a normalised document and its chunks.
// The first step in a pipeline gets nil chunks and creates them (chunker);
// later steps return the chunks they were given and may set document-level
// fields (classifier).
type PostProcessor interface {
	Name() string
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline runs the configured steps and returns the final
// chunk sequence, 1-indexed and contiguous.
type PostProcessorPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
