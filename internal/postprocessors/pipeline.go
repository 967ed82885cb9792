// Package postprocessors turns a normalised document into its chunk sequence.
package postprocessors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline runs post-processors in a fixed order. The first step receives no
// chunks and creates them; later steps may only annotate.
//
// After every step the chunk sequence is checked: indices run 1..n without
// gaps, IDs match their index and no chunk is blank. A step that breaks the
// sequence fails the run with ErrShapeMismatch.
type Pipeline struct {
	steps []driven.PostProcessor
}

// NewPipeline creates a pipeline that runs steps in the order given.
func NewPipeline(steps ...driven.PostProcessor) *Pipeline {
	return &Pipeline{steps: steps}
}

// Process runs doc through every step and returns the final chunks.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		out, err := step.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", step.Name(), err)
		}
		if err := checkSequence(out); err != nil {
			return nil, fmt.Errorf("processor %s: %w", step.Name(), err)
		}
		chunks = out
		logger.Debug("pipeline: %s -> %d chunks in %s", step.Name(), len(chunks), time.Since(start).Round(time.Microsecond))
	}
	return chunks, nil
}

// Steps returns the step names in execution order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

func checkSequence(chunks []domain.Chunk) error {
	for i, c := range chunks {
		switch {
		case c.Index != i+1:
			return fmt.Errorf("%w: chunk at position %d has index %d", domain.ErrShapeMismatch, i, c.Index)
		case c.ID != domain.ChunkID(i):
			return fmt.Errorf("%w: chunk %d has id %q, want %q", domain.ErrShapeMismatch, c.Index, c.ID, domain.ChunkID(i))
		case strings.TrimSpace(c.Content) == "":
			return fmt.Errorf("%w: chunk %d is blank", domain.ErrShapeMismatch, c.Index)
		}
	}
	return nil
}
