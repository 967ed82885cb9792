package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// EmbedStage is the progress stage name reported by BatchEmbedder.
const EmbedStage = "Embedding"

// pingTimeout bounds the reachability check made before the first provider call.
const pingTimeout = 5 * time.Second

// BatchEmbedder turns chunk texts into vectors with one provider call per
// contiguous batch. Batches run sequentially and are never retried.
type BatchEmbedder struct {
	svc       driven.EmbeddingService
	batchSize int
	limiter   *rate.Limiter
	progress  driven.ProgressReporter
}

// EmbedderOption configures a BatchEmbedder.
type EmbedderOption func(*BatchEmbedder)

// WithEmbedBatchSize sets the number of texts per provider call.
func WithEmbedBatchSize(n int) EmbedderOption {
	return func(e *BatchEmbedder) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithRequestsPerSecond throttles provider calls. Zero or less disables throttling.
func WithRequestsPerSecond(rps float64) EmbedderOption {
	return func(e *BatchEmbedder) {
		if rps > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			e.limiter = nil
		}
	}
}

// WithEmbedProgress reports completed batches to r.
func WithEmbedProgress(r driven.ProgressReporter) EmbedderOption {
	return func(e *BatchEmbedder) {
		e.progress = orNop(r)
	}
}

// NewBatchEmbedder creates a batch embedder over svc.
func NewBatchEmbedder(svc driven.EmbeddingService, opts ...EmbedderOption) *BatchEmbedder {
	e := &BatchEmbedder{
		svc:       svc,
		batchSize: domain.DefaultEmbedBatchSize,
		progress:  nopProgress{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Model names the embedding model behind the embedder.
func (e *BatchEmbedder) Model() string {
	return e.svc.ModelName()
}

// BatchCount returns the number of provider calls needed for n texts.
func (e *BatchEmbedder) BatchCount(n int) int {
	return (n + e.batchSize - 1) / e.batchSize
}

// Embed returns one vector per text, index-aligned with texts.
// Every vector has the length of the first one; any deviation, a wrong
// count or an empty vector fails the whole run with domain.ErrShapeMismatch.
// A provider failure fails the whole run with domain.ErrEmbeddingFailed.
// The provider is pinged first, so an unreachable provider is reported as
// domain.ErrEmbeddingUnavailable; with no texts it is never contacted.
func (e *BatchEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := e.ping(ctx); err != nil {
		return nil, err
	}

	total := e.BatchCount(len(texts))
	e.progress.Start(EmbedStage, total)
	defer e.progress.Finish()

	vectors := make([][]float32, 0, len(texts))
	dims := 0
	start := time.Now()

	for b := 0; b < total; b++ {
		lo := b * e.batchSize
		hi := min(lo+e.batchSize, len(texts))

		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: batch %d/%d: %w", domain.ErrEmbeddingFailed, b+1, total, err)
			}
		}

		batch, err := e.svc.EmbedBatch(ctx, texts[lo:hi])
		if err != nil {
			return nil, fmt.Errorf("%w: batch %d/%d: %w", domain.ErrEmbeddingFailed, b+1, total, err)
		}
		if len(batch) != hi-lo {
			return nil, fmt.Errorf("%w: batch %d/%d returned %d vectors for %d texts",
				domain.ErrShapeMismatch, b+1, total, len(batch), hi-lo)
		}

		for i, vec := range batch {
			if len(vec) == 0 {
				return nil, fmt.Errorf("%w: empty vector for chunk %d", domain.ErrShapeMismatch, lo+i+1)
			}
			if dims == 0 {
				dims = len(vec)
				if want := e.svc.Dimensions(); want > 0 && want != dims {
					logger.Warn("model %s returned %d dimensions, expected %d", e.svc.ModelName(), dims, want)
				}
			}
			if len(vec) != dims {
				return nil, fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
					domain.ErrShapeMismatch, lo+i+1, len(vec), dims)
			}
		}

		vectors = append(vectors, batch...)
		e.progress.Update(b + 1)
		logger.Debug("embedded batch %d/%d (%d texts, %s elapsed)", b+1, total, hi-lo, time.Since(start).Round(time.Millisecond))
	}

	return vectors, nil
}

func (e *BatchEmbedder) ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	err := e.svc.Ping(pingCtx)
	if err == nil || errors.Is(err, domain.ErrEmbeddingUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrEmbeddingUnavailable, e.svc.ModelName(), err)
}
