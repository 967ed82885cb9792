package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/postprocessors/chunker"
	"github.com/custodia-labs/sercha-ingest/internal/postprocessors/classifier"
)

// Processor names understood by RegisterDefaults.
const (
	ChunkerName    = "chunker"
	ClassifierName = "classifier"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register(ChunkerName, buildChunker)
	r.Register(ClassifierName, buildClassifier)
}

// NewIngestPipeline builds the chunk-then-classify pipeline used for every
// document. The classifier must run last so it sees the final first chunk.
func NewIngestPipeline(r *Registry, settings domain.ChunkingSettings) (*Pipeline, error) {
	chunkCfg := map[string]any{
		"chunk_size": settings.Size,
		"overlap":    settings.Overlap,
	}
	if len(settings.Separators) > 0 {
		chunkCfg["separators"] = settings.Separators
	}

	chunk, err := r.Build(ChunkerName, chunkCfg)
	if err != nil {
		return nil, err
	}
	classify, err := r.Build(ClassifierName, nil)
	if err != nil {
		return nil, err
	}
	return NewPipeline(chunk, classify), nil
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Runes per chunk (default: 800)
//   - overlap (int): Maximum overlapping runes between chunks (default: 100)
//   - separators ([]string): Separator priority list
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if size, ok := getIntFromConfig(cfg, "chunk_size"); ok {
		if size <= 0 {
			return nil, fmt.Errorf("%w: chunk_size must be positive, got %d", domain.ErrInvalidInput, size)
		}
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap, ok := getIntFromConfig(cfg, "overlap"); ok {
		if overlap < 0 {
			return nil, fmt.Errorf("%w: overlap must not be negative, got %d", domain.ErrInvalidInput, overlap)
		}
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	if seps := getStringsFromConfig(cfg, "separators"); len(seps) > 0 {
		opts = append(opts, chunker.WithSeparators(seps...))
	}

	return chunker.New(opts...), nil
}

// buildClassifier creates the rule-table classifier. It takes no config.
func buildClassifier(_ map[string]any) (driven.PostProcessor, error) {
	return classifier.New(), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// getStringsFromConfig extracts a string list, accepting []string or the
// []any produced by TOML decoding.
func getStringsFromConfig(cfg map[string]any, key string) []string {
	switch v := cfg[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
