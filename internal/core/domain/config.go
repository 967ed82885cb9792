package domain

import (
	"fmt"
	"strings"
)

// Default run configuration values.
const (
	DefaultChunkSize       = 800
	DefaultChunkOverlap    = 100
	DefaultEmbedBatchSize  = 50
	DefaultUpsertBatchSize = 100
	DefaultCollection      = "bridgetext_scenarios"
	DefaultPointsFile      = "scenarios_qdrant.json"
)

// RunConfig is loaded once at run start and passed by reference to each
// component that needs it.
type RunConfig struct {
	Embedding EmbeddingSettings
	Vector    VectorStoreSettings
	Chunking  ChunkingSettings

	// PointsFile is the intermediate JSON file between convert and upload.
	PointsFile string
}

// DefaultRunConfig returns the configuration used when nothing is supplied.
// Credentials and service URLs are never defaulted.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Embedding: EmbeddingSettings{
			Provider:  AIProviderGemini,
			BatchSize: DefaultEmbedBatchSize,
		},
		Vector: VectorStoreSettings{
			Backend:         VectorBackendQdrant,
			Collection:      DefaultCollection,
			UpsertBatchSize: DefaultUpsertBatchSize,
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		PointsFile: DefaultPointsFile,
	}
}

// ValidateChunking checks the chunker settings.
func (c *RunConfig) ValidateChunking() error {
	var problems []string
	if c.Chunking.Size <= 0 {
		problems = append(problems, "chunking.size must be positive")
	}
	if c.Chunking.Overlap < 0 {
		problems = append(problems, "chunking.overlap must not be negative")
	}
	return configError(ErrInvalidInput, problems)
}

// ValidateEmbedding checks everything the embedding phase needs.
// Missing keys are all reported together.
func (c *RunConfig) ValidateEmbedding() error {
	e := c.Embedding
	if !e.Provider.IsValid() {
		return fmt.Errorf("%w: embedding.provider %q", ErrUnsupportedType, e.Provider)
	}

	var missing []string
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		missing = append(missing, "embedding.api_key")
	}
	if e.BatchSize <= 0 {
		missing = append(missing, "embedding.batch_size")
	}
	return configError(ErrMissingConfig, missing)
}

// ValidateVectorStore checks everything the index-sync phase needs.
// vector.api_key is optional: self-hosted Qdrant usually runs without one,
// and the key is only sent when set.
func (c *RunConfig) ValidateVectorStore() error {
	v := c.Vector
	if !v.Backend.IsValid() {
		return fmt.Errorf("%w: vector.backend %q", ErrUnsupportedType, v.Backend)
	}

	var missing []string
	if v.Backend == VectorBackendQdrant && v.URL == "" {
		missing = append(missing, "vector.url")
	}
	if v.Collection == "" {
		missing = append(missing, "vector.collection")
	}
	if v.UpsertBatchSize <= 0 {
		missing = append(missing, "vector.upsert_batch_size")
	}
	return configError(ErrMissingConfig, missing)
}

func configError(sentinel error, problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", sentinel, strings.Join(problems, ", "))
}
