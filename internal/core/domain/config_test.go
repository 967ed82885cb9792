package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() RunConfig {
	cfg := DefaultRunConfig()
	cfg.Embedding.APIKey = "key"
	cfg.Vector.URL = "http://localhost:6333"
	return cfg
}

func TestDefaultRunConfig(t *testing.T) {
	cfg := DefaultRunConfig()

	assert.Equal(t, AIProviderGemini, cfg.Embedding.Provider)
	assert.Equal(t, 50, cfg.Embedding.BatchSize)
	assert.Equal(t, VectorBackendQdrant, cfg.Vector.Backend)
	assert.Equal(t, 100, cfg.Vector.UpsertBatchSize)
	assert.Equal(t, 800, cfg.Chunking.Size)
	assert.Equal(t, 100, cfg.Chunking.Overlap)
	assert.Empty(t, cfg.Embedding.APIKey)
	assert.Empty(t, cfg.Vector.URL)
}

func TestRunConfig_ValidateEmbedding(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.ValidateEmbedding())

	t.Run("missing key and batch size reported together", func(t *testing.T) {
		cfg := validConfig()
		cfg.Embedding.APIKey = ""
		cfg.Embedding.BatchSize = 0

		err := cfg.ValidateEmbedding()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingConfig))
		assert.Contains(t, err.Error(), "embedding.api_key")
		assert.Contains(t, err.Error(), "embedding.batch_size")
	})

	t.Run("ollama needs no key", func(t *testing.T) {
		cfg := validConfig()
		cfg.Embedding.Provider = AIProviderOllama
		cfg.Embedding.APIKey = ""
		assert.NoError(t, cfg.ValidateEmbedding())
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.Embedding.Provider = "cohere"
		assert.ErrorIs(t, cfg.ValidateEmbedding(), ErrUnsupportedType)
	})
}

func TestRunConfig_ValidateVectorStore(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.ValidateVectorStore())

	t.Run("qdrant needs url", func(t *testing.T) {
		cfg := validConfig()
		cfg.Vector.URL = ""
		err := cfg.ValidateVectorStore()
		assert.ErrorIs(t, err, ErrMissingConfig)
		assert.Contains(t, err.Error(), "vector.url")
	})

	t.Run("qdrant key is optional", func(t *testing.T) {
		cfg := validConfig()
		cfg.Vector.Backend = VectorBackendQdrant
		cfg.Vector.URL = "http://localhost:6333"
		cfg.Vector.APIKey = ""
		assert.NoError(t, cfg.ValidateVectorStore())
	})

	t.Run("sqlite needs no url", func(t *testing.T) {
		cfg := validConfig()
		cfg.Vector.Backend = VectorBackendSQLite
		cfg.Vector.URL = ""
		assert.NoError(t, cfg.ValidateVectorStore())
	})

	t.Run("missing collection", func(t *testing.T) {
		cfg := validConfig()
		cfg.Vector.Collection = ""
		assert.ErrorIs(t, cfg.ValidateVectorStore(), ErrMissingConfig)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := validConfig()
		cfg.Vector.Backend = "weaviate"
		assert.ErrorIs(t, cfg.ValidateVectorStore(), ErrUnsupportedType)
	})
}

func TestRunConfig_ValidateChunking(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.ValidateChunking())

	cfg.Chunking.Size = 0
	cfg.Chunking.Overlap = -1
	err := cfg.ValidateChunking()
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "chunking.size")
	assert.Contains(t, err.Error(), "chunking.overlap")
}
