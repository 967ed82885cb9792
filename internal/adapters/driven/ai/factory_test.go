package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.EmbeddingSettings
		wantErr   error
		wantModel string
		wantDims  int
	}{
		{
			name:    "nil settings",
			wantErr: domain.ErrMissingConfig,
		},
		{
			name:     "unknown provider",
			settings: &domain.EmbeddingSettings{Provider: "cohere", APIKey: "k"},
			wantErr:  domain.ErrUnsupportedType,
		},
		{
			name:     "gemini without key",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderGemini},
			wantErr:  domain.ErrMissingConfig,
		},
		{
			name:      "gemini",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderGemini, APIKey: "k"},
			wantModel: "models/embedding-001",
			wantDims:  768,
		},
		{
			name:      "openai",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, APIKey: "k"},
			wantModel: "text-embedding-3-small",
			wantDims:  1536,
		},
		{
			name:      "ollama needs no key",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "all-minilm"},
			wantModel: "all-minilm",
			wantDims:  384,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(context.Background(), tt.settings)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.Equal(t, tt.wantDims, svc.Dimensions())
		})
	}
}
