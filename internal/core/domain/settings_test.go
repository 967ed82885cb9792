package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider(t *testing.T) {
	tests := []struct {
		provider AIProvider
		valid    bool
		needsKey bool
		local    bool
	}{
		{AIProviderGemini, true, true, false},
		{AIProviderOpenAI, true, true, false},
		{AIProviderOllama, true, false, true},
		{AIProvider("anthropic"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.provider.IsValid())
			assert.Equal(t, tt.needsKey, tt.provider.RequiresAPIKey())
			assert.Equal(t, tt.local, tt.provider.IsLocal())
		})
	}
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Google Gemini (cloud)", AIProviderGemini.Description())
	assert.Equal(t, "Unknown", AIProvider("x").Description())
}

func TestVectorBackend(t *testing.T) {
	for _, b := range AllVectorBackends() {
		assert.True(t, b.IsValid(), b)
	}
	assert.True(t, VectorBackendQdrant.IsRemote())
	assert.False(t, VectorBackendSQLite.IsRemote())
	assert.False(t, VectorBackend("pinecone").IsValid())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.False(t, EmbeddingSettings{}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderGemini}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderGemini, APIKey: "k"}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOllama}.IsConfigured())
}

func TestDefaultEmbeddingModels_HaveDimensions(t *testing.T) {
	dims := EmbeddingDimensions()
	for _, provider := range AllEmbeddingProviders() {
		model, ok := DefaultEmbeddingModels()[provider]
		assert.True(t, ok, provider)
		assert.Positive(t, dims[model], model)
	}
}
