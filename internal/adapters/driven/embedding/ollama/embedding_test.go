package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

func newService(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewEmbeddingService(Config{BaseURL: server.URL + "/"})
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)

	svc = NewEmbeddingService(Config{Model: "mxbai-embed-large"})
	assert.Equal(t, 1024, svc.Dimensions())
}

func TestEmbedBatch(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/embed", r.URL.Path)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req.Model)
		assert.Equal(t, []string{"one", "two"}, req.Input)

		_, _ = w.Write([]byte(`{"embeddings":[[0.5,1.5],[2.5,3.5]]}`))
	})

	vectors, err := svc.EmbedBatch(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.5, 1.5}, {2.5, 3.5}}, vectors)
}

func TestEmbedBatch_Errors(t *testing.T) {
	t.Run("count mismatch", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"embeddings":[[1]]}`))
		})
		_, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
		assert.ErrorIs(t, err, domain.ErrShapeMismatch)
	})

	t.Run("model missing", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"model \"nomic-embed-text\" not found"}`))
		})
		_, err := svc.EmbedBatch(context.Background(), []string{"a"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
		assert.Contains(t, err.Error(), `model "nomic-embed-text" not found`)
	})

	t.Run("server down", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		svc := NewEmbeddingService(Config{BaseURL: server.URL})
		_, err := svc.EmbedBatch(context.Background(), []string{"a"})
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})
}

func TestPing(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"tagged latest", http.StatusOK, `{"models":[{"name":"nomic-embed-text:latest"}]}`, false},
		{"exact name", http.StatusOK, `{"models":[{"name":"all-minilm"},{"name":"nomic-embed-text"}]}`, false},
		{"not pulled", http.StatusOK, `{"models":[{"name":"llama3:8b"}]}`, true},
		{"no models", http.StatusOK, `{"models":[]}`, true},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/tags", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := svc.Ping(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPing_NotPulledNamesModel(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[]}`))
	})
	err := svc.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama pull nomic-embed-text")
	assert.NoError(t, svc.Close())
}
