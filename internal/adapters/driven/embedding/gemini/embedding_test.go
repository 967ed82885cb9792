package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

type batchRequest struct {
	Requests []struct {
		Model    string `json:"model"`
		TaskType string `json:"taskType"`
		Content  struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"requests"`
}

func hasKey(r *http.Request, key string) bool {
	return r.URL.Query().Get("key") == key || r.Header.Get("X-Goog-Api-Key") == key
}

func newService(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewEmbeddingService(context.Background(), Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return svc
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc, err := NewEmbeddingService(context.Background(), Config{APIKey: "k"})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 768, svc.Dimensions())
	assert.NoError(t, svc.Close())
}

func TestNewEmbeddingService_BareModelName(t *testing.T) {
	svc, err := NewEmbeddingService(context.Background(), Config{APIKey: "k", Model: "text-embedding-004"})
	require.NoError(t, err)
	assert.Equal(t, "models/text-embedding-004", svc.ModelName())
	assert.Equal(t, 768, svc.Dimensions())
}

func TestNewEmbeddingService_MissingKey(t *testing.T) {
	_, err := NewEmbeddingService(context.Background(), Config{})
	assert.ErrorIs(t, err, domain.ErrMissingConfig)
}

func TestEmbedBatch(t *testing.T) {
	var got batchRequest
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/embedding-001:batchEmbedContents", r.URL.Path)
		assert.True(t, hasKey(r, "test-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embeddings":[{"values":[0.1,0.2,0.3]},{"values":[0.4,0.5,0.6]}]}`))
	})

	vectors, err := svc.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)

	require.Len(t, got.Requests, 2)
	assert.Equal(t, "models/embedding-001", got.Requests[0].Model)
	assert.Equal(t, TaskRetrievalDocument, got.Requests[0].TaskType)
	assert.Equal(t, "first", got.Requests[0].Content.Parts[0].Text)
	assert.Equal(t, "second", got.Requests[1].Content.Parts[0].Text)

	assert.Equal(t, [][]float32{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}}, vectors)
}

func TestEmbedBatch_Empty(t *testing.T) {
	svc := newService(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	})

	vectors, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[{"values":[1,2]}]}`))
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestEmbedBatch_APIErrors(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		wantUnavailable bool
	}{
		{"forbidden key", http.StatusForbidden, true},
		{"bad request", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"nope"}}`, tt.status)
			})

			_, err := svc.EmbedBatch(context.Background(), []string{"a"})
			require.Error(t, err)
			assert.Equal(t, tt.wantUnavailable, errors.Is(err, domain.ErrEmbeddingUnavailable))
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestPing(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/v1beta/models/embedding-001", r.URL.Path)
			_, _ = w.Write([]byte(`{"name":"models/embedding-001"}`))
		})
		assert.NoError(t, svc.Ping(context.Background()))
	})

	t.Run("unknown model", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"model not found"}}`))
		})
		assert.ErrorIs(t, svc.Ping(context.Background()), domain.ErrEmbeddingUnavailable)
	})
}
