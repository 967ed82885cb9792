// Package gemini provides an embedding service adapter for the Google
// Generative Language API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "models/embedding-001"
	DefaultTimeout    = 60 * time.Second
	DefaultDimensions = 768

	// TaskRetrievalDocument marks embeddings as indexed documents rather than queries.
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Google API key (required).
	APIKey string

	// BaseURL overrides the API endpoint, e.g. for a proxy or tests.
	BaseURL string

	// Model is the embedding model resource name (default: models/embedding-001).
	// A bare name such as "text-embedding-004" gets the "models/" prefix.
	Model string

	// Timeout bounds each request (default: 60s).
	Timeout time.Duration

	// Dimensions is the expected vector size. Zero looks the model up.
	Dimensions int
}

// EmbeddingService generates embeddings using the Gemini API.
type EmbeddingService struct {
	models     *generativelanguage.ModelsService
	model      string
	timeout    time.Duration
	dimensions int
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini: embedding.api_key", domain.ErrMissingConfig)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if !strings.HasPrefix(cfg.Model, "models/") {
		cfg.Model = "models/" + cfg.Model
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		if dims, ok := domain.EmbeddingDimensions()[cfg.Model]; ok {
			cfg.Dimensions = dims
		} else {
			cfg.Dimensions = DefaultDimensions
		}
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}

	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: %v", domain.ErrEmbeddingUnavailable, err)
	}

	return &EmbeddingService{
		models:     svc.Models,
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		dimensions: cfg.Dimensions,
	}, nil
}

// EmbedBatch embeds all texts with a single batchEmbedContents call.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	requests := make([]*generativelanguage.EmbedContentRequest, len(texts))
	for i, text := range texts {
		requests[i] = &generativelanguage.EmbedContentRequest{
			Model:    s.model,
			TaskType: TaskRetrievalDocument,
			Content: &generativelanguage.Content{
				Parts: []*generativelanguage.Part{{Text: text}},
			},
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.models.BatchEmbedContents(s.model, &generativelanguage.BatchEmbedContentsRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, wrapError("batch embed", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: gemini returned %d embeddings for %d inputs",
			domain.ErrShapeMismatch, len(resp.Embeddings), len(texts))
	}

	embeddings := make([][]float32, len(texts))
	for i, e := range resp.Embeddings {
		if e == nil {
			return nil, fmt.Errorf("%w: gemini returned no embedding at %d", domain.ErrShapeMismatch, i)
		}
		embedding := make([]float32, len(e.Values))
		for j, v := range e.Values {
			embedding[j] = float32(v)
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the model resource name.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping fetches the model's metadata, which validates the key and model name.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.models.Get(s.model).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, wrapError("ping", err))
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// wrapError classifies API errors. Authentication and unreachable-service
// failures become ErrEmbeddingUnavailable.
func wrapError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusServiceUnavailable:
			return fmt.Errorf("%w: gemini %s: status %d: %s",
				domain.ErrEmbeddingUnavailable, op, apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("gemini %s: status %d: %s", op, apiErr.Code, apiErr.Message)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("gemini %s: %w", op, err)
	}
	return fmt.Errorf("%w: gemini %s: %v", domain.ErrEmbeddingUnavailable, op, err)
}
