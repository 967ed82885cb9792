package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

// mockEmbedding returns deterministic vectors derived from the text and
// records the size of every batch it receives.
type mockEmbedding struct {
	mu      sync.Mutex
	dims    int
	batches []int
	failOn  int // 1-based batch number to fail, 0 = never
	embedFn func(texts []string) ([][]float32, error)
	pingErr error
	pings   int
}

var _ driven.EmbeddingService = (*mockEmbedding)(nil)

func newMockEmbedding(dims int) *mockEmbedding {
	return &mockEmbedding{dims: dims}
}

func (m *mockEmbedding) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches = append(m.batches, len(texts))
	n := len(m.batches)
	m.mu.Unlock()

	if m.failOn == n {
		return nil, fmt.Errorf("provider exploded on batch %d", n)
	}
	if m.embedFn != nil {
		return m.embedFn(texts)
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, m.dims)
		for j := range vec {
			vec[j] = float32(len(text)+j) / 100
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedding) Dimensions() int   { return m.dims }
func (m *mockEmbedding) ModelName() string { return "mock" }
func (m *mockEmbedding) Close() error      { return nil }

func (m *mockEmbedding) Ping(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pings++
	return m.pingErr
}

func (m *mockEmbedding) batchSizes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.batches...)
}

// recordingStore wraps the in-memory vector store, counting calls and
// optionally failing a specific upsert or reporting a wrong count.
type recordingStore struct {
	*memory.VectorStore

	creates      []domain.CollectionSpec
	upserts      [][]uint64
	failUpsertOn int // 1-based upsert call to fail, 0 = never
	countDelta   int
	pingErr      error
	pings        int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{VectorStore: memory.NewVectorStore()}
}

func (s *recordingStore) Ping(_ context.Context) error {
	s.pings++
	return s.pingErr
}

func (s *recordingStore) CreateCollection(ctx context.Context, spec domain.CollectionSpec) error {
	s.creates = append(s.creates, spec)
	return s.VectorStore.CreateCollection(ctx, spec)
}

func (s *recordingStore) Upsert(ctx context.Context, collection string, points []domain.Point) error {
	ids := make([]uint64, len(points))
	for i, p := range points {
		ids[i] = p.ID
	}
	s.upserts = append(s.upserts, ids)
	if s.failUpsertOn == len(s.upserts) {
		return fmt.Errorf("server rejected batch")
	}
	return s.VectorStore.Upsert(ctx, collection, points)
}

func (s *recordingStore) GetCollection(ctx context.Context, name string) (*domain.CollectionInfo, error) {
	info, err := s.VectorStore.GetCollection(ctx, name)
	if err != nil {
		return nil, err
	}
	info.PointCount += s.countDelta
	return info, nil
}

// recordingProgress captures reporter calls as strings.
type recordingProgress struct {
	events []string
}

func (r *recordingProgress) Start(stage string, total int) {
	r.events = append(r.events, fmt.Sprintf("start %s %d", stage, total))
}
func (r *recordingProgress) Update(completed int) {
	r.events = append(r.events, fmt.Sprintf("update %d", completed))
}
func (r *recordingProgress) Finish() { r.events = append(r.events, "finish") }

// memorySource serves documents from a map keyed by URI.
type memorySource struct {
	docs map[string]*domain.RawDocument
}

func (s *memorySource) Read(_ context.Context, uri string) (*domain.RawDocument, error) {
	raw, ok := s.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, uri)
	}
	return raw, nil
}

func textDocument(uri, text string) *domain.RawDocument {
	return &domain.RawDocument{URI: uri, MIMEType: "text/plain", Content: []byte(text)}
}

func makePoints(n, dims int) []domain.Point {
	chunks := make([]domain.Chunk, n)
	vectors := make([][]float32, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{Content: strings.Repeat("x", i+1)}
		vectors[i] = make([]float32, dims)
		vectors[i][0] = float32(i + 1)
	}
	points, err := AssemblePoints(chunks, vectors, domain.DocumentMetadata{
		Category: domain.CategoryGeneral,
		Title:    domain.FallbackTitle,
		Tags:     []string{"coaching"},
	})
	if err != nil {
		panic(err)
	}
	return points
}
