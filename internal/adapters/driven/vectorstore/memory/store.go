// Package memory provides an in-process vector store for dry runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

type collection struct {
	spec   domain.CollectionSpec
	points map[uint64]domain.Point
}

// VectorStore is an in-memory implementation of driven.VectorStore.
// Contents are lost when the process exits.
type VectorStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		collections: make(map[string]*collection),
	}
}

// ListCollections returns collection names in alphabetical order.
func (s *VectorStore) ListCollections(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CreateCollection creates a collection. An existing collection is rejected.
func (s *VectorStore) CreateCollection(_ context.Context, spec domain.CollectionSpec) error {
	if spec.Name == "" || spec.VectorSize <= 0 {
		return fmt.Errorf("%w: collection needs a name and a positive vector size", domain.ErrInvalidInput)
	}
	if spec.Distance == "" {
		spec.Distance = domain.DistanceCosine
	}
	if !spec.Distance.IsValid() {
		return fmt.Errorf("%w: distance %q", domain.ErrUnsupportedType, spec.Distance)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[spec.Name]; ok {
		return fmt.Errorf("%w: collection %q already exists", domain.ErrInvalidInput, spec.Name)
	}
	s.collections[spec.Name] = &collection{
		spec:   spec,
		points: make(map[uint64]domain.Point),
	}
	return nil
}

// Upsert stores copies of the points. All vectors are checked before any
// point is written.
func (s *VectorStore) Upsert(_ context.Context, name string, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("%w: collection %q", domain.ErrNotFound, name)
	}
	for _, p := range points {
		if len(p.Vector) != c.spec.VectorSize {
			return fmt.Errorf("%w: point %d has %d dimensions, collection %q expects %d",
				domain.ErrDimensionMismatch, p.ID, len(p.Vector), name, c.spec.VectorSize)
		}
	}

	for _, p := range points {
		c.points[p.ID] = clonePoint(p)
	}
	return nil
}

// GetCollection returns the collection shape and point count.
func (s *VectorStore) GetCollection(_ context.Context, name string) (*domain.CollectionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: collection %q", domain.ErrNotFound, name)
	}
	return &domain.CollectionInfo{
		Name:       name,
		VectorSize: c.spec.VectorSize,
		Distance:   c.spec.Distance,
		PointCount: len(c.points),
	}, nil
}

// Points returns copies of a collection's points ordered by ID.
func (s *VectorStore) Points(name string) []domain.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil
	}
	points := make([]domain.Point, 0, len(c.points))
	for _, p := range c.points {
		points = append(points, clonePoint(p))
	}
	sort.Slice(points, func(i, j int) bool { return points[i].ID < points[j].ID })
	return points
}

// Ping always succeeds.
func (s *VectorStore) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}

func clonePoint(p domain.Point) domain.Point {
	p.Vector = append([]float32(nil), p.Vector...)
	p.Payload.Tags = append([]string(nil), p.Payload.Tags...)
	return p
}
