package driven

import (
	"context"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// VectorStore is the vector-search service the index synchroniser writes to.
// Collections are long-lived external state; the pipeline mutates but does
// not own them.
type VectorStore interface {
	// ListCollections returns the names of all existing collections.
	ListCollections(ctx context.Context) ([]string, error)

	// CreateCollection creates a collection with a fixed vector size and distance.
	CreateCollection(ctx context.Context, spec domain.CollectionSpec) error

	// Upsert inserts or fully overwrites points keyed by ID.
	Upsert(ctx context.Context, collection string, points []domain.Point) error

	// GetCollection returns the collection's shape and point count.
	// Returns domain.ErrNotFound if the collection does not exist.
	GetCollection(ctx context.Context, name string) (*domain.CollectionInfo, error)

	// Ping checks the backend is reachable and accepts the credentials.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
