// Package vectorstore selects and constructs the configured vector store backend.
package vectorstore

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/vectorstore/qdrant"
	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/vectorstore/sqlite"
	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for a remote backend to answer.
const pingTimeout = 5 * time.Second

// CreateAndValidate creates the configured store and checks it answers.
// Used by commands that read the store straight away.
func CreateAndValidate(ctx context.Context, settings *domain.VectorStoreSettings) (driven.VectorStore, error) {
	store, err := Create(settings)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := store.Ping(pingCtx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// Create constructs the store selected by settings.Backend. Nothing is
// contacted; remote backends connect on first use.
func Create(settings *domain.VectorStoreSettings) (driven.VectorStore, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: vector settings", domain.ErrMissingConfig)
	}

	switch settings.Backend {
	case domain.VectorBackendQdrant:
		store, err := qdrant.NewStore(qdrant.Config{
			URL:    settings.URL,
			APIKey: settings.APIKey,
		})
		if err != nil {
			return nil, err
		}
		return store, nil

	case domain.VectorBackendSQLite:
		store, err := sqlite.NewStore(settings.Path)
		if err != nil {
			return nil, err
		}
		return store, nil

	case domain.VectorBackendMemory:
		return memory.NewVectorStore(), nil

	default:
		return nil, fmt.Errorf("%w: vector backend %q", domain.ErrUnsupportedType, settings.Backend)
	}
}
