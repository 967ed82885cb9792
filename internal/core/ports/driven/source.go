package driven

import (
	"context"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// DocumentSource reads a document from its location.
type DocumentSource interface {
	// Read returns the raw document at uri.
	// Returns domain.ErrNotFound if nothing exists there.
	Read(ctx context.Context, uri string) (*domain.RawDocument, error)
}
