package driven

import (
	"context"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// Normaliser reduces a raw document to an ordered list of paragraphs.
// Each normaliser handles specific MIME types (e.g., DOCX, Markdown).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts paragraphs from a raw document.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Note: Normalisation only produces paragraphs. Joining them into
// Document.Content and chunking is done by the core.
type NormaliseResult struct {
	// Document carries ID, URI, Title and Metadata. Content is left empty.
	Document domain.Document

	// Paragraphs are non-empty and in document order.
	Paragraphs []string
}
