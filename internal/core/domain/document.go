package domain

import (
	"fmt"
	"strings"
	"time"
)

// ParagraphSeparator joins normalised paragraphs into one text blob.
const ParagraphSeparator = "\n\n"

// ChunkIDPrefix prefixes every chunk_id in a point payload.
const ChunkIDPrefix = "scenario_chunk_"

// Document represents a normalised document.
// It is the canonical representation after normalisation.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path, URL, etc).
	URI string

	// Title is the human-readable title reported by the format (core.xml, <title>, ...).
	Title string

	// Content is the full text content after normalisation.
	// This is the paragraph list joined with ParagraphSeparator.
	Content string

	// Classification is the document-level metadata derived from the first chunk.
	// It is nil until the classifier post-processor has run.
	Classification *DocumentMetadata

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was normalised.
	CreatedAt time.Time
}

// Chunk represents an ordered unit of a document used for embedding and retrieval.
type Chunk struct {
	// ID is the stable chunk identifier (see ChunkID).
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Index is the 1-based position within the document's chunk sequence.
	Index int

	// Content is the text content of this chunk, never empty after trimming.
	Content string

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// JoinParagraphs trims each paragraph, drops empty ones, and joins the rest
// with a blank line. Document order is preserved.
func JoinParagraphs(paragraphs []string) string {
	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ParagraphSeparator)
}

// ChunkID returns the chunk identifier for a 0-based position,
// e.g. position 0 -> "scenario_chunk_0001".
func ChunkID(position int) string {
	return fmt.Sprintf("%s%04d", ChunkIDPrefix, position+1)
}

// PointID returns the vector point identifier for a 0-based position.
// It is derived purely from position so re-runs overwrite instead of duplicating.
func PointID(position int) uint64 {
	return uint64(position) + 1
}
