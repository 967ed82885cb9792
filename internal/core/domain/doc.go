// Package domain defines the core business entities for sercha-ingest.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: Opaque bytes read from a document source
//   - Document: A normalised document whose Content is the joined paragraphs
//   - Chunk: An ordered, 1-indexed slice of a document's content
//   - DocumentMetadata: Category, title and tags derived once per document
//   - Point: The unit stored in a vector collection (id, vector, payload)
//   - CollectionSpec / CollectionInfo: Vector collection shape and state
//   - RunConfig: Everything a pipeline run needs, loaded once at start
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
