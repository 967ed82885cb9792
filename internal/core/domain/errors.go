package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown document format, provider or backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// Precondition Errors.

	// ErrMissingConfig indicates required configuration is absent.
	// It is always reported before any network call is attempted.
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrEmbeddingUnavailable indicates the embedding service could not be created or reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store could not be created or reached.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// Pipeline Errors.

	// ErrShapeMismatch indicates chunk, vector or dimension counts disagree.
	// The chunk/vector alignment must hold for every point of a run.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrEmbeddingFailed indicates an embedding batch call failed.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrUpsertFailed indicates an upsert batch was rejected by the vector store.
	// Batches committed before the failure are not rolled back.
	ErrUpsertFailed = errors.New("upsert failed")

	// ErrDimensionMismatch indicates a vector length differs from the collection's vector size.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
