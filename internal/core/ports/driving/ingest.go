package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// Converter runs the chunk-embed phase: document in, point file out.
type Converter interface {
	// Convert reads, chunks, classifies and embeds a document, then
	// persists the assembled points.
	Convert(ctx context.Context, req ConvertRequest) (*ConvertResult, error)
}

// Uploader runs the index-sync phase: point file in, collection updated.
type Uploader interface {
	// Upload loads the persisted points and synchronises them to the collection.
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
}

// ConvertRequest identifies the document and the point file to write.
type ConvertRequest struct {
	// DocumentPath is the source document location.
	DocumentPath string

	// OutputPath is where the points are persisted.
	OutputPath string
}

// ConvertResult summarises a convert run.
type ConvertResult struct {
	// OutputPath is where the points were written.
	OutputPath string

	// Characters is the rune length of the normalised document text.
	Characters int

	// Chunks is the number of chunks produced (== points written).
	Chunks int

	// Dimensions is the vector length, zero when there are no points.
	Dimensions int

	// Metadata is the document-level classification.
	Metadata domain.DocumentMetadata

	// DocumentID identifies this conversion of the document. Every chunk
	// carries it.
	DocumentID string

	// Model is the embedding model that produced the vectors.
	Model string

	// Elapsed is the wall time of the whole run.
	Elapsed time.Duration
}

// UploadRequest identifies the point file and target collection.
type UploadRequest struct {
	// PointsPath is the persisted point file.
	PointsPath string

	// Collection is the target collection name.
	Collection string
}

// UploadResult summarises an upload run.
type UploadResult struct {
	// Collection is the target collection name.
	Collection string

	// Created is true if the collection did not exist and was created.
	Created bool

	// Points is the number of points submitted.
	Points int

	// Dimensions is the vector length, zero when there are no points.
	Dimensions int

	// Batches is the number of upsert requests issued.
	Batches int

	// ReportedCount is the point count read back from the collection.
	ReportedCount int

	// Verified is true if ReportedCount matched Points.
	Verified bool

	// Elapsed is the wall time of the whole run.
	Elapsed time.Duration
}
