package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// Ensure ConvertService implements the interface.
var _ driving.Converter = (*ConvertService)(nil)

// ConvertService runs the chunk-embed phase for one document.
type ConvertService struct {
	source      driven.DocumentSource
	normalisers driven.NormaliserRegistry
	pipeline    driven.PostProcessorPipeline
	embedder    *BatchEmbedder
	points      driven.PointStore
}

// NewConvertService creates a convert service.
func NewConvertService(
	source driven.DocumentSource,
	normalisers driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder *BatchEmbedder,
	points driven.PointStore,
) *ConvertService {
	return &ConvertService{
		source:      source,
		normalisers: normalisers,
		pipeline:    pipeline,
		embedder:    embedder,
		points:      points,
	}
}

// Convert reads, normalises, chunks, classifies and embeds a document, then
// saves the assembled points. An empty document produces an empty point file.
func (s *ConvertService) Convert(ctx context.Context, req driving.ConvertRequest) (*driving.ConvertResult, error) {
	if req.DocumentPath == "" || req.OutputPath == "" {
		return nil, fmt.Errorf("%w: document and output paths are required", domain.ErrInvalidInput)
	}
	start := time.Now()

	logger.Section("Reading")
	raw, err := s.source.Read(ctx, req.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	normalised, err := s.normalisers.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", raw.URI, err)
	}

	doc := normalised.Document
	doc.Content = domain.JoinParagraphs(normalised.Paragraphs)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	characters := utf8.RuneCountInString(doc.Content)
	logger.Info("%s: %d paragraphs, %d characters", raw.URI, len(normalised.Paragraphs), characters)
	logger.Debug("document id %s", doc.ID)

	logger.Section("Chunking")
	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("process document: %w", err)
	}

	meta := domain.DocumentMetadata{Category: domain.CategoryGeneral, Title: domain.FallbackTitle}
	if doc.Classification != nil {
		meta = *doc.Classification
	}
	logger.Info("%d chunks, category %s, title %q", len(chunks), meta.Category, meta.Title)

	logger.Section("Embedding")
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	points, err := AssemblePoints(chunks, vectors, meta)
	if err != nil {
		return nil, err
	}

	if err := s.points.Save(ctx, req.OutputPath, points); err != nil {
		return nil, fmt.Errorf("save points: %w", err)
	}

	result := &driving.ConvertResult{
		OutputPath: req.OutputPath,
		Characters: characters,
		Chunks:     len(chunks),
		Metadata:   meta,
		DocumentID: doc.ID,
		Model:      s.embedder.Model(),
		Elapsed:    time.Since(start),
	}
	if len(vectors) > 0 {
		result.Dimensions = len(vectors[0])
	}
	return result, nil
}
