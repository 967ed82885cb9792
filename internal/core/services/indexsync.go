package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// UpsertStage is the progress stage name reported by IndexSynchronizer.
const UpsertStage = "Upserting"

// SyncReport summarises one synchronisation.
type SyncReport struct {
	Collection    string
	Created       bool
	Points        int
	Dimensions    int
	Batches       int
	ReportedCount int
	Verified      bool
}

// IndexSynchronizer loads a point set into a vector collection:
// ensure the collection exists, upsert in order, then verify the count.
type IndexSynchronizer struct {
	store     driven.VectorStore
	batchSize int
	progress  driven.ProgressReporter
}

// SyncOption configures an IndexSynchronizer.
type SyncOption func(*IndexSynchronizer)

// WithUpsertBatchSize sets the number of points per upsert request.
func WithUpsertBatchSize(n int) SyncOption {
	return func(s *IndexSynchronizer) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithSyncProgress reports completed upsert batches to r.
func WithSyncProgress(r driven.ProgressReporter) SyncOption {
	return func(s *IndexSynchronizer) {
		s.progress = orNop(r)
	}
}

// NewIndexSynchronizer creates a synchroniser writing to store.
func NewIndexSynchronizer(store driven.VectorStore, opts ...SyncOption) *IndexSynchronizer {
	s := &IndexSynchronizer{
		store:     store,
		batchSize: domain.DefaultUpsertBatchSize,
		progress:  nopProgress{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync writes points to collection. An empty point set is a no-op and
// never contacts the store.
// Upsert failures abort the remaining batches; batches already written stay.
// A count mismatch after upserting is reported, not returned as an error.
func (s *IndexSynchronizer) Sync(ctx context.Context, collection string, points []domain.Point) (*SyncReport, error) {
	report := &SyncReport{Collection: collection, Points: len(points)}
	if len(points) == 0 {
		logger.Info("no points to upload to %s", collection)
		report.Verified = true
		return report, nil
	}
	report.Dimensions = len(points[0].Vector)

	if err := s.ping(ctx); err != nil {
		return nil, err
	}

	created, err := s.ensure(ctx, collection, report.Dimensions)
	if err != nil {
		return nil, err
	}
	report.Created = created

	batches, err := s.upsert(ctx, collection, points)
	report.Batches = batches
	if err != nil {
		return nil, err
	}

	info, err := s.store.GetCollection(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("verify collection %q: %w", collection, err)
	}
	report.ReportedCount = info.PointCount
	report.Verified = info.PointCount == len(points)
	if !report.Verified {
		logger.Warn("collection %s reports %d points, uploaded %d", collection, info.PointCount, len(points))
	}
	return report, nil
}

// ensure creates the collection when absent. An existing collection keeps
// its shape; a vector size that differs from dims is rejected before any write.
func (s *IndexSynchronizer) ensure(ctx context.Context, collection string, dims int) (bool, error) {
	names, err := s.store.ListCollections(ctx)
	if err != nil {
		return false, fmt.Errorf("list collections: %w", err)
	}

	if slices.Contains(names, collection) {
		info, err := s.store.GetCollection(ctx, collection)
		if err != nil {
			return false, fmt.Errorf("get collection %q: %w", collection, err)
		}
		if info.VectorSize != 0 && info.VectorSize != dims {
			return false, fmt.Errorf("%w: collection %q has vector size %d, points have %d",
				domain.ErrDimensionMismatch, collection, info.VectorSize, dims)
		}
		logger.Debug("collection %s exists (%d points)", collection, info.PointCount)
		return false, nil
	}

	spec := domain.CollectionSpec{Name: collection, VectorSize: dims, Distance: domain.DistanceCosine}
	if err := s.store.CreateCollection(ctx, spec); err != nil {
		return false, fmt.Errorf("create collection %q: %w", collection, err)
	}
	logger.Info("created collection %s (size %d, %s)", collection, dims, spec.Distance)
	return true, nil
}

// upsert writes points in contiguous batches and returns how many succeeded.
func (s *IndexSynchronizer) upsert(ctx context.Context, collection string, points []domain.Point) (int, error) {
	total := (len(points) + s.batchSize - 1) / s.batchSize
	s.progress.Start(UpsertStage, total)
	defer s.progress.Finish()

	for b := 0; b < total; b++ {
		lo := b * s.batchSize
		hi := min(lo+s.batchSize, len(points))

		if err := s.store.Upsert(ctx, collection, points[lo:hi]); err != nil {
			return b, fmt.Errorf("%w: batch %d/%d (points %d-%d): %w",
				domain.ErrUpsertFailed, b+1, total, points[lo].ID, points[hi-1].ID, err)
		}
		s.progress.Update(b + 1)
		logger.Debug("upserted batch %d/%d (%d points)", b+1, total, hi-lo)
	}
	return total, nil
}

func (s *IndexSynchronizer) ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	err := s.store.Ping(pingCtx)
	if err == nil || errors.Is(err, domain.ErrVectorStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
}
