package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// Ensure UploadService implements the interface.
var _ driving.Uploader = (*UploadService)(nil)

// UploadService runs the index-sync phase for a persisted point file.
type UploadService struct {
	points driven.PointStore
	sync   *IndexSynchronizer
}

// NewUploadService creates an upload service.
func NewUploadService(points driven.PointStore, sync *IndexSynchronizer) *UploadService {
	return &UploadService{points: points, sync: sync}
}

// Upload loads the point file and synchronises it to the collection.
// A missing point file is reported before the vector store is touched.
func (s *UploadService) Upload(ctx context.Context, req driving.UploadRequest) (*driving.UploadResult, error) {
	if req.PointsPath == "" || req.Collection == "" {
		return nil, fmt.Errorf("%w: points path and collection are required", domain.ErrInvalidInput)
	}
	start := time.Now()

	logger.Section("Loading")
	points, err := s.points.Load(ctx, req.PointsPath)
	if err != nil {
		return nil, fmt.Errorf("load points: %w", err)
	}
	logger.Info("loaded %d points from %s", len(points), req.PointsPath)

	logger.Section("Uploading")
	report, err := s.sync.Sync(ctx, req.Collection, points)
	if err != nil {
		return nil, err
	}

	return &driving.UploadResult{
		Collection:    report.Collection,
		Created:       report.Created,
		Points:        report.Points,
		Dimensions:    report.Dimensions,
		Batches:       report.Batches,
		ReportedCount: report.ReportedCount,
		Verified:      report.Verified,
		Elapsed:       time.Since(start),
	}, nil
}
