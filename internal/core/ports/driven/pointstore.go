package driven

import (
	"context"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// PointStore persists the point set produced by the convert phase so the
// upload phase can run, be retried, or be re-run independently.
type PointStore interface {
	// Save writes the points to path, replacing any previous content.
	Save(ctx context.Context, path string, points []domain.Point) error

	// Load reads the points from path.
	// Returns domain.ErrNotFound if path does not exist.
	Load(ctx context.Context, path string) ([]domain.Point, error)
}
