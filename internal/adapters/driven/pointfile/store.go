// Package pointfile persists point sets as a JSON array on the local filesystem.
package pointfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.PointStore = (*Store)(nil)

// Store reads and writes point files. It holds no state; paths are per call.
type Store struct{}

// NewStore creates a point file store.
func NewStore() *Store {
	return &Store{}
}

// Save writes points as an indented JSON array, replacing path atomically
// (temp file + rename) so a failed run never leaves a truncated file.
func (s *Store) Save(ctx context.Context, path string, points []domain.Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if points == nil {
		points = []domain.Point{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(points); err != nil {
		return fmt.Errorf("marshal points: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Ensure temp file is cleaned up on error
	defer func() {
		tmp.Close()
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write temp file %s: %w", tmpPath, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file %s: %w", tmpPath, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file %s: %w", tmpPath, err)
	}
	if err = os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", tmpPath, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file %s to %s: %w", tmpPath, path, err)
	}
	return nil
}

// Load reads a point file written by Save.
func (s *Store) Load(ctx context.Context, path string) ([]domain.Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: point file %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read point file: %w", err)
	}

	var points []domain.Point
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("%w: point file %s: %v", domain.ErrInvalidInput, path, err)
	}
	if err := validate(points); err != nil {
		return nil, fmt.Errorf("%w: point file %s: %v", domain.ErrInvalidInput, path, err)
	}
	if points == nil {
		points = []domain.Point{}
	}
	return points, nil
}

// validate checks IDs are positive and unique and vectors share one length.
func validate(points []domain.Point) error {
	seen := make(map[uint64]struct{}, len(points))
	for i, p := range points {
		if p.ID == 0 {
			return fmt.Errorf("record %d has no id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate id %d", p.ID)
		}
		seen[p.ID] = struct{}{}

		if len(p.Vector) == 0 {
			return fmt.Errorf("point %d has an empty vector", p.ID)
		}
		if len(p.Vector) != len(points[0].Vector) {
			return fmt.Errorf("point %d has %d dimensions, expected %d", p.ID, len(p.Vector), len(points[0].Vector))
		}
	}
	return nil
}
