package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/vectorstore/sqlite/migrations"
	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// DBFileName is the database file created inside the data directory.
const DBFileName = "vectors.db"

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a single-file vector collection store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the vector database in dataDir.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: vector.path", domain.ErrMissingConfig)
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Debug("sqlite: opened %s", dbPath)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database file is still usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: sqlite %s: %v", domain.ErrVectorStoreUnavailable, s.path, err)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ListCollections returns collection names in alphabetical order.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CreateCollection creates a new collection. Creating an existing
// collection is rejected so its shape can never change.
func (s *Store) CreateCollection(ctx context.Context, spec domain.CollectionSpec) error {
	if spec.Name == "" || spec.VectorSize <= 0 {
		return fmt.Errorf("%w: collection needs a name and a positive vector size", domain.ErrInvalidInput)
	}
	if spec.Distance == "" {
		spec.Distance = domain.DistanceCosine
	}
	if !spec.Distance.IsValid() {
		return fmt.Errorf("%w: distance %q", domain.ErrUnsupportedType, spec.Distance)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (name, vector_size, distance)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, spec.Name, spec.VectorSize, string(spec.Distance))
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: collection %q already exists", domain.ErrInvalidInput, spec.Name)
	}
	return nil
}

// Upsert writes points in a single transaction. Every vector must match the
// collection's vector size; on any error nothing from this call is committed.
func (s *Store) Upsert(ctx context.Context, collection string, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var size int
	err = tx.QueryRowContext(ctx, `SELECT vector_size FROM collections WHERE name = ?`, collection).Scan(&size)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: collection %q", domain.ErrNotFound, collection)
	}
	if err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO points (collection, id, vector, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			vector = excluded.vector,
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if len(p.Vector) != size {
			return fmt.Errorf("%w: point %d has %d dimensions, collection %q expects %d",
				domain.ErrDimensionMismatch, p.ID, len(p.Vector), collection, size)
		}
		if p.ID == 0 || p.ID > math.MaxInt64 {
			return fmt.Errorf("%w: point id %d out of range", domain.ErrInvalidInput, p.ID)
		}

		payload, err := json.Marshal(p.Payload)
		if err != nil {
			return fmt.Errorf("marshalling payload: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, collection, int64(p.ID), float32SliceToBytes(p.Vector), string(payload)); err != nil {
			return fmt.Errorf("upserting point %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	return nil
}

// GetCollection returns the collection shape and its point count.
func (s *Store) GetCollection(ctx context.Context, name string) (*domain.CollectionInfo, error) {
	info := &domain.CollectionInfo{Name: name}
	var distance string

	err := s.db.QueryRowContext(ctx, `
		SELECT c.vector_size, c.distance,
			(SELECT COUNT(*) FROM points p WHERE p.collection = c.name)
		FROM collections c
		WHERE c.name = ?
	`, name).Scan(&info.VectorSize, &distance, &info.PointCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: collection %q", domain.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading collection: %w", err)
	}

	info.Distance = domain.Distance(distance)
	return info, nil
}

// Points returns every point of a collection ordered by ID.
func (s *Store) Points(ctx context.Context, collection string) ([]domain.Point, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, vector, payload FROM points WHERE collection = ? ORDER BY id
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("querying points: %w", err)
	}
	defer rows.Close()

	var points []domain.Point
	for rows.Next() {
		var (
			id      int64
			blob    []byte
			payload string
		)
		if err := rows.Scan(&id, &blob, &payload); err != nil {
			return nil, fmt.Errorf("scanning point: %w", err)
		}

		vec, err := bytesToFloat32Slice(blob)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", id, err)
		}

		p := domain.Point{ID: uint64(id), Vector: vec}
		if err := json.Unmarshal([]byte(payload), &p.Payload); err != nil {
			return nil, fmt.Errorf("unmarshalling payload of point %d: %w", id, err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_collections.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		logger.Debug("sqlite: applied migration %s", name)
	}

	return nil
}

// float32SliceToBytes encodes a vector as little-endian IEEE 754 float32s.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice decodes a blob produced by float32SliceToBytes.
func bytesToFloat32Slice(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid vector blob length %d", len(data))
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats, nil
}
