// Package sqlite provides a local, single-file vector collection store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Collections keep their vector size and distance fixed at
// creation; points are keyed by (collection, id) so re-uploading a point set
// overwrites instead of duplicating.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Vectors are stored as little-endian float32 blobs
// and payloads as JSON text.
//
// # Data Location
//
// The database is stored at <vector.path>/vectors.db, by default
// ~/.sercha-ingest/data/vectors.db.
package sqlite
