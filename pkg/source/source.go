// Package source defines the data-source capabilities the pipeline
// requires: a bounded active-item fetch and a single-pass, chunked
// relation cursor. The Postgres implementation lives in pg.go; tests
// substitute in-memory implementations.
package source

import "context"

// Row is one (item, store) observation from the relation stream. Rows
// are ephemeral: they must not be retained past batch processing.
type Row struct {
	Item  string
	Store string
}

// RelationCursor is a finite, single-pass sequence of row batches.
// It is not restartable; a fresh cursor requires a fresh connection.
type RelationCursor interface {
	// FetchMany returns the next batch of at most chunkSize rows.
	// An empty batch with nil error is the sole end-of-stream signal.
	FetchMany(ctx context.Context, chunkSize int) ([]Row, error)
	// Close releases the cursor's connection. Must be called on every
	// exit path, including errors mid-stream.
	Close(ctx context.Context) error
}

// Source is the data-source collaborator.
type Source interface {
	// ActiveItems returns the deduplicated universe of eligible item
	// identifiers, at most limit when limit > 0. An empty result is
	// not an error here; the orchestrator decides.
	ActiveItems(ctx context.Context, limit int) (map[string]struct{}, error)
	// OpenRelationCursor opens a fresh single-pass cursor over the
	// eligible (item, store) relation.
	OpenRelationCursor(ctx context.Context) (RelationCursor, error)
}
