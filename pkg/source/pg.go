package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/retailops/common-items/pkg/dbpool"
	"github.com/retailops/common-items/pkg/logging"
)

// Eligibility is pushed down to the source: only active master items,
// and only store locations whose item_loc row is not inactive.
const (
	activeItemsSQL = "SELECT item FROM item_master WHERE status = 'A'"
	relationSQL    = "SELECT item, loc FROM item_loc WHERE status <> 'I' AND loc_type = 'S'"
)

// ConnProvider is the slice of dbpool.Provider the source needs.
type ConnProvider interface {
	Acquire(ctx context.Context) (dbpool.Conn, error)
}

// PG is the Postgres-backed Source.
type PG struct {
	provider ConnProvider
}

// NewPG builds a Postgres source on top of a connection provider.
func NewPG(provider ConnProvider) *PG {
	return &PG{provider: provider}
}

var _ Source = (*PG)(nil)

// ActiveItems issues one bounded query against item_master and
// deduplicates the identifiers into a set.
func (s *PG) ActiveItems(ctx context.Context, limit int) (map[string]struct{}, error) {
	conn, err := s.provider.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release(ctx)

	sql := activeItemsSQL
	if limit > 0 {
		sql += fmt.Sprintf(" FETCH FIRST %d ROWS ONLY", limit)
	}

	rows, err := conn.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query active items: %w", err)
	}
	defer rows.Close()

	items := make(map[string]struct{})
	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return nil, fmt.Errorf("scan active item: %w", err)
		}
		items[item] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read active items: %w", err)
	}

	log := logging.WithPhase("active_items")
	log.Info().
		Int("count", len(items)).
		Msg("active items fetched")
	return items, nil
}

// OpenRelationCursor acquires a dedicated connection, executes the
// relation query, and returns a cursor that scans batches from the
// held result stream. The connection is released by Close.
func (s *PG) OpenRelationCursor(ctx context.Context) (RelationCursor, error) {
	conn, err := s.provider.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := conn.Query(ctx, relationSQL)
	if err != nil {
		conn.Release(ctx)
		return nil, fmt.Errorf("query item_loc: %w", err)
	}

	return &pgCursor{conn: conn, rows: rows}, nil
}

// pgCursor adapts a streaming pgx result to the chunked FetchMany
// contract. At most one batch is materialized at a time.
type pgCursor struct {
	conn dbpool.Conn
	rows pgx.Rows
	done bool
}

func (c *pgCursor) FetchMany(ctx context.Context, chunkSize int) ([]Row, error) {
	if c.done {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := make([]Row, 0, chunkSize)
	for len(batch) < chunkSize && c.rows.Next() {
		var r Row
		if err := c.rows.Scan(&r.Item, &r.Store); err != nil {
			return nil, fmt.Errorf("scan item_loc row: %w", err)
		}
		batch = append(batch, r)
	}

	if len(batch) < chunkSize {
		// Stream exhausted (or failed); surface the cursor error now.
		c.done = true
		if err := c.rows.Err(); err != nil {
			return nil, fmt.Errorf("read item_loc: %w", err)
		}
	}
	return batch, nil
}

func (c *pgCursor) Close(ctx context.Context) error {
	c.rows.Close()
	return c.conn.Release(ctx)
}
