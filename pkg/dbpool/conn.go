package dbpool

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pooledConn wraps a pool checkout; Release returns it to the pool.
type pooledConn struct {
	conn *pgxpool.Conn
}

func (c *pooledConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

func (c *pooledConn) Release(context.Context) error {
	c.conn.Release()
	return nil
}

// directConn wraps a dedicated connection; Release closes it.
type directConn struct {
	conn DirectConn
}

func (c *directConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

func (c *directConn) Release(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// Compile-time interface checks.
var (
	_ Conn = (*pooledConn)(nil)
	_ Conn = (*directConn)(nil)
)
