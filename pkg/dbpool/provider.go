// Package dbpool provides scoped database connection acquisition with
// pooled and degraded (one connection per acquire) modes behind a
// single contract.
package dbpool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/retailops/common-items/pkg/logging"
)

// MaxPoolSize caps the requested pool size regardless of configuration.
const MaxPoolSize = 16

// ErrConnection indicates connection attempts were exhausted. Fatal:
// the run cannot proceed without a data source.
var ErrConnection = errors.New("connection attempts exhausted")

// Conn is a scoped connection handle. Release must be called on every
// exit path; after Release the handle must not be used.
type Conn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Release(ctx context.Context) error
}

// DirectConn is a single non-pooled connection. *pgx.Conn satisfies it.
type DirectConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close(ctx context.Context) error
}

// DialFunc opens one direct connection. Overridable in tests.
type DialFunc func(ctx context.Context, dsn string) (DirectConn, error)

func pgxDial(ctx context.Context, dsn string) (DirectConn, error) {
	return pgx.Connect(ctx, dsn)
}

// Config holds connection settings.
type Config struct {
	DSN string
	// PoolSize is the requested pool size; clamped to [1, MaxPoolSize].
	PoolSize int
	// MaxRetries is the number of retries after a failed attempt.
	MaxRetries int
	// RetryDelay is the fixed delay between attempts.
	RetryDelay time.Duration
	// Dial overrides direct connection dialing. Nil uses pgx.
	Dial DialFunc
}

// Provider hands out scoped connections. It is constructed in pooled
// mode when possible and degrades to per-acquire direct connections
// when pool construction fails; callers see the same contract either
// way.
type Provider struct {
	cfg      Config
	pool     *pgxpool.Pool
	degraded bool
}

// New builds a Provider. Pool construction failure is not fatal: the
// provider switches to degraded mode and logs the transition.
func New(ctx context.Context, cfg Config) *Provider {
	log := logging.WithPhase("dbpool")

	cfg.PoolSize = clampPoolSize(cfg.PoolSize, log)
	if cfg.Dial == nil {
		cfg.Dial = pgxDial
	}

	p := &Provider{cfg: cfg}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err == nil {
		poolCfg.MaxConns = int32(cfg.PoolSize)
		poolCfg.MinConns = 1
		p.pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
	}
	if err != nil {
		log.Error().Err(err).Msg("pool creation failed, falling back to direct connection mode")
		p.pool = nil
		p.degraded = true
		return p
	}

	log.Info().Int("pool_size", cfg.PoolSize).Msg("connection pool created")
	return p
}

// Degraded reports whether the provider fell back to per-acquire
// direct connections.
func (p *Provider) Degraded() bool { return p.degraded }

// Acquire returns a scoped connection, retrying failed attempts up to
// MaxRetries times with a fixed delay. Exhausting retries returns an
// error wrapping ErrConnection.
func (p *Provider) Acquire(ctx context.Context) (Conn, error) {
	log := logging.WithPhase("dbpool")

	var (
		conn     Conn
		attempts int
	)

	op := func() error {
		attempts++
		var err error
		if p.degraded {
			var direct DirectConn
			direct, err = p.cfg.Dial(ctx, p.cfg.DSN)
			if err == nil {
				conn = &directConn{conn: direct}
			}
		} else {
			var pc *pgxpool.Conn
			pc, err = p.pool.Acquire(ctx)
			if err == nil {
				conn = &pooledConn{conn: pc}
			}
		}
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempts).
				Msg("connection attempt failed")
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.cfg.RetryDelay), uint64(p.cfg.MaxRetries)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("%w (attempts=%d): %w", ErrConnection, attempts, err)
	}
	return conn, nil
}

// Close releases the underlying pool, if any.
func (p *Provider) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func clampPoolSize(n int, log zerolog.Logger) int {
	if n < 1 {
		log.Warn().Int("requested", n).Msg("invalid pool size, adjusting to 1")
		return 1
	}
	if n > MaxPoolSize {
		log.Warn().Int("requested", n).Int("max", MaxPoolSize).Msg("pool size capped")
		return MaxPoolSize
	}
	return n
}
