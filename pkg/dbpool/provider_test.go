package dbpool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// fakeConn satisfies DirectConn without a server.
type fakeConn struct {
	closed bool
}

func (f *fakeConn) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("fakeConn: no queries")
}

func (f *fakeConn) Close(context.Context) error {
	f.closed = true
	return nil
}

func degradedProvider(t *testing.T, dial DialFunc, maxRetries int) *Provider {
	t.Helper()
	// A DSN pgxpool cannot parse forces degraded mode at construction.
	p := New(context.Background(), Config{
		DSN:        "://not-a-dsn",
		PoolSize:   4,
		MaxRetries: maxRetries,
		RetryDelay: time.Millisecond,
		Dial:       dial,
	})
	if !p.Degraded() {
		t.Fatal("expected provider in degraded mode")
	}
	return p
}

func TestDegradedFallback(t *testing.T) {
	fc := &fakeConn{}
	p := degradedProvider(t, func(context.Context, string) (DirectConn, error) {
		return fc, nil
	}, 0)
	defer p.Close()

	conn, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := conn.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if !fc.closed {
		t.Error("degraded Release did not close the underlying connection")
	}
}

func TestAcquireRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	p := degradedProvider(t, func(context.Context, string) (DirectConn, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("transient refusal")
		}
		return &fakeConn{}, nil
	}, 3)
	defer p.Close()

	conn, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer conn.Release(context.Background())

	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestAcquireExhaustsRetries(t *testing.T) {
	attempts := 0
	p := degradedProvider(t, func(context.Context, string) (DirectConn, error) {
		attempts++
		return nil, errors.New("refused")
	}, 2)
	defer p.Close()

	_, err := p.Acquire(context.Background())
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !errors.Is(err, ErrConnection) {
		t.Errorf("error %v is not ErrConnection", err)
	}
	// Initial attempt plus two retries.
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestAcquireHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := degradedProvider(t, func(ctx context.Context, _ string) (DirectConn, error) {
		return nil, ctx.Err()
	}, 5)
	defer p.Close()

	if _, err := p.Acquire(ctx); err == nil {
		t.Fatal("expected error with cancelled context")
	}
}

func TestClampPoolSize(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 1},
		{-3, 1},
		{1, 1},
		{8, 8},
		{MaxPoolSize, MaxPoolSize},
		{MaxPoolSize + 10, MaxPoolSize},
	}

	for _, tt := range tests {
		p := New(context.Background(), Config{
			DSN:      "://not-a-dsn",
			PoolSize: tt.in,
		})
		if p.cfg.PoolSize != tt.want {
			t.Errorf("clamp(%d) = %d, want %d", tt.in, p.cfg.PoolSize, tt.want)
		}
	}
}
