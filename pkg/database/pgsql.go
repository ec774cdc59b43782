package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPgxPool creates a PostgreSQL connection pool, retrying the first ping with
// exponential backoff for up to maxElapsed. The desktop host often starts the
// backend before the database is accepting connections.
func NewPgxPool(ctx context.Context, databaseURL string, maxElapsed time.Duration) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	bOff := backoff.NewExponentialBackOff()
	bOff.MaxElapsedTime = maxElapsed

	err = backoff.RetryNotify(
		func() error {
			return pool.Ping(ctx)
		},
		backoff.WithContext(bOff, ctx),
		func(err error, d time.Duration) {
			slog.Warn("Database not reachable yet, will retry", slog.String("error", err.Error()), slog.Duration("retry_in", d))
		},
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable after %s: %w", maxElapsed, err)
	}

	stat := pool.Stat()
	slog.Info("Connected to PostgreSQL", slog.Int("max_conns", int(stat.MaxConns())))
	return pool, nil
}

// ClosePgxPool closes pool. A nil pool is ignored.
func ClosePgxPool(pool *pgxpool.Pool) {
	if pool == nil {
		return
	}
	pool.Close()
	slog.Info("PostgreSQL pool closed")
}
