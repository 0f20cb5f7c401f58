// Package database holds the Postgres store of the admissions history.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pitie-urgences/forecast/internal/shared/config"
	"github.com/pitie-urgences/forecast/internal/shared/metrics"
)

const (
	applicationName = "urgences-forecast"
	connectTimeout  = 5 * time.Second
	healthTimeout   = 2 * time.Second
)

// DB is the history store. The history is read once at startup and the
// migrations run on the same pool, so it holds a handful of connections.
type DB struct {
	Pool *pgxpool.Pool
}

// New opens the pool and fails unless the server answers.
func New(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	poolConfig, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	db := &DB{Pool: pool}
	if err := db.Health(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("history database %s:%d unreachable: %w", cfg.Host, cfg.Port, err)
	}

	return db, nil
}

func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pc.MaxConns = 4
	pc.MinConns = 0
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 5 * time.Minute
	pc.HealthCheckPeriod = time.Minute
	pc.ConnConfig.ConnectTimeout = connectTimeout
	pc.ConnConfig.RuntimeParams["application_name"] = applicationName

	return pc, nil
}

func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Health pings the server within healthTimeout. Used by /ready.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("ping", time.Since(start)) }()

	return db.Pool.Ping(ctx)
}
