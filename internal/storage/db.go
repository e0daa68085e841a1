// Package storage provides PostgreSQL persistence for feed
// subscriptions and their entries, including the title-override slot
// the dearrow flow writes into. Migrations are applied with goose from
// the embedded migrations FS.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/ipvych/elfeed-dearrow/migrations"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// Store wraps a PostgreSQL connection pool and provides repository
// methods for feeds and entries.
type Store struct {
	Pool   *pgxpool.Pool
	logger *zerolog.Logger
}

// New connects to the database, retrying a few times so the service
// survives a store that is still starting up.
func New(ctx context.Context, dsn string, logger *zerolog.Logger) (*Store, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	var pool *pgxpool.Pool

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}

			pool.Close()
		}

		logger.Warn().Err(err).Int("attempt", attempt).Msg("database not ready")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect canceled: %w", ctx.Err())
		case <-time.After(connectBackoff):
		}
	}

	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &Store{Pool: pool, logger: logger}, nil
}

// Migrate applies all pending migrations.
func (s *Store) Migrate(_ context.Context) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(s.Pool)

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	s.logger.Info().Msg("migrations applied")

	return db.Close()
}

// Ping reports store reachability for the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.Pool.Close()
}
