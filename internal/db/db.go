package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/statusfx/internal/config"
	"github.com/udisondev/statusfx/internal/game/effect"
)

// EffectStore persists the active effects of one actor at a time.
type EffectStore interface {
	// Load returns the actor's records in attachment order. An actor with no
	// stored effects yields an empty slice.
	Load(ctx context.Context, actorID string) ([]effect.Record, error)
	// Save replaces everything stored for the actor.
	Save(ctx context.Context, actorID string, records []effect.Record) error
	Close() error
}

// DB wraps a pgx connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Open migrates and opens the store selected by cfg.Storage.
// Returns nil, nil for StorageNone.
func Open(ctx context.Context, cfg config.Simulator) (EffectStore, error) {
	switch cfg.Storage {
	case config.StorageNone, "":
		return nil, nil

	case config.StoragePostgres:
		dsn := cfg.Database.DSN()
		if err := RunMigrations(ctx, dsn); err != nil {
			return nil, err
		}
		d, err := New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return NewEffectRepository(d), nil

	case config.StorageSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage)
	}
}
