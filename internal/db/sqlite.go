package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/udisondev/statusfx/internal/game/effect"
)

// SQLiteStore stores actor effects in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) and migrates the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("empty sqlite path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating sqlite dir: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := sqlDB.ExecContext(ctx, p); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("applying %q: %w", p, err)
		}
	}

	if err := migrate(ctx, goose.DialectSQLite3, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &SQLiteStore{db: sqlDB}, nil
}

// Load returns every stored effect of the actor in attachment order.
func (s *SQLiteStore) Load(ctx context.Context, actorID string) ([]effect.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, duration, strength, extra, item_sourced
		 FROM actor_effects WHERE actor_id = ? ORDER BY position`, actorID)
	if err != nil {
		return nil, fmt.Errorf("querying effects for actor %s: %w", actorID, err)
	}
	defer rows.Close()

	records := make([]effect.Record, 0, 8)
	for rows.Next() {
		var rec effect.Record
		if err := rows.Scan(&rec.Kind, &rec.Duration, &rec.Strength, &rec.Extra, &rec.ItemSourced); err != nil {
			return nil, fmt.Errorf("scanning effect row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating effect rows: %w", err)
	}
	return records, nil
}

// Save stores all effects of the actor (full rewrite) in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, actorID string, records []effect.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM actor_effects WHERE actor_id = ?`, actorID); err != nil {
		return fmt.Errorf("deleting existing effects: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO actor_effects (actor_id, position, kind, duration, strength, extra, item_sourced)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, actorID, i, rec.Kind, rec.Duration, rec.Strength, rec.Extra, rec.ItemSourced); err != nil {
			return fmt.Errorf("inserting effect %s: %w", rec.Kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing effects save: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
