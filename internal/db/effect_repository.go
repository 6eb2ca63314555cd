package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/statusfx/internal/game/effect"
)

// EffectRepository stores actor effects in PostgreSQL.
type EffectRepository struct {
	db *DB
}

// NewEffectRepository creates a new EffectRepository.
func NewEffectRepository(d *DB) *EffectRepository {
	return &EffectRepository{db: d}
}

func (r *EffectRepository) pool() *pgxpool.Pool { return r.db.Pool() }

// Load returns every stored effect of the actor in attachment order.
func (r *EffectRepository) Load(ctx context.Context, actorID string) ([]effect.Record, error) {
	query := `
		SELECT kind, duration, strength, extra, item_sourced
		FROM actor_effects
		WHERE actor_id = $1
		ORDER BY position
	`

	rows, err := r.pool().Query(ctx, query, actorID)
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

// Save stores all effects of the actor (full rewrite).
// Deletes the old rows and inserts the new ones in one transaction.
func (r *EffectRepository) Save(ctx context.Context, actorID string, records []effect.Record) error {
	tx, err := r.pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		// Rollback after commit is expected to fail
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM actor_effects WHERE actor_id = $1`, actorID); err != nil {
		return fmt.Errorf("deleting existing effects: %w", err)
	}

	for i, rec := range records {
		if _, err := tx.Exec(ctx,
			`INSERT INTO actor_effects (actor_id, position, kind, duration, strength, extra, item_sourced)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			actorID, i, rec.Kind, rec.Duration, rec.Strength, rec.Extra, rec.ItemSourced,
		); err != nil {
			return fmt.Errorf("inserting effect %s: %w", rec.Kind, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing effects save: %w", err)
	}

	return nil
}

// Close closes the connection pool.
func (r *EffectRepository) Close() error {
	r.db.Close()
	return nil
}
