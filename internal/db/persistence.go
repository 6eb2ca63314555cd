package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/udisondev/statusfx/internal/game/effect"
)

// Snapshotter is the part of the effect engine that persistence needs.
type Snapshotter interface {
	Actors() []string
	Snapshot(actorID string) []effect.Record
	Restore(ctx context.Context, actorID string, records []effect.Record) error
}

// EffectPersistenceService moves effect snapshots between an engine and a
// store.
type EffectPersistenceService struct {
	store EffectStore
}

// NewEffectPersistenceService creates a new service.
func NewEffectPersistenceService(store EffectStore) *EffectPersistenceService {
	return &EffectPersistenceService{store: store}
}

// SaveAll writes the snapshot of every actor the engine tracks plus the
// given actor IDs. An actor the engine no longer tracks is saved with no
// effects, which clears its stored rows. It keeps going after a failed actor
// and returns the joined errors.
func (s *EffectPersistenceService) SaveAll(ctx context.Context, engine Snapshotter, actorIDs []string) error {
	ids := engine.Actors()
	for _, id := range actorIDs {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	var errs []error
	saved := 0
	for _, id := range ids {
		if err := s.store.Save(ctx, id, engine.Snapshot(id)); err != nil {
			errs = append(errs, fmt.Errorf("saving effects for %s: %w", id, err))
			continue
		}
		saved++
	}
	slog.Info("effects saved", "actors", saved, "failed", len(errs))
	return errors.Join(errs...)
}

// LoadActors restores the stored effects of the given actors. Actors with
// nothing stored are left untouched.
func (s *EffectPersistenceService) LoadActors(ctx context.Context, engine Snapshotter, actorIDs []string) error {
	var errs []error
	for _, id := range actorIDs {
		records, err := s.store.Load(ctx, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(records) == 0 {
			continue
		}
		if err := engine.Restore(ctx, id, records); err != nil {
			errs = append(errs, err)
			continue
		}
		slog.Debug("effects loaded", "actor", id, "count", len(records))
	}
	return errors.Join(errs...)
}
