package effect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/udisondev/statusfx/internal/model"
	"github.com/udisondev/statusfx/internal/random"
)

const tracerName = "github.com/udisondev/statusfx/internal/game/effect"

var ErrUnknownActor = errors.New("unknown actor")

// World resolves actor IDs. Implemented by the surrounding simulation.
type World interface {
	Actor(id string) (model.Actor, bool)
}

// Engine is the surface the world uses to apply, advance and cancel effects.
// It owns one Manager per actor that has ever carried an effect.
type Engine struct {
	registry  *Registry
	world     World
	messenger Messenger
	rng       random.Source
	hooks     []Hook
	tracer    trace.Tracer

	mu       sync.RWMutex
	managers map[string]*Manager
}

// Option configures an Engine.
type Option func(*Engine)

// WithMessenger sets the text delivery collaborator.
func WithMessenger(m Messenger) Option {
	return func(e *Engine) { e.messenger = m }
}

// WithRandom sets the source handed to every compute and pulse call.
func WithRandom(src random.Source) Option {
	return func(e *Engine) { e.rng = src }
}

// WithHooks adds lifecycle observers.
func WithHooks(hs ...Hook) Option {
	return func(e *Engine) { e.hooks = append(e.hooks, hs...) }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// NewEngine creates an engine over reg and world.
// Without WithRandom the engine seeds its own source from crypto/rand.
func NewEngine(reg *Registry, world World, opts ...Option) *Engine {
	e := &Engine{
		registry:  reg,
		world:     world,
		messenger: nopMessenger{},
		managers:  make(map[string]*Manager),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		src, seed, err := random.NewSeeded()
		if err != nil {
			slog.Warn("crypto seed unavailable, falling back to fixed seed", "error", err)
			src = random.New(1)
		} else {
			slog.Debug("effect engine seeded", "seed", seed)
		}
		e.rng = src
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	return e
}

// Registry returns the catalog the engine resolves kinds against.
func (e *Engine) Registry() *Registry { return e.registry }

// ApplyEffect applies kind to the actor. A rejection is a Result, not an
// error; errors are reserved for unknown kinds and actors.
func (e *Engine) ApplyEffect(ctx context.Context, actorID, kind string, applier model.Applier, opts ...ApplyOption) (Result, error) {
	_, span := e.tracer.Start(ctx, "effect.apply", trace.WithAttributes(
		attribute.String("actor.id", actorID),
		attribute.String("effect.kind", kind),
		attribute.String("effect.applier", applier.Kind.String()),
	))
	defer span.End()

	def, err := e.registry.Lookup(kind)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unknown kind")
		return rejected(kind, ReasonUnknownKind), err
	}
	m, err := e.managerFor(actorID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unknown actor")
		return rejected(kind, ReasonNone), err
	}

	res := m.Apply(e.env(), def, applier, opts...)
	span.SetAttributes(
		attribute.String("effect.status", res.Status.String()),
		attribute.String("effect.reason", string(res.Reason)),
		attribute.Int("effect.duration", res.Duration),
	)
	return res, nil
}

// AdvanceTick runs one tick for one actor. Actors without effects get an
// empty report.
func (e *Engine) AdvanceTick(ctx context.Context, actorID string) (TickReport, error) {
	_, span := e.tracer.Start(ctx, "effect.tick", trace.WithAttributes(
		attribute.String("actor.id", actorID),
	))
	defer span.End()

	m, ok := e.existing(actorID)
	if !ok {
		if _, known := e.world.Actor(actorID); !known {
			err := fmt.Errorf("%w: %s", ErrUnknownActor, actorID)
			span.RecordError(err)
			span.SetStatus(codes.Error, "unknown actor")
			return TickReport{ActorID: actorID}, err
		}
		return TickReport{ActorID: actorID}, nil
	}

	report := m.Tick(e.env())
	span.SetAttributes(
		attribute.Int("effect.pulsed", report.Pulsed),
		attribute.Int("effect.removed", len(report.Removed)),
		attribute.Bool("actor.died", report.Died),
	)
	return report, nil
}

// AdvanceAll ticks every actor that carries effects, in ID order.
// Reports are returned only for actors where something happened.
func (e *Engine) AdvanceAll(ctx context.Context) ([]TickReport, error) {
	ctx, span := e.tracer.Start(ctx, "effect.tick_all")
	defer span.End()

	ids := e.Actors()
	span.SetAttributes(attribute.Int("actors", len(ids)))

	var reports []TickReport
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := e.AdvanceTick(ctx, id)
		if err != nil {
			return reports, err
		}
		if report.Pulsed > 0 || len(report.Removed) > 0 || report.Died {
			reports = append(reports, report)
		}
	}
	return reports, nil
}

// CancelEffect removes a non-permanent instance of kind.
func (e *Engine) CancelEffect(ctx context.Context, actorID, kind string) (bool, error) {
	removed, err := e.cancel(ctx, actorID, kind, CancelOptions{})
	return len(removed) > 0, err
}

// Cure removes every non-permanent kind that is or is based on name, such
// as every curse.
func (e *Engine) Cure(ctx context.Context, actorID, name string) ([]string, error) {
	return e.cancel(ctx, actorID, name, CancelOptions{MatchBase: true})
}

// CancelOpposite removes the active opposite of kind, permanent or not.
func (e *Engine) CancelOpposite(ctx context.Context, actorID, kind string) (bool, error) {
	_, span := e.tracer.Start(ctx, "effect.cancel_opposite", trace.WithAttributes(
		attribute.String("actor.id", actorID),
		attribute.String("effect.kind", kind),
	))
	defer span.End()

	def, err := e.registry.Lookup(kind)
	if err != nil {
		return false, err
	}
	m, ok := e.existing(actorID)
	if !ok {
		return false, nil
	}
	return m.RemoveOpposite(e.env(), def), nil
}

func (e *Engine) cancel(ctx context.Context, actorID, name string, opts CancelOptions) ([]string, error) {
	_, span := e.tracer.Start(ctx, "effect.cancel", trace.WithAttributes(
		attribute.String("actor.id", actorID),
		attribute.String("effect.kind", name),
		attribute.Bool("effect.match_base", opts.MatchBase),
	))
	defer span.End()

	if !opts.MatchBase {
		if _, err := e.registry.Lookup(name); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}
	m, ok := e.existing(actorID)
	if !ok {
		return nil, nil
	}
	removed := m.Cancel(e.env(), name, opts)
	span.SetAttributes(attribute.Int("effect.removed", len(removed)))
	return removed, nil
}

// IsAffectedBy reports whether the actor carries name or a kind based on it.
func (e *Engine) IsAffectedBy(actorID, name string) bool {
	m, ok := e.existing(actorID)
	return ok && m.IsAffectedBy(name)
}

// Active returns copies of the actor's instances.
func (e *Engine) Active(actorID string) []Instance {
	m, ok := e.existing(actorID)
	if !ok {
		return nil
	}
	return m.Active()
}

// Snapshot returns the persistable state of the actor's effects.
func (e *Engine) Snapshot(actorID string) []Record {
	m, ok := e.existing(actorID)
	if !ok {
		return nil
	}
	return m.Records()
}

// Restore rehydrates an actor's effects from persisted records.
func (e *Engine) Restore(ctx context.Context, actorID string, records []Record) error {
	_, span := e.tracer.Start(ctx, "effect.restore", trace.WithAttributes(
		attribute.String("actor.id", actorID),
		attribute.Int("effect.records", len(records)),
	))
	defer span.End()

	m, err := e.managerFor(actorID)
	if err != nil {
		return err
	}
	if err := m.Restore(e.registry, records); err != nil {
		span.RecordError(err)
		return fmt.Errorf("restoring effects for %s: %w", actorID, err)
	}
	return nil
}

// Forget drops the actor's manager and its effects without announcement.
func (e *Engine) Forget(actorID string) {
	e.mu.Lock()
	m, ok := e.managers[actorID]
	delete(e.managers, actorID)
	e.mu.Unlock()
	if ok {
		m.Clear()
	}
}

// Actors returns the IDs of actors with a manager, sorted.
func (e *Engine) Actors() []string {
	e.mu.RLock()
	ids := make([]string, 0, len(e.managers))
	for id := range e.managers {
		ids = append(ids, id)
	}
	e.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func (e *Engine) env() *Env {
	return &Env{Rand: e.rng, Messenger: e.messenger}
}

func (e *Engine) existing(actorID string) (*Manager, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	m, ok := e.managers[actorID]
	return m, ok
}

func (e *Engine) managerFor(actorID string) (*Manager, error) {
	if m, ok := e.existing(actorID); ok {
		return m, nil
	}
	actor, ok := e.world.Actor(actorID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownActor, actorID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if m, ok := e.managers[actorID]; ok {
		return m, nil
	}
	m := NewManager(actor, e.hooks...)
	e.managers[actorID] = m
	return m, nil
}
