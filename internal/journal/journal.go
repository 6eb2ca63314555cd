// Package journal records effect lifecycle events as compressed JSON lines.
//
// Writer implements effect.Hook. Hook calls only enqueue; Run drains the
// queue to disk. Files rotate on the UTC hour of the event timestamp.
package journal

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/statusfx/internal/game/effect"
	"github.com/udisondev/statusfx/internal/model"
)

// Event types.
const (
	EventApplied = "applied"
	EventRemoved = "removed"
	EventDied    = "died"
)

const defaultQueueSize = 1024

// Event is one journal line.
type Event struct {
	ID          string    `json:"id"`
	Time        time.Time `json:"time"`
	Type        string    `json:"type"`
	Actor       string    `json:"actor"`
	Kind        string    `json:"kind,omitempty"`
	Duration    int       `json:"duration,omitempty"`
	Strength    int       `json:"strength,omitempty"`
	Extra       int       `json:"extra,omitempty"`
	ItemSourced bool      `json:"item_sourced,omitempty"`
	Applier     string    `json:"applier,omitempty"`
	Replaced    bool      `json:"replaced,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Cause       string    `json:"cause,omitempty"`
}

// Writer is an effect.Hook that journals lifecycle events.
type Writer struct {
	out   *jsonlZstdWriter
	queue chan Event
	now   func() time.Time

	written atomic.Uint64
	dropped atomic.Uint64
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// WithQueueSize sets how many events may wait for Run before new ones are
// dropped.
func WithQueueSize(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.queue = make(chan Event, n)
		}
	}
}

// NewWriter creates a writer storing files under dir/effects.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{
		queue: make(chan Event, defaultQueueSize),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.out = newJSONLZstdWriter(filepath.Join(dir, "effects"), "effects")
	return w
}

var _ effect.Hook = (*Writer)(nil)

// Run writes queued events until ctx is cancelled, then drains what is left
// and closes the current file.
func (w *Writer) Run(ctx context.Context) error {
	slog.Info("effect journal started")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.drain()
			slog.Info("effect journal stopped",
				"written", w.written.Load(),
				"dropped", w.dropped.Load())
			return w.out.close()

		case ev := <-w.queue:
			w.persist(ev)

		case <-ticker.C:
			if err := w.out.flush(); err != nil {
				slog.Warn("flushing effect journal", "error", err)
			}
		}
	}
}

func (w *Writer) drain() {
	for {
		select {
		case ev := <-w.queue:
			w.persist(ev)
		default:
			return
		}
	}
}

func (w *Writer) persist(ev Event) {
	if err := w.out.write(ev.Time, ev); err != nil {
		slog.Warn("writing effect journal", "type", ev.Type, "actor", ev.Actor, "error", err)
		return
	}
	w.written.Add(1)
}

// Written returns the number of events stored so far.
func (w *Writer) Written() uint64 { return w.written.Load() }

// Dropped returns the number of events lost to a full queue.
func (w *Writer) Dropped() uint64 { return w.dropped.Load() }

func (w *Writer) enqueue(ev Event) {
	ev.ID = uuid.NewString()
	ev.Time = w.now().UTC()
	select {
	case w.queue <- ev:
	default:
		w.dropped.Add(1)
	}
}

// EffectApplied implements effect.Hook.
func (w *Writer) EffectApplied(actor model.Actor, inst effect.Instance, replaced bool) {
	ev := instanceEvent(EventApplied, actor, inst)
	ev.Replaced = replaced
	w.enqueue(ev)
}

// EffectRemoved implements effect.Hook.
func (w *Writer) EffectRemoved(actor model.Actor, inst effect.Instance, reason effect.RemoveReason) {
	ev := instanceEvent(EventRemoved, actor, inst)
	ev.Reason = reason.String()
	w.enqueue(ev)
}

// ActorDied implements effect.Hook.
func (w *Writer) ActorDied(actor model.Actor, cause model.DeathCause) {
	w.enqueue(Event{
		Type:  EventDied,
		Actor: actor.ID(),
		Cause: cause.String(),
	})
}

func instanceEvent(typ string, actor model.Actor, inst effect.Instance) Event {
	return Event{
		Type:        typ,
		Actor:       actor.ID(),
		Kind:        inst.Name(),
		Duration:    inst.Duration,
		Strength:    inst.Strength,
		Extra:       inst.Extra,
		ItemSourced: inst.ItemSourced,
		Applier:     describeApplier(inst.Applier),
	}
}

func describeApplier(a model.Applier) string {
	switch a.Kind {
	case model.ApplierItem:
		return "item:" + a.Item
	case model.ApplierActor:
		if caster, ok := a.Caster(); ok {
			return "actor:" + caster.ID()
		}
	}
	return ""
}
