package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/udisondev/statusfx/internal/game/effect"
	"github.com/udisondev/statusfx/internal/model"
)

// Runner plays a scenario timeline through the effect engine.
type Runner struct {
	engine *effect.Engine
	world  *simWorld
	ticker *effect.TickManager
	out    io.Writer

	// pace, when positive, is the wall-clock delay between ticks.
	pace time.Duration

	rejected int
	dead     map[string]model.DeathCause
}

// newRunner creates a runner. interval drives live ticking; with realtime
// set, timeline advances wait for it as well.
func newRunner(engine *effect.Engine, world *simWorld, out io.Writer, interval time.Duration, realtime bool) *Runner {
	r := &Runner{
		engine: engine,
		world:  world,
		out:    out,
		dead:   make(map[string]model.DeathCause),
	}
	if realtime {
		r.pace = interval
	}
	r.ticker = effect.NewTickManager(engine, interval, r.onReport)
	return r
}

// Run executes every step in order.
func (r *Runner) Run(ctx context.Context, sc *Scenario) error {
	slog.Info("scenario started", "name", sc.Name, "steps", len(sc.Steps))
	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.step(ctx, st); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	slog.Info("scenario finished", "name", sc.Name, "ticks", r.now())
	return nil
}

func (r *Runner) step(ctx context.Context, st Step) error {
	switch {
	case st.Apply != nil:
		return r.apply(ctx, st.Apply)
	case st.Advance > 0:
		return r.advance(ctx, st.Advance)
	case st.Cancel != nil:
		ok, err := r.engine.CancelEffect(ctx, st.Cancel.Actor, st.Cancel.Kind)
		if err != nil {
			return err
		}
		r.printf("tick %d: cancel %s on %s: removed=%t\n", r.now(), st.Cancel.Kind, st.Cancel.Actor, ok)
	case st.Cure != nil:
		removed, err := r.engine.Cure(ctx, st.Cure.Actor, st.Cure.Kind)
		if err != nil {
			return err
		}
		r.printf("tick %d: cure %s on %s: removed=[%s]\n", r.now(), st.Cure.Kind, st.Cure.Actor, strings.Join(removed, ", "))
	case st.Move != nil:
		if err := r.world.Move(st.Move.Actor, st.Move.Room); err != nil {
			return err
		}
		r.printf("tick %d: %s moves to %q\n", r.now(), st.Move.Actor, st.Move.Room)
	}
	return nil
}

func (r *Runner) apply(ctx context.Context, a *ApplyStep) error {
	if _, dead := r.dead[a.Actor]; dead {
		r.printf("tick %d: %s is dead, %s skipped\n", r.now(), a.Actor, a.Kind)
		return nil
	}

	applier := model.NoApplier()
	switch {
	case a.Item != "":
		applier = model.FromItem(a.Item)
	case a.Caster != "":
		caster, _ := r.world.Actor(a.Caster)
		applier = model.FromActor(caster)
	}

	var opts []effect.ApplyOption
	if a.Strength != nil {
		opts = append(opts, effect.WithStrength(*a.Strength))
	}
	if a.Duration != nil {
		opts = append(opts, effect.WithDuration(*a.Duration))
	}
	if a.Extra != 0 {
		opts = append(opts, effect.WithExtra(a.Extra))
	}

	res, err := r.engine.ApplyEffect(ctx, a.Actor, a.Kind, applier, opts...)
	if err != nil {
		return err
	}
	if !res.Accepted() {
		r.rejected++
		r.printf("tick %d: %s on %s rejected (%s)\n", r.now(), a.Kind, a.Actor, res.Reason)
		return nil
	}
	r.printf("tick %d: %s on %s: duration=%d strength=%d replaced=%t\n",
		r.now(), a.Kind, a.Actor, res.Duration, res.Strength, res.Replaced)
	return nil
}

func (r *Runner) advance(ctx context.Context, n int) error {
	var pacer <-chan time.Time
	if r.pace > 0 {
		t := time.NewTicker(r.pace)
		defer t.Stop()
		pacer = t.C
	}
	for range n {
		if pacer != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pacer:
			}
		}
		r.ticker.Step(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Live keeps ticking on the tick manager's own clock until ctx is done.
func (r *Runner) Live(ctx context.Context) error {
	err := r.ticker.Start(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (r *Runner) onReport(rep effect.TickReport) {
	if len(rep.Removed) > 0 {
		r.printf("tick %d: %s loses [%s]\n", r.now(), rep.ActorID, strings.Join(rep.Removed, ", "))
	}
	if rep.Died {
		r.dead[rep.ActorID] = rep.Cause
		r.printf("tick %d: %s dies (%s)\n", r.now(), rep.ActorID, rep.Cause)
		r.engine.Forget(rep.ActorID)
	}
}

// Summary prints the final state of every actor.
func (r *Runner) Summary() {
	r.printf("\n== summary after %d ticks (%d rejected) ==\n", r.now(), r.rejected)
	for _, id := range r.world.IDs() {
		c, _ := r.world.creature(id)
		hp := c.HP()
		status := "alive"
		if cause, dead := r.dead[id]; dead {
			status = "dead: " + cause.String()
		}
		r.printf("%s: hp %d/%d, form %s, %s\n", id, hp.Current(), hp.Max(), c.Form(), status)
		for _, inst := range r.engine.Active(id) {
			duration := fmt.Sprint(inst.Duration)
			if inst.IsPermanent() {
				duration = "permanent"
			}
			r.printf("  %-20s duration=%s strength=%d\n", inst.Name(), duration, inst.Strength)
		}
	}
}

// now is the number of ticks played so far.
func (r *Runner) now() uint64 { return r.ticker.Ticks() }

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}
