package effect

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/udisondev/statusfx/internal/model"
)

var errNoRandom = errors.New("effect: Env.Rand is required")

// Status is the outcome of an application.
type Status uint8

const (
	Rejected Status = iota
	Accepted
)

func (s Status) String() string {
	if s == Accepted {
		return "accepted"
	}
	return "rejected"
}

// Result describes what Apply did.
type Result struct {
	Status   Status
	Reason   Reason
	Kind     string
	Duration int
	Strength int
	// Replaced is set when an existing instance of the kind was overwritten.
	Replaced bool
}

// Accepted reports whether an instance is now attached.
func (r Result) Accepted() bool { return r.Status == Accepted }

func rejected(kind string, reason Reason) Result {
	return Result{Status: Rejected, Reason: reason, Kind: kind}
}

// ApplyOption overrides computed values, the way a caster that sets its own
// strength does.
type ApplyOption func(*applyConfig)

type applyConfig struct {
	strength *int
	duration *int
	extra    int
}

// WithStrength replaces the computed strength.
func WithStrength(s int) ApplyOption {
	return func(c *applyConfig) { c.strength = &s }
}

// WithDuration replaces the computed duration.
func WithDuration(d int) ApplyOption {
	return func(c *applyConfig) { c.duration = &d }
}

// WithExtra sets the auxiliary counter (wall countdowns).
func WithExtra(e int) ApplyOption {
	return func(c *applyConfig) { c.extra = e }
}

// TickReport summarises one tick of one actor.
type TickReport struct {
	ActorID string
	Pulsed  int
	Removed []string
	Died    bool
	Cause   model.DeathCause
}

// CancelOptions control external cancellation.
type CancelOptions struct {
	// MatchBase also removes kinds that list the name as a base effect.
	MatchBase bool
	// Permanent allows removing permanent instances.
	Permanent bool
}

// Manager tracks the active effects of one actor in insertion order.
//
// Thread-safe: all methods are protected by sync.Mutex. Compute and pulse
// handlers run with the lock held and reach the list through Env.Effects.
type Manager struct {
	mu        sync.Mutex
	actor     model.Actor
	instances []*Instance
	hooks     hooks
}

// NewManager creates an empty manager for actor.
func NewManager(actor model.Actor, hs ...Hook) *Manager {
	return &Manager{
		actor:     actor,
		instances: make([]*Instance, 0, 8),
		hooks:     hs,
	}
}

// Actor returns the owning actor.
func (m *Manager) Actor() model.Actor { return m.actor }

// Apply runs compute for def and attaches the resulting instance.
//
// Overwrite rules for an existing instance of the same kind:
//   - Bestowed by an item → never replaced
//   - New permanent → replaces a timed one
//   - Weaker → rejected
//   - Timed → never replaces a permanent one
//
// An active opposite is always removed so the two never coexist, and only
// once the new instance is known to attach. Kinds with a stat modifier
// shift the actor while attached.
//
// env must carry a random source.
func (m *Manager) Apply(env *Env, def *Definition, applier model.Applier, opts ...ApplyOption) Result {
	var cfg applyConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if applier.IsItem() && !def.ItemBestowable {
		return rejected(def.Name, ReasonNotBestowable)
	}

	env = m.bind(env)
	compute := def.compute
	if compute == nil {
		compute = computeDefault
	}
	out := compute(env, m.actor, def, applier)
	if !out.Accepted {
		slog.Debug("effect rejected",
			"actor", m.actor.ID(),
			"kind", def.Name,
			"reason", out.Reason)
		return rejected(def.Name, out.Reason)
	}

	duration := normalizeDuration(out.Duration)
	strength := out.Strength
	if cfg.duration != nil {
		duration = normalizeDuration(float64(*cfg.duration))
	}
	if cfg.strength != nil {
		strength = *cfg.strength
	}

	inst := &Instance{
		Def:         def,
		Duration:    duration,
		Strength:    strength,
		Extra:       cfg.extra,
		Applier:     applier,
		ItemSourced: applier.IsItem(),
	}

	idx := m.indexLocked(def.Kind)
	replaced := idx >= 0
	if replaced {
		existing := m.instances[idx]
		if !inst.willOverwrite(existing) {
			if existing.ItemSourced {
				return rejected(def.Name, ReasonItemHeld)
			}
			return rejected(def.Name, ReasonWeaker)
		}
		detachStatMod(m.actor, existing)
		m.instances[idx] = inst
		m.hooks.removed(m.actor, existing, RemoveReplaced)
	} else {
		m.instances = append(m.instances, inst)
	}
	m.removeOppositeLocked(env, def)
	if m.actor.IsPlayer() {
		for _, name := range def.Displaces {
			m.removeNamedLocked(env, name, RemoveDisplaced)
		}
	}
	attachStatMod(m.actor, inst)

	if !replaced {
		env.send(m.actor, def.Messages.SelfAdd)
		env.broadcast(m.actor, def.Messages.RoomAdd)
	}
	m.hooks.applied(m.actor, inst, replaced)

	slog.Debug("effect applied",
		"actor", m.actor.ID(),
		"kind", def.Name,
		"duration", duration,
		"strength", inst.Strength,
		"applier", applier.Label(),
		"replaced", replaced)

	return Result{
		Status:   Accepted,
		Kind:     def.Name,
		Duration: duration,
		Strength: inst.Strength,
		Replaced: replaced,
	}
}

// Tick advances every instance by one tick in insertion order and detaches
// the ones that ended.
func (m *Manager) Tick(env *Env) TickReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	env = m.bind(env)
	report := TickReport{ActorID: m.actor.ID()}

	type removal struct {
		inst   *Instance
		reason RemoveReason
	}
	var ended []removal
	kept := make([]*Instance, 0, len(m.instances))

	for _, inst := range m.instances {
		due := inst.Def.pulse != nil && inst.untilPulse <= 0 && inst.Duration != 0
		reason, keep := advance(env, m.actor, inst)
		if due {
			report.Pulsed++
		}
		if keep {
			kept = append(kept, inst)
			continue
		}
		ended = append(ended, removal{inst: inst, reason: reason})
	}
	m.instances = kept

	for _, r := range ended {
		m.detachedLocked(env, r.inst, r.reason)
		report.Removed = append(report.Removed, r.inst.Def.Name)
	}

	if env.death != model.DeathNone && m.actor.HP().Current() < 1 {
		report.Died = true
		report.Cause = env.death
		m.hooks.died(m.actor, env.death)
		slog.Debug("actor died from effect",
			"actor", m.actor.ID(),
			"cause", env.death)
	}
	return report
}

// Cancel removes the named kind. Permanent instances survive unless
// opts.Permanent is set. Returns the names removed.
func (m *Manager) Cancel(env *Env, name string, opts CancelOptions) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	env = m.bind(env)
	var removed []string
	m.instances = slices.DeleteFunc(m.instances, func(inst *Instance) bool {
		match := inst.Def.Name == name || (opts.MatchBase && inst.Def.hasBase(name))
		if !match || (inst.IsPermanent() && !opts.Permanent) {
			return false
		}
		removed = append(removed, inst.Def.Name)
		m.detachedLocked(env, inst, RemoveCancelled)
		return true
	})
	return removed
}

// RemoveOpposite removes the active opposite of def, permanent or not.
func (m *Manager) RemoveOpposite(env *Env, def *Definition) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeOppositeLocked(m.bind(env), def)
}

// Clear drops every instance without announcing it.
func (m *Manager) Clear() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.instances)
	for _, inst := range m.instances {
		detachStatMod(m.actor, inst)
		m.hooks.removed(m.actor, inst, RemoveCleared)
	}
	m.instances = m.instances[:0]
	return n
}

// IsAffectedBy matches an exact kind name or a base effect.
func (m *Manager) IsAffectedBy(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isAffectedLocked(name)
}

// Get returns a copy of the instance of the named kind.
func (m *Manager) Get(name string) (Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inst := range m.instances {
		if inst.Def.Name == name {
			return *inst, true
		}
	}
	return Instance{}, false
}

// Active returns copies of all instances in insertion order.
func (m *Manager) Active() []Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Instance, len(m.instances))
	for i, inst := range m.instances {
		out[i] = *inst
	}
	return out
}

// Len returns the number of active instances.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.instances)
}

// Records snapshots every instance for persistence.
func (m *Manager) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.instances))
	for i, inst := range m.instances {
		out[i] = inst.Record()
	}
	return out
}

// Restore replaces the instance list with persisted records. No compute
// runs and nothing is announced; stat modifiers are reinstalled. Unknown
// kinds are skipped and reported.
func (m *Manager) Restore(reg *Registry, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	restored := make([]*Instance, 0, len(records))
	seen := make(map[Kind]bool, len(records))
	for _, rec := range records {
		def, err := reg.Lookup(rec.Kind)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[def.Kind] {
			errs = append(errs, fmt.Errorf("duplicate record for %q", rec.Kind))
			continue
		}
		seen[def.Kind] = true

		applier := model.NoApplier()
		if rec.ItemSourced {
			applier = model.FromItem("")
		}
		restored = append(restored, &Instance{
			Def:         def,
			Duration:    normalizeDuration(float64(rec.Duration)),
			Strength:    rec.Strength,
			Extra:       rec.Extra,
			Applier:     applier,
			ItemSourced: rec.ItemSourced,
		})
	}
	for _, inst := range m.instances {
		detachStatMod(m.actor, inst)
	}
	for _, inst := range restored {
		attachStatMod(m.actor, inst)
	}
	m.instances = restored

	if len(errs) > 0 {
		slog.Warn("effects partially restored",
			"actor", m.actor.ID(),
			"restored", len(restored),
			"skipped", len(errs))
	}
	return errors.Join(errs...)
}

// --- internal, lock held ---

// bind returns a per-call copy of env whose Effects view points at this
// manager. It panics without a random source.
func (m *Manager) bind(env *Env) *Env {
	if env == nil || env.Rand == nil {
		panic(errNoRandom)
	}
	e := &Env{Rand: env.Rand, Messenger: env.Messenger}
	if e.Messenger == nil {
		e.Messenger = nopMessenger{}
	}
	e.Effects = lockedView{m: m, env: e}
	return e
}

func (m *Manager) indexLocked(k Kind) int {
	return slices.IndexFunc(m.instances, func(inst *Instance) bool { return inst.Def.Kind == k })
}

func (m *Manager) isAffectedLocked(name string) bool {
	return slices.ContainsFunc(m.instances, func(inst *Instance) bool { return inst.Def.hasBase(name) })
}

func (m *Manager) removeOppositeLocked(env *Env, def *Definition) bool {
	if def.Opposite == KindNone {
		return false
	}
	idx := m.indexLocked(def.Opposite)
	if idx < 0 {
		return false
	}
	inst := m.instances[idx]
	m.instances = slices.Delete(m.instances, idx, idx+1)
	m.detachedLocked(env, inst, RemoveOpposite)
	return true
}

func (m *Manager) removeNamedLocked(env *Env, name string, reason RemoveReason) bool {
	idx := slices.IndexFunc(m.instances, func(inst *Instance) bool { return inst.Def.Name == name })
	if idx < 0 {
		return false
	}
	inst := m.instances[idx]
	m.instances = slices.Delete(m.instances, idx, idx+1)
	m.detachedLocked(env, inst, reason)
	return true
}

// detachedLocked undoes and announces an instance that has already left the
// list.
func (m *Manager) detachedLocked(env *Env, inst *Instance, reason RemoveReason) {
	detachStatMod(m.actor, inst)
	if reason.announced() {
		env.send(m.actor, inst.Def.Messages.SelfDel)
		env.broadcast(m.actor, inst.Def.Messages.RoomDel)
	}
	m.hooks.removed(m.actor, inst, reason)

	slog.Debug("effect ended",
		"actor", m.actor.ID(),
		"kind", inst.Def.Name,
		"reason", reason)
}

// lockedView lets handlers query and edit the list while Apply or Tick holds
// the lock.
type lockedView struct {
	m   *Manager
	env *Env
}

func (v lockedView) IsAffectedBy(name string) bool { return v.m.isAffectedLocked(name) }

func (v lockedView) RemoveOpposite(def *Definition) bool {
	return v.m.removeOppositeLocked(v.env, def)
}
