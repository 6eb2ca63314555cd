package model

import "sync"

// HealthPool хранит здоровье с именованными модификаторами максимума.
//
// Thread-safe: all methods are protected by sync.RWMutex.
type HealthPool struct {
	mu        sync.RWMutex
	current   int
	base      int
	modifiers map[string]int
}

// NewHealthPool creates a full pool with the given base maximum.
func NewHealthPool(max int) *HealthPool {
	return &HealthPool{current: max, base: max, modifiers: make(map[string]int)}
}

// Current returns current HP.
func (p *HealthPool) Current() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Max returns base maximum plus all modifiers.
func (p *HealthPool) Max() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.maxLocked()
}

func (p *HealthPool) maxLocked() int {
	total := p.base
	for _, v := range p.modifiers {
		total += v
	}
	return total
}

// Increase adds amount, clamped to Max. Returns the new current value.
func (p *HealthPool) Increase(amount int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = min(p.current+amount, p.maxLocked())
	return p.current
}

// Decrease subtracts amount, never below 0. Returns the new current value.
func (p *HealthPool) Decrease(amount int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = max(p.current-amount, 0)
	return p.current
}

// SetCurrent sets current HP, clamped to [0, Max].
func (p *HealthPool) SetCurrent(hp int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = max(0, min(hp, p.maxLocked()))
}

// Modifier returns the amount contributed by a named modifier.
func (p *HealthPool) Modifier(name string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modifiers[name]
}

// SetModifier sets or clears (amount 0) a named modifier.
func (p *HealthPool) SetModifier(name string, amount int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if amount == 0 {
		delete(p.modifiers, name)
	} else {
		p.modifiers[name] = amount
	}
	p.current = min(p.current, p.maxLocked())
}

// CreatureSpec holds construction parameters for NewCreature.
type CreatureSpec struct {
	ID         string
	Name       string
	Level      int
	MaxHP      int
	Class      Class
	Deity      Deity
	Species    Species
	Player     bool
	Privileged bool
	Stats      map[Attribute]int
	Room       Room
}

// Creature является in-memory реализацией Actor.
// Используется симулятором и тестами; настоящий мир подставляет свою модель.
type Creature struct {
	mu sync.RWMutex

	id         string
	name       string
	level      int
	class      Class
	deity      Deity
	species    Species
	form       Form
	player     bool
	privileged bool
	stats      map[Attribute]int
	statMods   map[Attribute]map[string]int
	hp         *HealthPool
	room       Room

	deathCause  DeathCause
	lastHarmful Applier

	sleeping     bool
	hidden       bool
	stunnedTicks int
	threat       map[string]int
	blocked      map[Form]bool
	transformed  int
}

var (
	_ Actor        = (*Creature)(nil)
	_ StatModifier = (*Creature)(nil)
	_ Pool         = (*HealthPool)(nil)
)

// NewCreature creates a creature in normal form with full health.
// Missing stats default to 100.
func NewCreature(spec CreatureSpec) *Creature {
	stats := make(map[Attribute]int, 5)
	for _, a := range []Attribute{Strength, Dexterity, Constitution, Intelligence, Piety} {
		stats[a] = 100
	}
	for a, v := range spec.Stats {
		stats[a] = v
	}
	return &Creature{
		id:         spec.ID,
		name:       spec.Name,
		level:      spec.Level,
		class:      spec.Class,
		deity:      spec.Deity,
		species:    spec.Species,
		player:     spec.Player,
		privileged: spec.Privileged,
		stats:      stats,
		statMods:   make(map[Attribute]map[string]int),
		hp:         NewHealthPool(spec.MaxHP),
		room:       spec.Room,
		threat:     make(map[string]int),
		blocked:    make(map[Form]bool),
	}
}

func (c *Creature) ID() string   { return c.id }
func (c *Creature) Name() string { return c.name }
func (c *Creature) HP() Pool     { return c.hp }

// Health returns the concrete pool (for setup code that needs SetCurrent).
func (c *Creature) Health() *HealthPool { return c.hp }

func (c *Creature) Stat(attr Attribute) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := c.stats[attr]
	for _, v := range c.statMods[attr] {
		total += v
	}
	return total
}

func (c *Creature) SetStatModifier(attr Attribute, name string, amount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if amount == 0 {
		delete(c.statMods[attr], name)
		return
	}
	mods, ok := c.statMods[attr]
	if !ok {
		mods = make(map[string]int)
		c.statMods[attr] = mods
	}
	mods[name] = amount
}

func (c *Creature) StatModifier(attr Attribute, name string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statMods[attr][name]
}

// SetStat overrides the base value of a single attribute.
func (c *Creature) SetStat(attr Attribute, v int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats[attr] = v
}

func (c *Creature) Level() int         { return c.level }
func (c *Creature) Class() Class       { return c.class }
func (c *Creature) Deity() Deity       { return c.deity }
func (c *Creature) Species() Species   { return c.species }
func (c *Creature) IsPlayer() bool     { return c.player }
func (c *Creature) IsMonster() bool    { return !c.player }
func (c *Creature) IsUndead() bool     { return c.species == SpeciesUndead }
func (c *Creature) IsPrivileged() bool { return c.privileged }

func (c *Creature) Form() Form {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.form
}

func (c *Creature) Room() Room {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.room
}

// MoveTo places the creature in room (nil removes it from the world).
func (c *Creature) MoveTo(room Room) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = room
}

// BlockTransformation marks the creature as never eligible for form.
func (c *Creature) BlockTransformation(form Form) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocked[form] = true
}

// EligibleForTransformation: only living creatures in normal form, and never staff.
func (c *Creature) EligibleForTransformation(form Form) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if form == FormNormal || c.privileged || c.species == SpeciesUndead {
		return false
	}
	return c.form == FormNormal && !c.blocked[form]
}

// Transform is idempotent: a second call for the same form returns false.
func (c *Creature) Transform(form Form) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form == form {
		return false
	}
	c.form = form
	c.transformed++
	return true
}

// Transformations returns how many times the creature changed form.
func (c *Creature) Transformations() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.transformed
}

func (c *Creature) RecordDeathCause(cause DeathCause) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deathCause = cause
}

// DeathCause returns the last recorded death cause.
func (c *Creature) DeathCause() DeathCause {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deathCause
}

func (c *Creature) LastHarmfulSource() Applier {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastHarmful
}

// SetLastHarmfulSource records who poisoned or afflicted the creature.
func (c *Creature) SetLastHarmfulSource(a Applier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastHarmful = a
}

// --- optional capabilities ---

// Sleep puts the creature to sleep.
func (c *Creature) Sleep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeping = true
}

// IsSleeping reports whether the creature is asleep.
func (c *Creature) IsSleeping() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sleeping
}

func (c *Creature) Wake(string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeping = false
}

func (c *Creature) Stun(ticks int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stunnedTicks = max(c.stunnedTicks, ticks)
}

// StunnedTicks returns the remaining stun.
func (c *Creature) StunnedTicks() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stunnedTicks
}

// Hide hides the creature.
func (c *Creature) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hidden = true
}

func (c *Creature) Unhide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hidden = false
}

// IsHidden reports whether the creature is hidden.
func (c *Creature) IsHidden() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hidden
}

func (c *Creature) AddThreat(source Actor, amount int) {
	if source == nil || amount <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.threat[source.ID()] += amount
}

// Threat returns accumulated threat for an actor ID.
func (c *Creature) Threat(actorID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.threat[actorID]
}
