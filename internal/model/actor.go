package model

// Actor описывает минимальную поверхность игровой сущности, которую видит движок эффектов.
// Реализуется внешней моделью мира; движок только читает и мутирует её
// через эти методы.
type Actor interface {
	ID() string
	Name() string

	HP() Pool
	Stat(attr Attribute) int
	Level() int

	Class() Class
	Deity() Deity
	Species() Species
	Form() Form

	IsPlayer() bool
	IsMonster() bool
	IsUndead() bool
	// IsPrivileged reports staff characters (caretakers and above).
	IsPrivileged() bool

	// Room returns nil when the actor is not placed anywhere.
	Room() Room

	// EligibleForTransformation reports whether an affliction leading to form
	// may take hold at all.
	EligibleForTransformation(form Form) bool
	// Transform performs the one-time change into form. Returns false when the
	// actor already has that form.
	Transform(form Form) bool

	RecordDeathCause(cause DeathCause)
	// LastHarmfulSource returns whoever last poisoned or afflicted the actor.
	LastHarmfulSource() Applier
}

// Pool is a resource pool such as health.
type Pool interface {
	Current() int
	Max() int
	Increase(amount int) int
	Decrease(amount int) int
	// Modifier returns the amount a named modifier contributes to Max.
	Modifier(name string) int
	// SetModifier sets a named modifier on Max; amount 0 clears it.
	SetModifier(name string, amount int)
}

// Room is the read-only view of an actor's location.
type Room interface {
	ID() string
	HasMagicBonus() bool
	IsSunlit() bool
	IsForest() bool
}

// Waker is implemented by actors that can sleep.
type Waker interface {
	Wake(reason string)
}

// Stunner is implemented by actors that can be stunned for a number of ticks.
type Stunner interface {
	Stun(ticks int)
}

// Hider is implemented by actors that can hide.
type Hider interface {
	Unhide()
}

// StatModifier is implemented by actors whose attributes take named
// modifiers. Stat reports the base value plus every modifier.
type StatModifier interface {
	// SetStatModifier sets the named modifier on attr; amount 0 clears it.
	SetStatModifier(attr Attribute, name string, amount int)
	StatModifier(attr Attribute, name string) int
}

// ThreatTracker is implemented by monsters that keep an enemy list.
// Damage from periodic effects is credited to the original applier.
type ThreatTracker interface {
	AddThreat(source Actor, amount int)
}
