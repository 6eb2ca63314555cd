package effect

import (
	"github.com/udisondev/statusfx/internal/model"
	"github.com/udisondev/statusfx/internal/random"
)

// ComputeFunc decides at application time whether a kind takes hold and with
// what duration and strength.
type ComputeFunc func(env *Env, actor model.Actor, def *Definition, applier model.Applier) Outcome

// PulseFunc runs once every PulseEvery ticks for a live instance.
type PulseFunc func(env *Env, actor model.Actor, inst *Instance) PulseResult

// PulseResult is the per-tick verdict of a pulse handler.
type PulseResult uint8

const (
	// Continue keeps the instance; generic decay applies.
	Continue PulseResult = iota
	// Sustain keeps the instance; the handler already managed duration this
	// tick, so decay is skipped.
	Sustain
	// Terminate detaches the instance.
	Terminate
)

func (r PulseResult) String() string {
	switch r {
	case Sustain:
		return "sustain"
	case Terminate:
		return "terminate"
	default:
		return "continue"
	}
}

// Reason explains a rejected application.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonUnknownKind    Reason = "unknown-kind"
	ReasonNotBestowable  Reason = "not-item-bestowable"
	ReasonOppositeCured  Reason = "opposite-cancelled"
	ReasonSpeciesImmune  Reason = "species-immune"
	ReasonPlayerImmune   Reason = "player-immune"
	ReasonNotEligible    Reason = "not-eligible"
	ReasonWeaker         Reason = "weaker-than-existing"
	ReasonItemHeld       Reason = "held-by-item"
	ReasonScriptRejected Reason = "script-rejected"
	ReasonScriptError    Reason = "script-error"
)

// Outcome is the result of a compute handler. Duration is fractional; the
// manager truncates it toward zero for every kind.
type Outcome struct {
	Accepted bool
	Duration float64
	Strength int
	Reason   Reason
}

func accept(duration float64, strength int) Outcome {
	return Outcome{Accepted: true, Duration: duration, Strength: strength}
}

func reject(reason Reason) Outcome {
	return Outcome{Reason: reason}
}

// Messenger delivers raw text templates. Delivery is fire-and-forget.
type Messenger interface {
	// Send delivers text to one actor.
	Send(to model.Actor, text string)
	// Broadcast delivers text to everyone in room except about.
	Broadcast(room model.Room, about model.Actor, text string)
}

type nopMessenger struct{}

func (nopMessenger) Send(model.Actor, string)                 {}
func (nopMessenger) Broadcast(model.Room, model.Actor, string) {}

// Effects is the view of an actor's active effects available to handlers.
type Effects interface {
	// IsAffectedBy matches an exact kind name or a base effect.
	IsAffectedBy(name string) bool
	// RemoveOpposite removes the active opposite of def, reporting whether
	// anything was removed.
	RemoveOpposite(def *Definition) bool
}

// Env is the per-call context handed to every compute and pulse handler.
type Env struct {
	Rand      random.Source
	Messenger Messenger
	Effects   Effects

	death model.DeathCause
}

func (e *Env) send(to model.Actor, text string) {
	if text == "" || e.Messenger == nil {
		return
	}
	e.Messenger.Send(to, text)
}

// broadcast is skipped when the actor has no room.
func (e *Env) broadcast(about model.Actor, text string) {
	if text == "" || e.Messenger == nil {
		return
	}
	room := about.Room()
	if room == nil {
		return
	}
	e.Messenger.Broadcast(room, about, text)
}

func (e *Env) affected(name string) bool {
	return name != "" && e.Effects != nil && e.Effects.IsAffectedBy(name)
}

// kill records the cause on the actor and marks the tick as fatal.
func (e *Env) kill(actor model.Actor, cause model.DeathCause) {
	actor.RecordDeathCause(cause)
	e.death = cause
}
