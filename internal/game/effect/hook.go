package effect

import "github.com/udisondev/statusfx/internal/model"

// RemoveReason says why an instance left an actor.
type RemoveReason uint8

const (
	RemoveExpired    RemoveReason = iota + 1 // duration ran out
	RemoveTerminated                         // pulse returned Terminate
	RemoveCancelled                          // external cure or cancel
	RemoveOpposite                           // an opposite kind displaced it
	RemoveReplaced                           // a stronger instance of the same kind
	RemoveCleared                            // actor left the simulation
	RemoveDisplaced                          // a related kind took its place
)

func (r RemoveReason) String() string {
	switch r {
	case RemoveExpired:
		return "expired"
	case RemoveTerminated:
		return "terminated"
	case RemoveCancelled:
		return "cancelled"
	case RemoveOpposite:
		return "opposite"
	case RemoveReplaced:
		return "replaced"
	case RemoveCleared:
		return "cleared"
	case RemoveDisplaced:
		return "displaced"
	default:
		return "unknown"
	}
}

// announced reports whether removal messages go out for this reason.
func (r RemoveReason) announced() bool {
	return r != RemoveReplaced && r != RemoveCleared
}

// Hook observes lifecycle events. Hooks run while the actor's manager is
// locked and must not call back into the engine for the same actor.
type Hook interface {
	EffectApplied(actor model.Actor, inst Instance, replaced bool)
	EffectRemoved(actor model.Actor, inst Instance, reason RemoveReason)
	ActorDied(actor model.Actor, cause model.DeathCause)
}

type hooks []Hook

func (hs hooks) applied(actor model.Actor, inst *Instance, replaced bool) {
	for _, h := range hs {
		h.EffectApplied(actor, *inst, replaced)
	}
}

func (hs hooks) removed(actor model.Actor, inst *Instance, reason RemoveReason) {
	for _, h := range hs {
		h.EffectRemoved(actor, *inst, reason)
	}
}

func (hs hooks) died(actor model.Actor, cause model.DeathCause) {
	for _, h := range hs {
		h.ActorDied(actor, cause)
	}
}
