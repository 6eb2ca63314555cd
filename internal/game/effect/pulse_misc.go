package effect

import (
	"slices"

	"github.com/udisondev/statusfx/internal/model"
	"github.com/udisondev/statusfx/internal/random"
)

// pulseDeathSickness makes the actor retch now and then and fades strength
// toward zero over the remaining duration, announcing the 75/50/25 marks.
func pulseDeathSickness(env *Env, actor model.Actor, inst *Instance) PulseResult {
	strength := inst.Strength

	if !env.affected(inst.Def.Tuning.SuppressedBy) && random.Chance(env.Rand, strength/2) {
		wake(actor, "A strong urge to vomit wakes you!")
		env.send(actor, "Your death-sickness causes you to vomit. EWWW.")
		if h, ok := actor.(model.Hider); ok {
			h.Unhide()
		}
		if random.Chance(env.Rand, 50) {
			if s, ok := actor.(model.Stunner); ok {
				s.Stun(env.Rand.Between(0, 2))
			}
			env.send(actor, "You become disoriented.")
		}
		env.broadcast(actor, "*ACTOR* vomits all over the ground.")
	}

	next := float64(strength)
	if strength != 0 && inst.Duration > 0 {
		next = float64(strength) - float64(strength)/float64(inst.Duration)*20
	}

	switch {
	case strength > 75 && next <= 75:
		env.send(actor, "You feel a little better.")
		env.broadcast(actor, "*ACTOR* looks a little better.")
	case strength > 50 && next <= 50:
		env.send(actor, "You feel better.")
		env.broadcast(actor, "*ACTOR* looks better.")
	case strength > 25 && next <= 25:
		env.send(actor, "You are nearly recovered.")
		env.broadcast(actor, "*ACTOR* looks nearly recovered.")
	}

	inst.Strength = int(min(max(next, 0), 100))
	return Continue
}

// pulseWall counts extra down independently of duration and announces the
// wall to the room once when it reaches zero.
func pulseWall(env *Env, actor model.Actor, inst *Instance) PulseResult {
	if inst.Extra > 0 {
		inst.Extra--
		if inst.Extra == 0 {
			env.broadcast(actor, inst.Def.Messages.RoomAdd)
		}
	}
	return Continue
}

// pulseCamouflage holds duration at the floor while a druid stays in the
// forest.
func pulseCamouflage(_ *Env, actor model.Actor, inst *Instance) PulseResult {
	t := &inst.Def.Tuning
	if inst.IsPermanent() || inst.Duration > t.Threshold {
		return Continue
	}
	room := actor.Room()
	if room == nil || !room.IsForest() || !slices.Contains(t.sustainClasses, actor.Class()) {
		return Continue
	}
	inst.Duration = t.Threshold
	return Sustain
}

// pulseHold ends the hold as soon as the actor gains free movement.
func pulseHold(env *Env, _ model.Actor, inst *Instance) PulseResult {
	if env.affected(inst.Def.Tuning.BrokenBy) {
		return Terminate
	}
	return Continue
}
