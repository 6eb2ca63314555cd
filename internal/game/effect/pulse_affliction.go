package effect

import (
	"strconv"

	"github.com/udisondev/statusfx/internal/model"
	"github.com/udisondev/statusfx/internal/random"
)

var lycanthropyFlavour = []string{
	"The hair on your arms seems to grow longer.",
	"You feel a strong urge to howl at the moon.",
	"Your ears twitch.",
}

var porphyriaFlavour = []string{
	"Blood sputters through your veins.",
	"Blood drains from your head.",
	"Fever grips your mind.",
	"A sharp headache strikes you.",
}

// pulseLycanthropy grows in strength every pulse. Once duration runs down to
// the threshold the actor turns for good and the instance becomes permanent.
// A permanent instance does nothing.
func pulseLycanthropy(env *Env, actor model.Actor, inst *Instance) PulseResult {
	if inst.IsPermanent() {
		return Continue
	}

	inst.Strength++
	if env.Rand.Between(1, 5) == 1 {
		env.send(actor, random.Pick(env.Rand, lycanthropyFlavour))
	}

	t := &inst.Def.Tuning
	if inst.Duration <= t.Threshold {
		env.send(actor, "Your body suddenly tenses; undergoing a dramatic change.")
		env.send(actor, "You feel your eyes sharpen and focus, your ears flick back and your nostrils flare.")
		env.send(actor, "You throw your head back and howl at the top of your lungs.")
		env.broadcast(actor, "*ACTOR* suddenly tenses; *A-HISHER* body undergoes a dramatic change.")
		env.broadcast(actor, "*ACTOR* throws *A-HISHER* head back and howls at the top of *A-HISHER* lungs.")
		actor.Transform(t.form)
		inst.Duration = Permanent
		return Sustain
	}
	return Continue
}

// pulsePorphyria damages at random and worsens. Past the strength limit in
// darkness the actor turns and the instance ends. While the actor keeps to
// the light the instance never lapses: a low duration is extended instead.
func pulsePorphyria(env *Env, actor model.Actor, inst *Instance) PulseResult {
	t := &inst.Def.Tuning

	dmg := env.Rand.Between(1, max(2, inst.Strength/10))
	wake(actor, nightmares)
	if src, ok := actor.LastHarmfulSource().Caster(); ok && actor.IsPlayer() && src.IsPlayer() {
		dmg /= 2
	}
	dmg = max(1, dmg)

	if env.Rand.Between(0, 1) == 1 {
		inst.Strength++
		env.send(actor, random.Pick(env.Rand, porphyriaFlavour))
		env.send(actor, "You take "+strconv.Itoa(dmg)+" damage.")
		actor.HP().Decrease(dmg)
	}

	turned := false
	if (inst.Strength > t.Limit && !sunlit(actor)) || (actor.IsPlayer() && actor.HP().Current() < 1) {
		turned = true
		if actor.EligibleForTransformation(t.form) && actor.Transform(t.form) {
			if actor.IsPlayer() {
				env.send(actor, "Your body shudders, your limbs go as cold as ice!")
				env.send(actor, "Fangs suddenly grow, replacing your teeth and sending blood running down your throat!")
				env.send(actor, "You have been turned into a vampire.")
			}
			env.broadcast(actor, "*ACTOR* shudders and convulses!")
			env.broadcast(actor, "Fangs grow from *ACTOR*'s teeth!")
		}
	}

	switch {
	case actor.HP().Current() < 1:
		env.broadcast(actor, "*ACTOR* dies from porphyria!")
		env.kill(actor, model.DeathDisease)
		return Terminate
	case turned:
		return Terminate
	case inst.Duration >= 0 && inst.Duration <= t.Threshold:
		inst.Duration += t.Extend
		return Sustain
	}
	return Continue
}

// sunlit treats an actor with no room as being in darkness.
func sunlit(actor model.Actor) bool {
	room := actor.Room()
	return room != nil && room.IsSunlit()
}
