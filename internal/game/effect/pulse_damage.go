package effect

import (
	"strconv"

	"github.com/udisondev/statusfx/internal/model"
)

// Constitution mitigation curve: full damage at or below mitigationFloor,
// linearly falling to nothing at mitigationCeil. Final damage is never
// below 1.
const (
	mitigationFloor = 120
	mitigationCeil  = 680
)

const nightmares = "Terrible nightmares disturb your sleep!"

// mitigate applies the constitution curve to a raw damage draw.
func mitigate(dmg, con int) int {
	if con > mitigationFloor {
		pct := 1.0 - float64(con-mitigationFloor)/float64(mitigationCeil-mitigationFloor)
		dmg = int(max(pct, 0) * float64(dmg))
	}
	return max(1, dmg)
}

func pulsePoison(env *Env, actor model.Actor, inst *Instance) PulseResult {
	wake(actor, nightmares)
	env.send(actor, "Poison courses through your veins.")
	env.broadcast(actor, "Poison courses through *LOW-ACTOR*'s veins.")

	dmg := mitigate(inst.Strength+env.Rand.Between(1, 3), actor.Stat(model.Constitution))
	actor.HP().Decrease(dmg)
	creditPoisoner(actor, dmg)

	if actor.HP().Current() < 1 {
		env.broadcast(actor, "*ACTOR* drops dead from poison.")
		env.kill(actor, poisonDeathCause(actor))
		return Terminate
	}
	return Continue
}

// creditPoisoner adds threat on a monster toward the player who poisoned it.
// Followers of the spider god get full credit.
func creditPoisoner(actor model.Actor, dmg int) {
	if !actor.IsMonster() {
		return
	}
	tracker, ok := actor.(model.ThreatTracker)
	if !ok {
		return
	}
	src, ok := actor.LastHarmfulSource().Caster()
	if !ok || !src.IsPlayer() {
		return
	}
	threat := dmg
	if src.Deity() != model.DeityArachnus {
		threat /= 2
	}
	tracker.AddThreat(src, threat)
}

func poisonDeathCause(actor model.Actor) model.DeathCause {
	if !actor.IsPlayer() {
		return model.DeathPoisonGeneral
	}
	src, ok := actor.LastHarmfulSource().Caster()
	switch {
	case !ok:
		return model.DeathPoisonGeneral
	case src.IsPlayer():
		return model.DeathPoisonPlayer
	default:
		return model.DeathPoisonMonster
	}
}

func pulseDisease(env *Env, actor model.Actor, inst *Instance) PulseResult {
	wake(actor, nightmares)
	env.send(actor, "You feel nauseous.\nFever grips your mind.")
	env.broadcast(actor, "Fever grips *LOW-ACTOR*.")

	dmg := mitigate(inst.Strength+env.Rand.Between(1, 3), actor.Stat(model.Constitution))
	actor.HP().Decrease(dmg)

	if actor.HP().Current() < 1 {
		env.broadcast(actor, "*ACTOR* dies from disease.")
		env.kill(actor, model.DeathDisease)
		return Terminate
	}
	return Continue
}

// pulseFestering scales with the actor's maximum health.
func pulseFestering(env *Env, actor model.Actor, _ *Instance) PulseResult {
	maxHP := actor.HP().Max()
	dmg := env.Rand.Between(1+maxHP/30, 1+maxHP/20)
	dmg = mitigate(dmg, actor.Stat(model.Constitution))

	wake(actor, nightmares)
	env.send(actor, "Your wounds fester and bleed for "+strconv.Itoa(dmg)+" damage.")
	env.broadcast(actor, "*ACTOR*'s wounds fester and bleed.")
	actor.HP().Decrease(dmg)

	if actor.HP().Current() < 1 {
		env.broadcast(actor, "*ACTOR* dies from cursed wounds.")
		env.kill(actor, model.DeathWounded)
		return Terminate
	}
	return Continue
}

// pulseCreepingDoom spares arachnids and followers of the spider god.
func pulseCreepingDoom(env *Env, actor model.Actor, inst *Instance) PulseResult {
	if actor.Species() == model.SpeciesArachnid || actor.Deity() == model.DeityArachnus {
		return Continue
	}

	wake(actor, nightmares)
	dmg := mitigate(inst.Strength/2+env.Rand.Between(1, 3), actor.Stat(model.Constitution))
	env.send(actor, "Cursed spiders crawl all over your body and bite you for "+strconv.Itoa(dmg)+" damage.")
	env.broadcast(actor, "Cursed spiders crawl all over *ACTOR*.")
	actor.HP().Decrease(dmg)

	if actor.HP().Current() < 1 {
		env.send(actor, "The cursed spiders devour you!")
		env.broadcast(actor, "Cursed spiders devour *ACTOR*!")
		env.kill(actor, model.DeathCreepingDoom)
		return Terminate
	}
	return Continue
}

func wake(actor model.Actor, reason string) {
	if w, ok := actor.(model.Waker); ok {
		w.Wake(reason)
	}
}
