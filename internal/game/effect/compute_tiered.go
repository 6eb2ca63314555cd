package effect

import (
	"github.com/udisondev/statusfx/internal/model"
)

// baselineIntelligence is the intelligence at which a caster gets no bonus.
const baselineIntelligence = 140

// computeTiered serves every family whose duration is a flat item base, or a
// caster base plus an intelligence-scaled bonus, class bonus, room bonus and
// floors. The per-kind numbers come from the catalog tuning.
func computeTiered(env *Env, actor model.Actor, def *Definition, applier model.Applier) Outcome {
	t := &def.Tuning

	if out, done := resolveOpposite(env, def); done {
		return out
	}
	if t.UndeadImmune && actor.IsUndead() {
		return reject(ReasonSpeciesImmune)
	}

	var duration float64
	if caster, ok := applier.Caster(); ok {
		duration = float64(casterDuration(t, caster))
		if applier.Is(actor) {
			duration = max(duration, float64(t.SelfFloor))
		} else {
			duration = max(duration, float64(t.OtherFloor))
		}
	} else {
		duration = float64(t.ItemBase)
	}

	if t.DivideIf != "" && t.Divisor > 0 && env.affected(t.DivideIf) {
		duration /= float64(t.Divisor)
	}
	return accept(duration, t.Strength)
}

func casterDuration(t *Tuning, caster model.Actor) int {
	bonus := (caster.Stat(model.Intelligence) - baselineIntelligence) * t.IntScale
	if t.Clamp {
		bonus = max(t.BonusMin, min(t.BonusMax, bonus))
	}
	d := t.Base + bonus
	if t.hasClass(caster.Class()) || (t.Privileged && caster.IsPrivileged()) {
		d += t.LevelScale * caster.Level()
	}
	d = max(d, t.Floor)
	if room := caster.Room(); room != nil && room.HasMagicBonus() {
		d += t.RoomBonus
	}
	return d
}

// resolveOpposite applies the "reject" opposite policy: an active opposite
// is removed and the new application is refused (cancel, don't replace).
// Kinds with "remove" leave the opposite to the manager, which removes it
// only once the new instance attaches.
func resolveOpposite(env *Env, def *Definition) (Outcome, bool) {
	if def.Opposite == KindNone || env.Effects == nil || def.Tuning.OnOpposite != "reject" {
		return Outcome{}, false
	}
	if env.Effects.RemoveOpposite(def) {
		return reject(ReasonOppositeCured), true
	}
	return Outcome{}, false
}

// computeDarkInfra scales with the caster's level. Items and ambient sources
// count the target as its own caster.
func computeDarkInfra(env *Env, actor model.Actor, def *Definition, applier model.Applier) Outcome {
	t := &def.Tuning
	caster, ok := applier.Caster()
	if !ok {
		caster = actor
	}

	duration := float64(t.Base + caster.Level()*t.LevelScale)
	if room := caster.Room(); room != nil && room.HasMagicBonus() {
		duration += float64(t.RoomBonus)
	}
	if t.DeityScaled && !caster.IsPrivileged() {
		switch caster.Deity() {
		case model.DeityEnoch:
			duration = duration * 2 / 3
		case model.DeityArachnus:
			duration = duration * 3 / 2
		}
	}

	if caster.ID() == actor.ID() {
		duration = max(duration, float64(t.SelfFloor))
	} else {
		duration = max(duration, float64(t.OtherFloor))
	}
	return accept(duration, t.Strength)
}
