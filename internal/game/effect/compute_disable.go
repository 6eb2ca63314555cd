package effect

import (
	"github.com/udisondev/statusfx/internal/model"
)

// Disable kinds use draws or attribute offsets instead of the tiered formula.

func computePetrify(_ *Env, _ model.Actor, def *Definition, _ model.Applier) Outcome {
	return accept(Permanent, def.DefaultStrength)
}

// computeHold: item rand(item_min, item_max); caster rand(min, max) shifted
// by how the caster's intelligence compares to the target's will.
func computeHold(env *Env, actor model.Actor, def *Definition, applier model.Applier) Outcome {
	t := &def.Tuning
	caster, ok := applier.Caster()
	if !ok {
		return accept(float64(env.Rand.Between(t.ItemMin, t.ItemMax)), def.DefaultStrength)
	}
	will := float64(actor.Stat(model.Intelligence)+actor.Stat(model.Piety)) / 2
	offset := (float64(caster.Stat(model.Intelligence)*2) - will - baselineIntelligence) / 20
	return accept(float64(env.Rand.Between(t.Min, t.Max))+offset, def.DefaultStrength)
}

func computeConfusion(_ *Env, _ model.Actor, def *Definition, applier model.Applier) Outcome {
	t := &def.Tuning
	caster, ok := applier.Caster()
	if !ok {
		return accept(float64(t.ItemBase), def.DefaultStrength)
	}
	return accept(float64(max(t.Floor, caster.Stat(model.Intelligence))), def.DefaultStrength)
}

// computeBlindness shortens with the target's constitution.
func computeBlindness(_ *Env, actor model.Actor, def *Definition, _ model.Applier) Outcome {
	return accept(float64(def.Tuning.Base)-float64(actor.Stat(model.Constitution))/10, def.DefaultStrength)
}
