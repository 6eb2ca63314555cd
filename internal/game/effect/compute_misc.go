package effect

import (
	"math"

	"github.com/udisondev/statusfx/internal/model"
)

// conBonusModifier is the health modifier contributed by constitution.
const conBonusModifier = "ConBonus"

// computeDefault accepts with the catalog defaults.
func computeDefault(_ *Env, _ model.Actor, def *Definition, _ model.Applier) Outcome {
	return accept(float64(def.DefaultDuration), def.DefaultStrength)
}

// computeNoPlayer keeps monster-only immunities off players.
func computeNoPlayer(env *Env, actor model.Actor, def *Definition, applier model.Applier) Outcome {
	if actor.IsPlayer() {
		return reject(ReasonPlayerImmune)
	}
	return computeDefault(env, actor, def, applier)
}

// computeNatural covers size changes. Item and ambient sources get a fixed
// duration and strength; a caster sets strength through apply options.
func computeNatural(env *Env, actor model.Actor, def *Definition, applier model.Applier) Outcome {
	if out, done := resolveOpposite(env, def); done {
		return out
	}
	if applier.IsActor() {
		return accept(float64(def.DefaultDuration), def.DefaultStrength)
	}
	return accept(float64(def.Tuning.ItemBase), def.Tuning.Strength)
}

// computeRegen lasts base + level*level_scale ticks.
func computeRegen(_ *Env, actor model.Actor, def *Definition, _ model.Applier) Outcome {
	t := &def.Tuning
	return accept(float64(t.Base+actor.Level()*t.LevelScale), def.DefaultStrength)
}

// computeDeathSickness starts at full strength and lasts level*level_scale.
func computeDeathSickness(_ *Env, actor model.Actor, def *Definition, _ model.Applier) Outcome {
	t := &def.Tuning
	return accept(float64(actor.Level()*t.LevelScale), t.Strength)
}

// computeBloodSac sizes the health modifier so that max health ends up at
// one and a half times its current value, net of the constitution bonus.
func computeBloodSac(_ *Env, actor model.Actor, def *Definition, _ model.Applier) Outcome {
	hp := actor.HP()
	curMax := float64(hp.Max())
	target := curMax * 1.5 / (1.0 + conBonusPercentage(actor.Stat(model.Constitution)))
	adjusted := curMax - float64(hp.Modifier(conBonusModifier))
	return accept(float64(def.DefaultDuration), int(math.Round(target)-adjusted))
}

// conBonusPercentage is the fraction of extra health granted by con.
func conBonusPercentage(con int) float64 {
	const (
		a = 0.000007672564844
		b = -0.0004485369366
		c = 0.9939294404
	)
	x := float64(con)
	return max(1.0, a*x*x+b*x+c) - 1.0
}

// computeAffliction gates lycanthropy and porphyria on the actor being able
// to transform at all.
func computeAffliction(_ *Env, actor model.Actor, def *Definition, _ model.Applier) Outcome {
	t := &def.Tuning
	if !actor.EligibleForTransformation(t.form) {
		return reject(ReasonNotEligible)
	}
	return accept(float64(t.Base), t.Strength)
}
