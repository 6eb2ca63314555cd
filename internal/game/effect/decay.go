package effect

import (
	"math"

	"github.com/udisondev/statusfx/internal/model"
)

// fallbackDuration replaces a computed timed duration that came out below
// the permanent sentinel.
const fallbackDuration = 60

// normalizeDuration truncates a computed duration toward zero. Anything
// below -1 is not a valid tick count and becomes fallbackDuration.
func normalizeDuration(d float64) int {
	n := int(math.Trunc(d))
	if n < Permanent {
		return fallbackDuration
	}
	return n
}

// advance runs one tick for inst: the pulse when it is due, then generic
// decay after a Continue. It reports whether the instance stays attached
// and, if not, why.
func advance(env *Env, actor model.Actor, inst *Instance) (RemoveReason, bool) {
	if inst.Duration == 0 {
		return RemoveExpired, false
	}

	result := Continue
	if pulse := inst.Def.pulse; pulse != nil {
		if inst.untilPulse <= 0 {
			result = pulse(env, actor, inst)
			inst.untilPulse = inst.Def.PulseEvery - 1
		} else {
			inst.untilPulse--
		}
	}

	// Handlers may only leave -1 or a non-negative count behind.
	if inst.Duration < Permanent {
		inst.Duration = 0
	}

	switch result {
	case Terminate:
		return RemoveTerminated, false
	case Continue:
		decay(inst)
	}

	if inst.Duration == 0 {
		return RemoveExpired, false
	}
	return 0, true
}

// decay takes one tick off a timed instance. Permanent instances are exempt.
func decay(inst *Instance) {
	if inst.Duration > 0 {
		inst.Duration--
	}
}
