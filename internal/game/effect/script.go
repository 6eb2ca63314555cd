package effect

import (
	"log/slog"
	"math"

	"github.com/Shopify/go-lua"

	"github.com/udisondev/statusfx/internal/model"
)

const scriptInstructionBudget = 100_000

const sandboxPrelude = `
math.random = nil
math.randomseed = nil
dofile = nil
loadfile = nil
load = nil
loadstring = nil
require = nil
print = nil
`

// computeScript evaluates the kind's Lua snippet.
//
// Globals visible to the script:
//
//	target   table: level, strength, dexterity, constitution, intelligence,
//	         piety, player, undead, privileged
//	caster   same shape as target, nil unless an actor applied the effect
//	source   "none" | "item" | "actor"
//	rand     rand(lo, hi) draws from the engine's random source
//	duration, strength, accept   preset to catalog defaults; read back after
//
// Only the base and math libraries are loaded. Functions that reach the file
// system or compile new chunks are removed along with math.random, and a
// script that runs past scriptInstructionBudget instructions fails.
func computeScript(env *Env, actor model.Actor, def *Definition, applier model.Applier) Outcome {
	state := lua.NewState()
	lua.Require(state, "_G", lua.BaseOpen, true)
	state.Pop(1)
	lua.Require(state, "math", lua.MathOpen, true)
	state.Pop(1)
	if err := lua.DoString(state, sandboxPrelude); err != nil {
		slog.Warn("script sandbox setup failed", "kind", def.Name, "error", err)
		return reject(ReasonScriptError)
	}

	pushActorTable(state, actor)
	state.SetGlobal("target")
	if caster, ok := applier.Caster(); ok {
		pushActorTable(state, caster)
	} else {
		state.PushNil()
	}
	state.SetGlobal("caster")
	state.PushString(applier.Kind.String())
	state.SetGlobal("source")

	state.Register("rand", func(state *lua.State) int {
		lo := lua.CheckInteger(state, 1)
		hi := lua.CheckInteger(state, 2)
		state.PushInteger(env.Rand.Between(lo, hi))
		return 1
	})

	state.PushInteger(def.DefaultDuration)
	state.SetGlobal("duration")
	state.PushInteger(def.DefaultStrength)
	state.SetGlobal("strength")
	state.PushBoolean(true)
	state.SetGlobal("accept")

	lua.SetDebugHook(state, func(state *lua.State, _ lua.Debug) {
		lua.Errorf(state, "instruction budget of %d exhausted", scriptInstructionBudget)
	}, lua.MaskCount, scriptInstructionBudget)
	if err := lua.DoString(state, def.Script); err != nil {
		slog.Warn("effect script failed", "kind", def.Name, "error", err)
		return reject(ReasonScriptError)
	}

	state.Global("accept")
	accepted := state.ToBoolean(-1)
	state.Pop(1)
	if !accepted {
		return reject(ReasonScriptRejected)
	}

	duration := numberGlobal(state, "duration", float64(def.DefaultDuration))
	strength := numberGlobal(state, "strength", float64(def.DefaultStrength))
	return accept(duration, int(math.Trunc(strength)))
}

func numberGlobal(state *lua.State, name string, fallback float64) float64 {
	state.Global(name)
	defer state.Pop(1)
	if v, ok := state.ToNumber(-1); ok {
		return v
	}
	return fallback
}

func pushActorTable(state *lua.State, a model.Actor) {
	state.NewTable()
	state.PushInteger(a.Level())
	state.SetField(-2, "level")
	for _, attr := range []model.Attribute{
		model.Strength, model.Dexterity, model.Constitution, model.Intelligence, model.Piety,
	} {
		state.PushInteger(a.Stat(attr))
		state.SetField(-2, attr.String())
	}
	state.PushBoolean(a.IsPlayer())
	state.SetField(-2, "player")
	state.PushBoolean(a.IsUndead())
	state.SetField(-2, "undead")
	state.PushBoolean(a.IsPrivileged())
	state.SetField(-2, "privileged")
}
