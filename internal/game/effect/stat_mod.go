package effect

import (
	"errors"
	"fmt"

	"github.com/udisondev/statusfx/internal/model"
)

// Bounds a stat modifier may push an attribute or maximum health to.
const (
	minStat      = 10
	maxStat      = 400
	minHealthMax = 1
	maxHealthMax = 30000
)

// StatMod describes the attribute a kind shifts while it is attached.
// The shift is the instance strength, keyed by kind name.
type StatMod struct {
	// Health targets maximum health instead of an attribute.
	Health bool
	Attr   model.Attribute
	// Lowers forces a non-negative strength to count downwards.
	Lowers bool
}

func parseStatMod(target string, lowers bool) (*StatMod, error) {
	switch target {
	case "":
		if lowers {
			return nil, errors.New("lowers without modifies")
		}
		return nil, nil
	case "health":
		return &StatMod{Health: true, Lowers: lowers}, nil
	}
	attr, ok := model.ParseAttribute(target)
	if !ok {
		return nil, fmt.Errorf("unknown attribute %q", target)
	}
	return &StatMod{Attr: attr, Lowers: lowers}, nil
}

// attachStatMod installs the instance's modifier on the actor. The amount is
// clamped so the result stays within bounds, and the clamped amount becomes
// the instance strength.
func attachStatMod(actor model.Actor, inst *Instance) {
	mod := inst.Def.StatMod
	if mod == nil {
		return
	}
	amount := inst.Strength
	if mod.Lowers && amount > 0 {
		amount = -amount
	}

	name := inst.Def.Name
	if mod.Health {
		hp := actor.HP()
		base := hp.Max() - hp.Modifier(name)
		amount = clampShift(amount, base, minHealthMax, maxHealthMax)
		hp.SetModifier(name, amount)
		inst.Strength = amount
		return
	}

	sm, ok := actor.(model.StatModifier)
	if !ok {
		return
	}
	base := actor.Stat(mod.Attr) - sm.StatModifier(mod.Attr, name)
	amount = clampShift(amount, base, minStat, maxStat)
	sm.SetStatModifier(mod.Attr, name, amount)
	inst.Strength = amount
}

// detachStatMod drops the instance's modifier from the actor.
func detachStatMod(actor model.Actor, inst *Instance) {
	mod := inst.Def.StatMod
	if mod == nil {
		return
	}
	if mod.Health {
		actor.HP().SetModifier(inst.Def.Name, 0)
		return
	}
	if sm, ok := actor.(model.StatModifier); ok {
		sm.SetStatModifier(mod.Attr, inst.Def.Name, 0)
	}
}

// clampShift limits amount so base+amount stays within [lo, hi].
func clampShift(amount, base, lo, hi int) int {
	return max(min(amount, hi-base), lo-base)
}
