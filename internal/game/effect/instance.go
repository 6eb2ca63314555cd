package effect

import "github.com/udisondev/statusfx/internal/model"

// Permanent is the duration sentinel exempt from decay.
const Permanent = -1

// Instance is the live occurrence of a kind on one actor.
// Owned by the actor's Manager; only the kind's pulse and generic decay
// mutate it after creation.
type Instance struct {
	Def         *Definition
	Duration    int
	Strength    int
	Extra       int
	Applier     model.Applier
	ItemSourced bool

	// untilPulse counts ticks left before the next pulse; 0 pulses now.
	untilPulse int
}

// Name returns the kind name.
func (i *Instance) Name() string { return i.Def.Name }

// IsPermanent reports the -1 sentinel.
func (i *Instance) IsPermanent() bool { return i.Duration == Permanent }

// willOverwrite reports whether i may replace the existing instance of the
// same kind. Nothing replaces an instance an item bestowed. Otherwise a new
// permanent instance wins over a timed one, a lower strength never
// replaces, and a timed one never replaces a permanent one.
func (i *Instance) willOverwrite(existing *Instance) bool {
	if existing.ItemSourced {
		return false
	}
	if i.IsPermanent() && !existing.IsPermanent() {
		return true
	}
	if i.Strength < existing.Strength {
		return false
	}
	if existing.IsPermanent() && !i.IsPermanent() {
		return false
	}
	return true
}

// Record is the persistable form of an Instance.
type Record struct {
	Kind        string `json:"kind" yaml:"kind"`
	Duration    int    `json:"duration" yaml:"duration"`
	Strength    int    `json:"strength" yaml:"strength"`
	Extra       int    `json:"extra" yaml:"extra"`
	ItemSourced bool   `json:"item_sourced" yaml:"item_sourced"`
}

// Record snapshots the instance.
func (i *Instance) Record() Record {
	return Record{
		Kind:        i.Def.Name,
		Duration:    i.Duration,
		Strength:    i.Strength,
		Extra:       i.Extra,
		ItemSourced: i.ItemSourced,
	}
}
