package model

// ApplierKind tags the origin of an effect.
type ApplierKind uint8

const (
	ApplierNone  ApplierKind = iota // ambient or unknown
	ApplierItem                     // potion, wand, worn object
	ApplierActor                    // live caster
)

func (k ApplierKind) String() string {
	switch k {
	case ApplierItem:
		return "item"
	case ApplierActor:
		return "actor"
	default:
		return "none"
	}
}

// Applier describes what caused an effect.
// Value type; Actor is set only for ApplierActor, Item only for ApplierItem.
type Applier struct {
	Kind  ApplierKind
	Actor Actor
	Item  string
}

// NoApplier returns an ambient applier.
func NoApplier() Applier { return Applier{} }

// FromItem returns an item-sourced applier.
func FromItem(name string) Applier {
	return Applier{Kind: ApplierItem, Item: name}
}

// FromActor returns an actor-sourced applier. A nil actor yields NoApplier.
func FromActor(a Actor) Applier {
	if a == nil {
		return NoApplier()
	}
	return Applier{Kind: ApplierActor, Actor: a}
}

// Caster returns the applying actor, if the effect was cast by one.
func (a Applier) Caster() (Actor, bool) {
	if a.Kind != ApplierActor || a.Actor == nil {
		return nil, false
	}
	return a.Actor, true
}

// IsItem reports an inanimate origin.
func (a Applier) IsItem() bool { return a.Kind == ApplierItem }

// IsActor reports a live caster.
func (a Applier) IsActor() bool {
	_, ok := a.Caster()
	return ok
}

// Is reports whether the applier is the given actor.
func (a Applier) Is(actor Actor) bool {
	c, ok := a.Caster()
	return ok && actor != nil && c.ID() == actor.ID()
}

// Label returns a stable identifier for logs and persistence.
func (a Applier) Label() string {
	switch a.Kind {
	case ApplierItem:
		return "item:" + a.Item
	case ApplierActor:
		if a.Actor != nil {
			return "actor:" + a.Actor.ID()
		}
	}
	return ""
}
