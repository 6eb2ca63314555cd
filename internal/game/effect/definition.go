package effect

import (
	"fmt"
	"slices"

	"github.com/udisondev/statusfx/internal/model"
)

// Kind is the enumerated tag of a catalog entry. Values are assigned in
// catalog order when the registry loads; KindNone is never assigned.
type Kind uint16

const KindNone Kind = 0

// Category groups kinds by intent.
type Category uint8

const (
	CategoryNeutral Category = iota
	CategoryBeneficial
	CategoryHarmful
	CategoryCurse
	CategoryDisable
	CategoryNatural
	CategoryTransformation
)

var categoryNames = [...]string{"neutral", "beneficial", "harmful", "curse", "disable", "natural", "transformation"}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

func parseCategory(s string) (Category, error) {
	for i, n := range categoryNames {
		if n == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// Messages are raw templates handed to the Messenger. Placeholders such as
// *ACTOR* are expanded by the messaging collaborator, not here.
type Messages struct {
	SelfAdd string `yaml:"self_add"`
	RoomAdd string `yaml:"room_add"`
	SelfDel string `yaml:"self_del"`
	RoomDel string `yaml:"room_del"`
}

// Tuning carries the per-kind numbers used by the compute and pulse
// families. Zero values mean "not used" for every field the family reads.
type Tuning struct {
	Base       int      `yaml:"base"`
	ItemBase   int      `yaml:"item_base"`
	IntScale   int      `yaml:"int_scale"`
	Clamp      bool     `yaml:"clamp"`
	BonusMin   int      `yaml:"bonus_min"`
	BonusMax   int      `yaml:"bonus_max"`
	LevelScale int      `yaml:"level_scale"`
	Classes    []string `yaml:"classes"`
	Privileged bool     `yaml:"privileged"`
	Floor      int      `yaml:"floor"`
	RoomBonus  int      `yaml:"room_bonus"`
	SelfFloor  int      `yaml:"self_floor"`
	OtherFloor int      `yaml:"other_floor"`
	Strength   int      `yaml:"strength"`
	ItemMin    int      `yaml:"item_min"`
	ItemMax    int      `yaml:"item_max"`
	Min        int      `yaml:"min"`
	Max        int      `yaml:"max"`

	// OnOpposite is "reject" (cancel, don't replace) or "remove".
	OnOpposite   string `yaml:"on_opposite"`
	UndeadImmune bool   `yaml:"undead_immune"`
	DivideIf     string `yaml:"divide_if"`
	Divisor      int    `yaml:"divisor"`
	DeityScaled  bool   `yaml:"deity_scaled"`

	Form      string `yaml:"form"`
	Threshold int    `yaml:"threshold"`
	Extend    int    `yaml:"extend"`
	Limit     int    `yaml:"limit"`

	BrokenBy       string   `yaml:"broken_by"`
	SuppressedBy   string   `yaml:"suppressed_by"`
	SustainClasses []string `yaml:"sustain_classes"`

	classes        []model.Class
	sustainClasses []model.Class
	form           model.Form
}

func (t *Tuning) resolve() error {
	var err error
	if t.classes, err = parseClasses(t.Classes); err != nil {
		return err
	}
	if t.sustainClasses, err = parseClasses(t.SustainClasses); err != nil {
		return err
	}
	switch t.Form {
	case "":
	case "werewolf":
		t.form = model.FormWerewolf
	case "vampire":
		t.form = model.FormVampire
	default:
		return fmt.Errorf("unknown form %q", t.Form)
	}
	return nil
}

func parseClasses(names []string) ([]model.Class, error) {
	out := make([]model.Class, 0, len(names))
	for _, name := range names {
		c, ok := model.ParseClass(name)
		if !ok {
			return nil, fmt.Errorf("unknown class %q", name)
		}
		out = append(out, c)
	}
	return out, nil
}

func (t *Tuning) hasClass(c model.Class) bool {
	return slices.Contains(t.classes, c)
}

// Definition is one immutable catalog entry.
type Definition struct {
	Kind        Kind
	Name        string
	Display     string
	Category    Category
	Opposite    Kind
	BaseEffects []string

	DefaultDuration int
	DefaultStrength int
	UsesStrength    bool
	ItemBestowable  bool
	PulseEvery      int

	Messages Messages
	Tuning   Tuning
	Script   string

	// StatMod is the attribute the kind shifts while attached; nil for none.
	StatMod *StatMod
	// Displaces lists kinds a player loses when this kind attaches.
	Displaces []string

	computeName string
	pulseName   string
	compute     ComputeFunc
	pulse       PulseFunc
}

// HasPulse reports whether the kind does anything per tick beyond decay.
func (d *Definition) HasPulse() bool { return d.pulse != nil }

// ComputeHandler returns the catalog name of the compute family.
func (d *Definition) ComputeHandler() string { return d.computeName }

// PulseHandler returns the catalog name of the pulse family.
func (d *Definition) PulseHandler() string { return d.pulseName }

// hasBase reports whether name is this kind or one of its base effects.
func (d *Definition) hasBase(name string) bool {
	return d.Name == name || slices.Contains(d.BaseEffects, name)
}
