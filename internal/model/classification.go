package model

// Attribute identifies a primary stat.
type Attribute uint8

const (
	Strength Attribute = iota
	Dexterity
	Constitution
	Intelligence
	Piety
)

var attributeNames = [...]string{"strength", "dexterity", "constitution", "intelligence", "piety"}

func (a Attribute) String() string {
	if int(a) < len(attributeNames) {
		return attributeNames[a]
	}
	return "unknown"
}

// ParseAttribute maps a lower-case attribute name to its constant.
func ParseAttribute(s string) (Attribute, bool) {
	for i, n := range attributeNames {
		if n == s {
			return Attribute(i), true
		}
	}
	return 0, false
}

// Class задаёт класс персонажа.
type Class uint8

const (
	ClassNone Class = iota
	ClassFighter
	ClassCleric
	ClassPaladin
	ClassMage
	ClassDruid
	ClassThief
	ClassRanger
	ClassDeathKnight
	ClassMonk
	ClassBard
)

var classNames = map[string]Class{
	"":             ClassNone,
	"fighter":      ClassFighter,
	"cleric":       ClassCleric,
	"paladin":      ClassPaladin,
	"mage":         ClassMage,
	"druid":        ClassDruid,
	"thief":        ClassThief,
	"ranger":       ClassRanger,
	"death-knight": ClassDeathKnight,
	"monk":         ClassMonk,
	"bard":         ClassBard,
}

// ParseClass maps a class name to its constant.
func ParseClass(s string) (Class, bool) {
	c, ok := classNames[s]
	return c, ok
}

// Deity задаёт религию персонажа.
type Deity uint8

const (
	DeityNone Deity = iota
	DeityAramon
	DeityCeris
	DeityEnoch
	DeityGradius
	DeityArachnus
	DeityKamira
	DeityLinothan
	DeityAscelin
)

var deityNames = map[string]Deity{
	"":         DeityNone,
	"aramon":   DeityAramon,
	"ceris":    DeityCeris,
	"enoch":    DeityEnoch,
	"gradius":  DeityGradius,
	"arachnus": DeityArachnus,
	"kamira":   DeityKamira,
	"linothan": DeityLinothan,
	"ascelin":  DeityAscelin,
}

// ParseDeity maps a deity name to its constant.
func ParseDeity(s string) (Deity, bool) {
	d, ok := deityNames[s]
	return d, ok
}

// Species задаёт тип существа.
type Species uint8

const (
	SpeciesHumanoid Species = iota
	SpeciesArachnid
	SpeciesUndead
	SpeciesAnimal
	SpeciesPlant
	SpeciesElemental
	SpeciesFey
	SpeciesDemon
)

var speciesNames = map[string]Species{
	"":          SpeciesHumanoid,
	"humanoid":  SpeciesHumanoid,
	"arachnid":  SpeciesArachnid,
	"undead":    SpeciesUndead,
	"animal":    SpeciesAnimal,
	"plant":     SpeciesPlant,
	"elemental": SpeciesElemental,
	"fey":       SpeciesFey,
	"demon":     SpeciesDemon,
}

// ParseSpecies maps a species name to its constant.
func ParseSpecies(s string) (Species, bool) {
	sp, ok := speciesNames[s]
	return sp, ok
}

// Form is the actor's current fundamental form.
type Form uint8

const (
	FormNormal Form = iota
	FormWerewolf
	FormVampire
)

func (f Form) String() string {
	switch f {
	case FormWerewolf:
		return "werewolf"
	case FormVampire:
		return "vampire"
	default:
		return "normal"
	}
}

// DeathCause classifies deaths caused by periodic effects.
type DeathCause uint8

const (
	DeathNone DeathCause = iota
	DeathPoisonGeneral
	DeathPoisonPlayer
	DeathPoisonMonster
	DeathDisease
	DeathWounded
	DeathCreepingDoom
)

func (d DeathCause) String() string {
	switch d {
	case DeathPoisonGeneral:
		return "poison"
	case DeathPoisonPlayer:
		return "poison-player"
	case DeathPoisonMonster:
		return "poison-monster"
	case DeathDisease:
		return "disease"
	case DeathWounded:
		return "wounded"
	case DeathCreepingDoom:
		return "creeping-doom"
	default:
		return "none"
	}
}
