package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthPool(t *testing.T) {
	p := NewHealthPool(100)
	assert.Equal(t, 100, p.Current())
	assert.Equal(t, 100, p.Max())

	assert.Equal(t, 70, p.Decrease(30))
	assert.Equal(t, 0, p.Decrease(500))
	assert.Equal(t, 100, p.Increase(1000))

	p.SetModifier("bloodsac", 50)
	assert.Equal(t, 150, p.Max())
	assert.Equal(t, 50, p.Modifier("bloodsac"))
	assert.Equal(t, 150, p.Increase(200))

	// dropping the modifier clamps current to the new maximum
	p.SetModifier("bloodsac", 0)
	assert.Equal(t, 100, p.Max())
	assert.Equal(t, 100, p.Current())
	assert.Zero(t, p.Modifier("bloodsac"))

	p.SetCurrent(-5)
	assert.Equal(t, 0, p.Current())
}

func TestNewCreature_Defaults(t *testing.T) {
	c := NewCreature(CreatureSpec{
		ID:    "hero",
		Name:  "Hero",
		Level: 7,
		MaxHP: 80,
		Stats: map[Attribute]int{Intelligence: 160},
	})

	assert.Equal(t, "hero", c.ID())
	assert.Equal(t, 7, c.Level())
	assert.Equal(t, 160, c.Stat(Intelligence))
	assert.Equal(t, 100, c.Stat(Constitution))
	assert.Equal(t, FormNormal, c.Form())
	assert.True(t, c.IsMonster())
	assert.Nil(t, c.Room())

	room := &BasicRoom{RoomID: "grove", Forest: true}
	c.MoveTo(room)
	require.NotNil(t, c.Room())
	assert.True(t, c.Room().IsForest())
}

func TestCreature_StatModifiers(t *testing.T) {
	c := NewCreature(CreatureSpec{Stats: map[Attribute]int{Strength: 120}})

	c.SetStatModifier(Strength, "strength", 30)
	c.SetStatModifier(Strength, "berserk", 15)
	c.SetStatModifier(Piety, "damnation", -30)
	assert.Equal(t, 165, c.Stat(Strength))
	assert.Equal(t, 70, c.Stat(Piety))
	assert.Equal(t, 15, c.StatModifier(Strength, "berserk"))

	c.SetStat(Strength, 100)
	assert.Equal(t, 145, c.Stat(Strength), "base changes keep modifiers")

	c.SetStatModifier(Strength, "strength", 0)
	c.SetStatModifier(Strength, "berserk", 0)
	c.SetStatModifier(Dexterity, "never-set", 0)
	assert.Equal(t, 100, c.Stat(Strength))
	assert.Zero(t, c.StatModifier(Strength, "berserk"))
	assert.Equal(t, 100, c.Stat(Dexterity))
}

func TestCreature_Transformation(t *testing.T) {
	tests := []struct {
		name     string
		spec     CreatureSpec
		block    bool
		form     Form
		eligible bool
	}{
		{name: "living player", spec: CreatureSpec{Player: true}, form: FormWerewolf, eligible: true},
		{name: "undead", spec: CreatureSpec{Species: SpeciesUndead}, form: FormVampire, eligible: false},
		{name: "staff", spec: CreatureSpec{Privileged: true}, form: FormWerewolf, eligible: false},
		{name: "blocked", spec: CreatureSpec{}, block: true, form: FormVampire, eligible: false},
		{name: "normal form", spec: CreatureSpec{}, form: FormNormal, eligible: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCreature(tt.spec)
			if tt.block {
				c.BlockTransformation(tt.form)
			}
			assert.Equal(t, tt.eligible, c.EligibleForTransformation(tt.form))
		})
	}
}

func TestCreature_TransformOnce(t *testing.T) {
	c := NewCreature(CreatureSpec{Player: true})

	assert.True(t, c.Transform(FormWerewolf))
	assert.False(t, c.Transform(FormWerewolf))
	assert.Equal(t, 1, c.Transformations())
	assert.False(t, c.EligibleForTransformation(FormVampire))
}

func TestCreature_Capabilities(t *testing.T) {
	c := NewCreature(CreatureSpec{})
	poisoner := NewCreature(CreatureSpec{ID: "witch", Player: true})

	c.Sleep()
	c.Hide()
	c.Stun(3)
	c.Stun(1)
	assert.True(t, c.IsSleeping())
	assert.True(t, c.IsHidden())
	assert.Equal(t, 3, c.StunnedTicks())

	c.Wake("pain")
	c.Unhide()
	assert.False(t, c.IsSleeping())
	assert.False(t, c.IsHidden())

	c.AddThreat(poisoner, 4)
	c.AddThreat(poisoner, 2)
	c.AddThreat(nil, 10)
	c.AddThreat(poisoner, 0)
	assert.Equal(t, 6, c.Threat("witch"))

	c.SetLastHarmfulSource(FromActor(poisoner))
	src, ok := c.LastHarmfulSource().Caster()
	require.True(t, ok)
	assert.Equal(t, "witch", src.ID())

	c.RecordDeathCause(DeathPoisonPlayer)
	assert.Equal(t, DeathPoisonPlayer, c.DeathCause())
}

func TestApplier(t *testing.T) {
	tests := []struct {
		name    string
		applier Applier
		kind    ApplierKind
		isItem  bool
		isActor bool
	}{
		{name: "none", applier: NoApplier(), kind: ApplierNone},
		{name: "item", applier: FromItem("wand"), kind: ApplierItem, isItem: true},
		{name: "actor", applier: FromActor(NewCreature(CreatureSpec{ID: "a"})), kind: ApplierActor, isActor: true},
		{name: "nil actor", applier: FromActor(nil), kind: ApplierNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.applier.Kind)
			assert.Equal(t, tt.isItem, tt.applier.IsItem())
			assert.Equal(t, tt.isActor, tt.applier.IsActor())
		})
	}
}

func TestParseEnums(t *testing.T) {
	attr, ok := ParseAttribute("piety")
	assert.True(t, ok)
	assert.Equal(t, Piety, attr)
	_, ok = ParseAttribute("luck")
	assert.False(t, ok)

	class, ok := ParseClass("death-knight")
	assert.True(t, ok)
	assert.Equal(t, ClassDeathKnight, class)

	deity, ok := ParseDeity("arachnus")
	assert.True(t, ok)
	assert.Equal(t, DeityArachnus, deity)

	species, ok := ParseSpecies("")
	assert.True(t, ok)
	assert.Equal(t, SpeciesHumanoid, species)
}
