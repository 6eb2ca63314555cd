package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/statusfx/internal/model"
	"github.com/udisondev/statusfx/internal/random"
)

func TestStatMod_CatalogKinds(t *testing.T) {
	reg := mustRegistry(t)

	tests := []struct {
		kind   string
		attr   model.Attribute
		lowers bool
	}{
		{kind: "strength", attr: model.Strength},
		{kind: "enfeeblement", attr: model.Strength, lowers: true},
		{kind: "berserk", attr: model.Strength},
		{kind: "dkpray", attr: model.Strength},
		{kind: "haste", attr: model.Dexterity},
		{kind: "slow", attr: model.Dexterity, lowers: true},
		{kind: "frenzy", attr: model.Dexterity},
		{kind: "insight", attr: model.Intelligence},
		{kind: "feeblemind", attr: model.Intelligence, lowers: true},
		{kind: "prayer", attr: model.Piety},
		{kind: "damnation", attr: model.Piety, lowers: true},
		{kind: "pray", attr: model.Piety},
		{kind: "fortitude", attr: model.Constitution},
		{kind: "weakness", attr: model.Constitution, lowers: true},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			mod := mustDef(t, reg, tt.kind).StatMod
			require.NotNil(t, mod)
			assert.False(t, mod.Health)
			assert.Equal(t, tt.attr, mod.Attr)
			assert.Equal(t, tt.lowers, mod.Lowers)
		})
	}

	mod := mustDef(t, reg, "bloodsac").StatMod
	require.NotNil(t, mod)
	assert.True(t, mod.Health)
	assert.Nil(t, mustDef(t, reg, "armor").StatMod)
}

func TestStatMod_ShiftsWhileAttached(t *testing.T) {
	reg := mustRegistry(t)
	actor := newCreature("hero")
	m := NewManager(actor)
	env := newEnv(random.Low{}, nil)

	require.True(t, m.Apply(env, mustDef(t, reg, "fortitude"), model.FromItem("tonic")).Accepted())
	require.True(t, m.Apply(env, mustDef(t, reg, "strength"), model.FromItem("potion")).Accepted())
	assert.Equal(t, 130, actor.Stat(model.Constitution))
	assert.Equal(t, 130, actor.Stat(model.Strength))

	assert.ElementsMatch(t, []string{"fortitude", "strength"}, tickN(m, env, 60))
	assert.Equal(t, 100, actor.Stat(model.Constitution))
	assert.Equal(t, 100, actor.Stat(model.Strength))
}

func TestStatMod_CancelRestores(t *testing.T) {
	reg := mustRegistry(t)
	actor := newCreature("hero")
	m := NewManager(actor)
	env := newEnv(random.Low{}, nil)

	m.Apply(env, mustDef(t, reg, "haste"), model.NoApplier())
	assert.Equal(t, 130, actor.Stat(model.Dexterity))

	assert.Equal(t, []string{"haste"}, m.Cancel(env, "haste", CancelOptions{}))
	assert.Equal(t, 100, actor.Stat(model.Dexterity))
}

func TestStatMod_OppositeRestores(t *testing.T) {
	reg := mustRegistry(t)
	actor := newCreature("hero")
	m := NewManager(actor)
	env := newEnv(random.Low{}, nil)

	m.Apply(env, mustDef(t, reg, "strength"), model.FromItem("potion"))
	require.Equal(t, 130, actor.Stat(model.Strength))

	res := m.Apply(env, mustDef(t, reg, "enfeeblement"), model.FromItem("scroll"))
	assert.Equal(t, ReasonOppositeCured, res.Reason)
	assert.Equal(t, 100, actor.Stat(model.Strength))

	res = m.Apply(env, mustDef(t, reg, "enfeeblement"), model.FromItem("scroll"))
	require.True(t, res.Accepted())
	assert.Equal(t, -30, res.Strength)
	assert.Equal(t, 70, actor.Stat(model.Strength))
}

func TestStatMod_ReplaceSwapsModifier(t *testing.T) {
	reg := mustRegistry(t)
	actor := newCreature("hero")
	m := NewManager(actor)
	env := newEnv(random.Low{}, nil)

	m.Apply(env, mustDef(t, reg, "strength"), model.NoApplier())
	res := m.Apply(env, mustDef(t, reg, "strength"), model.NoApplier(), WithStrength(40))

	require.True(t, res.Replaced)
	assert.Equal(t, 140, actor.Stat(model.Strength))
}

func TestStatMod_Bounds(t *testing.T) {
	reg := mustRegistry(t)

	tests := []struct {
		name     string
		kind     string
		stat     model.Attribute
		base     int
		opts     []ApplyOption
		want     int
		strength int
	}{
		{name: "lowers a positive strength", kind: "weakness", stat: model.Constitution, base: 100, opts: []ApplyOption{WithStrength(25)}, want: 75, strength: -25},
		{name: "capped at the ceiling", kind: "strength", stat: model.Strength, base: 390, want: 400, strength: 10},
		{name: "held at the floor", kind: "weakness", stat: model.Constitution, base: 20, want: 10, strength: -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := newCreature("hero", withStats(map[model.Attribute]int{tt.stat: tt.base}))
			m := NewManager(actor)

			res := m.Apply(newEnv(random.Low{}, nil), mustDef(t, reg, tt.kind), model.NoApplier(), tt.opts...)

			require.True(t, res.Accepted())
			assert.Equal(t, tt.strength, res.Strength)
			assert.Equal(t, tt.want, actor.Stat(tt.stat))
			inst, _ := m.Get(tt.kind)
			assert.Equal(t, tt.strength, inst.Strength)
		})
	}
}

func TestStatMod_BloodSacrificeRaisesMaxHealth(t *testing.T) {
	reg := mustRegistry(t)
	actor := newCreature("cultist")
	m := NewManager(actor)
	env := newEnv(random.Low{}, nil)

	res := m.Apply(env, mustDef(t, reg, "bloodsac"), model.NoApplier())
	require.True(t, res.Accepted())
	assert.Equal(t, 1462, actor.HP().Max())
	assert.Equal(t, 462, actor.HP().Modifier("bloodsac"))

	m.Cancel(env, "bloodsac", CancelOptions{Permanent: true})
	assert.Equal(t, 1000, actor.HP().Max())
}

func TestStatMod_ClearAndRestore(t *testing.T) {
	reg := mustRegistry(t)
	actor := newCreature("hero")
	m := NewManager(actor)

	m.Apply(newEnv(random.Low{}, nil), mustDef(t, reg, "insight"), model.NoApplier())
	require.Equal(t, 130, actor.Stat(model.Intelligence))
	m.Clear()
	assert.Equal(t, 100, actor.Stat(model.Intelligence))

	require.NoError(t, m.Restore(reg, []Record{{Kind: "prayer", Duration: 50, Strength: 30}}))
	assert.Equal(t, 130, actor.Stat(model.Piety))

	require.NoError(t, m.Restore(reg, nil))
	assert.Equal(t, 100, actor.Stat(model.Piety))
}

func TestStatMod_DisplacesOnPlayersOnly(t *testing.T) {
	reg := mustRegistry(t)

	tests := []struct {
		name      string
		player    bool
		wantKinds []string
		want      int
	}{
		{name: "player", player: true, wantKinds: []string{"strength"}, want: 130},
		{name: "monster", wantKinds: []string{"berserk", "strength"}, want: 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook := &recordingHook{}
			actor := newCreature("brute", func(s *model.CreatureSpec) { s.Player = tt.player })
			m := NewManager(actor, hook)
			env := newEnv(random.Low{}, nil)

			require.True(t, m.Apply(env, mustDef(t, reg, "berserk"), model.NoApplier(), WithStrength(20)).Accepted())
			require.True(t, m.Apply(env, mustDef(t, reg, "strength"), model.FromItem("potion")).Accepted())

			var kinds []string
			for _, inst := range m.Active() {
				kinds = append(kinds, inst.Name())
			}
			assert.Equal(t, tt.wantKinds, kinds)
			assert.Equal(t, tt.want, actor.Stat(model.Strength))

			if tt.player {
				reason, ok := hook.removedReason("berserk")
				require.True(t, ok)
				assert.Equal(t, RemoveDisplaced, reason)
			}
		})
	}
}
