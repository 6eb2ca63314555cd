package effect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/statusfx/internal/model"
	"github.com/udisondev/statusfx/internal/random"
)

func TestScript_AvianAria(t *testing.T) {
	reg := mustRegistry(t)
	target := newCreature("bird", func(s *model.CreatureSpec) { s.Level = 21 })

	res := NewManager(target).Apply(newEnv(random.Low{}, nil), mustDef(t, reg, "avianaria"), model.FromActor(newCreature("bard")))

	require.True(t, res.Accepted())
	assert.Equal(t, 5, res.Strength)
	assert.Equal(t, defaultDuration, res.Duration)
}

func scriptRegistry(t *testing.T, script string) *Registry {
	t.Helper()
	reg, err := ParseCatalog([]byte(`
effects:
  - name: scripted
    category: neutral
    compute: script
    duration: 100
    strength: 2
    script: |
` + indent(script)))
	require.NoError(t, err)
	return reg
}

func indent(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		b.WriteString("      " + line + "\n")
	}
	return b.String()
}

func TestScript(t *testing.T) {
	tests := []struct {
		name         string
		script       string
		caster       bool
		src          random.Source
		wantAccepted bool
		wantReason   Reason
		wantDuration int
		wantStrength int
	}{
		{
			name:         "defaults pass through",
			script:       "-- nothing",
			wantAccepted: true,
			wantDuration: 100,
			wantStrength: 2,
		},
		{
			name:         "reads target stats",
			script:       "duration = target.constitution * 3 + target.level",
			wantAccepted: true,
			wantDuration: 310,
			wantStrength: 2,
		},
		{
			name:         "caster nil without actor",
			script:       "if caster == nil then accept = false end",
			wantReason:   ReasonScriptRejected,
		},
		{
			name:         "caster visible",
			script:       "strength = caster.intelligence; accept = source == 'actor'",
			caster:       true,
			wantAccepted: true,
			wantDuration: 100,
			wantStrength: 100,
		},
		{
			name:         "rand is bound to the engine source",
			script:       "duration = rand(40, 60)",
			src:          random.NewScripted(55),
			wantAccepted: true,
			wantDuration: 55,
			wantStrength: 2,
		},
		{
			name:         "fractional duration truncates",
			script:       "duration = 12.9",
			wantAccepted: true,
			wantDuration: 12,
			wantStrength: 2,
		},
		{
			name:       "math.random is unavailable",
			script:     "duration = math.random(1, 10)",
			wantReason: ReasonScriptError,
		},
		{
			name:       "io is unavailable",
			script:     "io.write('x')",
			wantReason: ReasonScriptError,
		},
		{
			name:       "loadfile is unavailable",
			script:     "loadfile('/etc/hostname'); strength = 99",
			wantReason: ReasonScriptError,
		},
		{
			name:       "dofile is unavailable",
			script:     "dofile('/etc/hostname')",
			wantReason: ReasonScriptError,
		},
		{
			name:       "load is unavailable",
			script:     "load('strength = 99')()",
			wantReason: ReasonScriptError,
		},
		{
			name:       "runaway loop is cut off",
			script:     "while true do end",
			wantReason: ReasonScriptError,
		},
		{
			name:       "syntax error",
			script:     "duration = = 3",
			wantReason: ReasonScriptError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := scriptRegistry(t, tt.script)
			src := tt.src
			if src == nil {
				src = random.Low{}
			}
			applier := model.NoApplier()
			if tt.caster {
				applier = model.FromActor(newCreature("caster"))
			}

			res := NewManager(newCreature("target")).Apply(newEnv(src, nil), mustDef(t, reg, "scripted"), applier)

			assert.Equal(t, tt.wantAccepted, res.Accepted())
			assert.Equal(t, tt.wantReason, res.Reason)
			if tt.wantAccepted {
				assert.Equal(t, tt.wantDuration, res.Duration)
				assert.Equal(t, tt.wantStrength, res.Strength)
			}
		})
	}
}
