package effect

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry_EmbeddedCatalog(t *testing.T) {
	reg := mustRegistry(t)

	require.Equal(t, 146, reg.Len())
	for i, def := range reg.Definitions() {
		assert.Equal(t, Kind(i+1), def.Kind, "kind of %s", def.Name)
		byKind, ok := reg.ByKind(def.Kind)
		require.True(t, ok)
		assert.Same(t, def, byKind)
		assert.GreaterOrEqual(t, def.PulseEvery, 1, "%s pulse interval", def.Name)
		assert.NotEmpty(t, def.Display, "%s display name", def.Name)
	}

	_, ok := reg.ByKind(KindNone)
	assert.False(t, ok)
	_, ok = reg.ByKind(Kind(reg.Len() + 1))
	assert.False(t, ok)
}

func TestRegistry_Lookup_UnknownKind(t *testing.T) {
	reg := mustRegistry(t)

	_, err := reg.Lookup("no-such-effect")
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("Lookup() error = %v, want ErrUnknownKind", err)
	}
}

func TestRegistry_OppositesAreSymmetric(t *testing.T) {
	reg := mustRegistry(t)

	pairs := [][2]string{
		{"strength", "enfeeblement"},
		{"enlarge", "reduce"},
		{"fortitude", "weakness"},
		{"prayer", "damnation"},
	}
	for _, p := range pairs {
		a, b := mustDef(t, reg, p[0]), mustDef(t, reg, p[1])
		assert.Equal(t, b.Kind, a.Opposite, "%s -> %s", p[0], p[1])
		assert.Equal(t, a.Kind, b.Opposite, "%s -> %s", p[1], p[0])
	}
}

func TestRegistry_DefinitionDefaults(t *testing.T) {
	reg := mustRegistry(t)

	poison := mustDef(t, reg, "poison")
	assert.Equal(t, defaultDuration, poison.DefaultDuration)
	assert.Equal(t, 20, poison.PulseEvery)
	assert.True(t, poison.HasPulse())
	assert.Equal(t, "default", poison.ComputeHandler())
	assert.Equal(t, "poison", poison.PulseHandler())
	assert.Equal(t, CategoryHarmful, poison.Category)

	armor := mustDef(t, reg, "armor")
	assert.False(t, armor.HasPulse())
	assert.Equal(t, 1, armor.PulseEvery)
	assert.True(t, armor.ItemBestowable)

	for _, name := range []string{"lycanthropy", "porphyria", "vampirism"} {
		assert.False(t, mustDef(t, reg, name).ItemBestowable, name)
	}

	warmth := mustDef(t, reg, "warmth")
	assert.True(t, warmth.hasBase("warmth"))
	alwaysWarm := mustDef(t, reg, "alwayswarm")
	assert.True(t, alwaysWarm.hasBase("warmth"))
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "not yaml",
			yaml: "effects: [",
		},
		{
			name: "empty list",
			yaml: "effects: []",
		},
		{
			name: "unknown field",
			yaml: `
effects:
  - name: foo
    category: neutral
    colour: red
`,
		},
		{
			name: "bad category",
			yaml: `
effects:
  - name: foo
    category: sparkly
`,
		},
		{
			name: "bad name",
			yaml: `
effects:
  - name: Foo Bar
    category: neutral
`,
		},
		{
			name: "unknown compute handler",
			yaml: `
effects:
  - name: foo
    category: neutral
    compute: teleport
`,
		},
		{
			name: "unknown pulse handler",
			yaml: `
effects:
  - name: foo
    category: neutral
    pulse: explode
`,
		},
		{
			name: "unknown opposite",
			yaml: `
effects:
  - name: foo
    category: neutral
    opposite: bar
`,
		},
		{
			name: "self opposite",
			yaml: `
effects:
  - name: foo
    category: neutral
    opposite: foo
`,
		},
		{
			name: "duplicate",
			yaml: `
effects:
  - name: foo
    category: neutral
  - name: foo
    category: harmful
`,
		},
		{
			name: "script without source",
			yaml: `
effects:
  - name: foo
    category: neutral
    compute: script
`,
		},
		{
			name: "unknown modified attribute",
			yaml: `
effects:
  - name: foo
    category: neutral
    modifies: luck
`,
		},
		{
			name: "lowers without modifies",
			yaml: `
effects:
  - name: foo
    category: neutral
    lowers: true
`,
		},
		{
			name: "unknown displaced kind",
			yaml: `
effects:
  - name: foo
    category: neutral
    displaces: [bar]
`,
		},
		{
			name: "unknown class",
			yaml: `
effects:
  - name: foo
    category: beneficial
    compute: beneficial
    tuning:
      classes: [necromancer]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("ParseCatalog() error = %v, want ErrInvalidCatalog", err)
			}
		})
	}
}

func TestParseCatalog_ForwardOpposite(t *testing.T) {
	reg, err := ParseCatalog([]byte(`
effects:
  - name: hot
    category: beneficial
    opposite: cold
  - name: cold
    category: harmful
    opposite: hot
    duration: 30
    strength: 2
`))
	require.NoError(t, err)

	hot := mustDef(t, reg, "hot")
	cold := mustDef(t, reg, "cold")
	assert.Equal(t, cold.Kind, hot.Opposite)
	assert.Equal(t, hot.Kind, cold.Opposite)
	assert.Equal(t, 30, cold.DefaultDuration)
	assert.Equal(t, 2, cold.DefaultStrength)
	assert.Equal(t, "hot", hot.Display)
}

func TestLoadRegistryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, defaultCatalog, 0o600))

	reg, err := LoadRegistryFile(path)
	require.NoError(t, err)
	assert.Equal(t, 146, reg.Len())

	_, err = LoadRegistryFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
