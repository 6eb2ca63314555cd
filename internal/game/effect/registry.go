package effect

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownKind    = errors.New("unknown effect kind")
	ErrInvalidCatalog = errors.New("invalid effect catalog")
)

//go:embed catalog.yaml
var defaultCatalog []byte

//go:embed catalog.schema.json
var catalogSchema string

const (
	catalogSchemaURL  = "statusfx://catalog.schema.json"
	defaultDuration   = 600
	defaultPulseEvery = 1
)

// computeFamilies maps catalog handler names to compute functions.
// Resolved once per definition when the registry loads.
var computeFamilies = map[string]ComputeFunc{
	"default":        computeDefault,
	"beneficial":     computeTiered,
	"gravity":        computeTiered,
	"visibility":     computeTiered,
	"detect":         computeTiered,
	"languages":      computeTiered,
	"resist":         computeTiered,
	"stat":           computeTiered,
	"no-player":      computeNoPlayer,
	"dark-infra":     computeDarkInfra,
	"petrify":        computePetrify,
	"hold":           computeHold,
	"confusion":      computeConfusion,
	"blindness":      computeBlindness,
	"natural":        computeNatural,
	"regen":          computeRegen,
	"death-sickness": computeDeathSickness,
	"blood-sac":      computeBloodSac,
	"affliction":     computeAffliction,
	"script":         computeScript,
}

var pulseFamilies = map[string]PulseFunc{
	"poison":         pulsePoison,
	"disease":        pulseDisease,
	"festering":      pulseFestering,
	"creeping-doom":  pulseCreepingDoom,
	"death-sickness": pulseDeathSickness,
	"lycanthropy":    pulseLycanthropy,
	"porphyria":      pulsePorphyria,
	"wall":           pulseWall,
	"camouflage":     pulseCamouflage,
	"hold":           pulseHold,
}

type catalogFile struct {
	Effects []catalogEntry `yaml:"effects"`
}

type catalogEntry struct {
	Name           string   `yaml:"name"`
	Display        string   `yaml:"display"`
	Category       string   `yaml:"category"`
	Compute        string   `yaml:"compute"`
	Pulse          string   `yaml:"pulse"`
	PulseEvery     int      `yaml:"pulse_every"`
	Opposite       string   `yaml:"opposite"`
	Base           []string `yaml:"base"`
	Duration       int      `yaml:"duration"`
	Strength       int      `yaml:"strength"`
	UsesStrength   bool     `yaml:"uses_strength"`
	ItemBestowable *bool    `yaml:"item_bestowable"`
	Script         string   `yaml:"script"`
	Modifies       string   `yaml:"modifies"`
	Lowers         bool     `yaml:"lowers"`
	Displaces      []string `yaml:"displaces"`
	Tuning         Tuning   `yaml:"tuning"`
	Messages       Messages `yaml:"messages"`
}

// Registry is the read-only catalog of effect kinds.
type Registry struct {
	defs   []*Definition
	byName map[string]*Definition
}

// LoadRegistry builds the registry from the embedded catalog.
func LoadRegistry() (*Registry, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadRegistryFile builds the registry from a catalog file on disk.
func LoadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog validates a YAML catalog against the schema and resolves
// every handler and opposite reference.
func ParseCatalog(data []byte) (*Registry, error) {
	if err := validateCatalog(data); err != nil {
		return nil, err
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: decoding: %w", ErrInvalidCatalog, err)
	}

	r := &Registry{
		defs:   make([]*Definition, 0, len(file.Effects)),
		byName: make(map[string]*Definition, len(file.Effects)),
	}
	for i := range file.Effects {
		def, err := buildDefinition(Kind(i+1), &file.Effects[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, file.Effects[i].Name, err)
		}
		if _, dup := r.byName[def.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate kind %q", ErrInvalidCatalog, def.Name)
		}
		r.defs = append(r.defs, def)
		r.byName[def.Name] = def
	}

	// Opposites can point forward, so they resolve after every kind exists.
	for i, e := range file.Effects {
		if e.Opposite == "" {
			continue
		}
		opp, ok := r.byName[e.Opposite]
		if !ok {
			return nil, fmt.Errorf("%w: %s: unknown opposite %q", ErrInvalidCatalog, e.Name, e.Opposite)
		}
		if opp == r.defs[i] {
			return nil, fmt.Errorf("%w: %s: kind is its own opposite", ErrInvalidCatalog, e.Name)
		}
		r.defs[i].Opposite = opp.Kind
	}
	for _, def := range r.defs {
		for _, name := range def.Displaces {
			if _, ok := r.byName[name]; !ok {
				return nil, fmt.Errorf("%w: %s: unknown displaced kind %q", ErrInvalidCatalog, def.Name, name)
			}
		}
	}
	return r, nil
}

func buildDefinition(kind Kind, e *catalogEntry) (*Definition, error) {
	category, err := parseCategory(e.Category)
	if err != nil {
		return nil, err
	}
	if err := e.Tuning.resolve(); err != nil {
		return nil, err
	}

	def := &Definition{
		Kind:            kind,
		Name:            e.Name,
		Display:         e.Display,
		Category:        category,
		BaseEffects:     e.Base,
		DefaultDuration: e.Duration,
		DefaultStrength: e.Strength,
		UsesStrength:    e.UsesStrength,
		ItemBestowable:  e.ItemBestowable == nil || *e.ItemBestowable,
		PulseEvery:      e.PulseEvery,
		Messages:        e.Messages,
		Tuning:          e.Tuning,
		Script:          e.Script,
		Displaces:       e.Displaces,
		computeName:     e.Compute,
		pulseName:       e.Pulse,
	}
	if def.StatMod, err = parseStatMod(e.Modifies, e.Lowers); err != nil {
		return nil, err
	}
	if def.Display == "" {
		def.Display = def.Name
	}
	if def.DefaultDuration == 0 {
		def.DefaultDuration = defaultDuration
	}
	if def.PulseEvery <= 0 {
		def.PulseEvery = defaultPulseEvery
	}

	if def.computeName == "" {
		def.computeName = "default"
	}
	compute, ok := computeFamilies[def.computeName]
	if !ok {
		return nil, fmt.Errorf("unknown compute handler %q", def.computeName)
	}
	if def.computeName == "script" && strings.TrimSpace(def.Script) == "" {
		return nil, errors.New("script compute without a script")
	}
	def.compute = compute

	if def.pulseName != "" {
		pulse, ok := pulseFamilies[def.pulseName]
		if !ok {
			return nil, fmt.Errorf("unknown pulse handler %q", def.pulseName)
		}
		def.pulse = pulse
	}
	return def, nil
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(catalogSchemaURL, strings.NewReader(catalogSchema)); err != nil {
		return nil, err
	}
	return c.Compile(catalogSchemaURL)
})

// validateCatalog checks the YAML document against the embedded JSON Schema.
// The document goes through JSON so the validator sees JSON types.
func validateCatalog(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling catalog schema: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: decoding: %w", ErrInvalidCatalog, err)
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(buf))
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return nil
}

// Lookup resolves a kind by name.
func (r *Registry) Lookup(name string) (*Definition, error) {
	def, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return def, nil
}

// ByKind resolves an enumerated tag.
func (r *Registry) ByKind(k Kind) (*Definition, bool) {
	if k == KindNone || int(k) > len(r.defs) {
		return nil, false
	}
	return r.defs[k-1], true
}

// Definitions returns every kind in catalog order.
func (r *Registry) Definitions() []*Definition {
	out := make([]*Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Len returns the number of kinds.
func (r *Registry) Len() int { return len(r.defs) }
