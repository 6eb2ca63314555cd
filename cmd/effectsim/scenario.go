package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/statusfx/internal/model"
)

// Scenario is a scripted simulation: who is where, and what happens when.
type Scenario struct {
	Name   string      `yaml:"name"`
	Rooms  []RoomSpec  `yaml:"rooms"`
	Actors []ActorSpec `yaml:"actors"`
	Steps  []Step      `yaml:"steps"`
}

// RoomSpec describes one room.
type RoomSpec struct {
	ID     string `yaml:"id"`
	Magic  bool   `yaml:"magic"`
	Sunlit bool   `yaml:"sunlit"`
	Forest bool   `yaml:"forest"`
}

// ActorSpec describes one creature.
type ActorSpec struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Level      int            `yaml:"level"`
	MaxHP      int            `yaml:"max_hp"`
	Class      string         `yaml:"class"`
	Deity      string         `yaml:"deity"`
	Species    string         `yaml:"species"`
	Player     bool           `yaml:"player"`
	Privileged bool           `yaml:"privileged"`
	Room       string         `yaml:"room"`
	Stats      map[string]int `yaml:"stats"`
}

// Step is one timeline entry. Exactly one field is set.
type Step struct {
	Apply   *ApplyStep  `yaml:"apply"`
	Advance int         `yaml:"advance"`
	Cancel  *CancelStep `yaml:"cancel"`
	Cure    *CancelStep `yaml:"cure"`
	Move    *MoveStep   `yaml:"move"`
}

// ApplyStep applies an effect. Caster and Item are mutually exclusive;
// neither means an ambient source.
type ApplyStep struct {
	Actor    string `yaml:"actor"`
	Kind     string `yaml:"kind"`
	Caster   string `yaml:"caster"`
	Item     string `yaml:"item"`
	Strength *int   `yaml:"strength"`
	Duration *int   `yaml:"duration"`
	Extra    int    `yaml:"extra"`
}

// CancelStep removes an effect by name.
type CancelStep struct {
	Actor string `yaml:"actor"`
	Kind  string `yaml:"kind"`
}

// MoveStep moves an actor to another room.
type MoveStep struct {
	Actor string `yaml:"actor"`
	Room  string `yaml:"room"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &sc, nil
}

// Validate checks references between rooms, actors and steps.
func (sc *Scenario) Validate() error {
	rooms := make(map[string]bool, len(sc.Rooms))
	for _, r := range sc.Rooms {
		if r.ID == "" {
			return errors.New("room without id")
		}
		if rooms[r.ID] {
			return fmt.Errorf("duplicate room %q", r.ID)
		}
		rooms[r.ID] = true
	}

	actors := make(map[string]bool, len(sc.Actors))
	for _, a := range sc.Actors {
		if a.ID == "" {
			return errors.New("actor without id")
		}
		if actors[a.ID] {
			return fmt.Errorf("duplicate actor %q", a.ID)
		}
		if a.Room != "" && !rooms[a.Room] {
			return fmt.Errorf("actor %q: unknown room %q", a.ID, a.Room)
		}
		if _, err := a.creatureSpec(nil); err != nil {
			return err
		}
		actors[a.ID] = true
	}

	for i, st := range sc.Steps {
		if err := st.validate(actors, rooms); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (st Step) validate(actors, rooms map[string]bool) error {
	set := 0
	if st.Apply != nil {
		set++
		if !actors[st.Apply.Actor] {
			return fmt.Errorf("apply: unknown actor %q", st.Apply.Actor)
		}
		if st.Apply.Kind == "" {
			return errors.New("apply: kind is required")
		}
		if st.Apply.Caster != "" && st.Apply.Item != "" {
			return errors.New("apply: caster and item are mutually exclusive")
		}
		if st.Apply.Caster != "" && !actors[st.Apply.Caster] {
			return fmt.Errorf("apply: unknown caster %q", st.Apply.Caster)
		}
	}
	if st.Advance != 0 {
		set++
		if st.Advance < 0 {
			return fmt.Errorf("advance: negative tick count %d", st.Advance)
		}
	}
	for _, c := range []*CancelStep{st.Cancel, st.Cure} {
		if c == nil {
			continue
		}
		set++
		if !actors[c.Actor] {
			return fmt.Errorf("cancel: unknown actor %q", c.Actor)
		}
	}
	if st.Move != nil {
		set++
		if !actors[st.Move.Actor] {
			return fmt.Errorf("move: unknown actor %q", st.Move.Actor)
		}
		if st.Move.Room != "" && !rooms[st.Move.Room] {
			return fmt.Errorf("move: unknown room %q", st.Move.Room)
		}
	}
	if set != 1 {
		return fmt.Errorf("expected exactly one action, got %d", set)
	}
	return nil
}

// creatureSpec converts the YAML form into a model.CreatureSpec placed in
// room (may be nil).
func (a ActorSpec) creatureSpec(room model.Room) (model.CreatureSpec, error) {
	class, ok := model.ParseClass(a.Class)
	if !ok {
		return model.CreatureSpec{}, fmt.Errorf("actor %q: unknown class %q", a.ID, a.Class)
	}
	deity, ok := model.ParseDeity(a.Deity)
	if !ok {
		return model.CreatureSpec{}, fmt.Errorf("actor %q: unknown deity %q", a.ID, a.Deity)
	}
	species, ok := model.ParseSpecies(a.Species)
	if !ok {
		return model.CreatureSpec{}, fmt.Errorf("actor %q: unknown species %q", a.ID, a.Species)
	}
	stats := make(map[model.Attribute]int, len(a.Stats))
	for name, v := range a.Stats {
		attr, ok := model.ParseAttribute(name)
		if !ok {
			return model.CreatureSpec{}, fmt.Errorf("actor %q: unknown stat %q", a.ID, name)
		}
		stats[attr] = v
	}

	name := a.Name
	if name == "" {
		name = a.ID
	}
	level := a.Level
	if level <= 0 {
		level = 1
	}
	maxHP := a.MaxHP
	if maxHP <= 0 {
		maxHP = 100
	}

	return model.CreatureSpec{
		ID:         a.ID,
		Name:       name,
		Level:      level,
		MaxHP:      maxHP,
		Class:      class,
		Deity:      deity,
		Species:    species,
		Player:     a.Player,
		Privileged: a.Privileged,
		Stats:      stats,
		Room:       room,
	}, nil
}
