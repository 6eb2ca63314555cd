package effect

import (
	"sync"
	"testing"

	"github.com/udisondev/statusfx/internal/model"
	"github.com/udisondev/statusfx/internal/random"
)

type sentMessage struct {
	to   string
	room string
	text string
}

// recordingMessenger captures every delivered line.
type recordingMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (m *recordingMessenger) Send(to model.Actor, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{to: to.ID(), text: text})
}

func (m *recordingMessenger) Broadcast(room model.Room, about model.Actor, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{to: about.ID(), room: room.ID(), text: text})
}

func (m *recordingMessenger) contains(text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sent {
		if s.text == text {
			return true
		}
	}
	return false
}

func (m *recordingMessenger) count(text string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sent {
		if s.text == text {
			n++
		}
	}
	return n
}

type removal struct {
	kind   string
	reason RemoveReason
}

// recordingHook captures lifecycle events.
type recordingHook struct {
	mu       sync.Mutex
	applied  []string
	replaced []string
	removed  []removal
	deaths   []model.DeathCause
}

func (h *recordingHook) EffectApplied(_ model.Actor, inst Instance, replaced bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if replaced {
		h.replaced = append(h.replaced, inst.Name())
		return
	}
	h.applied = append(h.applied, inst.Name())
}

func (h *recordingHook) EffectRemoved(_ model.Actor, inst Instance, reason RemoveReason) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removed = append(h.removed, removal{kind: inst.Name(), reason: reason})
}

func (h *recordingHook) ActorDied(_ model.Actor, cause model.DeathCause) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deaths = append(h.deaths, cause)
}

func (h *recordingHook) removedReason(kind string) (RemoveReason, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.removed {
		if r.kind == kind {
			return r.reason, true
		}
	}
	return 0, false
}

// mapWorld is a fixed set of actors keyed by ID.
type mapWorld map[string]model.Actor

func (w mapWorld) Actor(id string) (model.Actor, bool) {
	a, ok := w[id]
	return a, ok
}

func mustRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	return reg
}

func mustDef(t *testing.T, reg *Registry, name string) *Definition {
	t.Helper()
	def, err := reg.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q) error = %v", name, err)
	}
	return def
}

func newCreature(id string, mutate ...func(*model.CreatureSpec)) *model.Creature {
	spec := model.CreatureSpec{
		ID:    id,
		Name:  id,
		Level: 10,
		MaxHP: 1000,
		Room:  &model.BasicRoom{RoomID: "room-1"},
	}
	for _, fn := range mutate {
		fn(&spec)
	}
	return model.NewCreature(spec)
}

func newEnv(src random.Source, msg Messenger) *Env {
	return &Env{Rand: src, Messenger: msg}
}

// tickN advances the manager n times and returns every kind removed.
func tickN(m *Manager, env *Env, n int) []string {
	var removed []string
	for range n {
		removed = append(removed, m.Tick(env).Removed...)
	}
	return removed
}
