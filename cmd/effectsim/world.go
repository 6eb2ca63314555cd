package main

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/udisondev/statusfx/internal/game/effect"
	"github.com/udisondev/statusfx/internal/model"
)

// simWorld is the in-memory world a scenario runs in.
type simWorld struct {
	mu     sync.RWMutex
	rooms  map[string]*model.BasicRoom
	actors map[string]*model.Creature
}

var _ effect.World = (*simWorld)(nil)

func newSimWorld(sc *Scenario) (*simWorld, error) {
	w := &simWorld{
		rooms:  make(map[string]*model.BasicRoom, len(sc.Rooms)),
		actors: make(map[string]*model.Creature, len(sc.Actors)),
	}
	for _, r := range sc.Rooms {
		w.rooms[r.ID] = &model.BasicRoom{
			RoomID:     r.ID,
			MagicBonus: r.Magic,
			Sunlit:     r.Sunlit,
			Forest:     r.Forest,
		}
	}
	for _, a := range sc.Actors {
		spec, err := a.creatureSpec(w.room(a.Room))
		if err != nil {
			return nil, err
		}
		w.actors[a.ID] = model.NewCreature(spec)
	}
	return w, nil
}

// room returns the room as a model.Room, or a nil interface when unknown.
func (w *simWorld) room(id string) model.Room {
	if r, ok := w.rooms[id]; ok {
		return r
	}
	return nil
}

// Actor implements effect.World.
func (w *simWorld) Actor(id string) (model.Actor, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.actors[id]
	if !ok {
		return nil, false
	}
	return c, true
}

func (w *simWorld) creature(id string) (*model.Creature, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.actors[id]
	return c, ok
}

// Move places the actor in roomID; an empty room takes it out of the world.
func (w *simWorld) Move(actorID, roomID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.actors[actorID]
	if !ok {
		return fmt.Errorf("%w: %s", effect.ErrUnknownActor, actorID)
	}
	c.MoveTo(w.room(roomID))
	return nil
}

// IDs returns every actor ID in sorted order.
func (w *simWorld) IDs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]string, 0, len(w.actors))
	for id := range w.actors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// consoleMessenger prints effect text as it would reach players.
type consoleMessenger struct {
	mu  sync.Mutex
	out io.Writer
}

var _ effect.Messenger = (*consoleMessenger)(nil)

func (m *consoleMessenger) Send(to model.Actor, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(m.out, "  [%s] %s\n", to.ID(), text)
}

func (m *consoleMessenger) Broadcast(room model.Room, about model.Actor, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(m.out, "  [room %s, about %s] %s\n", room.ID(), about.ID(), text)
}
