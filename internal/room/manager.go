package room

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playmatatu/hoopshot/internal/game"
)

// Manager keeps the live rooms of this process.
type Manager struct {
	rooms    map[string]*managedRoom
	presets  map[string]game.Params
	observer Observer
	opts     Options
	maxRooms int

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
}

type managedRoom struct {
	*Room
	cancel context.CancelFunc
}

// NewManager creates a manager whose rooms all stop when Shutdown is called.
func NewManager(presets map[string]game.Params, observer Observer, opts Options, maxRooms int) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		rooms:    make(map[string]*managedRoom),
		presets:  presets,
		observer: observer,
		opts:     opts,
		maxRooms: maxRooms,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Variants returns the parameter sets rooms can be created with.
func (m *Manager) Variants() map[string]game.Params {
	out := make(map[string]game.Params, len(m.presets))
	for k, v := range m.presets {
		out[k] = v
	}
	return out
}

// Create starts a new room running the named variant.
func (m *Manager) Create(variant, playerName string) (*Room, error) {
	params, ok := m.presets[variant]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}

	m.mu.Lock()
	if m.maxRooms > 0 && len(m.rooms) >= m.maxRooms {
		m.mu.Unlock()
		return nil, ErrTooManyRooms
	}
	id := uuid.NewString()
	r := New(id, playerName, params, m.observer, m.opts)
	ctx, cancel := context.WithCancel(m.ctx)
	m.rooms[id] = &managedRoom{Room: r, cancel: cancel}
	m.mu.Unlock()

	go func() {
		r.Run(ctx)
		m.forget(id, r)
	}()

	log.Printf("[ROOM] Created %s (variant=%s player=%q)", id, variant, playerName)
	return r, nil
}

func (m *Manager) Get(id string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mr, ok := m.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return mr.Room, nil
}

// Close tears a room down and waits for its loop to exit.
func (m *Manager) Close(id string) error {
	m.mu.RLock()
	mr, ok := m.rooms[id]
	m.mu.RUnlock()
	if !ok {
		return ErrRoomNotFound
	}

	mr.cancel()
	<-mr.Done()
	m.forget(id, mr.Room)
	return nil
}

// List returns the live rooms ordered by creation time.
func (m *Manager) List(ctx context.Context) []Info {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, mr := range m.rooms {
		rooms = append(rooms, mr.Room)
	}
	m.mu.RUnlock()

	infos := make([]Info, 0, len(rooms))
	for _, r := range rooms {
		snap, err := r.Snapshot(ctx)
		if err != nil {
			continue
		}
		infos = append(infos, r.info(snap))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].CreatedAt.Before(infos[j].CreatedAt) })
	return infos
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Shutdown stops every room and waits for them to finish.
func (m *Manager) Shutdown() {
	m.cancel()
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, mr := range m.rooms {
		rooms = append(rooms, mr.Room)
	}
	m.mu.RUnlock()

	for _, r := range rooms {
		<-r.Done()
	}
	log.Printf("[ROOM] Manager shut down (%d rooms stopped)", len(rooms))
}

// forget removes id only if it still maps to r.
func (m *Manager) forget(id string, r *Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.rooms[id]; ok && cur.Room == r {
		delete(m.rooms, id)
	}
}

// idleRooms returns rooms with no player input since cutoff.
func (m *Manager) idleRooms(cutoff time.Time) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, mr := range m.rooms {
		if mr.LastActivity().Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}
