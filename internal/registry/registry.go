// Package registry implements the process-wide Room Registry: a
// create/lookup/list/delete map from room id to Room, guarded by a single
// lock that is never held across a room's own work.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"holdemroom/holdem"
	"holdemroom/internal/room"
)

const (
	defaultIdleRoomTTL    = 60 * time.Second
	defaultCleanupInterval = 30 * time.Second
)

// DefaultConfig is the table configuration used for rooms created via
// QuickStart; cmd/server's create-room handler starts from it and
// overrides name, blinds and betting mode.
var DefaultConfig = room.Config{
	Name:        "quick table",
	MaxPlayers:  6,
	SmallBlind:  50,
	BigBlind:    100,
	Ante:        0,
	BettingMode: holdem.BettingModeNoLimit,
	BuyIn:       10000,
}

// Registry owns every live Room.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*room.Room

	sessions room.Broadcaster

	idleTTL         time.Duration
	cleanupInterval time.Duration
	done            chan struct{}
	stopOnce        sync.Once
}

// New creates a registry and starts its idle-room cleanup loop.
func New(sessions room.Broadcaster) *Registry {
	reg := &Registry{
		rooms:           make(map[string]*room.Room),
		sessions:        sessions,
		idleTTL:         defaultIdleRoomTTL,
		cleanupInterval: defaultCleanupInterval,
		done:            make(chan struct{}),
	}
	go reg.cleanupLoop()
	return reg
}

// QuickStart returns a room with an open seat for userID, preferring one
// the player is already seated at, then any room with room, then a freshly
// created one.
func (reg *Registry) QuickStart(userID uint64) (*room.Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for id, rm := range reg.rooms {
		if rm.IsClosed() {
			delete(reg.rooms, id)
			continue
		}
		snap := rm.Snapshot()
		for _, p := range snap.Players {
			if p.ID == userID {
				return rm, nil
			}
		}
	}

	for id, rm := range reg.rooms {
		if rm.IsClosed() {
			delete(reg.rooms, id)
			continue
		}
		if len(rm.Snapshot().Players) < int(rm.Config.MaxPlayers) {
			return rm, nil
		}
	}

	return reg.createLocked(DefaultConfig)
}

// CreateRoom creates a new room with the given config.
func (reg *Registry) CreateRoom(cfg room.Config) (*room.Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.createLocked(cfg)
}

func (reg *Registry) createLocked(cfg room.Config) (*room.Room, error) {
	id := uuid.NewString()
	rm, err := room.New(id, cfg, reg.sessions, reg.onRoomEmpty)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	reg.rooms[id] = rm
	return rm, nil
}

// GetRoom looks a room up by id.
func (reg *Registry) GetRoom(id string) (*room.Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	rm, ok := reg.rooms[id]
	return rm, ok
}

// ListRooms returns every live room's id.
func (reg *Registry) ListRooms() []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	ids := make([]string, 0, len(reg.rooms))
	for id, rm := range reg.rooms {
		if !rm.IsClosed() {
			ids = append(ids, id)
		}
	}
	return ids
}

// onRoomEmpty is invoked by a room's own actor goroutine once its last
// seat leaves; it never runs with the room's own work in flight, but still
// takes the registry lock, never a room lock, honoring the single-lock
// rule between rooms.
func (reg *Registry) onRoomEmpty(roomID string) {
	reg.mu.Lock()
	rm, ok := reg.rooms[roomID]
	if ok {
		delete(reg.rooms, roomID)
	}
	reg.mu.Unlock()
	if ok {
		rm.Stop()
	}
}

func (reg *Registry) cleanupLoop() {
	ticker := time.NewTicker(reg.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			reg.cleanupIdle()
		case <-reg.done:
			return
		}
	}
}

func (reg *Registry) cleanupIdle() int {
	reg.mu.Lock()
	idle := make([]*room.Room, 0)
	for id, rm := range reg.rooms {
		if rm.IsClosed() || rm.IsIdleFor(reg.idleTTL) {
			delete(reg.rooms, id)
			idle = append(idle, rm)
		}
	}
	reg.mu.Unlock()

	for _, rm := range idle {
		rm.Stop()
	}
	return len(idle)
}

// Stop shuts down housekeeping and every remaining room.
func (reg *Registry) Stop() {
	reg.stopOnce.Do(func() {
		close(reg.done)
		reg.mu.Lock()
		rooms := make([]*room.Room, 0, len(reg.rooms))
		for _, rm := range reg.rooms {
			rooms = append(rooms, rm)
		}
		reg.rooms = make(map[string]*room.Room)
		reg.mu.Unlock()
		for _, rm := range rooms {
			rm.Stop()
		}
	})
}
