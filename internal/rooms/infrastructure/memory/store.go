package memory

import (
	"context"
	"sort"
	"sync"

	rooms "ecocore-cloud/internal/rooms/domain"
)

// StateStore is an in-memory room state map.
type StateStore struct {
	mu   sync.RWMutex
	data map[string]rooms.State
}

// NewStateStore constructs an empty store.
func NewStateStore() *StateStore {
	return &StateStore{data: make(map[string]rooms.State)}
}

// Get returns the state for a room and whether it was present.
func (s *StateStore) Get(ctx context.Context, roomID string) (rooms.State, bool, error) {
	_ = ctx
	s.mu.RLock()
	state, ok := s.data[roomID]
	s.mu.RUnlock()
	if !ok {
		return rooms.Default(roomID), false, nil
	}
	return state, true, nil
}

// Put stores the state, replacing any previous entry for the room.
func (s *StateStore) Put(ctx context.Context, state rooms.State) error {
	_ = ctx
	s.mu.Lock()
	s.data[state.RoomID] = state
	s.mu.Unlock()
	return nil
}

// List returns all room states ordered by room id.
func (s *StateStore) List(ctx context.Context) ([]rooms.State, error) {
	_ = ctx
	s.mu.RLock()
	out := make([]rooms.State, 0, len(s.data))
	for _, state := range s.data {
		out = append(out, state)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out, nil
}
