package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	rooms "ecocore-cloud/internal/rooms/domain"
)

const keyPrefix = "room:"

// StateStore keeps room state in Redis so dashboard replicas can read
// it out-of-process.
type StateStore struct {
	client *redis.Client
}

// NewStateStore connects to Redis and verifies the connection.
func NewStateStore(addr string) (*StateStore, error) {
	if addr == "" {
		return nil, errors.New("room redis: empty addr")
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     100,
		MinIdleConns: 10,
		MaxRetries:   3,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("room redis: ping: %w", err)
	}
	return &StateStore{client: client}, nil
}

// Get loads the state for a room.
func (s *StateStore) Get(ctx context.Context, roomID string) (rooms.State, bool, error) {
	if s == nil || s.client == nil {
		return rooms.State{}, false, errors.New("room redis: nil client")
	}
	data, err := s.client.Get(ctx, keyPrefix+roomID).Bytes()
	if errors.Is(err, redis.Nil) {
		return rooms.Default(roomID), false, nil
	}
	if err != nil {
		return rooms.State{}, false, err
	}
	var state rooms.State
	if err := json.Unmarshal(data, &state); err != nil {
		return rooms.State{}, false, fmt.Errorf("room redis: decode %s: %w", roomID, err)
	}
	return state, true, nil
}

// Put stores the state, replacing any previous entry for the room.
func (s *StateStore) Put(ctx context.Context, state rooms.State) error {
	if s == nil || s.client == nil {
		return errors.New("room redis: nil client")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("room redis: encode %s: %w", state.RoomID, err)
	}
	// Status entries never expire; the latest write is authoritative.
	return s.client.Set(ctx, keyPrefix+state.RoomID, data, 0).Err()
}

// List scans all room keys and returns their states ordered by room id.
func (s *StateStore) List(ctx context.Context) ([]rooms.State, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("room redis: nil client")
	}
	var out []rooms.State
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var state rooms.State
		if err := json.Unmarshal(data, &state); err != nil {
			continue
		}
		out = append(out, state)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out, nil
}

// Close releases the client.
func (s *StateStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
