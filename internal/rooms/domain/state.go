package rooms

import (
	"context"
	"time"

	alerts "ecocore-cloud/internal/alerts/domain"
)

// State is the latest known status of a room. Exactly one State exists
// per room id; the last writer wins.
type State struct {
	RoomID      string        `json:"room_id"`
	PumpOn      bool          `json:"pump_on"`
	PowerOn     bool          `json:"power_on"`
	LastUpdate  time.Time     `json:"last_update"`
	LatestAlert *alerts.Alert `json:"latest_alert,omitempty"`
}

// Default returns the state reported for rooms never seen before.
func Default(roomID string) State {
	return State{RoomID: roomID}
}

// Store is a point-queryable room state map.
type Store interface {
	Get(ctx context.Context, roomID string) (State, bool, error)
	Put(ctx context.Context, state State) error
	List(ctx context.Context) ([]State, error)
}
