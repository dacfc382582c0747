package control

import (
	"errors"
	"strings"
)

const (
	UtilityWater = "WATER"
	UtilityPower = "POWER"
)

const (
	ActionOn  = "ON"
	ActionOff = "OFF"
)

// OverrideCommand forces a utility on or off in a room, superseding
// any automated decision.
type OverrideCommand struct {
	RoomID  string `json:"room_id"`
	Utility string `json:"utility"`
	Action  string `json:"action"`
	User    string `json:"user,omitempty"`
}

// Normalize uppercases fields, strips the legacy FORCE_ action prefix
// and defaults the user.
func (c *OverrideCommand) Normalize() {
	c.Utility = strings.ToUpper(strings.TrimSpace(c.Utility))
	c.Action = strings.ToUpper(strings.TrimSpace(c.Action))
	c.Action = strings.TrimPrefix(c.Action, "FORCE_")
	if c.User == "" {
		c.User = "Operator"
	}
}

// Validate checks command invariants.
func (c OverrideCommand) Validate() error {
	if c.RoomID == "" {
		return errors.New("override: empty room id")
	}
	if c.Utility != UtilityWater && c.Utility != UtilityPower {
		return errors.New("override: unknown utility")
	}
	if c.Action != ActionOn && c.Action != ActionOff {
		return errors.New("override: unknown action")
	}
	return nil
}
