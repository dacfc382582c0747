package telemetry

import (
	"errors"
	"time"
)

// SensorReading is one utility sample for a room. Readings are
// constructed at ingestion, consumed once by the detector and never
// stored themselves; only derived alerts persist.
type SensorReading struct {
	RoomID     string    `json:"room_id"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
	Occupancy  int       `json:"occupancy"`
	LightLux   float64   `json:"light_lux"`
	WaterFlow  float64   `json:"water_flow"`
	EnergyLoad float64   `json:"energy_load"`
}

// Validate checks reading invariants. A zero timestamp is allowed and
// resolved to ingestion time by the detector.
func (r SensorReading) Validate() error {
	if r.RoomID == "" {
		return errors.New("sensor reading: empty room id")
	}
	if r.Occupancy < 0 {
		return errors.New("sensor reading: negative occupancy")
	}
	if r.LightLux < 0 {
		return errors.New("sensor reading: negative light lux")
	}
	if r.WaterFlow < 0 {
		return errors.New("sensor reading: negative water flow")
	}
	if r.EnergyLoad < 0 {
		return errors.New("sensor reading: negative energy load")
	}
	return nil
}
