package alerts

import "time"

const (
	TypeCriticalLeak   = "CRITICAL_LEAK"
	TypeEnergyWaste    = "ENERGY_WASTE"
	TypeAnomalyWater   = "AI_ANOMALY_WATER"
	TypeAnomalyEnergy  = "AI_ANOMALY_ENERGY"
	TypeManualOverride = "MANUAL_OVERRIDE"
)

const (
	StatusResolved = "RESOLVED"
	StatusManual   = "MANUAL"
)

const (
	ActionCutoffValve = "AUTO_CUTOFF (Solenoid Valve)"
	ActionCutoffRelay = "AUTO_CUTOFF (Smart Relay)"
	ActionExecuted    = "EXECUTED"
)

// Alert is one detected anomaly or manual action. Once appended to a
// log it is immutable; ids are assigned by the log on append.
type Alert struct {
	ID               int64     `json:"id"`
	Time             time.Time `json:"time"`
	Type             string    `json:"type"`
	RoomID           string    `json:"room_id"`
	Message          string    `json:"message"`
	ProbableWastage  string    `json:"probable_wastage,omitempty"`
	EstimatedSavings float64   `json:"estimated_savings"`
	ProbabilityScore float64   `json:"probability_score"`
	Action           string    `json:"action"`
	Status           string    `json:"status"`
}

// ValidType returns true when the alert type is known.
func ValidType(value string) bool {
	switch value {
	case TypeCriticalLeak, TypeEnergyWaste, TypeAnomalyWater, TypeAnomalyEnergy, TypeManualOverride:
		return true
	default:
		return false
	}
}
