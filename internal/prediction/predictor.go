package prediction

import "context"

// DemandPredictor estimates expected water demand in liters per minute
// for an hour-of-day and room context. Implementations must not fail
// for valid inputs; internal errors degrade to a conservative estimate.
type DemandPredictor interface {
	PredictDemand(ctx context.Context, hour, occupancy int, lightLux float64) float64
}

// StaticModel is the conservative linear fallback used when no trained
// model is reachable.
type StaticModel struct{}

// PredictDemand returns the static estimate occupancy*0.2 + 2.0.
func (StaticModel) PredictDemand(_ context.Context, _ int, occupancy int, _ float64) float64 {
	return float64(occupancy)*0.2 + 2.0
}

// Clamp floors a model output at zero. Trained regressors can return
// small negative values near empty-room inputs.
func Clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
}
