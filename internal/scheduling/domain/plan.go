package scheduling

import (
	"context"
	"time"
)

const (
	// Off-peak fill window for the roof tank, in hours.
	pumpWindowHours = 8
	// Nominal pump rate used for the human-readable duration, L/h.
	nominalPumpRateLPH = 5000
	// Fallback flow when the baseline predictor returns nothing
	// usable, L/min.
	fallbackFlowLPM = 20.0
	// Pumping energy cost, kWh per cubic meter lifted.
	pumpingKWhPerM3 = 0.5

	batteryCapacityKWh = 100.0
	batteryChargeKWh   = 30.0
	chargerPowerKW     = 10.0

	pumpScheduledTime    = "02:00"
	batteryScheduledTime = "01:00"

	// Hour the pump plan queries the baseline at: deep off-peak,
	// empty building.
	pumpBaselineHour = 2
)

// GridStatusOffPeak labels decisions computed for the off-peak window.
const GridStatusOffPeak = "Off-Peak (Optimized)"

// Decision is one computed off-peak plan, appended to its log and
// immutable thereafter.
type Decision struct {
	ID            int64     `json:"id"`
	Date          string    `json:"date"`
	Timestamp     time.Time `json:"timestamp"`
	Kind          string    `json:"kind"`
	Quantity      float64   `json:"quantity"`
	QuantityUnit  string    `json:"quantity_unit"`
	ScheduledTime string    `json:"scheduled_time"`
	DurationHours float64   `json:"duration_hours"`
	TotalCost     float64   `json:"total_cost"`
	MoneySaved    float64   `json:"money_saved"`
	GridStatus    string    `json:"grid_status"`
}

const (
	KindPump    = "pump"
	KindBattery = "battery"
)

// Rates supplies the tariff inputs for plan cost arithmetic.
type Rates interface {
	Peak() float64
	OffPeak() float64
	Blended() float64
}

// FlowPredictor is the slice of the demand predictor the optimizer
// needs.
type FlowPredictor interface {
	PredictDemand(ctx context.Context, hour, occupancy int, lightLux float64) float64
}

// ComputePumpPlan derives the off-peak pumping plan from the predicted
// deep-night flow. Cost fields depend only on the predictor output and
// rates, so a frozen predictor yields identical plans.
func ComputePumpPlan(ctx context.Context, predictor FlowPredictor, rates Rates, now time.Time) Decision {
	predictedFlow := 0.0
	if predictor != nil {
		predictedFlow = predictor.PredictDemand(ctx, pumpBaselineHour, 0, 0)
	}
	if predictedFlow <= 0 {
		predictedFlow = fallbackFlowLPM
	}

	totalWater := predictedFlow * 60 * pumpWindowHours
	energyKWh := totalWater / 1000 * pumpingKWhPerM3
	actualCost := energyKWh * rates.OffPeak()
	peakCost := energyKWh * rates.Peak()

	return Decision{
		Date:          now.UTC().Format("2006-01-02"),
		Timestamp:     now.UTC(),
		Kind:          KindPump,
		Quantity:      totalWater,
		QuantityUnit:  "L",
		ScheduledTime: pumpScheduledTime,
		DurationHours: totalWater / nominalPumpRateLPH,
		TotalCost:     actualCost,
		MoneySaved:    peakCost - actualCost,
		GridStatus:    GridStatusOffPeak,
	}
}

// ComputeBatteryPlan derives the off-peak charging plan. Capacity and
// current charge are fixed assumptions, not sensor-derived.
func ComputeBatteryPlan(rates Rates, now time.Time) Decision {
	energyNeeded := batteryCapacityKWh - batteryChargeKWh
	actualCost := energyNeeded * rates.OffPeak()
	peakCost := energyNeeded * rates.Peak()

	return Decision{
		Date:          now.UTC().Format("2006-01-02"),
		Timestamp:     now.UTC(),
		Kind:          KindBattery,
		Quantity:      energyNeeded,
		QuantityUnit:  "kWh",
		ScheduledTime: batteryScheduledTime,
		DurationHours: energyNeeded / chargerPowerKW,
		TotalCost:     actualCost,
		MoneySaved:    peakCost - actualCost,
		GridStatus:    GridStatusOffPeak,
	}
}
