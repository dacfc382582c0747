package detection

import (
	"fmt"
	"math"

	alerts "ecocore-cloud/internal/alerts/domain"
	telemetry "ecocore-cloud/internal/telemetry/domain"
)

// Mode selects the detection strategy.
type Mode string

const (
	// ModeDynamic thresholds against a learned per-hour baseline.
	ModeDynamic Mode = "dynamic"
	// ModeStatic is the degraded fallback used when no baseline
	// predictor is configured.
	ModeStatic Mode = "static"
)

// Assessment is the outcome of evaluating one reading. A nil alert
// means no anomaly; room state is still refreshed.
type Assessment struct {
	Alert          *alerts.Alert
	PredictedWater float64
	WaterThreshold float64
}

// Detector classifies sensor readings into water/energy anomalies and
// estimates wastage and cost. It is pure: the caller resolves the
// baseline prediction and persists the result.
type Detector struct {
	mode     Mode
	tuning   Tuning
	peakRate float64
}

// NewDetector constructs a detector. An invalid mode falls back to
// dynamic.
func NewDetector(mode Mode, tuning Tuning, peakRate float64) *Detector {
	if mode != ModeStatic {
		mode = ModeDynamic
	}
	tuning.applyDefaults()
	return &Detector{mode: mode, tuning: tuning, peakRate: peakRate}
}

// Mode reports the configured strategy.
func (d *Detector) Mode() Mode { return d.mode }

// Evaluate classifies a reading against the predicted baseline. The
// water check strictly preempts the energy check; at most one alert is
// produced per reading. predictedWater is ignored in static mode.
func (d *Detector) Evaluate(reading telemetry.SensorReading, predictedWater float64) Assessment {
	if d.mode == ModeStatic {
		return d.evaluateStatic(reading)
	}
	return d.evaluateDynamic(reading, predictedWater)
}

func (d *Detector) evaluateDynamic(reading telemetry.SensorReading, predictedWater float64) Assessment {
	if predictedWater < 0 {
		predictedWater = 0
	}
	waterThreshold := predictedWater*d.tuning.WaterTolerance + d.tuning.WaterSafetyMargin
	out := Assessment{PredictedWater: predictedWater, WaterThreshold: waterThreshold}

	if reading.WaterFlow > waterThreshold {
		deviation := reading.WaterFlow - predictedWater
		out.Alert = d.waterAlert(reading, deviation, waterThreshold, alerts.TypeAnomalyWater)
		return out
	}

	expectedEnergy := float64(reading.Occupancy)*0.2 + 0.2
	energyThreshold := expectedEnergy * d.tuning.EnergyTolerance
	if reading.EnergyLoad > energyThreshold {
		deviation := reading.EnergyLoad - expectedEnergy
		// Small deviations are sensor noise even when the ratio
		// threshold is crossed.
		if deviation > d.tuning.EnergyNoiseFloor {
			out.Alert = d.energyAlert(reading, deviation, energyThreshold, alerts.TypeAnomalyEnergy)
		}
	}
	return out
}

func (d *Detector) evaluateStatic(reading telemetry.SensorReading) Assessment {
	out := Assessment{WaterThreshold: d.tuning.StaticWaterThreshold}
	if reading.Occupancy != 0 {
		return out
	}
	if reading.WaterFlow > d.tuning.StaticWaterThreshold {
		deviation := reading.WaterFlow - d.tuning.StaticWaterThreshold
		alert := d.waterAlert(reading, deviation, d.tuning.StaticWaterThreshold, alerts.TypeCriticalLeak)
		alert.ProbabilityScore = Confidence(reading.WaterFlow, d.tuning.StaticWaterThreshold)
		out.Alert = alert
		return out
	}
	if reading.EnergyLoad > d.tuning.StaticEnergyThreshold {
		deviation := reading.EnergyLoad - d.tuning.StaticEnergyThreshold
		alert := d.energyAlert(reading, deviation, d.tuning.StaticEnergyThreshold, alerts.TypeEnergyWaste)
		alert.ProbabilityScore = Confidence(reading.EnergyLoad, d.tuning.StaticEnergyThreshold)
		out.Alert = alert
	}
	return out
}

func (d *Detector) waterAlert(reading telemetry.SensorReading, deviation, threshold float64, alertType string) *alerts.Alert {
	wastedLiters := deviation * 60
	// 0.5 kWh per cubic meter pumped, billed at peak rate.
	cost := wastedLiters / 1000 * 0.5 * d.peakRate
	return &alerts.Alert{
		Time:             reading.Timestamp,
		Type:             alertType,
		RoomID:           reading.RoomID,
		Message:          fmt.Sprintf("Leak Detected! Flow: %.1fL/m.", reading.WaterFlow),
		ProbableWastage:  fmt.Sprintf("%.1f L", wastedLiters),
		EstimatedSavings: cost,
		ProbabilityScore: probability(deviation, threshold),
		Action:           alerts.ActionCutoffValve,
		Status:           alerts.StatusResolved,
	}
}

func (d *Detector) energyAlert(reading telemetry.SensorReading, deviation, threshold float64, alertType string) *alerts.Alert {
	return &alerts.Alert{
		Time:             reading.Timestamp,
		Type:             alertType,
		RoomID:           reading.RoomID,
		Message:          fmt.Sprintf("Energy Waste! Load: %.2f kW.", reading.EnergyLoad),
		ProbableWastage:  fmt.Sprintf("%.2f kWh", deviation),
		EstimatedSavings: deviation * d.peakRate,
		ProbabilityScore: probability(deviation, threshold),
		Action:           alerts.ActionCutoffRelay,
		Status:           alerts.StatusResolved,
	}
}

func probability(deviation, threshold float64) float64 {
	score := math.Min(99.9, deviation/threshold*100)
	return math.Round(score*10) / 10
}
