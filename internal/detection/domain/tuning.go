package detection

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the detector thresholds. Zero values are replaced with
// the defaults below, so a partial YAML file only overrides what it
// names.
type Tuning struct {
	WaterTolerance        float64 `yaml:"water_tolerance"`
	WaterSafetyMargin     float64 `yaml:"water_safety_margin"`
	EnergyTolerance       float64 `yaml:"energy_tolerance"`
	EnergyNoiseFloor      float64 `yaml:"energy_noise_floor"`
	StaticWaterThreshold  float64 `yaml:"static_water_threshold"`
	StaticEnergyThreshold float64 `yaml:"static_energy_threshold"`
}

// DefaultTuning returns the standard thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		WaterTolerance:        1.5,
		WaterSafetyMargin:     1.0,
		EnergyTolerance:       1.2,
		EnergyNoiseFloor:      0.5,
		StaticWaterThreshold:  2.0,
		StaticEnergyThreshold: 0.5,
	}
}

// LoadTuning reads thresholds from a YAML file, layering them over the
// defaults. An empty path returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	tuning := DefaultTuning()
	if path == "" {
		return tuning, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return tuning, err
	}
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return tuning, err
	}
	tuning.applyDefaults()
	return tuning, nil
}

func (t *Tuning) applyDefaults() {
	defaults := DefaultTuning()
	if t.WaterTolerance <= 0 {
		t.WaterTolerance = defaults.WaterTolerance
	}
	if t.WaterSafetyMargin <= 0 {
		t.WaterSafetyMargin = defaults.WaterSafetyMargin
	}
	if t.EnergyTolerance <= 0 {
		t.EnergyTolerance = defaults.EnergyTolerance
	}
	if t.EnergyNoiseFloor <= 0 {
		t.EnergyNoiseFloor = defaults.EnergyNoiseFloor
	}
	if t.StaticWaterThreshold <= 0 {
		t.StaticWaterThreshold = defaults.StaticWaterThreshold
	}
	if t.StaticEnergyThreshold <= 0 {
		t.StaticEnergyThreshold = defaults.StaticEnergyThreshold
	}
}
