package detection

import "math"

// Confidence converts an observed value's deviation above a threshold
// into a bounded probability-like score in [0, 99]. Values at or below
// the threshold score exactly 0. The threshold must be positive; that
// is the caller's contract.
func Confidence(value, threshold float64) float64 {
	if value <= threshold {
		return 0
	}
	ratio := value / threshold
	confidence := math.Min(0.99, 0.7+ratio*0.1)
	return math.Round(confidence*100*100) / 100
}
