package pricing

import (
	"errors"
	"time"
)

const (
	// DefaultPeakRate and DefaultOffPeakRate are the grid tariffs in
	// currency units per kWh.
	DefaultPeakRate    = 10.20
	DefaultOffPeakRate = 6.80

	defaultOffPeakStartHour = 22
	defaultOffPeakEndHour   = 6
)

// Tariff resolves the electricity price for a point in time from a
// peak rate, an off-peak rate and a nightly off-peak window.
type Tariff struct {
	peak         float64
	offPeak      float64
	offPeakStart int
	offPeakEnd   int
}

// TariffOption configures the tariff.
type TariffOption func(*Tariff)

// WithOffPeakWindow overrides the nightly off-peak window. The window
// wraps midnight when start > end.
func WithOffPeakWindow(startHour, endHour int) TariffOption {
	return func(t *Tariff) {
		if startHour >= 0 && startHour < 24 && endHour >= 0 && endHour < 24 {
			t.offPeakStart = startHour
			t.offPeakEnd = endHour
		}
	}
}

// NewTariff constructs a tariff.
func NewTariff(peak, offPeak float64, opts ...TariffOption) (*Tariff, error) {
	if peak < 0 || offPeak < 0 {
		return nil, errors.New("tariff: negative rate")
	}
	if offPeak > peak {
		return nil, errors.New("tariff: off-peak rate above peak rate")
	}
	t := &Tariff{
		peak:         peak,
		offPeak:      offPeak,
		offPeakStart: defaultOffPeakStartHour,
		offPeakEnd:   defaultOffPeakEndHour,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// DefaultTariff returns the standard grid tariff.
func DefaultTariff() *Tariff {
	t, _ := NewTariff(DefaultPeakRate, DefaultOffPeakRate)
	return t
}

// Peak returns the peak rate per kWh.
func (t *Tariff) Peak() float64 { return t.peak }

// OffPeak returns the off-peak rate per kWh.
func (t *Tariff) OffPeak() float64 { return t.offPeak }

// Blended returns the mean of peak and off-peak, used for long-range
// projections where the duty cycle is unknown.
func (t *Tariff) Blended() float64 { return (t.peak + t.offPeak) / 2 }

// PriceAt returns the rate per kWh in effect at the given time.
func (t *Tariff) PriceAt(at time.Time) float64 {
	if t == nil {
		return 0
	}
	hour := at.UTC().Hour()
	if t.offPeakStart <= t.offPeakEnd {
		if hour >= t.offPeakStart && hour < t.offPeakEnd {
			return t.offPeak
		}
		return t.peak
	}
	if hour >= t.offPeakStart || hour < t.offPeakEnd {
		return t.offPeak
	}
	return t.peak
}
