package scheduling

import (
	"context"
	"testing"
	"time"
)

type recordingPredictor struct {
	flow         float64
	maxOccupancy int
	calls        int
}

func (p *recordingPredictor) PredictDemand(_ context.Context, _, occupancy int, _ float64) float64 {
	p.calls++
	if occupancy > p.maxOccupancy {
		p.maxOccupancy = occupancy
	}
	return p.flow
}

func TestForecastBudgetDefaultsToThirtyDays(t *testing.T) {
	forecast := ForecastBudget(context.Background(), fixedFlow{flow: 1}, testRates, time.Now(), 0, 5000)
	if forecast.Days != 30 {
		t.Errorf("days = %d, want 30", forecast.Days)
	}
	if forecast.ProjectedMonth != forecast.TotalCost {
		t.Errorf("30-day forecast should project itself: %v != %v", forecast.ProjectedMonth, forecast.TotalCost)
	}
}

func TestForecastBudgetClassification(t *testing.T) {
	// 1 L/min around the clock: 43,200 L over 30 days, 21.6 kWh at the
	// blended 8.50 rate is well under a 5000 budget.
	under := ForecastBudget(context.Background(), fixedFlow{flow: 1}, testRates, time.Now(), 30, 5000)
	if under.Classification != BudgetUnder {
		t.Errorf("classification = %q, want %q", under.Classification, BudgetUnder)
	}

	over := ForecastBudget(context.Background(), fixedFlow{flow: 300}, testRates, time.Now(), 30, 5000)
	if over.Classification != BudgetOver {
		t.Errorf("classification = %q, want %q", over.Classification, BudgetOver)
	}
	if over.ProjectedMonth <= over.MonthlyBudget {
		t.Errorf("projected %v should exceed budget %v", over.ProjectedMonth, over.MonthlyBudget)
	}
}

func TestForecastBudgetScalesShortHorizons(t *testing.T) {
	// Start on a Monday so both horizons see only weekdays.
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	one := ForecastBudget(context.Background(), fixedFlow{flow: 2}, testRates, monday, 1, 5000)
	five := ForecastBudget(context.Background(), fixedFlow{flow: 2}, testRates, monday, 5, 5000)

	if one.TotalWaterL*5 != five.TotalWaterL {
		t.Errorf("5-day water %v, want 5x the 1-day %v", five.TotalWaterL, one.TotalWaterL)
	}
	if diff := one.ProjectedMonth - five.ProjectedMonth; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("projections differ: %v vs %v", one.ProjectedMonth, five.ProjectedMonth)
	}
}

func TestForecastBudgetOccupancyProfile(t *testing.T) {
	predictor := &recordingPredictor{flow: 1}
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	ForecastBudget(context.Background(), predictor, testRates, monday, 7, 5000)

	if predictor.calls != 7*24 {
		t.Errorf("predictor calls = %d, want %d", predictor.calls, 7*24)
	}
	if predictor.maxOccupancy != weekdayOccupancy {
		t.Errorf("max occupancy = %d, want weekday %d", predictor.maxOccupancy, weekdayOccupancy)
	}

	weekendOnly := &recordingPredictor{flow: 1}
	saturday := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	ForecastBudget(context.Background(), weekendOnly, testRates, saturday, 2, 5000)
	if weekendOnly.maxOccupancy != weekendOccupancy {
		t.Errorf("weekend max occupancy = %d, want %d", weekendOnly.maxOccupancy, weekendOccupancy)
	}
}

func TestForecastBudgetNilPredictorCostsNothing(t *testing.T) {
	forecast := ForecastBudget(context.Background(), nil, testRates, time.Now(), 30, 5000)
	if forecast.TotalWaterL != 0 || forecast.TotalCost != 0 {
		t.Errorf("expected zero usage without predictor, got %+v", forecast)
	}
	if forecast.Classification != BudgetUnder {
		t.Errorf("classification = %q, want %q", forecast.Classification, BudgetUnder)
	}
}
