package scheduling

import (
	"context"
	"time"
)

const (
	weekdayOccupancy = 40
	weekendOccupancy = 5
	businessOpenHour = 9
	businessCloseHr  = 18
)

const (
	BudgetUnder = "UNDER_BUDGET"
	BudgetOver  = "OVER_BUDGET"
)

// BudgetForecast is a multi-day water cost projection against a fixed
// monthly budget.
type BudgetForecast struct {
	Days           int     `json:"days"`
	TotalWaterL    float64 `json:"total_water_l"`
	TotalCost      float64 `json:"total_cost"`
	ProjectedMonth float64 `json:"projected_month_cost"`
	MonthlyBudget  float64 `json:"monthly_budget"`
	Classification string  `json:"classification"`
}

// ForecastBudget simulates the next days of predicted water demand,
// alternating weekday/weekend occupancy profiles, and classifies the
// 30-day projection against the monthly budget. Costs use the blended
// rate since pumping duty cycle over a month is unknown.
func ForecastBudget(ctx context.Context, predictor FlowPredictor, rates Rates, start time.Time, days int, monthlyBudget float64) BudgetForecast {
	if days <= 0 {
		days = 30
	}

	totalWater := 0.0
	for d := 0; d < days; d++ {
		day := start.UTC().AddDate(0, 0, d)
		for hour := 0; hour < 24; hour++ {
			occupancy := occupancyAt(day.Weekday(), hour)
			lux := float64(occupancy) * 5
			flow := 0.0
			if predictor != nil {
				flow = predictor.PredictDemand(ctx, hour, occupancy, lux)
			}
			if flow < 0 {
				flow = 0
			}
			totalWater += flow * 60
		}
	}

	totalCost := totalWater / 1000 * pumpingKWhPerM3 * rates.Blended()
	projected := totalCost
	if days != 30 {
		projected = totalCost / float64(days) * 30
	}

	classification := BudgetUnder
	if projected > monthlyBudget {
		classification = BudgetOver
	}
	return BudgetForecast{
		Days:           days,
		TotalWaterL:    totalWater,
		TotalCost:      totalCost,
		ProjectedMonth: projected,
		MonthlyBudget:  monthlyBudget,
		Classification: classification,
	}
}

func occupancyAt(weekday time.Weekday, hour int) int {
	if hour < businessOpenHour || hour > businessCloseHr {
		return 0
	}
	if weekday == time.Saturday || weekday == time.Sunday {
		return weekendOccupancy
	}
	return weekdayOccupancy
}
