package application

import (
	"context"
	"errors"
	"time"

	"ecocore-cloud/internal/observability/metrics"
	"ecocore-cloud/internal/pricing"
	scheduling "ecocore-cloud/internal/scheduling/domain"
)

// Clock provides time.
type Clock interface {
	Now() time.Time
}

// Optimizer computes off-peak plans and appends them to their logs.
type Optimizer struct {
	predictor     scheduling.FlowPredictor
	tariff        *pricing.Tariff
	pumpLog       scheduling.DecisionLog
	batteryLog    scheduling.DecisionLog
	monthlyBudget float64
	clock         Clock
}

// OptimizerOption customizes the optimizer.
type OptimizerOption func(*Optimizer)

// WithClock assigns a clock.
func WithClock(clock Clock) OptimizerOption {
	return func(o *Optimizer) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithMonthlyBudget overrides the budget threshold for forecasts.
func WithMonthlyBudget(budget float64) OptimizerOption {
	return func(o *Optimizer) {
		if budget > 0 {
			o.monthlyBudget = budget
		}
	}
}

// NewOptimizer constructs an optimizer. The predictor may be nil; the
// pump plan then runs on its safety fallback flow.
func NewOptimizer(predictor scheduling.FlowPredictor, tariff *pricing.Tariff, pumpLog, batteryLog scheduling.DecisionLog, opts ...OptimizerOption) (*Optimizer, error) {
	if tariff == nil {
		return nil, errors.New("optimizer: nil tariff")
	}
	if pumpLog == nil || batteryLog == nil {
		return nil, errors.New("optimizer: nil decision log")
	}
	optimizer := &Optimizer{
		predictor:     predictor,
		tariff:        tariff,
		pumpLog:       pumpLog,
		batteryLog:    batteryLog,
		monthlyBudget: 5000,
		clock:         systemClock{},
	}
	for _, opt := range opts {
		opt(optimizer)
	}
	return optimizer, nil
}

// OptimizePump computes and records the off-peak pumping plan.
func (o *Optimizer) OptimizePump(ctx context.Context) (*scheduling.Decision, error) {
	if o == nil {
		return nil, errors.New("optimizer: nil optimizer")
	}
	plan := scheduling.ComputePumpPlan(ctx, o.predictor, o.tariff, o.clock.Now())
	stored, err := o.pumpLog.Append(ctx, &plan)
	metrics.ScheduleRun(scheduling.KindPump, err == nil)
	return stored, err
}

// OptimizeBattery computes and records the off-peak charging plan.
func (o *Optimizer) OptimizeBattery(ctx context.Context) (*scheduling.Decision, error) {
	if o == nil {
		return nil, errors.New("optimizer: nil optimizer")
	}
	plan := scheduling.ComputeBatteryPlan(o.tariff, o.clock.Now())
	stored, err := o.batteryLog.Append(ctx, &plan)
	metrics.ScheduleRun(scheduling.KindBattery, err == nil)
	return stored, err
}

// ForecastBudget projects water cost over the next days against the
// monthly budget. Forecasts are not logged; they are advisory reads.
func (o *Optimizer) ForecastBudget(ctx context.Context, days int) scheduling.BudgetForecast {
	return scheduling.ForecastBudget(ctx, o.predictor, o.tariff, o.clock.Now(), days, o.monthlyBudget)
}

// PumpHistory lists recorded pump decisions, newest first.
func (o *Optimizer) PumpHistory(ctx context.Context, limit int) ([]scheduling.Decision, error) {
	return o.pumpLog.ListDesc(ctx, limit)
}

// BatteryHistory lists recorded battery decisions, newest first.
func (o *Optimizer) BatteryHistory(ctx context.Context, limit int) ([]scheduling.Decision, error) {
	return o.batteryLog.ListDesc(ctx, limit)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
