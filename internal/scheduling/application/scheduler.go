package application

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the optimizers nightly so the decision logs fill
// without dashboard traffic. Cron specs default to the plans' own
// scheduled times.
type Scheduler struct {
	optimizer *Optimizer
	logger    *log.Logger
	cron      *cron.Cron
}

// NewScheduler constructs a scheduler.
func NewScheduler(optimizer *Optimizer, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{optimizer: optimizer, logger: logger}
}

// Start registers the cron entries and begins the loop. Empty specs
// fall back to 01:00 (battery) and 02:00 (pump) UTC.
func (s *Scheduler) Start(ctx context.Context, pumpSpec, batterySpec string) error {
	if s == nil || s.optimizer == nil {
		return nil
	}
	if pumpSpec == "" {
		pumpSpec = "0 2 * * *"
	}
	if batterySpec == "" {
		batterySpec = "0 1 * * *"
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(pumpSpec, func() {
		if _, err := s.optimizer.OptimizePump(context.Background()); err != nil {
			s.logger.Printf("schedule pump error: %v", err)
		}
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(batterySpec, func() {
		if _, err := s.optimizer.OptimizeBattery(context.Background()); err != nil {
			s.logger.Printf("schedule battery error: %v", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	go func() {
		<-ctx.Done()
		s.cron.Stop()
	}()
	return nil
}
