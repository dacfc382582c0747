package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	alerts "ecocore-cloud/internal/alerts/domain"
	control "ecocore-cloud/internal/control/domain"
	detectionapp "ecocore-cloud/internal/detection/application"
	"ecocore-cloud/internal/eventbus"
	"ecocore-cloud/internal/observability/metrics"
	rooms "ecocore-cloud/internal/rooms/domain"
)

// Clock provides time.
type Clock interface {
	Now() time.Time
}

// Service records manual override commands. An override always logs an
// alert; room state is only touched for rooms that have reported at
// least once.
type Service struct {
	log    alerts.Log
	states rooms.Store
	bus    eventbus.EventBus
	clock  Clock
}

// ServiceOption customizes the override service.
type ServiceOption func(*Service)

// WithClock assigns a clock.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithEventBus assigns a bus for AlertRaised events.
func WithEventBus(bus eventbus.EventBus) ServiceOption {
	return func(s *Service) {
		s.bus = bus
	}
}

// NewService constructs the override service.
func NewService(log alerts.Log, states rooms.Store, opts ...ServiceOption) (*Service, error) {
	if log == nil {
		return nil, errors.New("override: nil alert log")
	}
	if states == nil {
		return nil, errors.New("override: nil room store")
	}
	service := &Service{log: log, states: states, clock: systemClock{}}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Override applies the command. It always succeeds for a valid
// command: the alert is logged even when the room is unknown and the
// state update becomes a no-op.
func (s *Service) Override(ctx context.Context, cmd control.OverrideCommand) (*alerts.Alert, error) {
	if s == nil {
		return nil, errors.New("override: nil service")
	}
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	now := s.clock.Now()

	alert := &alerts.Alert{
		Time:             now,
		Type:             alerts.TypeManualOverride,
		RoomID:           cmd.RoomID,
		Message:          fmt.Sprintf("%s forced %s %s in %s.", cmd.User, cmd.Utility, cmd.Action, cmd.RoomID),
		ProbabilityScore: 100,
		Action:           alerts.ActionExecuted,
		Status:           alerts.StatusManual,
	}
	stored, err := s.log.Append(ctx, alert)
	if err != nil {
		return nil, err
	}
	metrics.OverrideApplied(cmd.Utility, cmd.Action)
	if s.bus != nil {
		_ = s.bus.Publish(ctx, detectionapp.AlertRaised{Alert: *stored})
	}

	state, found, err := s.states.Get(ctx, cmd.RoomID)
	if err != nil {
		return stored, err
	}
	if !found {
		// Unknown room: alert is recorded, state stays untouched.
		return stored, nil
	}

	on := cmd.Action == control.ActionOn
	switch cmd.Utility {
	case control.UtilityWater:
		state.PumpOn = on
	case control.UtilityPower:
		state.PowerOn = on
	}
	state.LastUpdate = now
	state.LatestAlert = stored
	if err := s.states.Put(ctx, state); err != nil {
		return stored, err
	}
	return stored, nil
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
