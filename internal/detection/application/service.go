package application

import (
	"context"
	"errors"
	"time"

	alerts "ecocore-cloud/internal/alerts/domain"
	detection "ecocore-cloud/internal/detection/domain"
	"ecocore-cloud/internal/eventbus"
	"ecocore-cloud/internal/observability/metrics"
	"ecocore-cloud/internal/prediction"
	rooms "ecocore-cloud/internal/rooms/domain"
	telemetry "ecocore-cloud/internal/telemetry/domain"
)

// Clock provides time.
type Clock interface {
	Now() time.Time
}

// Service evaluates sensor readings, appends alerts and refreshes room
// state. The detector decides what to write; the log and store decide
// how.
type Service struct {
	detector  *detection.Detector
	predictor prediction.DemandPredictor
	log       alerts.Log
	states    rooms.Store
	bus       eventbus.EventBus
	clock     Clock
}

// ServiceOption customizes the detection service.
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

// NewService constructs the detection service. A nil predictor selects
// static mode; otherwise the detector runs against the dynamic
// baseline.
func NewService(detector *detection.Detector, predictor prediction.DemandPredictor, log alerts.Log, states rooms.Store, opts ...ServiceOption) (*Service, error) {
	if detector == nil {
		return nil, errors.New("detection: nil detector")
	}
	if log == nil {
		return nil, errors.New("detection: nil alert log")
	}
	if states == nil {
		return nil, errors.New("detection: nil room store")
	}
	if detector.Mode() == detection.ModeDynamic && predictor == nil {
		return nil, errors.New("detection: dynamic mode requires a predictor")
	}
	service := &Service{
		detector:  detector,
		predictor: predictor,
		log:       log,
		states:    states,
		clock:     systemClock{},
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Ingest evaluates one reading. It returns the appended alert, or nil
// when the reading is normal; room state is refreshed either way.
func (s *Service) Ingest(ctx context.Context, reading telemetry.SensorReading) (*alerts.Alert, error) {
	if s == nil {
		return nil, errors.New("detection: nil service")
	}
	if err := reading.Validate(); err != nil {
		return nil, err
	}
	if reading.Timestamp.IsZero() {
		reading.Timestamp = s.clock.Now()
	}

	var predicted float64
	if s.detector.Mode() == detection.ModeDynamic {
		predicted = prediction.Clamp(s.predictor.PredictDemand(
			ctx,
			reading.Timestamp.UTC().Hour(),
			reading.Occupancy,
			reading.LightLux,
		))
	}

	assessment := s.detector.Evaluate(reading, predicted)

	var appended *alerts.Alert
	if assessment.Alert != nil {
		stored, err := s.log.Append(ctx, assessment.Alert)
		if err != nil {
			return nil, err
		}
		appended = stored
		metrics.AlertRaised(stored.Type)
		if s.bus != nil {
			_ = s.bus.Publish(ctx, AlertRaised{Alert: *stored})
		}
	}

	if err := s.updateRoomState(ctx, reading, appended); err != nil {
		return appended, err
	}
	return appended, nil
}

// updateRoomState keeps the flags from the previous state unless an
// auto-cutoff fired; the reading itself never toggles utilities.
func (s *Service) updateRoomState(ctx context.Context, reading telemetry.SensorReading, alert *alerts.Alert) error {
	state, found, err := s.states.Get(ctx, reading.RoomID)
	if err != nil {
		return err
	}
	if !found {
		state = rooms.State{RoomID: reading.RoomID, PumpOn: true, PowerOn: true}
	}
	state.LastUpdate = reading.Timestamp
	state.LatestAlert = alert
	if alert != nil {
		switch alert.Type {
		case alerts.TypeAnomalyWater, alerts.TypeCriticalLeak:
			state.PumpOn = false
		case alerts.TypeAnomalyEnergy, alerts.TypeEnergyWaste:
			state.PowerOn = false
		}
	}
	return s.states.Put(ctx, state)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
