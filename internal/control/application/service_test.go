package application

import (
	"context"
	"testing"
	"time"

	alerts "ecocore-cloud/internal/alerts/domain"
	alertmemory "ecocore-cloud/internal/alerts/infrastructure/memory"
	control "ecocore-cloud/internal/control/domain"
	rooms "ecocore-cloud/internal/rooms/domain"
	roommemory "ecocore-cloud/internal/rooms/infrastructure/memory"
)

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

var testNow = time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC)

func newOverrideService(t *testing.T) (*Service, *alertmemory.AlertLog, *roommemory.StateStore) {
	t.Helper()
	log := alertmemory.NewAlertLog()
	states := roommemory.NewStateStore()
	service, err := NewService(log, states, WithClock(fixedClock{at: testNow}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service, log, states
}

func seedRoom(t *testing.T, states *roommemory.StateStore, roomID string) {
	t.Helper()
	if err := states.Put(context.Background(), rooms.State{RoomID: roomID, PumpOn: true, PowerOn: true}); err != nil {
		t.Fatalf("seed room: %v", err)
	}
}

func TestOverrideTogglesWaterFlag(t *testing.T) {
	service, log, states := newOverrideService(t)
	seedRoom(t, states, "room-101")

	alert, err := service.Override(context.Background(), control.OverrideCommand{
		RoomID:  "room-101",
		Utility: "WATER",
		Action:  "OFF",
		User:    "admin",
	})
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	if alert.Type != alerts.TypeManualOverride {
		t.Errorf("alert type = %q, want %q", alert.Type, alerts.TypeManualOverride)
	}
	if alert.ProbabilityScore != 100 {
		t.Errorf("probability = %v, want 100", alert.ProbabilityScore)
	}
	if alert.Status != alerts.StatusManual {
		t.Errorf("status = %q, want %q", alert.Status, alerts.StatusManual)
	}
	if alert.Message != "admin forced WATER OFF in room-101." {
		t.Errorf("message = %q", alert.Message)
	}
	if log.Len() != 1 {
		t.Errorf("log length = %d, want 1", log.Len())
	}

	state, _, _ := states.Get(context.Background(), "room-101")
	if state.PumpOn {
		t.Error("pump still on after WATER OFF override")
	}
	if !state.PowerOn {
		t.Error("power toggled by a WATER override")
	}
	if !state.LastUpdate.Equal(testNow) {
		t.Errorf("last update = %v, want %v", state.LastUpdate, testNow)
	}
}

func TestOverrideTurnsPowerBackOn(t *testing.T) {
	service, _, states := newOverrideService(t)
	seedRoom(t, states, "room-102")
	off := rooms.State{RoomID: "room-102", PumpOn: true, PowerOn: false}
	if err := states.Put(context.Background(), off); err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, err := service.Override(context.Background(), control.OverrideCommand{
		RoomID:  "room-102",
		Utility: "POWER",
		Action:  "ON",
	}); err != nil {
		t.Fatalf("override: %v", err)
	}
	state, _, _ := states.Get(context.Background(), "room-102")
	if !state.PowerOn {
		t.Error("power still off after POWER ON override")
	}
}

func TestOverrideNormalizesLegacyActions(t *testing.T) {
	service, _, states := newOverrideService(t)
	seedRoom(t, states, "room-103")

	alert, err := service.Override(context.Background(), control.OverrideCommand{
		RoomID:  "room-103",
		Utility: "water",
		Action:  "force_off",
	})
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	// User defaults to Operator, action loses the FORCE_ prefix.
	if alert.Message != "Operator forced WATER OFF in room-103." {
		t.Errorf("message = %q", alert.Message)
	}
	state, _, _ := states.Get(context.Background(), "room-103")
	if state.PumpOn {
		t.Error("pump still on after force_off override")
	}
}

func TestOverrideUnknownRoomLogsAlertOnly(t *testing.T) {
	service, log, states := newOverrideService(t)

	alert, err := service.Override(context.Background(), control.OverrideCommand{
		RoomID:  "room-404",
		Utility: "POWER",
		Action:  "OFF",
	})
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	if alert == nil {
		t.Fatal("expected alert for unknown room")
	}
	if log.Len() != 1 {
		t.Errorf("log length = %d, want 1", log.Len())
	}
	if _, found, _ := states.Get(context.Background(), "room-404"); found {
		t.Error("override created state for an unknown room")
	}
}

func TestOverrideRejectsInvalidCommands(t *testing.T) {
	service, log, _ := newOverrideService(t)

	cases := []control.OverrideCommand{
		{Utility: "WATER", Action: "OFF"},
		{RoomID: "room-101", Utility: "GAS", Action: "OFF"},
		{RoomID: "room-101", Utility: "WATER", Action: "TOGGLE"},
	}
	for _, cmd := range cases {
		if _, err := service.Override(context.Background(), cmd); err == nil {
			t.Errorf("expected error for %+v", cmd)
		}
	}
	if log.Len() != 0 {
		t.Errorf("log length = %d, want 0", log.Len())
	}
}
