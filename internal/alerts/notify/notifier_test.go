package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	alerts "ecocore-cloud/internal/alerts/domain"
)

type mutableClock struct {
	mu sync.Mutex
	at time.Time
}

func (c *mutableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *mutableClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.at = c.at.Add(d)
	c.mu.Unlock()
}

type recordingChannel struct {
	mu       sync.Mutex
	contents []string
}

func (c *recordingChannel) Send(_ context.Context, content string) error {
	c.mu.Lock()
	c.contents = append(c.contents, content)
	c.mu.Unlock()
	return nil
}

func (c *recordingChannel) sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.contents...)
}

func leakAlert() alerts.Alert {
	return alerts.Alert{
		ID:               7,
		Time:             time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
		Type:             alerts.TypeCriticalLeak,
		RoomID:           "room-101",
		Message:          "Leak Detected! Flow: 5.0L/m.",
		ProbableWastage:  "240.0 L",
		EstimatedSavings: 1.224,
		ProbabilityScore: 99.9,
		Action:           alerts.ActionCutoffValve,
		Status:           alerts.StatusResolved,
	}
}

func TestWebhookChannelPayload(t *testing.T) {
	payloadCh := make(chan webhookPayload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload webhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		payloadCh <- payload
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	channel, err := NewWebhookChannel(server.URL)
	if err != nil {
		t.Fatalf("new webhook channel: %v", err)
	}
	notifier, err := NewNotifier(channel, nil)
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	notifier.Notify(context.Background(), leakAlert())

	select {
	case payload := <-payloadCh:
		if payload.MsgType != "text" {
			t.Errorf("msgtype = %q, want text", payload.MsgType)
		}
		content := payload.Text.Content
		for _, want := range []string{"room-101", alerts.TypeCriticalLeak, "99.9%", "240.0 L", "Leak Detected!"} {
			if !strings.Contains(content, want) {
				t.Errorf("content missing %q:\n%s", want, content)
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook never received the alert")
	}
}

func TestNotifierCooldownSuppressesRepeats(t *testing.T) {
	channel := &recordingChannel{}
	clock := &mutableClock{at: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)}
	notifier, err := NewNotifier(channel, nil,
		WithClock(clock),
		WithCooldown(5*time.Minute),
	)
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	alert := leakAlert()
	notifier.Notify(context.Background(), alert)
	notifier.Notify(context.Background(), alert)
	if got := len(channel.sent()); got != 1 {
		t.Fatalf("sends within cooldown = %d, want 1", got)
	}

	clock.Advance(6 * time.Minute)
	notifier.Notify(context.Background(), alert)
	if got := len(channel.sent()); got != 2 {
		t.Errorf("sends after cooldown = %d, want 2", got)
	}
}

func TestNotifierCooldownIsPerRoomAndType(t *testing.T) {
	channel := &recordingChannel{}
	clock := &mutableClock{at: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)}
	notifier, err := NewNotifier(channel, nil,
		WithClock(clock),
		WithCooldown(5*time.Minute),
	)
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	first := leakAlert()
	otherRoom := leakAlert()
	otherRoom.RoomID = "room-202"
	otherType := leakAlert()
	otherType.Type = alerts.TypeEnergyWaste

	notifier.Notify(context.Background(), first)
	notifier.Notify(context.Background(), otherRoom)
	notifier.Notify(context.Background(), otherType)
	if got := len(channel.sent()); got != 3 {
		t.Errorf("sends = %d, want 3 distinct keys", got)
	}
}

func TestNotifierDedupeAllowsChangedContent(t *testing.T) {
	channel := &recordingChannel{}
	clock := &mutableClock{at: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)}
	notifier, err := NewNotifier(channel, nil,
		WithClock(clock),
		WithDedupeWindow(time.Hour),
	)
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	alert := leakAlert()
	notifier.Notify(context.Background(), alert)
	notifier.Notify(context.Background(), alert)
	if got := len(channel.sent()); got != 1 {
		t.Fatalf("identical sends = %d, want 1", got)
	}

	alert.Message = "Leak Detected! Flow: 8.0L/m."
	notifier.Notify(context.Background(), alert)
	if got := len(channel.sent()); got != 2 {
		t.Errorf("sends after content change = %d, want 2", got)
	}
}

func TestNotifierCustomTemplate(t *testing.T) {
	channel := &recordingChannel{}
	tpl, err := NewTemplate("{{.Room}}: {{.Type}} ({{.Status}})")
	if err != nil {
		t.Fatalf("new template: %v", err)
	}
	notifier, err := NewNotifier(channel, tpl)
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	notifier.Notify(context.Background(), leakAlert())
	sent := channel.sent()
	if len(sent) != 1 {
		t.Fatalf("sends = %d, want 1", len(sent))
	}
	want := "room-101: CRITICAL_LEAK (RESOLVED)"
	if sent[0] != want {
		t.Errorf("content = %q, want %q", sent[0], want)
	}
}

func TestMultiNotifierFansOut(t *testing.T) {
	first := &recordingChannel{}
	second := &recordingChannel{}
	a, err := NewNotifier(first, nil)
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}
	b, err := NewNotifier(second, nil)
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	NewMultiNotifier(a, nil, b).Notify(context.Background(), leakAlert())
	if len(first.sent()) != 1 || len(second.sent()) != 1 {
		t.Errorf("fan-out sends = %d/%d, want 1/1", len(first.sent()), len(second.sent()))
	}
}
