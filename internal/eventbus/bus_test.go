package eventbus

import (
	"context"
	"errors"
	"testing"
)

type orderPlaced struct {
	ID string
}

type orderShipped struct {
	ID string
}

func TestPublishReachesSubscribersOfType(t *testing.T) {
	bus := NewInMemoryBus()

	var placed []string
	bus.Subscribe(EventTypeOf[orderPlaced](), func(_ context.Context, event any) error {
		placed = append(placed, event.(orderPlaced).ID)
		return nil
	})
	var shipped []string
	bus.Subscribe(EventTypeOf[orderShipped](), func(_ context.Context, event any) error {
		shipped = append(shipped, event.(orderShipped).ID)
		return nil
	})

	if err := bus.Publish(context.Background(), orderPlaced{ID: "a"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := bus.Publish(context.Background(), orderShipped{ID: "b"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(placed) != 1 || placed[0] != "a" {
		t.Errorf("placed = %v, want [a]", placed)
	}
	if len(shipped) != 1 || shipped[0] != "b" {
		t.Errorf("shipped = %v, want [b]", shipped)
	}
}

func TestPublishNilEvent(t *testing.T) {
	bus := NewInMemoryBus()
	if err := bus.Publish(context.Background(), nil); !errors.Is(err, ErrNilEvent) {
		t.Errorf("err = %v, want %v", err, ErrNilEvent)
	}
}

func TestPublishReturnsFirstHandlerError(t *testing.T) {
	bus := NewInMemoryBus()
	wantErr := errors.New("boom")
	calls := 0
	bus.Subscribe(EventTypeOf[orderPlaced](), func(context.Context, any) error {
		calls++
		return wantErr
	})
	bus.Subscribe(EventTypeOf[orderPlaced](), func(context.Context, any) error {
		calls++
		return nil
	})

	if err := bus.Publish(context.Background(), orderPlaced{}); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want all handlers invoked", calls)
	}
}

func TestEventTypeDereferencesPointers(t *testing.T) {
	if EventType(orderPlaced{}) != EventType(&orderPlaced{}) {
		t.Error("pointer and value events should share a type key")
	}
}
