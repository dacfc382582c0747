// Package eventbus carries in-process domain events between contexts.
// Detection publishes alert events here and the notify channels fan
// out from it, so the detector never imports webhook code.
package eventbus

import (
	"context"
	"errors"
	"reflect"
	"sync"
)

// EventHandler consumes one delivered event. Handlers run on the
// publisher's goroutine; a slow handler delays the publish.
type EventHandler func(ctx context.Context, event any) error

// EventBus delivers events to handlers subscribed to their type key.
type EventBus interface {
	Publish(ctx context.Context, event any) error
	Subscribe(eventType string, handler EventHandler)
}

var (
	// ErrNilEvent rejects a nil publish.
	ErrNilEvent = errors.New("eventbus: nil event")
	// ErrInvalidEventType rejects an event with no resolvable type key.
	ErrInvalidEventType = errors.New("eventbus: invalid event type")
)

// InMemoryBus is the synchronous in-process bus used by the server.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

// NewInMemoryBus constructs an empty bus.
func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{handlers: make(map[string][]EventHandler)}
}

// Publish delivers the event to every handler subscribed to its type.
// All handlers run even when one fails; the first error is returned.
func (b *InMemoryBus) Publish(ctx context.Context, event any) error {
	if event == nil {
		return ErrNilEvent
	}
	key := EventType(event)
	if key == "" {
		return ErrInvalidEventType
	}

	b.mu.RLock()
	subscribed := append([]EventHandler(nil), b.handlers[key]...)
	b.mu.RUnlock()

	var firstErr error
	for _, handle := range subscribed {
		if err := handle(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Subscribe registers a handler under an event type key. Empty keys
// and nil handlers are ignored.
func (b *InMemoryBus) Subscribe(eventType string, handler EventHandler) {
	if eventType == "" || handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// EventType derives the type key for an event value. Pointers resolve
// to their element type, so *T and T share subscriptions.
func EventType(event any) string {
	if event == nil {
		return ""
	}
	t := reflect.TypeOf(event)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.String()
}

// EventTypeOf derives the type key for T without needing a value.
func EventTypeOf[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
