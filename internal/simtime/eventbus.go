package simtime

import (
	"reflect"
	"sync"

	"github.com/trunkradio/radiosim/internal/signaling"
)

// HandlerFunc receives one dispatched event. Handlers run synchronously, on
// the zone controller's single thread of control — no handler runs
// concurrently with another within a zone.
type HandlerFunc func(signaling.Event)

// EventBus maps each concrete message type to the ordered list of handlers
// subscribed to it. Unlike the teacher's ring-buffered, string-typed SSE
// bus, dispatch here is keyed by the Go type of the event itself, matching
// the "sum type over the exhaustive message set" re-architecture called for
// by the source prototype's duck-typed events.
type EventBus struct {
	mu       sync.Mutex
	handlers map[reflect.Type][]HandlerFunc
	taps     []HandlerFunc
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[reflect.Type][]HandlerFunc)}
}

// Tap registers handler to receive every event published on the bus,
// regardless of concrete type, after the type-specific handlers for that
// event have run. Intended for cross-cutting concerns like an event sink
// publisher, not for domain logic.
func (b *EventBus) Tap(handler HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.taps = append(b.taps, handler)
}

// Subscribe registers handler for every event of concrete type T, in
// registration order.
func Subscribe[T signaling.Event](bus *EventBus, handler func(T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[t] = append(bus.handlers[t], func(ev signaling.Event) {
		handler(ev.(T))
	})
}

// Publish synchronously invokes every handler subscribed to event's
// concrete type, in registration order, then every tap.
func (b *EventBus) Publish(event signaling.Event) {
	b.mu.Lock()
	hs := append([]HandlerFunc(nil), b.handlers[reflect.TypeOf(event)]...)
	taps := append([]HandlerFunc(nil), b.taps...)
	b.mu.Unlock()
	for _, h := range hs {
		h(event)
	}
	for _, t := range taps {
		t(event)
	}
}
