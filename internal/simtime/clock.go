// Package simtime implements the discrete-event scheduler a zone controller
// runs on: a priority/time-ordered event queue (Clock) and a type-keyed
// publish/subscribe dispatcher (EventBus). Both are single-threaded by
// design — a zone's controller is the sole caller of either.
package simtime

import (
	"container/heap"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/trunkradio/radiosim/internal/model"
	"github.com/trunkradio/radiosim/internal/signaling"
)

type scheduledEvent struct {
	execTime float64
	priority model.EventPriority
	seq      uint64
	event    signaling.Event
}

// eventHeap orders by (execTime asc, priority asc, seq asc) — sequence
// number breaks ties deterministically (FIFO among equal time+priority).
type eventHeap []*scheduledEvent

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.execTime != b.execTime {
		return a.execTime < b.execTime
	}
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)   { *h = append(*h, x.(*scheduledEvent)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Clock is the monotonic virtual-time event queue for one zone.
type Clock struct {
	now  float64
	seq  uint64
	heap eventHeap
	log  zerolog.Logger
}

// NewClock constructs a Clock at time zero.
func NewClock(log zerolog.Logger) *Clock {
	return &Clock{log: log.With().Str("component", "clock").Logger()}
}

// Now returns the current virtual time in seconds.
func (c *Clock) Now() float64 { return c.now }

// Pending returns the number of events not yet dispatched.
func (c *Clock) Pending() int { return c.heap.Len() }

// Schedule inserts event at now+delay, ordered by (execTime, event.Priority(),
// insertion sequence). A negative delay is a usage error: it is rejected,
// logged, and does not panic or stop the simulation.
func (c *Clock) Schedule(delay float64, event signaling.Event) error {
	if delay < 0 {
		err := fmt.Errorf("schedule: negative delay %.3f rejected", delay)
		c.log.Warn().Err(err).Msg("event dropped")
		return err
	}
	item := &scheduledEvent{
		execTime: c.now + delay,
		priority: event.Priority(),
		seq:      c.seq,
		event:    event,
	}
	c.seq++
	heap.Push(&c.heap, item)
	return nil
}

// Publish schedules event for immediate (zero-delay) dispatch.
func (c *Clock) Publish(event signaling.Event) error {
	return c.Schedule(0, event)
}

// Tick advances now by delta, then repeatedly pops and hands every event
// whose execTime <= now to dispatch, in heap order. Because the loop
// re-reads the heap head after each dispatch, zero-delay events scheduled
// from within dispatch are processed within the same Tick call; events
// scheduled with delay > 0 wait for a future Tick to reach their execTime.
func (c *Clock) Tick(delta float64, dispatch func(signaling.Event)) {
	c.now += delta
	for c.heap.Len() > 0 && c.heap[0].execTime <= c.now {
		item := heap.Pop(&c.heap).(*scheduledEvent)
		dispatch(item.event)
	}
}

// QueueEntry is a read-only snapshot of one pending scheduled event.
type QueueEntry struct {
	ExecTime float64
	Priority model.EventPriority
	Event    signaling.Event
}

// PeekQueue returns up to n pending events in dispatch order, without
// removing them. Used by ZoneController.QueueStatus for introspection.
func (c *Clock) PeekQueue(n int) []QueueEntry {
	cp := make(eventHeap, len(c.heap))
	copy(cp, c.heap)
	heap.Init(&cp)
	out := make([]QueueEntry, 0, n)
	for i := 0; i < n && cp.Len() > 0; i++ {
		item := heap.Pop(&cp).(*scheduledEvent)
		out = append(out, QueueEntry{ExecTime: item.execTime, Priority: item.priority, Event: item.event})
	}
	return out
}
