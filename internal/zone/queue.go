package zone

import (
	"container/heap"

	"github.com/trunkradio/radiosim/internal/model"
)

// queueItem is one entry in a zone's call_busy_queue: a call that failed
// allocation, waiting to be retried on the next release.
type queueItem struct {
	priority  model.EventPriority
	queuedAt  float64
	seq       uint64
	callID    int
	talkgroupID int
}

// busyQueueHeap orders by (priority asc, queuedAt asc, seq asc) — the
// ordering key spec §4.7 names as (priority, enqueue_time), with sequence
// breaking ties among equal priority and time deterministically.
type busyQueueHeap []queueItem

func (h busyQueueHeap) Len() int { return len(h) }
func (h busyQueueHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	if a.queuedAt != b.queuedAt {
		return a.queuedAt < b.queuedAt
	}
	return a.seq < b.seq
}
func (h busyQueueHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *busyQueueHeap) Push(x any)        { *h = append(*h, x.(queueItem)) }
func (h *busyQueueHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// busyQueue is the call_busy_queue: pending GroupVoiceServiceRequests that
// failed allocation.
type busyQueue struct {
	h   busyQueueHeap
	seq uint64
}

func (q *busyQueue) Push(priority model.EventPriority, queuedAt float64, callID, talkgroupID int) {
	heap.Push(&q.h, queueItem{priority: priority, queuedAt: queuedAt, seq: q.seq, callID: callID, talkgroupID: talkgroupID})
	q.seq++
}

func (q *busyQueue) Pop() (queueItem, bool) {
	if q.h.Len() == 0 {
		return queueItem{}, false
	}
	return heap.Pop(&q.h).(queueItem), true
}

func (q *busyQueue) Len() int { return q.h.Len() }

// PeekN returns up to n pending entries in service order, without removing
// them.
func (q *busyQueue) PeekN(n int) []queueItem {
	cp := make(busyQueueHeap, len(q.h))
	copy(cp, q.h)
	heap.Init(&cp)
	out := make([]queueItem, 0, n)
	for i := 0; i < n && cp.Len() > 0; i++ {
		out = append(out, heap.Pop(&cp).(queueItem))
	}
	return out
}
