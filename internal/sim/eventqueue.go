package sim

import "container/heap"

// EventQueue is a priority queue of events ordered by time, FIFO among
// equal times. It de-duplicates: scheduling a second event for a
// Handler that already has one pending at the same absolute time is a
// silent no-op. This is what lets several stages of a single tick call
// "reschedule me" without flooding the queue with redundant ticks.
type EventQueue struct {
	events eventHeap
	seq    int
	dedup  map[dedupKey]bool
}

type dedupKey struct {
	time    Cycle
	handler Handler
}

// NewEventQueue creates an empty EventQueue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{dedup: make(map[dedupKey]bool)}
	heap.Init(&q.events)
	return q
}

// Schedule inserts evt into the queue. If a pending event for the same
// Handler already exists at evt.Time(), the insertion is dropped.
func (q *EventQueue) Schedule(evt Event) {
	key := dedupKey{time: evt.Time(), handler: evt.Handler()}
	if q.dedup[key] {
		return
	}

	q.dedup[key] = true
	q.seq++
	heap.Push(&q.events, queuedEvent{event: evt, seq: q.seq})
}

// Pop removes and returns the earliest-scheduled event.
func (q *EventQueue) Pop() Event {
	qe := heap.Pop(&q.events).(queuedEvent)
	delete(q.dedup, dedupKey{time: qe.event.Time(), handler: qe.event.Handler()})

	return qe.event
}

// Len reports how many events are pending.
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Peek returns the earliest-scheduled event without removing it.
func (q *EventQueue) Peek() Event {
	return q.events[0].event
}

type queuedEvent struct {
	event Event
	seq   int
}

type eventHeap []queuedEvent

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	ti, tj := h[i].event.Time(), h[j].event.Time()
	if ti != tj {
		return ti < tj
	}

	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(queuedEvent))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]

	return e
}
