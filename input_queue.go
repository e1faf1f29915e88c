package main

import (
	"sync"
	"time"
)

// inputQueue is the ordered, unbounded window->application event channel.
// Single producer, single consumer. There is deliberately no backpressure:
// a stalled consumer grows the queue rather than blocking the producer,
// which may be holding the engine lock when it pushes.
type inputQueue struct {
	mu     sync.Mutex
	items  []InputEvent
	ready  chan struct{}
	closed bool
}

func newInputQueue() *inputQueue {
	return &inputQueue{ready: make(chan struct{}, 1)}
}

// Push appends an event. Pushing to a closed queue is a no-op.
func (q *inputQueue) Push(ev InputEvent) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Close marks the queue permanently closed. Events already queued remain
// consumable; afterwards Poll reports ErrInputClosed.
func (q *inputQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Poll returns the next event, waiting at most timeout. ok is false on
// timeout. Once the queue is closed and drained it returns ErrInputClosed.
func (q *inputQueue) Poll(timeout time.Duration) (InputEvent, bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			ev := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return ev, true, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return InputEvent{}, false, ErrInputClosed
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return InputEvent{}, false, nil
		}
		timer := time.NewTimer(remaining)
		select {
		case <-q.ready:
			timer.Stop()
		case <-timer.C:
		}
	}
}
