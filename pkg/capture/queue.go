package capture

import (
	"sync"
	"time"
)

// Queue is an unbounded FIFO channel between a capture producer and the
// analysis consumer. Enqueue never blocks; Dequeue waits up to a poll
// timeout so the consumer can recheck its running flag between items.
type Queue struct {
	mu    sync.Mutex
	items []*Event
	wake  chan struct{}
}

func NewQueue() *Queue {
	return &Queue{
		wake: make(chan struct{}, 1),
	}
}

// Enqueue appends an event. It always succeeds, bounded only by memory.
func (q *Queue) Enqueue(e *Event) {
	q.mu.Lock()
	q.items = append(q.items, e)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Dequeue removes the oldest event, waiting up to timeout for one to
// arrive. Returns (nil, false) when the timeout elapses with the queue
// still empty.
func (q *Queue) Dequeue(timeout time.Duration) (*Event, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			e := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return e, true
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-timer.C:
			return nil, false
		}
	}
}

// Len reports the current queue depth.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
