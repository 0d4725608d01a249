package diag

import (
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/servo-bench/internal/mqtt"
)

// SystemQueue publishes lifecycle events from its own goroutine so a slow
// broker never holds up the caller. Publish drops and counts when full.
type SystemQueue struct {
	pub     mqtt.Publisher
	onError func(error)
	ch      chan mqtt.SystemEvent
	done    chan struct{}

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

// NewSystemQueue starts a worker that hands queued events to pub. onError,
// if non-nil, is called from the worker for every failed publish.
func NewSystemQueue(pub mqtt.Publisher, size int, onError func(error)) *SystemQueue {
	if size < 1 {
		size = 1
	}
	q := &SystemQueue{
		pub:     pub,
		onError: onError,
		ch:      make(chan mqtt.SystemEvent, size),
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *SystemQueue) run() {
	defer close(q.done)
	for e := range q.ch {
		if err := q.pub.PublishSystem(e); err != nil {
			log.Errorf("failed to publish %s event: %v", e.Event, err)
			if q.onError != nil {
				q.onError(err)
			}
		}
	}
}

// Publish queues e without blocking.
func (q *SystemQueue) Publish(e mqtt.SystemEvent) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.dropped.Add(1)
		return
	}
	select {
	case q.ch <- e:
	default:
		q.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded.
func (q *SystemQueue) Dropped() uint64 {
	return q.dropped.Load()
}

// Close stops accepting events and waits for the queued ones to be
// published. It is safe to call more than once.
func (q *SystemQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()

	<-q.done
}
