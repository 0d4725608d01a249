// Package diag provides the diagnostic sinks that observe controller state
// changes: logging, MQTT, a serial console, and the plumbing that keeps them
// off the control loop's critical path.
package diag

import (
	"sync"
	"sync/atomic"

	"github.com/sweeney/servo-bench/internal/control"
	"github.com/sweeney/servo-bench/internal/logic"
)

// DefaultQueueSize is the queue depth used by the daemon for asynchronous sinks.
const DefaultQueueSize = 64

// Multi fans a state change out to every sink in order.
type Multi []control.Sink

// StateChanged forwards t to each non-nil sink.
func (m Multi) StateChanged(t logic.Transition) {
	for _, s := range m {
		if s != nil {
			s.StateChanged(t)
		}
	}
}

// Async delivers state changes to another sink from its own goroutine.
// StateChanged never blocks: when the queue is full the change is dropped
// and counted.
type Async struct {
	next control.Sink
	ch   chan logic.Transition
	done chan struct{}

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

// NewAsync starts a worker that feeds next from a queue of the given size.
// A size below one is treated as one.
func NewAsync(next control.Sink, size int) *Async {
	if size < 1 {
		size = 1
	}
	a := &Async{
		next: next,
		ch:   make(chan logic.Transition, size),
		done: make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for t := range a.ch {
		a.next.StateChanged(t)
	}
}

// StateChanged queues t for delivery.
func (a *Async) StateChanged(t logic.Transition) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		a.dropped.Add(1)
		return
	}
	select {
	case a.ch <- t:
	default:
		a.dropped.Add(1)
	}
}

// Dropped returns how many state changes were discarded.
func (a *Async) Dropped() uint64 {
	return a.dropped.Load()
}

// Close stops accepting state changes and waits until the queued ones have
// been delivered. It is safe to call more than once.
func (a *Async) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		<-a.done
		return
	}
	a.closed = true
	close(a.ch)
	a.mu.Unlock()

	<-a.done
}
