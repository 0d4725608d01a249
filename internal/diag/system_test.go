package diag

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/servo-bench/internal/mqtt"
)

// stalledPublisher blocks PublishSystem until release is closed.
type stalledPublisher struct {
	*mqtt.FakePublisher
	entered chan struct{}
	release chan struct{}
}

func (p *stalledPublisher) PublishSystem(e mqtt.SystemEvent) error {
	select {
	case p.entered <- struct{}{}:
	default:
	}
	<-p.release
	return p.FakePublisher.PublishSystem(e)
}

func TestSystemQueueDeliversInOrder(t *testing.T) {
	pub := mqtt.NewFakePublisher()
	q := NewSystemQueue(pub, 4, nil)

	q.Publish(mqtt.SystemEvent{Event: "HEARTBEAT"})
	q.Publish(mqtt.SystemEvent{Event: "HEARTBEAT", Reason: "second"})
	q.Close()
	q.Close()

	require.Len(t, pub.SystemEvents, 2)
	require.Equal(t, "second", pub.SystemEvents[1].Reason)
	require.Zero(t, q.Dropped())
}

func TestSystemQueueDoesNotBlockOnSlowBroker(t *testing.T) {
	pub := &stalledPublisher{
		FakePublisher: mqtt.NewFakePublisher(),
		entered:       make(chan struct{}, 1),
		release:       make(chan struct{}),
	}
	q := NewSystemQueue(pub, 1, nil)

	q.Publish(mqtt.SystemEvent{Event: "HEARTBEAT"})
	<-pub.entered

	done := make(chan struct{})
	go func() {
		for i := 0; i < 4; i++ {
			q.Publish(mqtt.SystemEvent{Event: "HEARTBEAT"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked behind a stalled broker")
	}

	close(pub.release)
	q.Close()

	assert.Equal(t, uint64(3), q.Dropped())
	assert.Len(t, pub.SystemEvents, 2)
}

func TestSystemQueueErrors(t *testing.T) {
	pub := mqtt.NewFakePublisher()
	pub.PublishSystemError = errors.New("broker unavailable")

	var failures int
	q := NewSystemQueue(pub, 4, func(error) { failures++ })
	q.Publish(mqtt.SystemEvent{Event: "HEARTBEAT"})
	q.Close()

	require.Equal(t, 1, failures)

	q.Publish(mqtt.SystemEvent{Event: "HEARTBEAT"})
	require.Equal(t, uint64(1), q.Dropped())
}
