package mqtt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func payloads(msgs []bufferedMsg) []byte {
	var out []byte
	for _, m := range msgs {
		out = append(out, m.payload[0])
	}
	return out
}

func TestRingBufferEmptyDrain(t *testing.T) {
	rb := newRingBuffer(10)
	require.Nil(t, rb.drainAll())
}

func TestRingBufferPushAndDrain(t *testing.T) {
	rb := newRingBuffer(10)
	for i := 0; i < 5; i++ {
		rb.push(bufferedMsg{topic: "t", payload: []byte{byte(i)}})
	}

	require.Equal(t, []byte{0, 1, 2, 3, 4}, payloads(rb.drainAll()))
	require.Nil(t, rb.drainAll())
}

func TestRingBufferOverflowKeepsNewest(t *testing.T) {
	rb := newRingBuffer(5)

	for i := 0; i < 8; i++ {
		rb.push(bufferedMsg{topic: "t", payload: []byte{byte(i)}})
	}
	require.Equal(t, 5, rb.len())
	require.Equal(t, 3, rb.dropped)

	require.Equal(t, []byte{3, 4, 5, 6, 7}, payloads(rb.drainAll()))
	require.Equal(t, 0, rb.dropped)
}

func TestRingBufferMultipleCycles(t *testing.T) {
	rb := newRingBuffer(5)

	for i := 0; i < 3; i++ {
		rb.push(bufferedMsg{topic: "t", payload: []byte{byte(i)}})
	}
	require.Len(t, rb.drainAll(), 3)

	for i := 10; i < 14; i++ {
		rb.push(bufferedMsg{topic: "t", payload: []byte{byte(i)}})
	}
	require.Equal(t, []byte{10, 11, 12, 13}, payloads(rb.drainAll()))
	require.Equal(t, 0, rb.len())
}

func TestRingBufferPreservesFields(t *testing.T) {
	rb := newRingBuffer(10)
	rb.push(bufferedMsg{
		topic:    TopicSystem,
		payload:  []byte(`{"test":true}`),
		qos:      1,
		retained: true,
	})

	got := rb.drainAll()
	require.Len(t, got, 1)
	require.Equal(t, TopicSystem, got[0].topic)
	require.Equal(t, `{"test":true}`, string(got[0].payload))
	require.Equal(t, byte(1), got[0].qos)
	require.True(t, got[0].retained)
}
