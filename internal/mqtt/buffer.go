package mqtt

import log "github.com/sirupsen/logrus"

// bufferedMsg is a serialized message waiting for the broker to come back.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer keeps the newest messages published while disconnected.
// When full, the oldest message is overwritten. Callers synchronize.
type ringBuffer struct {
	msgs    []bufferedMsg
	next    int // slot the next push writes
	n       int // messages held
	dropped int // messages overwritten since the last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{msgs: make([]bufferedMsg, capacity)}
}

func (r *ringBuffer) push(m bufferedMsg) {
	size := len(r.msgs)
	if r.n == size {
		if r.dropped == 0 {
			log.Warnf("mqtt: buffer full (%d messages), dropping oldest", size)
		}
		r.dropped++
	} else {
		r.n++
	}
	r.msgs[r.next] = m
	r.next = (r.next + 1) % size
}

// drainAll returns the held messages oldest first and empties the buffer.
func (r *ringBuffer) drainAll() []bufferedMsg {
	if r.n == 0 {
		return nil
	}

	size := len(r.msgs)
	first := (r.next - r.n + size) % size
	out := make([]bufferedMsg, 0, r.n)
	for i := 0; i < r.n; i++ {
		out = append(out, r.msgs[(first+i)%size])
	}

	if r.dropped > 0 {
		log.Warnf("mqtt: %d buffered messages were dropped while offline", r.dropped)
	}
	r.n, r.next, r.dropped = 0, 0, 0
	return out
}

func (r *ringBuffer) len() int {
	return r.n
}
