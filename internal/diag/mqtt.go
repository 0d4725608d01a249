package diag

import (
	log "github.com/sirupsen/logrus"

	"github.com/sweeney/servo-bench/internal/logic"
	"github.com/sweeney/servo-bench/internal/mqtt"
)

// MQTTSink publishes each state change. Publish failures are logged and
// otherwise ignored; the publisher buffers while the broker is away.
type MQTTSink struct {
	Publisher mqtt.Publisher
	// OnError, if set, is called after a failed publish.
	OnError func(error)
}

// StateChanged publishes t.
func (s MQTTSink) StateChanged(t logic.Transition) {
	if err := s.Publisher.Publish(t); err != nil {
		log.Errorf("mqtt publish %s: %v", t.To, err)
		if s.OnError != nil {
			s.OnError(err)
		}
	}
}
