// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/servo-bench/internal/logic"
)

// Topic is the MQTT topic for state change events.
const Topic = "bench/servo/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "bench/servo/system"

// EventStateChange is the event name of a state change payload.
const EventStateChange = "STATE_CHANGE"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a state change to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(t logic.Transition) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Servo ServoPayload `json:"servo"`
}

// ServoPayload contains the state change details.
type ServoPayload struct {
	Timestamp string        `json:"timestamp"`
	Event     string        `json:"event"`
	From      string        `json:"from"`
	State     string        `json:"state"`
	StateCode int           `json:"state_code"`
	CamSwitch bool          `json:"cam_switch"`
	Command   string        `json:"command"`
	PulseUs   int64         `json:"pulse_us"`
	Indicator bool          `json:"indicator"`
	Inputs    InputsPayload `json:"inputs"`
}

// InputsPayload holds the debounced input levels.
type InputsPayload struct {
	ArmFire   bool `json:"arm_fire"`
	Disarm    bool `json:"disarm"`
	CamSwitch bool `json:"cam_switch"`
}

// FormatPayload creates the JSON payload for a state change.
func FormatPayload(t logic.Transition) ([]byte, error) {
	cmd, indicator := logic.Output(t.To)
	payload := Payload{
		Servo: ServoPayload{
			Timestamp: t.Timestamp.UTC().Format(time.RFC3339Nano),
			Event:     EventStateChange,
			From:      t.From.String(),
			State:     t.To.String(),
			StateCode: t.To.Code(),
			CamSwitch: t.CamSwitchRaw,
			Command:   cmd.String(),
			PulseUs:   cmd.PulseWidth().Microseconds(),
			Indicator: indicator,
			Inputs: InputsPayload{
				ArmFire:   t.Inputs.ArmFire,
				Disarm:    t.Inputs.Disarm,
				CamSwitch: t.Inputs.CamSwitch,
			},
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
