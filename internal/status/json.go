package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/servo-bench/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string         `json:"event,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	State         string         `json:"state"`
	StateCode     int            `json:"state_code"`
	Ready         bool           `json:"ready"`
	Command       string         `json:"command"`
	PulseUs       int64          `json:"pulse_us"`
	Indicator     bool           `json:"indicator"`
	Inputs        InputsJSON     `json:"inputs"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartTime     string         `json:"start_time"`
	Timestamp     string         `json:"timestamp"`
	MQTT          MQTTStatus     `json:"mqtt"`
	Counts        map[string]int `json:"state_entries"`
	ReadErrors    uint64         `json:"read_errors"`
	Dropped       uint64         `json:"diagnostics_dropped"`
	Config        ConfigJSON     `json:"config"`
}

// InputsJSON holds the raw and debounced input levels.
type InputsJSON struct {
	Raw       LevelsJSON `json:"raw"`
	Debounced LevelsJSON `json:"debounced"`
}

// LevelsJSON is one sample of the three inputs.
type LevelsJSON struct {
	ArmFire   bool `json:"arm_fire"`
	Disarm    bool `json:"disarm"`
	CamSwitch bool `json:"cam_switch"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config and the fixed
// control timing.
type ConfigJSON struct {
	Chip         string `json:"chip"`
	Broker       string `json:"broker"`
	HTTPAddr     string `json:"http_addr"`
	SerialDevice string `json:"serial_device,omitempty"`
	HeartbeatMs  int64  `json:"heartbeat_ms"`
	DebounceMs   int64  `json:"debounce_ms"`
	PeriodMs     int64  `json:"servo_period_ms"`
}

func levels(in logic.Inputs) LevelsJSON {
	return LevelsJSON{ArmFire: in.ArmFire, Disarm: in.Disarm, CamSwitch: in.CamSwitch}
}

func buildInner(snap Snapshot) StatusInner {
	state := "UNKNOWN"
	code := -1
	if snap.Started {
		state = snap.State.String()
		code = snap.State.Code()
	}

	counts := make(map[string]int, logic.NumStates)
	for _, s := range logic.States {
		counts[s.String()] = snap.Counts.Of(s)
	}

	return StatusInner{
		State:         state,
		StateCode:     code,
		Ready:         snap.Started,
		Command:       snap.Command.String(),
		PulseUs:       snap.Command.PulseWidth().Microseconds(),
		Indicator:     snap.Indicator,
		Inputs:        InputsJSON{Raw: levels(snap.Raw), Debounced: levels(snap.Debounced)},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts:        counts,
		ReadErrors:    snap.ReadErrors,
		Dropped:       snap.Dropped,
		Config: ConfigJSON{
			Chip:         snap.Config.Chip,
			Broker:       snap.Config.Broker,
			HTTPAddr:     snap.Config.HTTPAddr,
			SerialDevice: snap.Config.SerialDevice,
			HeartbeatMs:  snap.Config.HeartbeatMs,
			DebounceMs:   logic.DebounceWindow.Milliseconds(),
			PeriodMs:     logic.ServoPeriod.Milliseconds(),
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
