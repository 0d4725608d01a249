// Package status provides a thread-safe status tracker for the servo-bench daemon.
// It is written by the control loop and read by HTTP handlers.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/servo-bench/internal/control"
	"github.com/sweeney/servo-bench/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Chip         string
	Broker       string
	HTTPAddr     string
	SerialDevice string
	HeartbeatMs  int64
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Started       bool
	State         logic.State
	Command       logic.Command
	Indicator     bool
	Raw           logic.Inputs
	Debounced     logic.Inputs
	Counts        logic.StateCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	ReadErrors    uint64
	Dropped       uint64
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update records what the latest loop iteration observed and commanded.
// Called from runLoop on every tick.
func (t *Tracker) Update(cs control.Snapshot, counts logic.StateCounts) {
	t.mu.Lock()
	t.snap.Started = true
	t.snap.State = cs.State
	t.snap.Command = cs.Command
	t.snap.Indicator = cs.Indicator
	t.snap.Raw = cs.Raw
	t.snap.Debounced = cs.Debounced
	t.snap.Counts = counts
	t.mu.Unlock()
}

// AddReadError counts an input read that failed.
func (t *Tracker) AddReadError() {
	t.mu.Lock()
	t.snap.ReadErrors++
	t.mu.Unlock()
}

// SetDropped sets the number of diagnostics dropped by full queues.
func (t *Tracker) SetDropped(n uint64) {
	t.mu.Lock()
	t.snap.Dropped = n
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
