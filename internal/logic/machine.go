package logic

import "time"

// Machine holds the control state: one filter per input channel and the
// current controller state. It is owned by a single loop and is not safe for
// concurrent use.
type Machine struct {
	state     State
	armFire   Debouncer
	disarm    Debouncer
	camSwitch Debouncer
	debounced Inputs

	startTime     time.Time
	counts        StateCounts
	lastHeartbeat time.Time
}

// NewMachine creates a Machine whose initial state is derived from a raw,
// unfiltered read of the cam switch. All filters start unasserted.
// The startTime is used for calculating uptime in heartbeat events.
func NewMachine(camSwitchRaw bool, startTime time.Time) *Machine {
	return &Machine{
		state:         InitialState(camSwitchRaw),
		armFire:       NewDebouncer(false, DebounceWindow),
		disarm:        NewDebouncer(false, DebounceWindow),
		camSwitch:     NewDebouncer(false, DebounceWindow),
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Step runs one iteration against raw inputs sampled at now. It returns the
// transition and true if the state changed.
func (m *Machine) Step(raw Inputs, now time.Time) (Transition, bool) {
	m.debounced = Inputs{
		ArmFire:   m.armFire.Update(raw.ArmFire, now),
		Disarm:    m.disarm.Update(raw.Disarm, now),
		CamSwitch: m.camSwitch.Update(raw.CamSwitch, now),
	}

	next := Next(m.state, m.debounced)
	if next == m.state {
		return Transition{}, false
	}

	t := Transition{
		Timestamp:    now,
		From:         m.state,
		To:           next,
		CamSwitchRaw: raw.CamSwitch,
		Inputs:       m.debounced,
	}
	m.state = next
	m.counts[next]++
	return t, true
}

// State returns the current controller state.
func (m *Machine) State() State {
	return m.state
}

// Output returns the servo command and indicator for the current state.
func (m *Machine) Output() (Command, bool) {
	return Output(m.state)
}

// Debounced returns the filtered inputs of the last Step.
func (m *Machine) Debounced() Inputs {
	return m.debounced
}

// Counts returns a copy of the per-state entry counters.
func (m *Machine) Counts() StateCounts {
	return m.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed or
// if interval is <= 0 (disabled).
func (m *Machine) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(m.lastHeartbeat) < interval {
		return nil
	}

	m.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(m.startTime),
		State:     m.state,
		Counts:    m.counts,
	}
}
