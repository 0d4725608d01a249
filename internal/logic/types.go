// Package logic contains the pure control logic of the servo bench.
// This package has NO external dependencies (no GPIO, PWM, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"fmt"
	"time"
)

// DebounceWindow is how long a raw level must hold before it is accepted.
const DebounceWindow = 5 * time.Millisecond

// ServoPeriod is the PWM period of the servo signal.
const ServoPeriod = 20 * time.Millisecond

// State is the controller state. The integer value is the state code reported
// to diagnostic sinks.
type State uint8

const (
	StateIdle State = iota
	StateCocking
	StateCocked
	StateFiring
	StateDecocking
	StateResetting
	StateIdleAfterReset
	StateRecockingAfterReset
)

// States lists every controller state in code order.
var States = []State{
	StateIdle,
	StateCocking,
	StateCocked,
	StateFiring,
	StateDecocking,
	StateResetting,
	StateIdleAfterReset,
	StateRecockingAfterReset,
}

// NumStates is the number of controller states.
const NumStates = 8

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateCocking:
		return "COCKING"
	case StateCocked:
		return "COCKED"
	case StateFiring:
		return "FIRING"
	case StateDecocking:
		return "DECOCKING"
	case StateResetting:
		return "RESETTING"
	case StateIdleAfterReset:
		return "IDLE_AFTER_RESET"
	case StateRecockingAfterReset:
		return "RECOCKING_AFTER_RESET"
	}
	return fmt.Sprintf("STATE(%d)", uint8(s))
}

// Code returns the integer code of the state.
func (s State) Code() int {
	return int(s)
}

// Valid reports whether s is one of the eight controller states.
func (s State) Valid() bool {
	return s < NumStates
}

// Command is a discrete servo command.
type Command uint8

const (
	CommandNeutral Command = iota
	CommandForward
	CommandReverse
)

// Pulse widths within ServoPeriod.
const (
	PulseReverse = 1000 * time.Microsecond
	PulseNeutral = 1500 * time.Microsecond
	PulseForward = 2000 * time.Microsecond
)

func (c Command) String() string {
	switch c {
	case CommandNeutral:
		return "NEUTRAL"
	case CommandForward:
		return "FORWARD"
	case CommandReverse:
		return "REVERSE"
	}
	return fmt.Sprintf("COMMAND(%d)", uint8(c))
}

// PulseWidth returns the servo pulse width for the command.
// Unknown commands map to the neutral pulse.
func (c Command) PulseWidth() time.Duration {
	switch c {
	case CommandForward:
		return PulseForward
	case CommandReverse:
		return PulseReverse
	case CommandNeutral:
	}
	return PulseNeutral
}

// Inputs is one sample of the three input channels in logical form
// (true = asserted, polarity already applied by the driver).
type Inputs struct {
	ArmFire   bool
	Disarm    bool
	CamSwitch bool
}

// Transition describes a single state change.
type Transition struct {
	Timestamp time.Time
	From      State
	To        State
	// CamSwitchRaw is the undebounced cam switch level of the tick that
	// produced the transition.
	CamSwitchRaw bool
	// Inputs are the debounced levels the transition was evaluated against.
	Inputs Inputs
}

// StateCounts tracks how many times each state has been entered since startup.
type StateCounts [NumStates]int

// Of returns the entry count for s.
func (c StateCounts) Of(s State) int {
	if !s.Valid() {
		return 0
	}
	return c[s]
}

// Total returns the sum of all entries.
func (c StateCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	State     State
	Counts    StateCounts
}
