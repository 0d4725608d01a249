// Package control runs the control loop: it samples the inputs, advances the
// state machine and drives the servo and indicator outputs.
package control

import (
	"errors"
	"fmt"
	"time"

	"github.com/sweeney/servo-bench/internal/gpio"
	"github.com/sweeney/servo-bench/internal/logic"
	"github.com/sweeney/servo-bench/internal/servo"
)

// Sink receives state changes. Implementations must return promptly; slow
// work belongs behind an asynchronous sink.
type Sink interface {
	StateChanged(t logic.Transition)
}

// NopSink discards all state changes.
type NopSink struct{}

// StateChanged does nothing.
func (NopSink) StateChanged(logic.Transition) {}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(logic.Transition)

// StateChanged calls f(t).
func (f SinkFunc) StateChanged(t logic.Transition) { f(t) }

// Errors returned by Step.
var (
	ErrNotStarted = errors.New("control: loop not started")
	// ErrRead marks a failed input read. The iteration was skipped.
	ErrRead = errors.New("read inputs")
)

// Snapshot is what a single iteration observed and commanded.
type Snapshot struct {
	Time       time.Time
	Raw        logic.Inputs
	Debounced  logic.Inputs
	State      logic.State
	Command    logic.Command
	Indicator  bool
	Transition *logic.Transition
}

// Loop owns the machine and the hardware it drives. It is not safe for
// concurrent use.
type Loop struct {
	reader  gpio.Reader
	driver  servo.Driver
	sink    Sink
	now     func() time.Time
	machine *logic.Machine
}

// New creates a loop. A nil sink is replaced with NopSink and a nil clock
// with time.Now.
func New(reader gpio.Reader, driver servo.Driver, sink Sink, now func() time.Time) *Loop {
	if sink == nil {
		sink = NopSink{}
	}
	if now == nil {
		now = time.Now
	}
	return &Loop{
		reader: reader,
		driver: driver,
		sink:   sink,
		now:    now,
	}
}

// Start derives the initial state from one raw read of the cam switch and
// drives the outputs for it. It must be called once before Step.
func (l *Loop) Start() (Snapshot, error) {
	cam, err := l.reader.ReadChannel(gpio.CamSwitch)
	if err != nil {
		return Snapshot{}, fmt.Errorf("bootstrap read: %w", err)
	}

	t := l.now()
	l.machine = logic.NewMachine(cam, t)

	snap := Snapshot{
		Time:  t,
		Raw:   logic.Inputs{CamSwitch: cam},
		State: l.machine.State(),
	}
	snap.Command, snap.Indicator = l.machine.Output()
	return snap, servo.Apply(l.driver, snap.Command, snap.Indicator)
}

// Step runs one iteration. A read error leaves state and outputs untouched.
func (l *Loop) Step() (Snapshot, error) {
	if l.machine == nil {
		return Snapshot{}, ErrNotStarted
	}

	raw, err := l.reader.Read()
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrRead, err)
	}

	t := l.now()
	snap := Snapshot{Time: t, Raw: raw}

	if tr, ok := l.machine.Step(raw, t); ok {
		snap.Transition = &tr
		l.sink.StateChanged(tr)
	}

	snap.Debounced = l.machine.Debounced()
	snap.State = l.machine.State()
	snap.Command, snap.Indicator = l.machine.Output()
	return snap, servo.Apply(l.driver, snap.Command, snap.Indicator)
}

// Park drives the neutral pulse with the indicator off.
func (l *Loop) Park() error {
	return servo.Apply(l.driver, logic.CommandNeutral, false)
}

// Machine returns the underlying state machine, or nil before Start.
func (l *Loop) Machine() *logic.Machine {
	return l.machine
}
