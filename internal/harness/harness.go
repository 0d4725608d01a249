// Package harness drives the servo directly from two buttons, without the
// controller state machine. It is used to exercise the mechanism on the bench.
//
// The arm_fire button drives forward and the disarm button drives reverse.
// Inputs are not debounced.
package harness

import (
	"fmt"
	"time"

	"github.com/sweeney/servo-bench/internal/gpio"
	"github.com/sweeney/servo-bench/internal/logic"
	"github.com/sweeney/servo-bench/internal/servo"
)

// Harness maps buttons to servo commands. It is not safe for concurrent use.
type Harness struct {
	reader gpio.Reader
	driver servo.Driver
	now    func() time.Time

	reversing    bool
	reverseSince time.Time
}

// New creates a harness. A nil clock is replaced with time.Now.
func New(reader gpio.Reader, driver servo.Driver, now func() time.Time) *Harness {
	if now == nil {
		now = time.Now
	}
	return &Harness{reader: reader, driver: driver, now: now}
}

// Step samples the buttons once and drives the outputs.
func (h *Harness) Step() (logic.Command, bool, error) {
	in, err := h.reader.Read()
	if err != nil {
		return logic.CommandNeutral, false, fmt.Errorf("read buttons: %w", err)
	}

	t := h.now()
	if in.Disarm && !h.reversing {
		h.reverseSince = t
	}
	h.reversing = in.Disarm

	cmd, indicator := logic.HarnessOutput(in.ArmFire, in.Disarm, t.Sub(h.reverseSince))
	return cmd, indicator, servo.Apply(h.driver, cmd, indicator)
}

// Park drives the neutral pulse with the indicator off.
func (h *Harness) Park() error {
	h.reversing = false
	return servo.Apply(h.driver, logic.CommandNeutral, false)
}
