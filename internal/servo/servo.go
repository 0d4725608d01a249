// Package servo drives the servo PWM signal and the indicator output.
// The real implementation uses the Raspberry Pi hardware PWM for the servo
// and the Linux GPIO character device for the indicator.
package servo

import (
	"errors"
	"fmt"
	"time"

	"github.com/sweeney/servo-bench/internal/logic"
)

// Driver commands the servo and the indicator.
type Driver interface {
	// SetPulse sets the servo pulse width. Only the three command pulse
	// widths are accepted.
	SetPulse(width time.Duration) error

	// SetIndicator drives the indicator output.
	SetIndicator(on bool) error

	// Close releases the outputs.
	Close() error
}

// Errors returned by drivers.
var (
	ErrInvalidPulse = errors.New("servo: pulse width is not a command pulse")
	ErrUnsupported  = errors.New("servo: not supported on this platform (requires Linux)")
)

// Pins holds the output pin assignments (BCM numbering).
type Pins struct {
	Servo     int
	Indicator int
}

// Default output pins of the bench wiring. BCM 18 carries PWM0.
const (
	DefaultPinServo     = 18
	DefaultPinIndicator = 25
)

// DefaultPins returns the bench wiring.
func DefaultPins() Pins {
	return Pins{
		Servo:     DefaultPinServo,
		Indicator: DefaultPinIndicator,
	}
}

// CheckPulse returns an error unless width is one of the command pulse widths.
func CheckPulse(width time.Duration) error {
	switch width {
	case logic.PulseReverse, logic.PulseNeutral, logic.PulseForward:
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInvalidPulse, width)
}

// Apply writes a command and indicator level to d.
func Apply(d Driver, cmd logic.Command, indicator bool) error {
	if err := d.SetPulse(cmd.PulseWidth()); err != nil {
		return fmt.Errorf("set pulse: %w", err)
	}
	if err := d.SetIndicator(indicator); err != nil {
		return fmt.Errorf("set indicator: %w", err)
	}
	return nil
}
