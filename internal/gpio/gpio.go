// Package gpio provides GPIO input reading with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"errors"
	"fmt"

	"github.com/sweeney/servo-bench/internal/logic"
)

// Channel identifies one of the controller inputs.
type Channel uint8

const (
	ArmFire Channel = iota
	Disarm
	CamSwitch
)

// Channels lists every input channel.
var Channels = []Channel{ArmFire, Disarm, CamSwitch}

func (c Channel) String() string {
	switch c {
	case ArmFire:
		return "arm_fire"
	case Disarm:
		return "disarm"
	case CamSwitch:
		return "cam_switch"
	}
	return fmt.Sprintf("channel(%d)", uint8(c))
}

// ActiveLow reports whether the channel is asserted by pulling the line low.
// The operator buttons idle high through a pull-up; the cam switch idles low
// through a pull-down.
func (c Channel) ActiveLow() bool {
	return c == ArmFire || c == Disarm
}

// Errors returned by readers.
var (
	ErrNoSamples    = errors.New("no samples configured")
	ErrUnsupported  = errors.New("gpio: not supported on this platform (requires Linux)")
	ErrUnknownInput = errors.New("gpio: unknown channel")
)

// Reader reads the controller inputs.
type Reader interface {
	// Read samples all three inputs in logical form: true means asserted,
	// regardless of the line's electrical polarity.
	Read() (logic.Inputs, error)

	// ReadChannel samples a single input in logical form.
	ReadChannel(ch Channel) (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Pins holds line offsets on the GPIO chip (BCM numbering on a Raspberry Pi).
type Pins struct {
	ArmFire   int
	Disarm    int
	CamSwitch int
}

// Default pin assignments of the bench wiring.
const (
	DefaultPinArmFire   = 16
	DefaultPinDisarm    = 27
	DefaultPinCamSwitch = 22
)

// DefaultPins returns the bench wiring.
func DefaultPins() Pins {
	return Pins{
		ArmFire:   DefaultPinArmFire,
		Disarm:    DefaultPinDisarm,
		CamSwitch: DefaultPinCamSwitch,
	}
}

// Offset returns the line offset wired to ch.
func (p Pins) Offset(ch Channel) (int, error) {
	switch ch {
	case ArmFire:
		return p.ArmFire, nil
	case Disarm:
		return p.Disarm, nil
	case CamSwitch:
		return p.CamSwitch, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrUnknownInput, ch)
}

// set stores v into the field of in that belongs to ch.
func set(in *logic.Inputs, ch Channel, v bool) {
	switch ch {
	case ArmFire:
		in.ArmFire = v
	case Disarm:
		in.Disarm = v
	case CamSwitch:
		in.CamSwitch = v
	}
}

// get returns the field of in that belongs to ch.
func get(in logic.Inputs, ch Channel) (bool, error) {
	switch ch {
	case ArmFire:
		return in.ArmFire, nil
	case Disarm:
		return in.Disarm, nil
	case CamSwitch:
		return in.CamSwitch, nil
	}
	return false, fmt.Errorf("%w: %v", ErrUnknownInput, ch)
}
