//go:build linux && !baremetal

package servo

import (
	"fmt"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/servo-bench/internal/logic"
)

// PWM clock of 1MHz gives 1us per count; 20000 counts make the 20ms period.
const (
	pwmClockHz = 1000000
	pwmCycle   = uint32(logic.ServoPeriod / time.Microsecond)
)

// RealDriver drives the servo from the BCM2835 PWM peripheral and the
// indicator from a GPIO character device line.
type RealDriver struct {
	pwm       rpio.Pin
	chip      *gpiocdev.Chip
	indicator *gpiocdev.Line
}

// NewRealDriver maps the PWM peripheral, requests the indicator line and
// parks the servo at the neutral pulse with the indicator off.
func NewRealDriver(chipName string, pins Pins) (*RealDriver, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open rpio: %w", err)
	}

	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		rpio.Close()
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pins.Indicator, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		rpio.Close()
		return nil, fmt.Errorf("request indicator pin %d: %w", pins.Indicator, err)
	}

	pin := rpio.Pin(pins.Servo)
	pin.Mode(rpio.Pwm)
	pin.Freq(pwmClockHz)

	d := &RealDriver{
		pwm:       pin,
		chip:      chip,
		indicator: line,
	}
	if err := d.SetPulse(logic.PulseNeutral); err != nil {
		d.Close()
		return nil, err
	}
	rpio.StartPwm()

	return d, nil
}

// SetPulse sets the servo pulse width.
func (d *RealDriver) SetPulse(width time.Duration) error {
	if err := CheckPulse(width); err != nil {
		return err
	}
	d.pwm.DutyCycle(uint32(width/time.Microsecond), pwmCycle)
	return nil
}

// SetIndicator drives the indicator line.
func (d *RealDriver) SetIndicator(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := d.indicator.SetValue(v); err != nil {
		return fmt.Errorf("write indicator: %w", err)
	}
	return nil
}

// Close stops the pulse train, turns the indicator off and releases the
// peripherals.
func (d *RealDriver) Close() error {
	var errs []error

	d.pwm.DutyCycle(0, pwmCycle)
	rpio.StopPwm()

	if d.indicator != nil {
		if err := d.indicator.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear indicator: %w", err))
		}
		if err := d.indicator.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close indicator pin: %w", err))
		}
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if err := rpio.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close rpio: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
