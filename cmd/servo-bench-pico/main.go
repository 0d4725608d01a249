//go:build tinygo

// Command servo-bench-pico is the controller firmware for a Raspberry Pi Pico.
// Flash with: tinygo flash -target=pico ./cmd/servo-bench-pico
package main

import (
	"machine"
	"time"

	tinyservo "tinygo.org/x/drivers/servo"

	"github.com/sweeney/servo-bench/internal/control"
	"github.com/sweeney/servo-bench/internal/gpio"
	"github.com/sweeney/servo-bench/internal/logic"
	"github.com/sweeney/servo-bench/internal/servo"
)

const (
	pinArmFire   = machine.GP16
	pinDisarm    = machine.GP27
	pinCamSwitch = machine.GP28
	pinServo     = machine.GP0
	pinLED       = machine.LED

	// pollInterval yields the CPU each iteration so the display goroutine
	// gets scheduled.
	pollInterval = time.Millisecond
)

// pinReader reads the inputs straight from the RP2040 pins.
type pinReader struct {
	armFire, disarm, camSwitch machine.Pin
}

func (r pinReader) Read() (logic.Inputs, error) {
	return logic.Inputs{
		ArmFire:   !r.armFire.Get(),
		Disarm:    !r.disarm.Get(),
		CamSwitch: r.camSwitch.Get(),
	}, nil
}

func (r pinReader) ReadChannel(ch gpio.Channel) (bool, error) {
	switch ch {
	case gpio.ArmFire:
		return !r.armFire.Get(), nil
	case gpio.Disarm:
		return !r.disarm.Get(), nil
	case gpio.CamSwitch:
		return r.camSwitch.Get(), nil
	}
	return false, gpio.ErrUnknownInput
}

func (r pinReader) Close() error { return nil }

// pwmDriver drives the servo from PWM0 and the indicator on the board LED.
type pwmDriver struct {
	servo tinyservo.Servo
	led   machine.Pin
}

func (d pwmDriver) SetPulse(width time.Duration) error {
	if err := servo.CheckPulse(width); err != nil {
		return err
	}
	d.servo.SetMicroseconds(int16(width.Microseconds()))
	return nil
}

func (d pwmDriver) SetIndicator(on bool) error {
	d.led.Set(on)
	return nil
}

func (d pwmDriver) Close() error { return nil }

func main() {
	// buttons pull the line low, the closed cam switch pulls it high
	pinArmFire.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	pinDisarm.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	pinCamSwitch.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	pinLED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinLED.Low()

	s, err := tinyservo.New(machine.PWM0, pinServo)
	if err != nil {
		for {
			println("could not configure servo:", err.Error())
			time.Sleep(time.Second)
		}
	}

	var sink control.Sink = control.NopSink{}
	if d, err := newDisplay(); err != nil {
		println("no debug display:", err.Error())
	} else {
		sink = d
	}

	reader := pinReader{armFire: pinArmFire, disarm: pinDisarm, camSwitch: pinCamSwitch}
	loop := control.New(reader, pwmDriver{servo: s, led: pinLED}, sink, time.Now)
	if _, err := loop.Start(); err != nil {
		println("start:", err.Error())
	}

	for {
		if _, err := loop.Step(); err != nil {
			println("step:", err.Error())
		}
		// TinyGo schedules cooperatively; without this the display never renders
		time.Sleep(pollInterval)
	}
}
