// Package config holds the daemon configuration read from a YAML file.
// Control timing (debounce window, pulse widths, poll interval) is fixed and
// not part of it.
package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"

	"github.com/sweeney/servo-bench/internal/gpio"
	"github.com/sweeney/servo-bench/internal/servo"
)

// Config represents configuration we expect to read from file
type Config struct {
	Chip      string        `yaml:"chip"`      // GPIO character device
	Inputs    Inputs        `yaml:"inputs"`    // input line offsets
	Servo     Servo         `yaml:"servo"`     // servo and indicator outputs
	MQTT      MQTT          `yaml:"mqtt"`      // empty broker disables publishing
	HTTPAddr  string        `yaml:"http_addr"` // empty disables the status server
	Serial    Serial        `yaml:"serial"`    // empty device disables the console
	Heartbeat time.Duration `yaml:"heartbeat"` // zero disables heartbeats
}

// Inputs are the BCM line offsets of the three controller inputs.
type Inputs struct {
	ArmFire   int `yaml:"arm_fire"`
	Disarm    int `yaml:"disarm"`
	CamSwitch int `yaml:"cam_switch"`
}

// Servo are the BCM line offsets of the outputs.
type Servo struct {
	Pin       int `yaml:"pin"`
	Indicator int `yaml:"indicator"`
}

// MQTT configures the diagnostic publisher.
type MQTT struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

// Serial configures the debug console.
type Serial struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// Default returns the bench wiring.
func Default() *Config {
	in := gpio.DefaultPins()
	out := servo.DefaultPins()
	return &Config{
		Chip: "gpiochip0",
		Inputs: Inputs{
			ArmFire:   in.ArmFire,
			Disarm:    in.Disarm,
			CamSwitch: in.CamSwitch,
		},
		Servo: Servo{
			Pin:       out.Servo,
			Indicator: out.Indicator,
		},
		MQTT: MQTT{
			Broker:   "tcp://localhost:1883",
			ClientID: "servo-bench",
		},
		HTTPAddr:  ":8080",
		Serial:    Serial{Baud: 115200},
		Heartbeat: 15 * time.Minute,
	}
}

// InputPins converts the input section for the GPIO reader.
func (c *Config) InputPins() gpio.Pins {
	return gpio.Pins{
		ArmFire:   c.Inputs.ArmFire,
		Disarm:    c.Inputs.Disarm,
		CamSwitch: c.Inputs.CamSwitch,
	}
}

// ServoPins converts the servo section for the servo driver.
func (c *Config) ServoPins() servo.Pins {
	return servo.Pins{
		Servo:     c.Servo.Pin,
		Indicator: c.Servo.Indicator,
	}
}

// Validate makes sure config is valid.
func (c *Config) Validate() error {
	if c.Chip == "" {
		return fmt.Errorf("bad config: 'chip' must be specified")
	}

	pins := []struct {
		name   string
		offset int
	}{
		{"inputs.arm_fire", c.Inputs.ArmFire},
		{"inputs.disarm", c.Inputs.Disarm},
		{"inputs.cam_switch", c.Inputs.CamSwitch},
		{"servo.pin", c.Servo.Pin},
		{"servo.indicator", c.Servo.Indicator},
	}
	seen := map[int]string{}
	for _, p := range pins {
		if p.offset < 0 {
			return fmt.Errorf("bad config: '%s' must be >=0", p.name)
		}
		if other, ok := seen[p.offset]; ok {
			return fmt.Errorf("bad config: '%s' and '%s' share line %d", other, p.name, p.offset)
		}
		seen[p.offset] = p.name
	}

	if c.MQTT.Broker != "" && c.MQTT.ClientID == "" {
		return fmt.Errorf("bad config: 'mqtt.client_id' must be specified with a broker")
	}
	if c.Serial.Device != "" && c.Serial.Baud <= 0 {
		return fmt.Errorf("bad config: 'serial.baud' must be >0")
	}
	if c.Heartbeat < 0 {
		return fmt.Errorf("bad config: 'heartbeat' must be >=0")
	}
	if c.Heartbeat > 0 && c.Heartbeat < time.Second {
		return fmt.Errorf("bad config: 'heartbeat' is under a second")
	}
	return nil
}

// ReadConfig reads config and unmarshals it from yaml into Config.
// Fields missing from the file keep their default values.
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}
