package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sweeney/servo-bench/internal/gpio"
	"github.com/sweeney/servo-bench/internal/servo"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "servo-bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	require.Equal(t, gpio.DefaultPins(), c.InputPins())
	require.Equal(t, servo.DefaultPins(), c.ServoPins())
}

func TestReadConfig(t *testing.T) {
	path := writeConfig(t, `
chip: gpiochip4
inputs:
  arm_fire: 5
  disarm: 6
  cam_switch: 13
servo:
  pin: 12
  indicator: 26
mqtt:
  broker: tcp://broker.lan:1883
  client_id: bench-2
http_addr: ":9090"
serial:
  device: /dev/ttyUSB0
  baud: 57600
heartbeat: 30s
`)
	c, err := ReadConfig(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	want := &Config{
		Chip:      "gpiochip4",
		Inputs:    Inputs{ArmFire: 5, Disarm: 6, CamSwitch: 13},
		Servo:     Servo{Pin: 12, Indicator: 26},
		MQTT:      MQTT{Broker: "tcp://broker.lan:1883", ClientID: "bench-2"},
		HTTPAddr:  ":9090",
		Serial:    Serial{Device: "/dev/ttyUSB0", Baud: 57600},
		Heartbeat: 30 * time.Second,
	}
	require.Equal(t, want, c)
}

func TestReadConfigPartialKeepsDefaults(t *testing.T) {
	c, err := ReadConfig(writeConfig(t, "http_addr: \"\"\n"))
	require.NoError(t, err)

	d := Default()
	d.HTTPAddr = ""
	require.Equal(t, d, c)
}

func TestReadConfigUnknownField(t *testing.T) {
	_, err := ReadConfig(writeConfig(t, "debounce: 10ms\n"))
	require.Error(t, err)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"no chip", func(c *Config) { c.Chip = "" }, "bad config: 'chip' must be specified"},
		{"negative pin", func(c *Config) { c.Inputs.Disarm = -1 }, "bad config: 'inputs.disarm' must be >=0"},
		{"shared line", func(c *Config) { c.Servo.Indicator = c.Inputs.ArmFire }, "bad config: 'inputs.arm_fire' and 'servo.indicator' share line 16"},
		{"broker without id", func(c *Config) { c.MQTT.ClientID = "" }, "bad config: 'mqtt.client_id' must be specified with a broker"},
		{"serial without baud", func(c *Config) { c.Serial = Serial{Device: "/dev/ttyACM0"} }, "bad config: 'serial.baud' must be >0"},
		{"negative heartbeat", func(c *Config) { c.Heartbeat = -time.Second }, "bad config: 'heartbeat' must be >=0"},
		{"tiny heartbeat", func(c *Config) { c.Heartbeat = time.Millisecond }, "bad config: 'heartbeat' is under a second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			require.EqualError(t, c.Validate(), tt.want)
		})
	}
}

func TestValidateOptionalSections(t *testing.T) {
	c := Default()
	c.MQTT = MQTT{}
	c.HTTPAddr = ""
	c.Serial = Serial{}
	c.Heartbeat = 0
	require.NoError(t, c.Validate())
}
