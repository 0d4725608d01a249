//go:build tinygo

package main

import (
	"image/color"
	"machine"
	"strconv"
	"time"

	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/sweeney/servo-bench/internal/logic"
)

var white = color.RGBA{255, 255, 255, 255}

// display renders the debug lines on an SSD1306 from its own goroutine.
// State changes that arrive while it is busy are dropped, except the latest.
type display struct {
	dev     ssd1306.Device
	pending chan logic.Transition
}

func newDisplay() (*display, error) {
	err := machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.GP20,
		SCL:       machine.GP21,
	})
	if err != nil {
		return nil, err
	}
	// the panel needs a moment after a cold start
	time.Sleep(100 * time.Millisecond)

	d := &display{
		dev:     ssd1306.NewI2C(machine.I2C0),
		pending: make(chan logic.Transition, 1),
	}
	d.dev.Configure(ssd1306.Config{Width: 128, Height: 64, Address: 0x3C, VccState: ssd1306.SWITCHCAPVCC})
	d.dev.ClearDisplay()

	go d.run()
	return d, nil
}

// StateChanged hands t to the render goroutine without blocking.
func (d *display) StateChanged(t logic.Transition) {
	select {
	case d.pending <- t:
		return
	default:
	}
	// replace the stale entry with the newest one
	select {
	case <-d.pending:
	default:
	}
	select {
	case d.pending <- t:
	default:
	}
}

func (d *display) run() {
	for t := range d.pending {
		sw := 0
		if t.CamSwitchRaw {
			sw = 1
		}
		d.dev.ClearBuffer()
		tinyfont.WriteLine(&d.dev, &proggy.TinySZ8pt7b, 0, 10, "state: "+strconv.Itoa(t.To.Code()), white)
		tinyfont.WriteLine(&d.dev, &proggy.TinySZ8pt7b, 0, 24, "sw: "+strconv.Itoa(sw), white)
		d.dev.Display()
	}
}
