//go:build linux && !baremetal

package gpio

import (
	"fmt"

	"github.com/sweeney/servo-bench/internal/logic"
	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads GPIO from actual hardware using Linux GPIO character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines map[Channel]*gpiocdev.Line
}

// NewRealReader requests the three input lines on the named chip.
// Operator buttons are requested active-low with pull-up, the cam switch
// active-high with pull-down, so line values come back in logical form.
func NewRealReader(chipName string, pins Pins) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealReader{
		chip:  chip,
		lines: make(map[Channel]*gpiocdev.Line, len(Channels)),
	}

	for _, ch := range Channels {
		offset, err := pins.Offset(ch)
		if err != nil {
			r.Close()
			return nil, err
		}

		opts := []gpiocdev.LineReqOption{gpiocdev.AsInput, gpiocdev.WithPullDown}
		if ch.ActiveLow() {
			opts = []gpiocdev.LineReqOption{gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.AsActiveLow}
		}

		line, err := chip.RequestLine(offset, opts...)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", ch, offset, err)
		}
		r.lines[ch] = line
	}

	return r, nil
}

// Read returns the logical states of all three inputs.
func (r *RealReader) Read() (logic.Inputs, error) {
	var in logic.Inputs
	for _, ch := range Channels {
		v, err := r.ReadChannel(ch)
		if err != nil {
			return logic.Inputs{}, err
		}
		set(&in, ch, v)
	}
	return in, nil
}

// ReadChannel returns the logical state of a single input.
func (r *RealReader) ReadChannel(ch Channel) (bool, error) {
	line, ok := r.lines[ch]
	if !ok {
		return false, fmt.Errorf("%w: %v", ErrUnknownInput, ch)
	}

	v, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("read %s pin: %w", ch, err)
	}
	return v == 1, nil
}

// Close releases GPIO resources.
// Lines are returned to plain inputs with pull-down before closing so the
// pins come back in a known state after shutdown.
func (r *RealReader) Close() error {
	var errs []error

	for _, ch := range Channels {
		line := r.lines[ch]
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown, gpiocdev.AsActiveHigh); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", ch, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", ch, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
