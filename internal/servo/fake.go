package servo

import "time"

// FakeDriver records commanded outputs for test assertions.
type FakeDriver struct {
	// Pulse is the last accepted pulse width.
	Pulse time.Duration

	// Indicator is the last indicator level.
	Indicator bool

	// Pulses contains every accepted pulse width, in order.
	Pulses []time.Duration

	// Indicators contains every indicator level written, in order.
	Indicators []bool

	// PulseError, if set, will be returned by SetPulse.
	PulseError error

	// IndicatorError, if set, will be returned by SetIndicator.
	IndicatorError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeDriver creates a FakeDriver for testing.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// SetPulse records the pulse width.
func (f *FakeDriver) SetPulse(width time.Duration) error {
	if f.PulseError != nil {
		return f.PulseError
	}
	if err := CheckPulse(width); err != nil {
		return err
	}
	f.Pulse = width
	f.Pulses = append(f.Pulses, width)
	return nil
}

// SetIndicator records the indicator level.
func (f *FakeDriver) SetIndicator(on bool) error {
	if f.IndicatorError != nil {
		return f.IndicatorError
	}
	f.Indicator = on
	f.Indicators = append(f.Indicators, on)
	return nil
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded outputs.
func (f *FakeDriver) Reset() {
	*f = FakeDriver{}
}
