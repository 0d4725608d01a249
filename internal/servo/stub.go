//go:build !linux || baremetal

package servo

import "time"

// RealDriver is not available on non-Linux platforms.
type RealDriver struct{}

// NewRealDriver returns an error on non-Linux platforms.
func NewRealDriver(chipName string, pins Pins) (*RealDriver, error) {
	return nil, ErrUnsupported
}

// SetPulse is not implemented on non-Linux platforms.
func (d *RealDriver) SetPulse(width time.Duration) error {
	return ErrUnsupported
}

// SetIndicator is not implemented on non-Linux platforms.
func (d *RealDriver) SetIndicator(on bool) error {
	return ErrUnsupported
}

// Close is not implemented on non-Linux platforms.
func (d *RealDriver) Close() error {
	return nil
}
