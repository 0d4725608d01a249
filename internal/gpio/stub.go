//go:build !linux || baremetal

package gpio

import "github.com/sweeney/servo-bench/internal/logic"

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(chipName string, pins Pins) (*RealReader, error) {
	return nil, ErrUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RealReader) Read() (logic.Inputs, error) {
	return logic.Inputs{}, ErrUnsupported
}

// ReadChannel is not implemented on non-Linux platforms.
func (r *RealReader) ReadChannel(ch Channel) (bool, error) {
	return false, ErrUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RealReader) Close() error {
	return nil
}
