package logic

import "time"

// Debouncer stabilizes a single noisy boolean input.
type Debouncer struct {
	window     time.Duration
	stable     bool
	last       bool
	lastChange time.Time
}

// NewDebouncer creates a filter whose stable and last values start at initial.
func NewDebouncer(initial bool, window time.Duration) Debouncer {
	return Debouncer{
		window: window,
		stable: initial,
		last:   initial,
	}
}

// Update feeds one raw sample taken at now and returns the stable value.
// The stable value follows the raw level once that level has held for
// strictly longer than the window.
func (d *Debouncer) Update(raw bool, now time.Time) bool {
	if raw != d.last {
		d.last = raw
		d.lastChange = now
	}

	if d.stable != d.last && now.Sub(d.lastChange) > d.window {
		d.stable = d.last
	}

	return d.stable
}

// Stable returns the current stable value without sampling.
func (d *Debouncer) Stable() bool {
	return d.stable
}
