package logic

import "time"

// HarnessBlinkPeriod is the indicator half-period while the harness reverses.
const HarnessBlinkPeriod = 50 * time.Millisecond

// HarnessOutput maps the two test-harness buttons to a servo command and
// indicator level. Reverse wins over forward. While reversing the indicator
// blinks with HarnessBlinkPeriod; elapsed is the time since reversing began.
func HarnessOutput(forward, reverse bool, elapsed time.Duration) (Command, bool) {
	switch {
	case reverse:
		phase := elapsed / HarnessBlinkPeriod
		return CommandReverse, phase%2 == 0
	case forward:
		return CommandForward, true
	default:
		return CommandNeutral, false
	}
}
