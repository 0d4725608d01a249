package logic

// Next returns the state that follows s for the given debounced inputs.
// Guards are evaluated in order and the first match wins; with no match the
// state is unchanged. At most one transition is taken per call.
func Next(s State, in Inputs) State {
	switch s {
	case StateIdle:
		if in.Disarm {
			return StateResetting
		}
		if in.ArmFire {
			return StateCocking
		}
	case StateCocking:
		if in.Disarm {
			return StateResetting
		}
		if in.CamSwitch {
			return StateCocked
		}
	case StateCocked:
		if in.Disarm {
			return StateDecocking
		}
		if in.ArmFire {
			return StateFiring
		}
	case StateFiring:
		if in.Disarm {
			return StateDecocking
		}
		if !in.CamSwitch {
			return StateCocking
		}
	case StateDecocking:
		if !in.CamSwitch {
			return StateResetting
		}
	case StateResetting:
		if in.CamSwitch {
			return StateIdleAfterReset
		}
	case StateIdleAfterReset:
		// disarm is not checked here.
		// TODO: confirm with the mechanism owner whether disarm should leave IDLE_AFTER_RESET.
		if in.ArmFire {
			return StateRecockingAfterReset
		}
	case StateRecockingAfterReset:
		if in.Disarm {
			return StateIdleAfterReset
		}
		if !in.CamSwitch {
			return StateCocking
		}
	}
	return s
}

// Output maps a state to the servo command and indicator level.
// It depends on the state alone.
func Output(s State) (Command, bool) {
	switch s {
	case StateCocking, StateFiring, StateRecockingAfterReset:
		return CommandForward, true
	case StateDecocking, StateResetting:
		return CommandReverse, true
	case StateIdle, StateCocked, StateIdleAfterReset:
		return CommandNeutral, false
	}
	return CommandNeutral, false
}

// InitialState derives the boot state from a raw read of the cam switch.
func InitialState(camSwitchRaw bool) State {
	if camSwitchRaw {
		return StateCocked
	}
	return StateIdle
}
