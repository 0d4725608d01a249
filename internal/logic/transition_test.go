package logic

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type guard struct {
	input string // "arm", "disarm", "cam"
	want  bool
	next  State
}

// rules is the transition table written out as data.
var rules = map[State][]guard{
	StateIdle:                {{"disarm", true, StateResetting}, {"arm", true, StateCocking}},
	StateCocking:             {{"disarm", true, StateResetting}, {"cam", true, StateCocked}},
	StateCocked:              {{"disarm", true, StateDecocking}, {"arm", true, StateFiring}},
	StateFiring:              {{"disarm", true, StateDecocking}, {"cam", false, StateCocking}},
	StateDecocking:           {{"cam", false, StateResetting}},
	StateResetting:           {{"cam", true, StateIdleAfterReset}},
	StateIdleAfterReset:      {{"arm", true, StateRecockingAfterReset}},
	StateRecockingAfterReset: {{"disarm", true, StateIdleAfterReset}, {"cam", false, StateCocking}},
}

func expectedNext(s State, in Inputs) State {
	for _, g := range rules[s] {
		var v bool
		switch g.input {
		case "arm":
			v = in.ArmFire
		case "disarm":
			v = in.Disarm
		case "cam":
			v = in.CamSwitch
		}
		if v == g.want {
			return g.next
		}
	}
	return s
}

func allInputs() []Inputs {
	var out []Inputs
	for i := 0; i < 8; i++ {
		out = append(out, Inputs{ArmFire: i&1 != 0, Disarm: i&2 != 0, CamSwitch: i&4 != 0})
	}
	return out
}

func TestNextExhaustive(t *testing.T) {
	require.Len(t, States, NumStates)
	for _, s := range States {
		require.Contains(t, rules, s, "no rules for %s", s)
		for _, in := range allInputs() {
			t.Run(fmt.Sprintf("%s/%+v", s, in), func(t *testing.T) {
				require.Equal(t, expectedNext(s, in), Next(s, in))
			})
		}
	}
}

func TestNextIdleAfterResetIgnoresDisarm(t *testing.T) {
	require.Equal(t, StateIdleAfterReset, Next(StateIdleAfterReset, Inputs{Disarm: true}))
	require.Equal(t, StateIdleAfterReset, Next(StateIdleAfterReset, Inputs{Disarm: true, CamSwitch: true}))
	require.Equal(t, StateRecockingAfterReset, Next(StateIdleAfterReset, Inputs{Disarm: true, ArmFire: true}))
}

func TestNextDisarmWinsOverArm(t *testing.T) {
	require.Equal(t, StateResetting, Next(StateIdle, Inputs{ArmFire: true, Disarm: true}))
	require.Equal(t, StateDecocking, Next(StateCocked, Inputs{ArmFire: true, Disarm: true}))
	require.Equal(t, StateIdleAfterReset, Next(StateRecockingAfterReset, Inputs{Disarm: true}))
}

func TestNextUnknownStateStays(t *testing.T) {
	bogus := State(42)
	require.Equal(t, bogus, Next(bogus, Inputs{ArmFire: true, Disarm: true, CamSwitch: true}))
}

func TestOutput(t *testing.T) {
	tests := []struct {
		state     State
		command   Command
		pulse     int64
		indicator bool
	}{
		{StateIdle, CommandNeutral, 1500, false},
		{StateCocking, CommandForward, 2000, true},
		{StateCocked, CommandNeutral, 1500, false},
		{StateFiring, CommandForward, 2000, true},
		{StateDecocking, CommandReverse, 1000, true},
		{StateResetting, CommandReverse, 1000, true},
		{StateIdleAfterReset, CommandNeutral, 1500, false},
		{StateRecockingAfterReset, CommandForward, 2000, true},
	}
	require.Len(t, tests, NumStates)

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			cmd, ind := Output(tt.state)
			require.Equal(t, tt.command, cmd)
			require.Equal(t, tt.indicator, ind)
			require.Equal(t, tt.pulse, cmd.PulseWidth().Microseconds())
		})
	}
}

func TestOutputIndicatorMatchesCommand(t *testing.T) {
	for _, s := range States {
		cmd, ind := Output(s)
		require.Equal(t, cmd != CommandNeutral, ind, s.String())
		pw := cmd.PulseWidth()
		require.Contains(t, []int64{1000, 1500, 2000}, pw.Microseconds())
		require.Less(t, pw, ServoPeriod)
	}
}

func TestInitialState(t *testing.T) {
	require.Equal(t, StateCocked, InitialState(true))
	require.Equal(t, StateIdle, InitialState(false))
}

func TestStateStrings(t *testing.T) {
	want := []string{
		"IDLE", "COCKING", "COCKED", "FIRING",
		"DECOCKING", "RESETTING", "IDLE_AFTER_RESET", "RECOCKING_AFTER_RESET",
	}
	for i, s := range States {
		require.Equal(t, want[i], s.String())
		require.Equal(t, i, s.Code())
		require.True(t, s.Valid())
	}
	require.False(t, State(NumStates).Valid())
	require.Equal(t, "STATE(9)", State(9).String())
	require.Equal(t, "COMMAND(7)", Command(7).String())
	require.Equal(t, PulseNeutral, Command(7).PulseWidth())
}
