package logic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHarnessOutput(t *testing.T) {
	cmd, ind := HarnessOutput(false, false, 0)
	require.Equal(t, CommandNeutral, cmd)
	require.False(t, ind)

	cmd, ind = HarnessOutput(true, false, time.Second)
	require.Equal(t, CommandForward, cmd)
	require.True(t, ind)

	cmd, _ = HarnessOutput(true, true, 0)
	require.Equal(t, CommandReverse, cmd)
}

func TestHarnessReverseBlinks(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    bool
	}{
		{0, true},
		{49 * time.Millisecond, true},
		{50 * time.Millisecond, false},
		{99 * time.Millisecond, false},
		{100 * time.Millisecond, true},
		{175 * time.Millisecond, false},
	}
	for _, tt := range tests {
		_, ind := HarnessOutput(false, true, tt.elapsed)
		require.Equal(t, tt.want, ind, "elapsed %v", tt.elapsed)
	}
}
