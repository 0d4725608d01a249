package gpio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sweeney/servo-bench/internal/logic"
)

func TestFakeReaderRead(t *testing.T) {
	samples := []logic.Inputs{
		{ArmFire: true},
		{Disarm: true, CamSwitch: true},
		{CamSwitch: true},
	}

	f := NewFakeReader(samples)

	for i, want := range samples {
		got, err := f.Read()
		require.NoError(t, err)
		require.Equal(t, want, got, "sample %d", i)
	}

	// Fourth read should repeat last sample
	got, err := f.Read()
	require.NoError(t, err)
	require.Equal(t, samples[2], got)
	require.Equal(t, 4, f.Reads)
}

func TestFakeReaderReadChannelPeeks(t *testing.T) {
	f := NewFakeReader([]logic.Inputs{{CamSwitch: true}, {ArmFire: true}})

	cam, err := f.ReadChannel(CamSwitch)
	require.NoError(t, err)
	require.True(t, cam)

	// peeking does not consume
	got, err := f.Read()
	require.NoError(t, err)
	require.True(t, got.CamSwitch)

	arm, err := f.ReadChannel(ArmFire)
	require.NoError(t, err)
	require.True(t, arm)

	_, err = f.ReadChannel(Channel(9))
	require.ErrorIs(t, err, ErrUnknownInput)
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	_, err := f.Read()
	require.ErrorIs(t, err, ErrNoSamples)

	_, err = f.ReadChannel(CamSwitch)
	require.ErrorIs(t, err, ErrNoSamples)
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]logic.Inputs{{ArmFire: true}})
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	require.EqualError(t, err, "simulated error")

	_, err = f.ReadChannel(ArmFire)
	require.EqualError(t, err, "simulated error")
}

func TestFakeReaderCloseAndReset(t *testing.T) {
	f := NewFakeReader([]logic.Inputs{{ArmFire: true}, {Disarm: true}})

	require.False(t, f.Closed)
	require.NoError(t, f.Close())
	require.True(t, f.Closed)

	_, _ = f.Read()
	f.Reset()
	require.False(t, f.Closed)

	got, _ := f.Read()
	require.True(t, got.ArmFire)
}

func TestChannelPolarity(t *testing.T) {
	require.True(t, ArmFire.ActiveLow())
	require.True(t, Disarm.ActiveLow())
	require.False(t, CamSwitch.ActiveLow())
}

func TestPinsOffset(t *testing.T) {
	p := DefaultPins()
	for ch, want := range map[Channel]int{ArmFire: 16, Disarm: 27, CamSwitch: 22} {
		got, err := p.Offset(ch)
		require.NoError(t, err)
		require.Equal(t, want, got, ch.String())
	}

	_, err := p.Offset(Channel(7))
	require.ErrorIs(t, err, ErrUnknownInput)
	require.Equal(t, "channel(7)", Channel(7).String())
}
