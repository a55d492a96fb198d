package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockDevice_SingleOwner(t *testing.T) {
	dec := NewMockDecoder(time.Minute)
	dev := NewMockDevice()

	src, err := dec.Open("/music/a.wav")
	require.NoError(t, err)

	first, err := dev.Open(src, 0.5)
	require.NoError(t, err)

	_, err = dev.Open(src, 0.5)
	assert.ErrorIs(t, err, ErrDeviceBusy)
	assert.ErrorIs(t, err, ErrDeviceUnavailable)

	require.NoError(t, first.Close())
	second, err := dev.Open(src, 0.7)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, second.Volume(), 1e-9)
	assert.Equal(t, 2, dev.Opens())
}
