package player

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDeviceUnavailable is returned when the output device cannot be acquired.
	ErrDeviceUnavailable = errors.New("output device unavailable")

	// ErrDeviceBusy is returned when a sink already holds the device.
	ErrDeviceBusy = fmt.Errorf("%w: held by another sink", ErrDeviceUnavailable)
)

// Sink streams one source to the output device.
//
// A sink is created paused; Play starts output. Close releases the device
// before returning, so a new sink can be opened right after.
type Sink interface {
	Play()
	Pause()

	// SetVolume applies a level in [0,1] immediately.
	SetVolume(level float64)
	Volume() float64

	// Done is closed once the source has been fully consumed.
	Done() <-chan struct{}

	Close() error
}

// Device is the singleton output device. At most one sink holds it at a time.
type Device interface {
	Open(src Source, volume float64) (Sink, error)
}

// ClampLevel clamps a volume level into [0,1].
func ClampLevel(level float64) float64 {
	if math.IsNaN(level) || level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}
