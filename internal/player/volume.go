package player

import "math"

// silentVolume is the effects.Volume value used for level 0.
const silentVolume = -10

// levelToVolume converts a 0.0-1.0 level to beep's Volume value.
// beep's Volume is an exponent of Base 2: 0 leaves the signal unchanged,
// -1 halves it. We map 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> silent.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return silentVolume
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
