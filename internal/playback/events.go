package playback

import "time"

// StateChange is emitted when the session state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when the selected track changes.
//
// Emitted by Select and by Reset (with Current nil). Replay and seeks keep
// the track and do not emit it.
type TrackChange struct {
	Previous *Track
	Current  *Track
}

// PositionChange is emitted when a seek moves the playback position.
type PositionChange struct {
	Position time.Duration
	Fraction float64
}

// VolumeChange is emitted when the session volume changes.
type VolumeChange struct {
	Level float64
}

// EndOfTrack is emitted when playback reaches the end of the track.
type EndOfTrack struct {
	Track Track
}

// ErrorEvent is emitted when a command fails.
type ErrorEvent struct {
	Err *Error
}
