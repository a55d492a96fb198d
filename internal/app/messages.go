package app

import (
	"time"

	"github.com/llehouerou/tune/internal/playback"
)

// TickMsg is sent periodically to poll the session position.
type TickMsg time.Time

// SessionStateMsg is sent when the session changes state, including
// changes triggered outside the TUI (media keys).
type SessionStateMsg playback.StateChange

// TrackEndedMsg is sent when the track played to its end.
type TrackEndedMsg playback.EndOfTrack

// SessionErrorMsg carries a failed command from any caller.
type SessionErrorMsg struct {
	Err *playback.Error
}

// SessionClosedMsg is sent once the session has been closed.
type SessionClosedMsg struct{}

// StderrMsg carries a line captured from an audio library's stderr.
type StderrMsg struct {
	Line string
}
