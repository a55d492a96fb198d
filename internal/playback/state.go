// internal/playback/state.go
package playback

// State is the playback session state.
//
//	            select            toggle            toggle
//	┌───────┐ ─────────▶ ┌─────────┐ ───────▶ ┌─────────┐ ───────▶ ┌────────┐
//	│ Empty │            │ Stopped │          │ Playing │          │ Paused │
//	└───────┘ ◀───────── └─────────┘ ◀─────── └─────────┘ ◀─────── └────────┘
//	            reset         seek (paused), stop,           toggle
//	                          end of track
//
// A live handle (decoder source + output sink) exists exactly in Playing and
// Paused. Seek while Playing replaces the handle and stays in Playing; seek
// while Paused or Stopped drops the handle and only moves the position.
// Replay forces Playing from any state with a track. Reset returns to Empty
// from anywhere.
type State int

const (
	StateEmpty State = iota
	StateStopped
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "Empty"
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a handle is live (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// HasTrack returns true if a track is selected.
func (s State) HasTrack() bool {
	return s != StateEmpty
}
