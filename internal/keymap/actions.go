// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit     Action = "quit"
	ActionOpenFile Action = "open_file" // o - path prompt
	ActionHelp     Action = "help"

	// Playback actions
	ActionPlayPause       Action = "play_pause"
	ActionStop            Action = "stop"
	ActionReplay          Action = "replay"
	ActionReset           Action = "reset" // x - drop the selected file
	ActionSeekForward     Action = "seek_forward"
	ActionSeekBack        Action = "seek_back"
	ActionSeekForwardLong Action = "seek_forward_long" // +10% of the track
	ActionSeekBackLong    Action = "seek_back_long"    // -10% of the track
	ActionVolumeUp        Action = "volume_up"
	ActionVolumeDown      Action = "volume_down"

	// Prompt actions
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
)
