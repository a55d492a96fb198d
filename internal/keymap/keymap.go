// Package keymap defines key bindings for the application.
package keymap

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "prompt"
}

// Bindings contains all key bindings, used for dispatch and help generation.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionOpenFile, []string{"o"}, "Open file", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},

	// Playback
	{ActionPlayPause, []string{" ", "space"}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionReplay, []string{"r"}, "Replay", "playback"},
	{ActionReset, []string{"x"}, "Close file", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek back", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek forward", "playback"},
	{ActionSeekBackLong, []string{"shift+left", "H"}, "Seek -10%", "playback"},
	{ActionSeekForwardLong, []string{"shift+right", "L"}, "Seek +10%", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "playback"},

	// Path prompt
	{ActionConfirm, []string{"enter"}, "Select file", "prompt"},
	{ActionCancel, []string{"esc"}, "Cancel", "prompt"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
