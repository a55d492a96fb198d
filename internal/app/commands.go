package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tune/internal/stderr"
)

// tickInterval is how often the position display is refreshed.
const tickInterval = 250 * time.Millisecond

// TickCmd returns a command that sends TickMsg after tickInterval.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchSessionEvents returns a command that waits for the next session event
// the TUI cares about and converts it to a tea.Msg.
func (m Model) WatchSessionEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return SessionStateMsg(e)
		case e := <-sub.TrackEnded:
			return TrackEndedMsg(e)
		case e := <-sub.Error:
			return SessionErrorMsg(e)
		case <-sub.Done:
			return SessionClosedMsg{}
		}
	}
}

// WatchStderr returns a command that waits for stderr output from audio libraries.
func WatchStderr() tea.Cmd {
	return func() tea.Msg {
		line, ok := <-stderr.Messages
		if !ok {
			return nil // Channel closed
		}
		return StderrMsg{Line: line}
	}
}
