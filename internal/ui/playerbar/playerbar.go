// Package playerbar renders the transport panel: state, track, progress and volume.
package playerbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tune/internal/playback"
	"github.com/llehouerou/tune/internal/ui/render"
	"github.com/llehouerou/tune/internal/ui/styles"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	stopSymbol  = "■"
)

// Height is the rendered height: three content rows plus borders.
const Height = 5

// Render returns the player panel for the given width.
// Returns an empty string when no track is selected.
func Render(s playback.Snapshot, width int) string {
	if s.State == playback.StateEmpty {
		return ""
	}
	innerWidth := max(width-4, 0) // border + padding

	lines := []string{
		statusLine(s, innerWidth),
		trackLine(s, innerWidth),
		RenderProgressBar(s.Elapsed, s.Total, innerWidth),
	}
	for i, line := range lines {
		lines[i] = render.Clip(line, innerWidth)
	}
	return styles.T().S().Panel.Width(innerWidth + 2).Render(strings.Join(lines, "\n"))
}

// ToggleLabel is the label of the play/pause control: what pressing it does.
func ToggleLabel(state playback.State) string {
	if state == playback.StatePlaying {
		return "Pause"
	}
	return "Play"
}

func statusLine(s playback.Snapshot, width int) string {
	t := styles.T()
	var status string
	switch s.State {
	case playback.StatePlaying:
		status = t.S().Success.Render(playSymbol + " Playing")
	case playback.StatePaused:
		status = t.S().Warning.Render(pauseSymbol + " Paused")
	default:
		status = t.S().Muted.Render(stopSymbol + " Stopped")
	}

	right := RenderVolume(s.Volume) + "  " + t.S().Subtle.Render("["+ToggleLabel(s.State)+"]")
	return render.Row(status, right, width)
}

func trackLine(s playback.Snapshot, width int) string {
	title := render.Sanitize(s.Title)
	if title == "" {
		title = "Unknown Track"
	}

	var info []string
	if s.Artist != "" {
		info = append(info, render.Sanitize(s.Artist))
	}
	if s.Album != "" {
		info = append(info, render.Sanitize(s.Album))
	}

	line := styles.T().S().Title.Render(render.Truncate(title, width))
	if len(info) > 0 {
		rest := width - lipgloss.Width(title) - 3
		if rest > 3 {
			line += styles.T().S().Muted.Render(" · " + render.Truncate(strings.Join(info, " · "), rest))
		}
	}
	return line
}
