package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tune/internal/playback"
	"github.com/llehouerou/tune/internal/ui/styles"
)

const (
	filledBlock = "▓"
	emptyBlock  = "░"
)

// RenderProgressBar renders a block-style progress bar.
// Format: 00:30  ▓▓▓▓▓░░░░░░░░░░  02:00
func RenderProgressBar(elapsed, total time.Duration, width int) string {
	posStr := playback.FormatClock(elapsed)
	durStr := playback.FormatClock(total)

	fixedWidth := lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth
	if barWidth < 3 {
		// Too narrow for bar, just show times
		return posStr + " / " + durStr
	}

	filled := filledCells(elapsed, total, barWidth)
	t := styles.T()
	bar := styles.ApplyGradient(strings.Repeat(filledBlock, filled), t.Primary, t.Secondary) +
		t.S().Subtle.Render(strings.Repeat(emptyBlock, barWidth-filled))

	return posStr + "  " + bar + "  " + durStr
}

// filledCells returns how many of width cells represent elapsed/total.
func filledCells(elapsed, total time.Duration, width int) int {
	if total <= 0 || elapsed <= 0 {
		return 0
	}
	ratio := float64(elapsed) / float64(total)
	return min(int(float64(width)*ratio), width)
}
