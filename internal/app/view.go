package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/tune/internal/keymap"
	"github.com/llehouerou/tune/internal/ui/playerbar"
	"github.com/llehouerou/tune/internal/ui/render"
	"github.com/llehouerou/tune/internal/ui/styles"
)

const defaultWidth = 80

// View renders the application UI.
func (m Model) View() string {
	width := m.Width
	if width <= 0 {
		width = defaultWidth
	}
	t := styles.T()

	sections := []string{
		styles.ApplyBoldGradient("tune", t.Primary, t.Secondary),
		"",
		m.selectedLine(),
	}
	if bar := playerbar.Render(m.snapshot, width); bar != "" {
		sections = append(sections, bar)
	}
	if m.prompting {
		sections = append(sections, "", m.prompt.View(), t.S().Subtle.Render(keymap.Help("prompt", " · ")))
	}
	if m.status != "" {
		style := t.S().Muted
		if m.statusError {
			style = t.S().Error
		}
		sections = append(sections, "", style.Width(width).Render(m.status))
	}
	sections = append(sections, "", m.helpLine(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) selectedLine() string {
	s := styles.T().S()
	if m.snapshot.Path == "" {
		return s.Muted.Render("No audio file selected.")
	}
	line := "Selected file: " + render.Sanitize(m.snapshot.Path)
	if m.fileSize >= 0 {
		line += s.Subtle.Render(" (" + humanize.IBytes(uint64(m.fileSize)) + ")") //nolint:gosec // fileSize checked non-negative
	}
	return line
}

func (m Model) helpLine(width int) string {
	s := styles.T().S().Subtle
	if !m.showHelp {
		return s.Render("space play/pause · o open · ? help · q quit")
	}
	lines := []string{
		keymap.Help("playback", " · "),
		keymap.Help("global", " · "),
	}
	return s.Width(width).Render(strings.Join(lines, "\n"))
}
