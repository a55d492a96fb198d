package playerbar

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/tune/internal/playback"
)

func TestRender_EmptyState(t *testing.T) {
	assert.Empty(t, Render(playback.Snapshot{State: playback.StateEmpty}, 80))
}

func TestRender_Playing(t *testing.T) {
	s := playback.Snapshot{
		State:    playback.StatePlaying,
		Path:     "/music/song.mp3",
		Title:    "Song",
		Artist:   "Artist",
		Album:    "Album",
		Elapsed:  30 * time.Second,
		Total:    2 * time.Minute,
		Fraction: 0.25,
		Volume:   0.3,
	}

	out := Render(s, 80)

	assert.Contains(t, out, "Playing")
	assert.Contains(t, out, "[Pause]")
	assert.Contains(t, out, "Song")
	assert.Contains(t, out, "Artist · Album")
	assert.Contains(t, out, "00:30")
	assert.Contains(t, out, "02:00")
	assert.Contains(t, out, "vol  30%")
	assert.Equal(t, Height, lipgloss.Height(out))
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 80)
	}
}

func TestRender_Narrow(t *testing.T) {
	s := playback.Snapshot{
		State:   playback.StatePaused,
		Title:   "Song",
		Elapsed: time.Second,
		Total:   time.Minute,
		Volume:  1,
	}

	out := Render(s, 24)

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 24)
	}
}

func TestToggleLabel(t *testing.T) {
	assert.Equal(t, "Pause", ToggleLabel(playback.StatePlaying))
	assert.Equal(t, "Play", ToggleLabel(playback.StatePaused))
	assert.Equal(t, "Play", ToggleLabel(playback.StateStopped))
}

func TestRenderProgressBar(t *testing.T) {
	out := RenderProgressBar(30*time.Second, 2*time.Minute, 40)

	assert.Equal(t, 40, lipgloss.Width(out))
	assert.True(t, strings.HasPrefix(out, "00:30  "))
	assert.True(t, strings.HasSuffix(out, "  02:00"))
}

func TestRenderProgressBar_Narrow(t *testing.T) {
	assert.Equal(t, "00:30 / 02:00", RenderProgressBar(30*time.Second, 2*time.Minute, 12))
}

func TestFilledCells(t *testing.T) {
	tests := []struct {
		name           string
		elapsed, total time.Duration
		width, want    int
	}{
		{"start", 0, time.Minute, 20, 0},
		{"quarter", 15 * time.Second, time.Minute, 20, 5},
		{"end", time.Minute, time.Minute, 20, 20},
		{"overshoot", 2 * time.Minute, time.Minute, 20, 20},
		{"unknown total", 10 * time.Second, 0, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filledCells(tt.elapsed, tt.total, tt.width))
		})
	}
}

func TestRenderVolume(t *testing.T) {
	assert.Contains(t, RenderVolume(1), "100%")
	assert.Contains(t, RenderVolume(0.05), "5%")
	assert.Contains(t, RenderVolume(0), "mute")
}

func TestTrackLine_SanitizesTags(t *testing.T) {
	s := playback.Snapshot{
		State:  playback.StateStopped,
		Title:  "Bad\x00Title",
		Artist: "Some\nArtist",
	}

	line := trackLine(s, 60)

	assert.Contains(t, line, "BadTitle")
	assert.Contains(t, line, "SomeArtist")
	assert.NotContains(t, line, "\x00")
}

func TestTrackLine_Truncated(t *testing.T) {
	s := playback.Snapshot{
		State: playback.StateStopped,
		Title: "A Very Long Title That Does Not Fit",
	}

	line := trackLine(s, 12)

	assert.LessOrEqual(t, lipgloss.Width(line), 12)
	assert.Contains(t, line, "…")
}
