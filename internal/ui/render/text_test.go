package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "Blue in Green", "Blue in Green"},
		{"control characters removed", "Track\x00 One\x1b", "Track One"},
		{"newline removed", "Side A\nSide B", "Side ASide B"},
		{"invalid utf8 dropped", "caf\xe9", "caf"},
		{"nbsp becomes space", "So\u00a0What", "So What"},
		{"unicode kept", "Café 東京", "Café 東京"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "12345", 5, "12345"},
		{"cut with ellipsis", "a long title", 7, "a long…"},
		{"zero width", "x", 0, ""},
		{"wide runes", "東京東京", 5, "東京…"},
		{"sanitized before measuring", "ab\x00cd", 4, "abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxWidth)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
			if w := lipgloss.Width(got); w > tt.maxWidth {
				t.Errorf("Truncate(%q, %d) width = %d", tt.input, tt.maxWidth, w)
			}
		})
	}
}

func TestPad(t *testing.T) {
	if got := Pad("ab", 5); got != "ab   " {
		t.Errorf("Pad() = %q, want %q", got, "ab   ")
	}
	if got := Pad("abcdef", 3); got != "abcdef" {
		t.Errorf("Pad() = %q, should not shorten", got)
	}
}

func TestRow(t *testing.T) {
	tests := []struct {
		name        string
		left, right string
		width       int
		want        string
	}{
		{"spread", "left", "right", 15, "left      right"},
		{"minimum gap", "left", "right", 5, "left right"},
		{"empty right", "left", "", 6, "left  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Row(tt.left, tt.right, tt.width); got != tt.want {
				t.Errorf("Row() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRow_IgnoresStyling(t *testing.T) {
	left := lipgloss.NewStyle().Bold(true).Render("ab")

	got := Row(left, "cd", 6)

	if w := lipgloss.Width(got); w != 6 {
		t.Errorf("Row() width = %d, want 6", w)
	}
}

func TestClip(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("playing") + " vol 100%"

	got := Clip(styled, 7)

	if w := lipgloss.Width(got); w != 7 {
		t.Errorf("Clip() width = %d, want 7", w)
	}
	if !strings.Contains(got, "playing") {
		t.Errorf("Clip() = %q, want the styled prefix kept", got)
	}
	if Clip("short", 10) != "short" {
		t.Error("Clip() changed a line that fits")
	}
}
