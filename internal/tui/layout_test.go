package tui

import (
	"strings"
	"testing"

	"github.com/pantrymind/pantrymind/internal/config"
)

func TestGetBreakpoint(t *testing.T) {
	tests := []struct {
		width    int
		expected LayoutBreakpoint
	}{
		{40, BreakpointNarrow},
		{59, BreakpointNarrow},
		{60, BreakpointMedium},
		{99, BreakpointMedium},
		{100, BreakpointWide},
		{200, BreakpointWide},
	}

	for _, tt := range tests {
		if result := GetBreakpoint(tt.width); result != tt.expected {
			t.Errorf("GetBreakpoint(%d) = %d, want %d", tt.width, result, tt.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxWidth int
		expected string
	}{
		{"pantry", 10, "pantry"},
		{"pantry", 6, "pantry"},
		{"home kitchen", 5, "home…"},
		{"hi", 0, ""},
		{"crème fraîche", 3, "crè"},
	}

	for _, tt := range tests {
		if result := Truncate(tt.input, tt.maxWidth); result != tt.expected {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, result, tt.expected)
		}
	}
}

func TestContentWidth(t *testing.T) {
	tests := []struct {
		termWidth, minWidth, maxWidth, expected int
	}{
		{80, 40, 120, 80},
		{30, 40, 120, 40},
		{200, 40, 120, 120},
		{80, 40, 0, 80},
	}

	for _, tt := range tests {
		if result := ContentWidth(tt.termWidth, tt.minWidth, tt.maxWidth); result != tt.expected {
			t.Errorf("ContentWidth(%d, %d, %d) = %d, want %d",
				tt.termWidth, tt.minWidth, tt.maxWidth, result, tt.expected)
		}
	}
}

func TestContentHeight(t *testing.T) {
	tests := []struct {
		termHeight, chromeLines, expected int
	}{
		{24, 6, 18},
		{8, 6, 5},
		{5, 6, 5},
	}

	for _, tt := range tests {
		if result := ContentHeight(tt.termHeight, tt.chromeLines); result != tt.expected {
			t.Errorf("ContentHeight(%d, %d) = %d, want %d",
				tt.termHeight, tt.chromeLines, result, tt.expected)
		}
	}
}

func TestSideBySide(t *testing.T) {
	result := SideBySide("AAA", "BBB", 80, 4)
	if strings.Contains(result, "\n\n") {
		t.Error("expected horizontal layout")
	}
	if !strings.Contains(result, "AAA    BBB") {
		t.Errorf("expected blocks separated by the gap, got %q", result)
	}

	result = SideBySide(strings.Repeat("A", 50), strings.Repeat("B", 50), 60, 4)
	if !strings.Contains(result, "\n\n") {
		t.Error("expected vertical layout when content doesn't fit")
	}
}

func TestMeter(t *testing.T) {
	theme := NewTheme(config.ColorSchemePlain)

	half := theme.Meter(1, 2, 12)
	if !strings.Contains(half, "█████░░░░░") {
		t.Errorf("expected a half-filled meter, got %q", half)
	}

	if strings.Contains(theme.Meter(0, 5, 12), "█") {
		t.Error("expected an empty meter with nothing at risk")
	}
	if strings.Contains(theme.Meter(0, 0, 12), "█") {
		t.Error("expected an empty meter with no batches")
	}
	if strings.Contains(theme.Meter(9, 3, 12), "░") {
		t.Error("expected the meter capped at full")
	}
}

func TestNewTheme(t *testing.T) {
	for _, scheme := range []config.ColorScheme{config.ColorSchemeHerb, config.ColorSchemeTomato, config.ColorSchemePlain, ""} {
		if NewTheme(scheme) == nil {
			t.Errorf("expected a theme for %q", scheme)
		}
	}
	if NewTheme(config.ColorSchemeTomato).PrimaryColor == NewTheme(config.ColorSchemeHerb).PrimaryColor {
		t.Error("expected tomato and herb palettes to differ")
	}
}
