package ui

import (
	"image/color"
	"os"
	"sync"

	"charm.land/lipgloss/v2"
	"golang.org/x/term"
)

var (
	darkOnce sync.Once
	isDarkBg = true

	themeMu      sync.Mutex
	currentTheme *Theme
)

// IsDarkBackground reports whether the terminal has a dark background. The
// terminal is only queried when both stdin and stdout are attached to it;
// piped input would otherwise swallow the reply. Defaults to dark.
func IsDarkBackground() bool {
	darkOnce.Do(func() {
		if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
			isDarkBg = lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
		}
	})
	return isDarkBg
}

// AdaptiveColor picks between a light-mode and dark-mode hex color.
func AdaptiveColor(light, dark string) color.Color {
	if IsDarkBackground() {
		return lipgloss.Color(dark)
	}
	return lipgloss.Color(light)
}

// Theme is the small palette dillma uses for its stderr chrome. Response text
// itself is never colored.
type Theme struct {
	Primary color.Color
	Success color.Color
	Warning color.Color
	Error   color.Color
	Text    color.Color
	Muted   color.Color
}

// DefaultTheme is based on the Catppuccin Latte (light) and Mocha (dark) palettes.
func DefaultTheme() Theme {
	return Theme{
		Primary: AdaptiveColor("#8839ef", "#cba6f7"), // Mauve
		Success: AdaptiveColor("#40a02b", "#a6e3a1"), // Green
		Warning: AdaptiveColor("#df8e1d", "#f9e2af"), // Yellow
		Error:   AdaptiveColor("#d20f39", "#f38ba8"), // Red
		Text:    AdaptiveColor("#4c4f69", "#cdd6f4"), // Text
		Muted:   AdaptiveColor("#6c6f85", "#a6adc8"), // Subtext 0
	}
}

// GetTheme returns the active theme, building the default on first use.
func GetTheme() Theme {
	themeMu.Lock()
	defer themeMu.Unlock()
	if currentTheme == nil {
		t := DefaultTheme()
		currentTheme = &t
	}
	return *currentTheme
}

func StyleError(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true)
}

func StyleWarning(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Warning).
		Bold(true)
}

func StyleSuccess(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Success).
		Bold(true)
}

// StyleMuted is used for secondary information such as the key source in
// `dillma auth status`.
func StyleMuted(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Muted).
		Italic(true)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of f, or fallback when it is not a terminal.
func TerminalWidth(f *os.File, fallback int) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
