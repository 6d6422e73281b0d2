package model

import "slices"

const (
	DefaultAppearanceMode = "dark"
	DefaultColorTheme     = "blue"
)

// AppearanceModes lists the accepted appearance modes.
var AppearanceModes = []string{"dark", "light", "system"}

// ColorThemes lists the built-in accent color themes.
var ColorThemes = []string{"blue", "green", "dark-blue"}

// Settings holds the display preferences.
type Settings struct {
	AppearanceMode string `json:"appearance_mode"`
	ColorTheme     string `json:"color_theme"`
}

// DefaultSettings returns the hard-coded defaults.
func DefaultSettings() Settings {
	return Settings{
		AppearanceMode: DefaultAppearanceMode,
		ColorTheme:     DefaultColorTheme,
	}
}

// Normalize resets any value outside its allow-list to the default.
// Returns true if something was changed and should be persisted.
func (s *Settings) Normalize() bool {
	changed := false
	if !IsAppearanceMode(s.AppearanceMode) {
		s.AppearanceMode = DefaultAppearanceMode
		changed = true
	}
	if !IsColorTheme(s.ColorTheme) {
		s.ColorTheme = DefaultColorTheme
		changed = true
	}
	return changed
}

func IsAppearanceMode(mode string) bool {
	return slices.Contains(AppearanceModes, mode)
}

func IsColorTheme(theme string) bool {
	return slices.Contains(ColorThemes, theme)
}
