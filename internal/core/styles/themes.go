package styles

import (
	"image/color"
	"maps"
	"slices"

	lipgloss "charm.land/lipgloss/v2"
)

// Palette is the set of semantic colors a theme provides. Highlight and
// selection colors are blended from it in SetTheme.
type Palette struct {
	Primary    color.Color
	Secondary  color.Color
	Foreground color.Color
	Muted      color.Color
	Background color.Color
	Surface    color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// hexPalette builds a Palette from hex strings in field order: primary,
// secondary, foreground, muted, background, surface, success, warning, error.
func hexPalette(hex ...string) Palette {
	c := make([]color.Color, len(hex))
	for i, h := range hex {
		c[i] = lipgloss.Color(h)
	}
	return Palette{
		Primary: c[0], Secondary: c[1],
		Foreground: c[2], Muted: c[3],
		Background: c[4], Surface: c[5],
		Success: c[6], Warning: c[7], Error: c[8],
	}
}

var themes = map[string]Palette{
	// Dark themes.
	"tokyo-night": hexPalette("#7aa2f7", "#7dcfff", "#c0caf5", "#565f89", "#1a1b26", "#3b4261", "#9ece6a", "#e0af68", "#f7768e"),
	"gruvbox":     hexPalette("#83a598", "#8ec07c", "#ebdbb2", "#665c54", "#282828", "#3c3836", "#b8bb26", "#fabd2f", "#fb4934"),
	"catppuccin":  hexPalette("#89b4fa", "#94e2d5", "#cdd6f4", "#6c7086", "#1e1e2e", "#313244", "#a6e3a1", "#f9e2af", "#f38ba8"),
	"kanagawa":    hexPalette("#7e9cd8", "#7fb4ca", "#dcd7ba", "#727169", "#1f1f28", "#2a2a37", "#76946a", "#dca561", "#c34043"),
	"nord":        hexPalette("#88c0d0", "#8fbcbb", "#e5e9f0", "#616e88", "#2e3440", "#3b4252", "#a3be8c", "#ebcb8b", "#bf616a"),

	// Light themes for long reading sessions.
	"paper":           hexPalette("#3b6ea5", "#2f8f83", "#2e2a24", "#8a8171", "#f6f1e7", "#e6dcc8", "#5b8a3a", "#b7791f", "#b0413e"),
	"sepia":           hexPalette("#8b5e34", "#6b7f3a", "#433422", "#9c8a6e", "#f4ecd8", "#e4d6b5", "#5f7a32", "#b5651d", "#a23b2a"),
	"solarized-light": hexPalette("#268bd2", "#2aa198", "#586e75", "#93a1a1", "#fdf6e3", "#eee8d5", "#859900", "#b58900", "#dc322f"),
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	return slices.Sorted(maps.Keys(themes))
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}
