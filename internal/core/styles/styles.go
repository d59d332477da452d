// Package styles holds the lipgloss palette and the styles shared by the
// reader and the CLI.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color

	// Derived colors, blended from the palette.
	ColorHighlight color.Color
	ColorSelection color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style
	MutedStyle         lipgloss.Style

	// Reader chrome.
	HeaderStyle        lipgloss.Style
	HeaderTitleStyle   lipgloss.Style
	ProgressFullStyle  lipgloss.Style
	ProgressEmptyStyle lipgloss.Style
	FooterStyle        lipgloss.Style
	FooterModeStyle    lipgloss.Style
	StatusStyle        lipgloss.Style
	StatusErrorStyle   lipgloss.Style

	// Reader text.
	TextStyle       lipgloss.Style
	CursorStyle     lipgloss.Style
	AnchorStyle     lipgloss.Style
	SelectionStyle  lipgloss.Style
	HighlightStyle  lipgloss.Style
	AnnotationStyle lipgloss.Style
	MatchStyle      lipgloss.Style
	ToolbarStyle    lipgloss.Style

	// Overlays.
	ModalStyle        lipgloss.Style
	ModalTitleStyle   lipgloss.Style
	ModalHelpStyle    lipgloss.Style
	ListSelectedStyle lipgloss.Style
	ListNormalStyle   lipgloss.Style
)

// Blend mixes a toward b in Lab space; t=0 returns a, t=1 returns b.
// Colors that cannot be converted fall back to a.
func Blend(a, b color.Color, t float64) color.Color {
	ca, ok := colorful.MakeColor(a)
	if !ok {
		return a
	}
	cb, ok := colorful.MakeColor(b)
	if !ok {
		return a
	}
	return lipgloss.Color(ca.BlendLab(cb, t).Clamped().Hex())
}

// Hex returns the #rrggbb form of c, or "" when it cannot be converted.
func Hex(c color.Color) string {
	if c == nil {
		return ""
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return ""
	}
	return cc.Hex()
}

// SetTheme applies a palette to every exported color and style.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	ColorHighlight = Blend(p.Background, p.Warning, 0.45)
	ColorSelection = Blend(p.Surface, p.Primary, 0.35)

	CommandHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	MutedStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(ColorSurface)
	HeaderTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Background(ColorSurface)
	ProgressFullStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Background(ColorSurface)
	ProgressEmptyStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Background(ColorSurface)
	FooterStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	FooterModeStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary)
	StatusStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)

	TextStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	CursorStyle = lipgloss.NewStyle().
		Reverse(true)
	AnchorStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorSecondary)
	SelectionStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(ColorSelection)
	HighlightStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground).
		Background(ColorHighlight)
	AnnotationStyle = lipgloss.NewStyle().
		Underline(true).
		Foreground(ColorSecondary)
	MatchStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorWarning)
	ToolbarStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(ColorSurface).
		Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ListSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	ListNormalStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
