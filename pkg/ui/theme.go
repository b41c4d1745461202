package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals use the
// terminal's own background instead of a down-converted approximation
// that may clash with palettes like Solarized.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed styles, created once at startup instead of per-frame
	SectionTitle  lipgloss.Style // Accordion section headers
	SectionOpen   lipgloss.Style // Expanded section headers
	SubItemText   lipgloss.Style // Sub-item rows inside a section
	SummaryText   lipgloss.Style // Section summary lines
	MutedText     lipgloss.Style // Hints, counts
	SecondaryText lipgloss.Style // Status line
	InfoText      lipgloss.Style // Transient status messages
	DangerText    lipgloss.Style // Reload failures
	Toast         lipgloss.Style // Transient copy confirmation
	Banner        lipgloss.Style // No-results banner
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   ColorPrimary,
		Secondary: ColorMuted,
		Subtext:   ColorSubtext,

		Border:    ColorBgHighlight,
		Highlight: ColorBgSubtle,
		Muted:     ColorMuted,
		Success:   ColorSuccess,
		Warning:   ColorWarning,
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(ColorBg).
		Bold(true).
		Padding(0, 1)

	t.SectionTitle = r.NewStyle().Bold(true)
	t.SectionOpen = r.NewStyle().Bold(true).Foreground(t.Primary)
	t.SubItemText = r.NewStyle().Foreground(ColorText)
	t.SummaryText = r.NewStyle().Foreground(t.Subtext)
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.InfoText = r.NewStyle().Foreground(ColorInfo)
	t.DangerText = r.NewStyle().Foreground(ColorDanger)
	t.Toast = r.NewStyle().Foreground(t.Success).Bold(true)
	t.Banner = r.NewStyle().Foreground(t.Warning).Bold(true)

	return t
}

// TestTheme returns a theme suitable for use in tests (uses a stdout renderer).
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
