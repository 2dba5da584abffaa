package ui

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/combox/internal/config"
)

// Theme holds the styles used to render a form.
type Theme struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Input    lipgloss.Style
	Panel    lipgloss.Style
	Option   lipgloss.Style
	Selected lipgloss.Style
	Status   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Spinner  lipgloss.Style
}

// ThemeFromConfig builds the styles for one configured palette.
func ThemeFromConfig(tc config.ThemeConfig) Theme {
	accent := colorOr(tc.Accent, "81")
	text := colorOr(tc.Text, "252")
	muted := colorOr(tc.Muted, "244")
	border := colorOr(tc.Border, "238")
	return Theme{
		Title:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		Label:    lipgloss.NewStyle().Foreground(accent),
		Input:    lipgloss.NewStyle().Foreground(text),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border),
		Option:   lipgloss.NewStyle().Foreground(text),
		Selected: lipgloss.NewStyle().Foreground(colorOr(tc.SelectedFG, "250")).Background(colorOr(tc.SelectedBG, "24")).Bold(true),
		Status:   lipgloss.NewStyle().Foreground(colorOr(tc.Status, "114")),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(colorOr(tc.Error, "203")),
		Spinner:  lipgloss.NewStyle().Foreground(accent),
	}
}

// PlainTheme renders without colors. The selected option stays reversed so
// the active row remains visible.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Title:    plain.Bold(true),
		Label:    plain,
		Input:    plain,
		Panel:    plain.Border(lipgloss.RoundedBorder()),
		Option:   plain,
		Selected: plain.Reverse(true),
		Status:   plain,
		Muted:    plain,
		Error:    plain,
		Spinner:  plain,
	}
}

// SelectTheme picks the named theme from cfg, or the plain theme when
// noColor is set.
func SelectTheme(cfg config.UIConfig, name string, noColor bool) (Theme, error) {
	if noColor || cfg.NoColor {
		return PlainTheme(), nil
	}
	if name == "" {
		name = cfg.Theme
	}
	tc, ok := cfg.Themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
	return ThemeFromConfig(tc), nil
}

func colorOr(value, fallback string) color.Color {
	if value == "" {
		value = fallback
	}
	return lipgloss.Color(value)
}
