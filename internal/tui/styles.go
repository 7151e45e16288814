package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitsnap/internal/constants"
)

type palette struct {
	accent, tabBg, muted, danger, warn, bannerFg lipgloss.Color
}

var palettes = map[string]palette{
	constants.ThemeDark: {
		accent: "205", tabBg: "236", muted: "245", danger: "196", warn: "214", bannerFg: "0",
	},
	constants.ThemeLight: {
		accent: "125", tabBg: "254", muted: "241", danger: "160", warn: "130", bannerFg: "231",
	},
}

type styles struct {
	activeTab   lipgloss.Style
	inactiveTab lipgloss.Style
	progress    lipgloss.Style
	danger      lipgloss.Style
	warning     lipgloss.Style
	banner      lipgloss.Style
	status      lipgloss.Style
	doc         lipgloss.Style
}

// newStyles builds the styles for the theme setting; unknown themes get dark.
func newStyles(theme string) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[constants.ThemeDark]
	}
	return styles{
		activeTab:   lipgloss.NewStyle().Foreground(p.accent).Background(p.tabBg).Padding(0, 1).Bold(true),
		inactiveTab: lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1),
		progress:    lipgloss.NewStyle().Foreground(p.muted).PaddingLeft(2),
		danger:      lipgloss.NewStyle().Foreground(p.danger).Bold(true),
		warning:     lipgloss.NewStyle().Foreground(p.warn).Italic(true),
		banner:      lipgloss.NewStyle().Foreground(p.bannerFg).Background(p.warn).Bold(true).Padding(0, 1),
		status:      lipgloss.NewStyle().Foreground(p.muted).Padding(0, 2),
		doc:         lipgloss.NewStyle().Padding(1, 2),
	}
}
