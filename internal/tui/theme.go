package tui

import "github.com/charmbracelet/lipgloss"

type theme struct {
	title     lipgloss.Style
	statusOK  lipgloss.Style
	statusErr lipgloss.Style
	pending   lipgloss.Style
	enabled   lipgloss.Style
	disabled  lipgloss.Style
	focused   lipgloss.Style
	box       lipgloss.Style
	boxFocus  lipgloss.Style
	tab       lipgloss.Style
	tabActive lipgloss.Style
	selected  lipgloss.Style
	cursor    lipgloss.Style
	muted     lipgloss.Style
}

func newTheme() theme {
	accent := lipgloss.Color("#7D56F4")
	return theme{
		title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		statusOK:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2ecc71")),
		statusErr: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e74c3c")),
		pending:   lipgloss.NewStyle().Foreground(lipgloss.Color("#f1c40f")),
		enabled:   lipgloss.NewStyle().Padding(0, 1).Background(accent).Foreground(lipgloss.Color("#ffffff")),
		disabled:  lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#555555")),
		focused:   lipgloss.NewStyle().Foreground(accent),
		box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1),
		boxFocus:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#888888")),
		tabActive: lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(accent),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2ecc71")),
		cursor:    lipgloss.NewStyle().Foreground(accent),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("#777777")),
	}
}
