package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leonardomso/autolink/internal/linker"
)

// Color palette.
var (
	PrimaryColor   = lipgloss.Color("205") // Pink
	SecondaryColor = lipgloss.Color("241") // Gray
	URLColor       = lipgloss.Color("82")  // Green
	EmailColor     = lipgloss.Color("39")  // Blue
	ErrorColor     = lipgloss.Color("196") // Red
	MutedColor     = lipgloss.Color("245") // Dimmed text
)

// Text styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	URLStyle = lipgloss.NewStyle().
			Foreground(URLColor)

	EmailStyle = lipgloss.NewStyle().
			Foreground(EmailColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			MarginTop(1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	DetailLabelStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	DetailNoteStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)
)

// SpinnerStyle returns the style for the spinner.
func SpinnerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(PrimaryColor)
}

// Badge styles for match kinds.
var (
	BadgeURL = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(URLColor).
			Padding(0, 1)

	BadgeEmail = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(EmailColor).
			Padding(0, 1)

	BadgeIgnored = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(SecondaryColor).
			Padding(0, 1)
)

// KindBadge returns a styled badge for a match.
func KindBadge(kind linker.Kind, ignored bool) string {
	switch {
	case ignored:
		return BadgeIgnored.Render("IGNORED")
	case kind == linker.KindEmail:
		return BadgeEmail.Render("EMAIL")
	default:
		return BadgeURL.Render("URL")
	}
}
