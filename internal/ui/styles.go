package ui

import "github.com/charmbracelet/lipgloss"

// --- Theme Colors ---

var (
	ColorPrimary    = lipgloss.Color("#F28322") // orange
	ColorSecondary  = lipgloss.Color("#D5894B") // amber
	ColorBackground = lipgloss.Color("#121212") // dark
	ColorSurface    = lipgloss.Color("#2a2a2a")
	ColorText       = lipgloss.Color("#E5E5E5")
	ColorMuted      = lipgloss.Color("#999999")
	ColorSuccess    = lipgloss.Color("#3f866b")
	ColorError      = lipgloss.Color("#e06c75")
	ColorLive       = lipgloss.Color("#ff3b30")
	ColorBorder     = lipgloss.Color("#333333")
)

// --- Reusable Styles ---

var (
	LogoWhiteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true)

	LogoAccentStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorBackground).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	LiveStyle = lipgloss.NewStyle().
			Foreground(ColorLive).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	// Preset chips: the selected/unselected look is chosen per render.
	ChipStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ChipSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorBackground).
				Background(ColorPrimary).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Bold(true).
				Padding(0, 1)

	ChipCursorStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(ColorBackground).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 3)

	ButtonDisabledStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Background(ColorSurface).
				Padding(0, 3)
)
