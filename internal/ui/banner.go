package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerLeft = `
███████  ██████ ███████ ███    ██ 
██      ██      ██      ████   ██ 
███████ ██      █████   ██ ██  ██ 
     ██ ██      ██      ██  ██ ██ 
███████  ██████ ███████ ██   ████ `

const bannerRight = `
███████ ████████ ██  ██████    
██         ██    ██ ██         
█████      ██    ██ ██         
██         ██    ██ ██         
███████    ██    ██  ██████ ██ `

const bannerSubtitle = "Describe the scene. Find the set."

// RenderBanner returns the two-tone logo with its subtitle.
func RenderBanner() string {
	left := LogoWhiteStyle.Render(strings.Join(splitLines(bannerLeft), "\n"))
	right := LogoAccentStyle.Render(strings.Join(splitLines(bannerRight), "\n"))
	logo := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	blockWidth := lipgloss.Width(logo)
	subtitleWidth := lipgloss.Width(bannerSubtitle)
	if blockWidth < subtitleWidth {
		blockWidth = subtitleWidth
	}

	subtitle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(bannerSubtitle)

	underline := lipgloss.NewStyle().
		Foreground(ColorBorder).
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(strings.Repeat("─", subtitleWidth))

	return "\n" + logo + "\n\n" + subtitle + "\n" + underline + "\n"
}

// RenderLogo is the one-line wordmark used above post-login screens.
func RenderLogo() string {
	return LogoWhiteStyle.Render("SCEN") + LogoAccentStyle.Render("ETIC.")
}

// splitLines splits s on newlines, dropping empty lines.
func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
