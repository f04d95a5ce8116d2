package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			Width(44)

	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	dialogBodyStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	dialogFieldStyle = lipgloss.NewStyle().
				Foreground(colorLabel)
)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	header := dialogTitleStyle.Render(title)
	body := dialogBodyStyle.Render(message)
	hint := dialogBodyStyle.Render("\ny: confirm | n: cancel")
	return dialogStyle.Render(header + "\n\n" + body + hint)
}

// InputDialog renders a text input prompt.
func InputDialog(title, input string) string {
	return SecretInputDialog(title, input, false)
}

// SecretInputDialog renders a text input prompt, masking the value when
// masked is true.
func SecretInputDialog(title, input string, masked bool) string {
	header := dialogTitleStyle.Render(title)
	shown := input
	if masked {
		shown = Mask(input)
	}
	field := dialogFieldStyle.Render("> " + shown + "█")
	hint := "\nenter: submit | esc: cancel"
	if masked {
		hint = "\nenter: submit | ctrl+v: show | esc: cancel"
	}
	return dialogStyle.Render(header + "\n\n" + field + dialogBodyStyle.Render(hint))
}

// Mask replaces every rune of s with a bullet.
func Mask(s string) string {
	return strings.Repeat("•", len([]rune(s)))
}
