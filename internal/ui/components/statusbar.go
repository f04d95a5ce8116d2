package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	hintKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBorder).
			Bold(true).
			Padding(0, 1)
	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
	hintSepStyle = lipgloss.NewStyle().
			Foreground(colorBorder)
)

const hintSep = "  ·  "

// KeyHint pairs a key with what it does on the current screen.
type KeyHint struct {
	Key  string
	Desc string
}

// Hint builds a KeyHint.
func Hint(key, desc string) KeyHint {
	return KeyHint{Key: key, Desc: desc}
}

// String renders the key cap followed by its description.
func (h KeyHint) String() string {
	return hintKeyStyle.Render(h.Key) + " " + hintDescStyle.Render(h.Desc)
}

// StatusBar lays the hints out in rows no wider than width, each row centered.
// A width <= 0 keeps every hint on one row.
func StatusBar(hints []KeyHint, width int) string {
	if len(hints) == 0 {
		return ""
	}
	rows := hintRows(hints, width)
	if width <= 0 {
		return rows[0]
	}
	for i, row := range rows {
		rows[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, row)
	}
	return strings.Join(rows, "\n")
}

// hintRows packs hints greedily. A hint wider than width gets a row to itself.
func hintRows(hints []KeyHint, width int) []string {
	sep := hintSepStyle.Render(hintSep)
	sepWidth := lipgloss.Width(sep)

	var (
		rows    []string
		row     strings.Builder
		rowSize int
	)
	for _, h := range hints {
		cell := h.String()
		cellWidth := lipgloss.Width(cell)
		if rowSize > 0 && width > 0 && rowSize+sepWidth+cellWidth > width {
			rows = append(rows, row.String())
			row.Reset()
			rowSize = 0
		}
		if rowSize > 0 {
			row.WriteString(sep)
			rowSize += sepWidth
		}
		row.WriteString(cell)
		rowSize += cellWidth
	}
	return append(rows, row.String())
}
