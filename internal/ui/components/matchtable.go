package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MatchRow is one saved match as a day table shows it.
type MatchRow struct {
	Time       string
	Item       string
	Monitor    int
	Confidence int
}

// Fixed columns; the item column takes the rest of the width.
const (
	matchTimeWidth    = 5
	matchMonitorWidth = 7
	matchConfWidth    = 4
	matchTableIndent  = 2
	matchColumns      = 4
)

var matchAlign = [matchColumns]lipgloss.Position{lipgloss.Left, lipgloss.Left, lipgloss.Center, lipgloss.Right}

var (
	colorRowActive = lipgloss.Color("#2a2a2a")

	matchRuleStyle      = lipgloss.NewStyle().Foreground(colorBorder)
	matchActiveSepStyle = matchRuleStyle.Background(colorRowActive)
	matchActiveRowStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Background(colorRowActive).
				Bold(true)
)

// MatchTable renders a day of matches as Time, Item, Monitor, Conf columns
// with the row at active highlighted (-1 for none). Lines are width wide
// unless width is too small to hold the fixed columns.
func MatchTable(rows []MatchRow, width, active int) string {
	if width <= 0 {
		return ""
	}
	border := lipgloss.RoundedBorder()
	widths := matchWidths(width)

	lines := make([]string, 0, len(rows)+2)
	header := [matchColumns]string{"Time", "Item", "Monitor", "Conf"}
	lines = append(lines, matchLine(header, widths, width, boxLabelStyle, matchRuleStyle, border.Left))

	rule := make([]string, matchColumns)
	for i, w := range widths {
		rule[i] = strings.Repeat(border.Top, w)
	}
	ruleLine := strings.Repeat(" ", matchTableIndent) + strings.Join(rule, border.Middle)
	lines = append(lines, matchRuleStyle.Render(padRight(ruleLine, width)))

	for i, r := range rows {
		cells := [matchColumns]string{r.Time, r.Item, strconv.Itoa(r.Monitor), strconv.Itoa(r.Confidence) + "%"}
		cellStyle, sepStyle := lipgloss.NewStyle(), matchRuleStyle
		if i == active {
			cellStyle, sepStyle = matchActiveRowStyle, matchActiveSepStyle
		}
		lines = append(lines, matchLine(cells, widths, width, cellStyle, sepStyle, border.Left))
	}
	return strings.Join(lines, "\n")
}

func matchWidths(width int) [matchColumns]int {
	fixed := matchTableIndent + matchTimeWidth + matchMonitorWidth + matchConfWidth + matchColumns - 1
	item := width - fixed
	if item < 1 {
		item = 1
	}
	return [matchColumns]int{matchTimeWidth, item, matchMonitorWidth, matchConfWidth}
}

func matchLine(cells [matchColumns]string, widths [matchColumns]int, width int, cellStyle, sepStyle lipgloss.Style, sep string) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", matchTableIndent))
	for i, text := range cells {
		if i > 0 {
			b.WriteString(sepStyle.Render(sep))
		}
		b.WriteString(cellStyle.Inline(true).Render(alignCell(text, widths[i], matchAlign[i])))
	}
	return padRight(b.String(), width)
}

// alignCell clamps text to width and pads it to exactly width columns.
func alignCell(text string, width int, align lipgloss.Position) string {
	text = ClampTextWidth(text, width)
	pad := width - lipgloss.Width(text)
	if pad <= 0 {
		return text
	}
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + text
	case lipgloss.Center:
		left := pad / 2
		return strings.Repeat(" ", left) + text + strings.Repeat(" ", pad-left)
	}
	return text + strings.Repeat(" ", pad)
}
