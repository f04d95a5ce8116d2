package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestBoxWidthBounds(t *testing.T) {
	assert.Equal(t, 40, boxWidth(10))
	assert.Equal(t, 80, boxWidth(200))
	assert.Equal(t, 70, boxWidth(100))
}

func TestBoxNarrowTerminalClampsWidth(t *testing.T) {
	out := TitledBox("Presets", "line", 20)
	overflow := false
	for _, line := range strings.Split(out, "\n") {
		if lipgloss.Width(line) > 20 {
			overflow = true
			break
		}
	}
	assert.False(t, overflow)
}

func TestTitledBoxIncludesTitle(t *testing.T) {
	out := TitledBox("My Title", "Content", 80)
	assert.True(t, strings.Contains(out, "My Title"))
}

func TestTitledBoxEmptyTitleFallsBack(t *testing.T) {
	out := TitledBox("", "Content", 80)
	assert.True(t, strings.Contains(out, "Content"))
}

func TestErrorBoxIncludesMessage(t *testing.T) {
	out := ErrorBox("Error", "Something broke", 80)
	assert.True(t, strings.Contains(out, "Something broke"))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", truncateRunes("hello", 0))
	assert.Equal(t, "he", truncateRunes("hello", 2))
	assert.Equal(t, "你", truncateRunes("你好", 1))
}

// TestTableClampsLongValues ensures table rows stay within the box width.
func TestTableClampsLongValues(t *testing.T) {
	rows := []TableRow{
		{
			Label: strings.Repeat("Label", 8),
			Value: strings.Repeat("value", 40),
		},
	}
	out := Table("Table", rows, 60)
	maxWidth := lipgloss.Width(strings.Split(Box("x", 60), "\n")[0])
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), maxWidth)
	}
}

func TestInfoRowSanitizesLabelAndValue(t *testing.T) {
	out := InfoRow("na\u202Eme\x1b]0;evil\x07", "va\x1b[2Jlu\u202Ee")
	assert.NotContains(t, out, "\u202E")
	assert.NotContains(t, out, "\x1b]")
	assert.NotContains(t, out, "\x1b[2J")

	clean := SanitizeText(out)
	assert.Contains(t, clean, "name: value")
}

func TestIndentPreservesLineCountAndAddsPadding(t *testing.T) {
	src := "a\nb\nc"
	out := Indent(src, 2)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "  "))
	}
}

func TestTableRendersRowsWithValueColor(t *testing.T) {
	out := Table("Services", []TableRow{
		{Label: "Tags", Value: "ok", ValueColor: "#3f866b"},
		{Label: "Camera", Value: "unreachable"},
	}, 80)

	clean := SanitizeText(out)
	assert.Contains(t, clean, "Services")
	assert.Contains(t, clean, "Tags")
	assert.Contains(t, clean, "unreachable")
	assert.Empty(t, Table("Empty", nil, 80))
}

func TestActiveTitledBoxIncludesTitle(t *testing.T) {
	out := ActiveTitledBox("Presets", "forest", 60)
	assert.Contains(t, SanitizeText(out), "Presets")
}

func TestDotsMarksActiveIndex(t *testing.T) {
	clean := SanitizeText(Dots(1, 3))
	assert.Equal(t, "○ ● ○", clean)
	assert.Empty(t, Dots(0, 0))
}

func TestProgressBarClampsFraction(t *testing.T) {
	assert.Equal(t, 10, lipgloss.Width(ProgressBar(0.5, 10)))
	assert.Equal(t, strings.Repeat("█", 10), SanitizeText(ProgressBar(2, 10)))
	assert.Equal(t, strings.Repeat("░", 4), SanitizeText(ProgressBar(-1, 4)))
	assert.Empty(t, ProgressBar(0.5, 0))
}

func TestMaxIntReturnsLarger(t *testing.T) {
	assert.Equal(t, 2, maxInt(1, 2))
	assert.Equal(t, 2, maxInt(2, 1))
}
