package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyHintRendersKeyBeforeDesc(t *testing.T) {
	clean := SanitizeText(Hint("ctrl+s", "Begin Scan").String())
	assert.Less(t, strings.Index(clean, "ctrl+s"), strings.Index(clean, "Begin Scan"))
}

func TestStatusBarSingleRowWithoutWidth(t *testing.T) {
	out := StatusBar([]KeyHint{Hint("t", "Trigger"), Hint("s", "Snapshot"), Hint("enter", "Save Match")}, 0)
	assert.NotContains(t, out, "\n")
	clean := SanitizeText(out)
	assert.Contains(t, clean, "Trigger")
	assert.Contains(t, clean, "Save Match")
	assert.Equal(t, 2, strings.Count(clean, "·"))
}

func TestStatusBarWrapsAndCentersRows(t *testing.T) {
	hints := []KeyHint{
		Hint("↑/↓", "Select"),
		Hint("enter", "Expand"),
		Hint("←/→", "Monitor"),
		Hint("d", "Remove"),
		Hint("r", "Refresh"),
	}
	out := StatusBar(hints, 30)
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.Equal(t, 30, lipgloss.Width(line))
	}
	assert.Contains(t, SanitizeText(out), "Refresh")
}

func TestStatusBarEmpty(t *testing.T) {
	assert.Empty(t, StatusBar(nil, 80))
}
