package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmDialogIncludesTitleMessageAndHints(t *testing.T) {
	out := ConfirmDialog("Confirm", "Are you sure?")
	clean := SanitizeText(out)

	assert.Contains(t, clean, "Confirm")
	assert.Contains(t, clean, "Are you sure?")
	assert.Contains(t, clean, "y: confirm | n: cancel")
}

func TestInputDialogIncludesTitleInputAndHints(t *testing.T) {
	out := InputDialog("First name", "hello")
	clean := SanitizeText(out)

	assert.Contains(t, clean, "First name")
	assert.Contains(t, clean, "> hello")
	assert.Contains(t, clean, "enter: submit | esc: cancel")
}

func TestSecretInputDialogMasksValue(t *testing.T) {
	clean := SanitizeText(SecretInputDialog("Password", "hunter22", true))

	assert.NotContains(t, clean, "hunter22")
	assert.Contains(t, clean, "> ••••••••")
	assert.Contains(t, clean, "ctrl+v: show")
}

func TestMaskCountsRunes(t *testing.T) {
	assert.Equal(t, "•••", Mask("añb"))
	assert.Empty(t, Mask(""))
}
