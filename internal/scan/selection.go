package scan

import (
	"slices"
	"strings"
)

// Selection keeps the user's typed text and toggled presets as two separate
// segments. The displayed scene description is the free text followed by the
// selected presets, so toggling never rewrites what the user typed.
type Selection struct {
	freeText string
	presets  []string
}

// Toggle flips a preset. Turning it on appends one occurrence to the
// description; turning it off removes that occurrence.
func (s *Selection) Toggle(preset string) {
	if preset == "" {
		return
	}
	if idx := slices.Index(s.presets, preset); idx >= 0 {
		s.presets = slices.Delete(s.presets, idx, idx+1)
		return
	}
	s.presets = append(s.presets, preset)
}

// IsSelected reports whether the preset is currently toggled on.
func (s *Selection) IsSelected(preset string) bool {
	return slices.Contains(s.presets, preset)
}

// Presets returns the selected presets in selection order.
func (s *Selection) Presets() []string {
	return slices.Clone(s.presets)
}

// FreeText returns the typed segment.
func (s *Selection) FreeText() string {
	return s.freeText
}

// SetFreeText replaces the typed segment.
func (s *Selection) SetFreeText(text string) {
	s.freeText = text
}

// AppendFreeText adds typed runes to the end of the typed segment.
func (s *Selection) AppendFreeText(text string) {
	s.freeText += text
}

// Backspace removes the last rune of the typed segment.
func (s *Selection) Backspace() {
	if s.freeText == "" {
		return
	}
	r := []rune(s.freeText)
	s.freeText = string(r[:len(r)-1])
}

// Description renders the scene description shown to the user.
func (s *Selection) Description() string {
	parts := make([]string, 0, len(s.presets)+1)
	if text := strings.TrimSpace(s.freeText); text != "" {
		parts = append(parts, text)
	}
	parts = append(parts, s.presets...)
	return strings.Join(parts, " ")
}

// Payload returns the normalized submission tags.
func (s *Selection) Payload() []string {
	return Normalize(s.presets, s.Description())
}

// Empty reports whether nothing would be submitted.
func (s *Selection) Empty() bool {
	return len(s.Payload()) == 0
}

// Reset clears both segments.
func (s *Selection) Reset() {
	s.freeText = ""
	s.presets = nil
}
