package scan

import "strings"

// FallbackPresets is the vocabulary shown when the preset source stays empty
// or unreachable after every retry.
var FallbackPresets = []string{
	"Forest",
	"Rain",
	"Castle",
	"Sunset",
	"Beach",
	"Mountain",
	"City",
	"Desert",
}

// Normalize builds the submission payload: lower-cased presets first, then the
// lower-cased words of the description, deduplicated in first-seen order.
func Normalize(selectedPresets []string, sceneDescription string) []string {
	seen := make(map[string]struct{}, len(selectedPresets))
	out := make([]string, 0, len(selectedPresets))
	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	for _, preset := range selectedPresets {
		add(preset)
	}
	for _, word := range strings.Fields(sceneDescription) {
		add(word)
	}
	return out
}

// CleanPresets keeps the string elements of a raw tag list, trimmed, with
// empty strings dropped. Anything that is not a string is skipped.
func CleanPresets(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
