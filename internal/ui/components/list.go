package components

import "slices"

// List is a cursor over a column of keyed rows, such as match cards or menu
// actions. The cursor follows its row when rows around it disappear.
type List struct {
	Items  []string
	cursor int
}

// NewList returns an empty list.
func NewList() *List {
	return &List{}
}

// SetItems replaces the rows and puts the cursor back on the first one.
func (l *List) SetItems(items []string) {
	l.Items = items
	l.cursor = 0
}

// ReplaceItems swaps the rows but keeps the cursor on the same key when it
// survives. Otherwise the cursor stays at its position, clamped to the new
// length.
func (l *List) ReplaceItems(items []string) {
	current, ok := l.Current()
	l.Items = items
	if ok {
		if idx := slices.Index(items, current); idx >= 0 {
			l.cursor = idx
			return
		}
	}
	l.cursor = min(l.cursor, len(items)-1)
	l.cursor = max(l.cursor, 0)
}

func (l *List) Down() {
	if l.cursor < len(l.Items)-1 {
		l.cursor++
	}
}

func (l *List) Up() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// Selected returns the cursor index.
func (l *List) Selected() int {
	return l.cursor
}

// IsSelected reports whether idx is under the cursor.
func (l *List) IsSelected(idx int) bool {
	return idx == l.cursor
}

// Current returns the key under the cursor.
func (l *List) Current() (string, bool) {
	if len(l.Items) == 0 {
		return "", false
	}
	return l.Items[l.cursor], true
}
