package scan

import (
	"context"
	"errors"
)

// State is the dashboard screen state.
type State int

const (
	StateLoading State = iota
	StateReady
	StateSubmitting
	StateNavigated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateNavigated:
		return "navigated"
	}
	return "unknown"
}

// ErrClosed is returned for actions on a torn-down session.
var ErrClosed = errors.New("dashboard closed")

// Session owns one dashboard instance: its presets, selection, and a context
// that every pending fetch or submit for the instance runs under.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc

	state     State
	loading   bool
	presets   []string
	origin    PresetOrigin
	selection Selection
	lastErr   error
	submitted []string
	closed    bool
}

// NewSession mounts a dashboard instance bound to parent.
func NewSession(parent context.Context) *Session {
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		ctx:     ctx,
		cancel:  cancel,
		state:   StateLoading,
		loading: true,
	}
}

// Context is cancelled when the session closes.
func (s *Session) Context() context.Context { return s.ctx }

func (s *Session) State() State { return s.state }
func (s *Session) Loading() bool { return s.loading }
func (s *Session) Presets() []string { return s.presets }
func (s *Session) Origin() PresetOrigin { return s.origin }
func (s *Session) Selection() *Selection { return &s.selection }
func (s *Session) LastErr() error { return s.lastErr }
func (s *Session) Submitted() []string { return s.submitted }
func (s *Session) Closed() bool { return s.closed }
func (s *Session) Editable() bool { return !s.closed && (s.state == StateLoading || s.state == StateReady) }
func (s *Session) ClearError() { s.lastErr = nil }
func (s *Session) IsSelected(p string) bool { return s.selection.IsSelected(p) }

// BeginFetch marks a fetch cycle as in flight.
func (s *Session) BeginFetch() bool {
	if s.closed || s.state == StateNavigated {
		return false
	}
	s.loading = true
	return true
}

// ApplyFetch stores a cycle's outcome. The last cycle to resolve wins.
func (s *Session) ApplyFetch(res FetchResult, err error) {
	if s.closed || err != nil || len(res.Presets) == 0 {
		return
	}
	s.presets = res.Presets
	s.origin = res.Origin
	s.loading = false
	if s.state == StateLoading {
		s.state = StateReady
	}
}

// Toggle flips a preset unless the screen is busy submitting.
func (s *Session) Toggle(preset string) bool {
	if !s.Editable() {
		return false
	}
	s.selection.Toggle(preset)
	return true
}

// Type appends typed text to the free-text segment.
func (s *Session) Type(text string) bool {
	if !s.Editable() {
		return false
	}
	s.selection.AppendFreeText(text)
	return true
}

// Backspace deletes the last typed rune.
func (s *Session) Backspace() bool {
	if !s.Editable() {
		return false
	}
	s.selection.Backspace()
	return true
}

// BeginSubmit validates the selection and enters Submitting. It refuses a
// second submission while one is pending, and any submission before the
// first fetch has resolved.
func (s *Session) BeginSubmit() ([]string, error) {
	if s.closed {
		return nil, ErrClosed
	}
	switch s.state {
	case StateLoading:
		return nil, ErrLoading
	case StateSubmitting, StateNavigated:
		return nil, ErrSubmitting
	}
	payload := s.selection.Payload()
	if len(payload) == 0 {
		s.lastErr = ErrNoTags
		return nil, ErrNoTags
	}
	s.lastErr = nil
	s.state = StateSubmitting
	return payload, nil
}

// CompleteSubmit moves to Navigated on success, or back to Ready with the
// selection intact and the error kept for display.
func (s *Session) CompleteSubmit(res SubmitResult) {
	if s.closed || s.state != StateSubmitting {
		return
	}
	if res.OK() {
		s.submitted = res.Tags
		s.state = StateNavigated
		return
	}
	s.lastErr = res.Err
	s.state = StateReady
}

// Close tears the session down and cancels everything it started.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
}
