package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/scenetic/cli/internal/scan"
	"github.com/scenetic/cli/internal/ui/components"
)

type dashFocus int

const (
	dashFocusText dashFocus = iota
	dashFocusGrid
)

const presetColumns = 4

type presetsFetchedMsg struct {
	session *scan.Session
	res     scan.FetchResult
	err     error
}

type scanSubmittedMsg struct {
	session *scan.Session
	res     scan.SubmitResult
}

// DashboardModel is the scene description screen. Each mount owns a fresh
// scan.Session; replies addressed to an older session are dropped.
type DashboardModel struct {
	session   *scan.Session
	fetcher   *scan.Fetcher
	submitter *scan.Submitter
	logger    *zap.Logger

	focus  dashFocus
	cursor int

	width  int
	height int
}

func NewDashboardModel(deps Deps) DashboardModel {
	deps = deps.withDefaults()
	m := DashboardModel{
		session: scan.NewSession(deps.Context),
		logger:  deps.Logger.Named("dashboard"),
	}
	if deps.Client != nil {
		opts := append([]scan.FetcherOption{scan.WithLogger(m.logger)}, deps.FetchOptions...)
		m.fetcher = scan.NewFetcher(deps.Client, opts...)
		m.submitter = scan.NewSubmitter(deps.Client, m.logger)
	}
	return m
}

func (m DashboardModel) Init() tea.Cmd {
	return m.fetchCmd()
}

// Close cancels everything the current mount started.
func (m DashboardModel) Close() {
	if m.session != nil {
		m.session.Close()
	}
}

func (m DashboardModel) fetchCmd() tea.Cmd {
	if m.session == nil || m.fetcher == nil || !m.session.BeginFetch() {
		return nil
	}
	session, fetcher := m.session, m.fetcher
	return func() tea.Msg {
		res, err := fetcher.Fetch(session.Context())
		return presetsFetchedMsg{session: session, res: res, err: err}
	}
}

func (m DashboardModel) submitCmd() tea.Cmd {
	if m.session == nil {
		return nil
	}
	tags, err := m.session.BeginSubmit()
	if err != nil {
		// ErrNoTags is kept on the session and rendered as a prompt. ErrLoading
		// leaves the screen untouched until the presets arrive.
		return nil
	}
	if m.submitter == nil {
		m.session.CompleteSubmit(scan.SubmitResult{Tags: tags, Err: errors.New("tag service not configured")})
		return nil
	}
	session, submitter := m.session, m.submitter
	return func() tea.Msg {
		return scanSubmittedMsg{session: session, res: submitter.Submit(session.Context(), tags)}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case presetsFetchedMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.session.ApplyFetch(msg.res, msg.err)
		if msg.err == nil && msg.res.Origin == scan.OriginFallback {
			m.logger.Warn("showing fallback presets", zap.Int("attempts", msg.res.Attempts))
		}
		m.clampCursor()
		return m, nil

	case scanSubmittedMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.session.CompleteSubmit(msg.res)
		if m.session.State() == scan.StateNavigated {
			tags := m.session.Submitted()
			return m, func() tea.Msg { return navigateMsg{to: routeResults, tags: tags} }
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m DashboardModel) handleKeys(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	if isSubmit(msg) {
		return m, m.submitCmd()
	}
	if isKey(msg, "tab", "shift+tab") {
		if m.focus == dashFocusText {
			m.focus = dashFocusGrid
		} else {
			m.focus = dashFocusText
		}
		return m, nil
	}

	if m.focus == dashFocusText {
		switch {
		case isBack(msg), isDown(msg):
			m.focus = dashFocusGrid
		case isEnter(msg):
			return m, m.submitCmd()
		case isBackspace(msg):
			m.session.Backspace()
			m.clearPrompt()
		default:
			if text := typedText(msg); text != "" && m.session.Type(text) {
				m.clearPrompt()
			}
		}
		return m, nil
	}

	presets := m.session.Presets()
	switch {
	case isLeft(msg):
		if m.cursor > 0 {
			m.cursor--
		}
	case isRight(msg):
		if m.cursor < len(presets)-1 {
			m.cursor++
		}
	case isUp(msg):
		if m.cursor >= presetColumns {
			m.cursor -= presetColumns
		} else {
			m.focus = dashFocusText
		}
	case isDown(msg):
		if m.cursor+presetColumns < len(presets) {
			m.cursor += presetColumns
		}
	case isSpace(msg), isEnter(msg):
		if m.cursor < len(presets) && m.session.Toggle(presets[m.cursor]) {
			m.clearPrompt()
		}
	case isKey(msg, "r"):
		return m, m.fetchCmd()
	}
	return m, nil
}

func (m *DashboardModel) clearPrompt() {
	if errors.Is(m.session.LastErr(), scan.ErrNoTags) {
		m.session.ClearError()
	}
}

func (m *DashboardModel) clampCursor() {
	n := len(m.session.Presets())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m DashboardModel) View() string {
	if m.session == nil {
		return ""
	}
	sel := m.session.Selection()

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Describe your scene"))
	b.WriteString("\n\n")

	field := components.SanitizeOneLine(sel.FreeText())
	if m.focus == dashFocusText {
		b.WriteString(components.ActiveTitledBox("Scene", field+"█", m.width))
	} else {
		if field == "" {
			field = MutedStyle.Render("e.g. misty ruins at dawn")
		}
		b.WriteString(components.TitledBox("Scene", field, m.width))
	}
	if desc := sel.Description(); desc != "" {
		b.WriteString("\n")
		b.WriteString(MutedStyle.Render(components.ClampTextWidth(desc, components.BoxContentWidth(m.width))))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderPresets())
	b.WriteString("\n\n")

	if tags := sel.Payload(); len(tags) > 0 {
		b.WriteString(MutedStyle.Render("Tags: "))
		b.WriteString(NormalStyle.Render(components.SanitizeOneLine(strings.Join(tags, ", "))))
		b.WriteString("\n\n")
	}

	switch m.session.State() {
	case scan.StateSubmitting:
		b.WriteString(ButtonDisabledStyle.Render("Scanning..."))
	case scan.StateLoading:
		b.WriteString(ButtonDisabledStyle.Render("Begin Scan"))
	default:
		b.WriteString(ButtonStyle.Render("Begin Scan"))
	}

	if err := m.session.LastErr(); err != nil {
		b.WriteString("\n\n")
		if errors.Is(err, scan.ErrNoTags) {
			b.WriteString(ErrorStyle.Render("Pick a preset or describe the scene first."))
		} else {
			b.WriteString(components.ErrorBox("Scan failed", err.Error()+"\nctrl+s to retry", m.width))
		}
	}
	return b.String()
}

func (m DashboardModel) renderPresets() string {
	title := "Presets"
	if m.session.Origin() == scan.OriginFallback {
		title += MutedStyle.Render("  (offline defaults)")
	}
	if m.session.Loading() {
		return MutedStyle.Render(title) + "\n\n" + AccentStyle.Render("◌ Loading presets...")
	}

	presets := m.session.Presets()
	rows := make([]string, 0, len(presets)/presetColumns+1)
	for start := 0; start < len(presets); start += presetColumns {
		end := start + presetColumns
		if end > len(presets) {
			end = len(presets)
		}
		chips := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			chips = append(chips, m.renderChip(i, presets[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, chips...))
	}
	return MutedStyle.Render(title) + "\n\n" + strings.Join(rows, "\n")
}

// renderChip styles a preset from the live selection on every render.
func (m DashboardModel) renderChip(i int, preset string) string {
	label := components.SanitizeOneLine(preset)
	switch {
	case m.focus == dashFocusGrid && i == m.cursor:
		if m.session.IsSelected(preset) {
			label = "✓ " + label
		}
		return ChipCursorStyle.Render(label)
	case m.session.IsSelected(preset):
		return ChipSelectedStyle.Render("✓ " + label)
	}
	return ChipStyle.Render(label)
}

func (m DashboardModel) hints() []components.KeyHint {
	if m.focus == dashFocusText {
		return []components.KeyHint{
			components.Hint("type", "Describe"),
			components.Hint("tab", "Presets"),
			components.Hint("enter", "Begin Scan"),
			components.Hint("esc", "Leave Field"),
		}
	}
	return []components.KeyHint{
		components.Hint("arrows", "Move"),
		components.Hint("space", "Toggle"),
		components.Hint("r", "View More"),
		components.Hint("tab", "Describe"),
		components.Hint("ctrl+s", "Begin Scan"),
	}
}
