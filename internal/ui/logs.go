package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/scenetic/cli/internal/store"
	"github.com/scenetic/cli/internal/ui/components"
)

// --- Messages ---

type matchesLoadedMsg struct {
	items []store.Match
	err   error
}

type matchRemovedMsg struct {
	id  string
	err error
}

const logsPageSize = 200

// daySection is one calendar day of saved matches.
type daySection struct {
	day     time.Time
	matches []store.Match
}

// --- Logs Model ---

// LogsModel lists saved matches grouped by day.
type LogsModel struct {
	ctx    context.Context
	docs   store.DocumentStore
	logger *zap.Logger

	sections []daySection
	list     *components.List
	expanded map[string]bool
	monitors map[string]int
	confirm  *store.Match
	removing bool
	loading  bool
	errText  string
	location *time.Location

	width  int
	height int
}

// NewLogsModel builds the logs UI model.
func NewLogsModel(deps Deps) LogsModel {
	deps = deps.withDefaults()
	return LogsModel{
		ctx:      deps.Context,
		docs:     deps.Docs,
		logger:   deps.Logger.Named("logs"),
		list:     components.NewList(),
		expanded: map[string]bool{},
		monitors: map[string]int{},
		location: time.Local,
	}
}

func (m LogsModel) Init() tea.Cmd {
	return m.loadMatches()
}

func (m LogsModel) loadMatches() tea.Cmd {
	if m.docs == nil {
		return func() tea.Msg {
			return matchesLoadedMsg{err: errors.New("match storage is not configured")}
		}
	}
	ctx, docs := m.ctx, m.docs
	return func() tea.Msg {
		items, err := docs.ListMatches(ctx, logsPageSize)
		return matchesLoadedMsg{items: items, err: err}
	}
}

func (m LogsModel) Update(msg tea.Msg) (LogsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case matchesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.sections = groupByDay(msg.items, m.location)
		m.list.ReplaceItems(m.cardIDs())
		return m, nil

	case matchRemovedMsg:
		m.removing = false
		if msg.err != nil && !errors.Is(msg.err, store.ErrNotFound) {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.removeLocal(msg.id)
		return m, nil

	case tea.KeyMsg:
		if m.confirm != nil {
			return m.handleConfirmKeys(msg)
		}
		return m.handleListKeys(msg)
	}
	return m, nil
}

func (m LogsModel) handleListKeys(msg tea.KeyMsg) (LogsModel, tea.Cmd) {
	switch {
	case isDown(msg):
		m.list.Down()
	case isUp(msg):
		m.list.Up()
	case isEnter(msg), isSpace(msg):
		if id, ok := m.selectedID(); ok {
			m.expanded[id] = !m.expanded[id]
		}
	case isLeft(msg):
		if id, ok := m.selectedID(); ok && m.expanded[id] {
			m.monitors[id] = (m.monitors[id] + 2) % monitorCount
		}
	case isRight(msg):
		if id, ok := m.selectedID(); ok && m.expanded[id] {
			m.monitors[id] = (m.monitors[id] + 1) % monitorCount
		}
	case isKey(msg, "d", "x"):
		if match, ok := m.selectedMatch(); ok && !m.removing {
			m.confirm = &match
		}
	case isKey(msg, "r"):
		m.loading = true
		return m, m.loadMatches()
	}
	return m, nil
}

func (m LogsModel) handleConfirmKeys(msg tea.KeyMsg) (LogsModel, tea.Cmd) {
	switch {
	case isKey(msg, "y"):
		target := *m.confirm
		m.confirm = nil
		m.removing = true
		ctx, docs, logger := m.ctx, m.docs, m.logger
		return m, func() tea.Msg {
			err := docs.DeleteMatch(ctx, target.ID)
			if err != nil {
				logger.Warn("remove match failed", zap.String("id", target.ID), zap.Error(err))
			}
			return matchRemovedMsg{id: target.ID, err: err}
		}
	case isKey(msg, "n"), isBack(msg):
		m.confirm = nil
	}
	return m, nil
}

// removeLocal drops a card; a day left with no cards disappears.
func (m *LogsModel) removeLocal(id string) {
	kept := m.sections[:0]
	for _, section := range m.sections {
		section.matches = slices.DeleteFunc(section.matches, func(match store.Match) bool {
			return match.ID == id
		})
		if len(section.matches) > 0 {
			kept = append(kept, section)
		}
	}
	m.sections = kept
	delete(m.expanded, id)
	delete(m.monitors, id)
	m.list.ReplaceItems(m.cardIDs())
}

func (m LogsModel) cardIDs() []string {
	var ids []string
	for _, section := range m.sections {
		for _, match := range section.matches {
			ids = append(ids, match.ID)
		}
	}
	return ids
}

func (m LogsModel) selectedID() (string, bool) {
	return m.list.Current()
}

func (m LogsModel) selectedMatch() (store.Match, bool) {
	id, ok := m.selectedID()
	if !ok {
		return store.Match{}, false
	}
	for _, section := range m.sections {
		for _, match := range section.matches {
			if match.ID == id {
				return match, true
			}
		}
	}
	return store.Match{}, false
}

// groupByDay buckets matches by local calendar day, newest day and newest
// match first.
func groupByDay(items []store.Match, loc *time.Location) []daySection {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b store.Match) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	var sections []daySection
	for _, match := range sorted {
		t := match.CreatedAt.In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if n := len(sections); n > 0 && sections[n-1].day.Equal(day) {
			sections[n-1].matches = append(sections[n-1].matches, match)
			continue
		}
		sections = append(sections, daySection{day: day, matches: []store.Match{match}})
	}
	return sections
}

// --- Rendering ---

func (m LogsModel) View() string {
	if m.confirm != nil {
		body := fmt.Sprintf("Remove %q from your logs?", components.SanitizeOneLine(m.confirm.ItemName))
		return components.Indent(components.ConfirmDialog("Remove Match", body), 1)
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Logs"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(MutedStyle.Render("Loading matches..."))
	case len(m.sections) == 0:
		b.WriteString(components.Box(MutedStyle.Render("No matches saved yet."), m.width))
	default:
		b.WriteString(m.renderSections())
	}

	if m.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(components.ErrorBox("Error", m.errText, m.width))
	}
	return components.Indent(b.String(), 1)
}

func (m LogsModel) renderSections() string {
	tableWidth := components.BoxContentWidth(m.width)
	if tableWidth <= 0 {
		tableWidth = 60
	}
	selected, _ := m.selectedID()
	var blocks []string
	for _, section := range m.sections {
		rows := make([]components.MatchRow, 0, len(section.matches))
		active := -1
		var detail string
		for i, match := range section.matches {
			rows = append(rows, components.MatchRow{
				Time:       match.CreatedAt.In(m.location).Format("15:04"),
				Item:       match.ItemName,
				Monitor:    match.Monitor,
				Confidence: match.Confidence,
			})
			if match.ID == selected {
				active = i
				if m.expanded[match.ID] {
					detail = m.renderCard(match)
				}
			}
		}
		block := AccentStyle.Render(section.day.Format("Monday, Jan 2 2006")) + "\n" +
			components.MatchTable(rows, tableWidth, active)
		if detail != "" {
			block += "\n" + detail
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

// renderCard is the expanded view of one match with its monitor carousel.
func (m LogsModel) renderCard(match store.Match) string {
	current := m.monitors[match.ID]
	monitorLine := fmt.Sprintf("Monitor %d  %s", current+1, components.Dots(current, monitorCount))
	if current+1 == match.Monitor {
		monitorLine += "  " + SuccessStyle.Render("best match")
	}

	tags := "none"
	if len(match.UserTags) > 0 {
		tags = strings.Join(match.UserTags, ", ")
	}
	rows := []components.TableRow{
		{Label: "Viewing", Value: monitorLine},
		{Label: "Matched", Value: fmt.Sprintf("Monitor %d", match.Monitor), ValueColor: string(ColorPrimary)},
		{Label: "Confidence", Value: fmt.Sprintf("%d%%", match.Confidence)},
		{Label: "Tags", Value: tags},
		{Label: "Image", Value: match.ImageURL},
	}
	return components.Table(match.ItemName, rows, m.width)
}

func (m LogsModel) hints() []components.KeyHint {
	if m.confirm != nil {
		return []components.KeyHint{
			components.Hint("y", "Remove"),
			components.Hint("n", "Cancel"),
		}
	}
	return []components.KeyHint{
		components.Hint("↑/↓", "Select"),
		components.Hint("enter", "Expand"),
		components.Hint("←/→", "Monitor"),
		components.Hint("d", "Remove"),
		components.Hint("r", "Refresh"),
	}
}
