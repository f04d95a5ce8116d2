package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/scenetic/cli/internal/api"
	"github.com/scenetic/cli/internal/store"
	"github.com/scenetic/cli/internal/ui/components"
)

const (
	monitorCount      = 3
	defaultConfidence = 90
	confidenceStep    = 5
)

type sequenceStartedMsg struct {
	resp *api.SequenceResponse
	err  error
}

type snapshotLoadedMsg struct {
	snap *api.Snapshot
	at   time.Time
	err  error
}

type matchSavedMsg struct {
	match store.Match
	err   error
}

// ResultsModel is the live view shown after a scan is accepted.
type ResultsModel struct {
	deps Deps

	tags       []string
	triggering bool
	sequence   string
	loadingImg bool
	snapshot   *api.Snapshot
	snapshotAt time.Time
	monitor    int
	confidence int
	saving     bool
	saved      *store.Match
	errText    string

	width  int
	height int
}

func NewResultsModel(deps Deps) ResultsModel {
	return ResultsModel{deps: deps.withDefaults(), confidence: defaultConfidence}
}

// WithScan starts a fresh live view for the accepted tags.
func (m ResultsModel) WithScan(tags []string) ResultsModel {
	next := NewResultsModel(m.deps)
	next.tags = append([]string(nil), tags...)
	next.width, next.height = m.width, m.height
	return next
}

func (m ResultsModel) Init() tea.Cmd { return nil }

func (m ResultsModel) Update(msg tea.Msg) (ResultsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case sequenceStartedMsg:
		m.triggering = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		if msg.resp.Error != "" {
			m.errText = msg.resp.Error
			return m, nil
		}
		m.errText = ""
		m.sequence = msg.resp.Message
		return m, nil

	case snapshotLoadedMsg:
		m.loadingImg = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.snapshot = msg.snap
		m.snapshotAt = msg.at
		m.saved = nil
		return m, nil

	case matchSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		saved := msg.match
		m.saved = &saved
		return m, func() tea.Msg { return toastMsg{level: "success", text: "Match saved to logs."} }

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m ResultsModel) handleKeys(msg tea.KeyMsg) (ResultsModel, tea.Cmd) {
	switch {
	case isLeft(msg):
		m.monitor = (m.monitor + monitorCount - 1) % monitorCount
	case isRight(msg):
		m.monitor = (m.monitor + 1) % monitorCount
	case isKey(msg, "+", "="):
		m.confidence = min(100, m.confidence+confidenceStep)
	case isKey(msg, "-"):
		m.confidence = max(0, m.confidence-confidenceStep)
	case isKey(msg, "t"):
		return m.trigger()
	case isKey(msg, "s"):
		return m.fetchSnapshot()
	case isEnter(msg):
		return m.save()
	}
	return m, nil
}

func (m ResultsModel) trigger() (ResultsModel, tea.Cmd) {
	if m.triggering || m.deps.Client == nil {
		return m, nil
	}
	m.triggering = true
	m.errText = ""
	client, ctx := m.deps.Client, m.deps.Context
	return m, func() tea.Msg {
		resp, err := client.StartSequence(ctx)
		return sequenceStartedMsg{resp: resp, err: err}
	}
}

func (m ResultsModel) fetchSnapshot() (ResultsModel, tea.Cmd) {
	if m.loadingImg || m.deps.Client == nil {
		return m, nil
	}
	m.loadingImg = true
	m.errText = ""
	client, ctx := m.deps.Client, m.deps.Context
	return m, func() tea.Msg {
		snap, err := client.LatestSnapshot(ctx)
		return snapshotLoadedMsg{snap: snap, at: time.Now(), err: err}
	}
}

func (m ResultsModel) save() (ResultsModel, tea.Cmd) {
	switch {
	case m.saving, m.saved != nil:
		return m, nil
	case m.snapshot == nil:
		m.errText = "Fetch a snapshot (s) before saving the match."
		return m, nil
	case m.deps.Docs == nil || m.deps.Objects == nil:
		m.errText = "Match storage is not configured."
		return m, nil
	}
	m.saving = true
	m.errText = ""

	match := store.Match{
		ItemName:   m.itemName(),
		Monitor:    m.monitor + 1,
		Confidence: m.confidence,
		UserTags:   append([]string(nil), m.tags...),
		CreatedAt:  m.snapshotAt,
	}
	ctx, docs, objects, logger := m.deps.Context, m.deps.Docs, m.deps.Objects, m.deps.Logger
	image := m.snapshot.Data
	return m, func() tea.Msg {
		saved, err := store.UploadSnapshot(ctx, docs, objects, image, match)
		if err != nil {
			logger.Error("save match failed", zap.Error(err))
		}
		return matchSavedMsg{match: saved, err: err}
	}
}

func (m ResultsModel) itemName() string {
	if len(m.tags) == 0 {
		return "scene"
	}
	name := strings.Join(m.tags, " ")
	if r := []rune(name); len(r) > 40 {
		name = string(r[:40])
	}
	return name
}

// progress reflects how far the current scan has come.
func (m ResultsModel) progress() float64 {
	switch {
	case m.saved != nil:
		return 1
	case m.snapshot != nil:
		return 0.75
	case m.sequence != "":
		return 0.5
	case m.triggering:
		return 0.25
	}
	return 0
}

func (m ResultsModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Live View"))
	if m.deps.Client != nil {
		b.WriteString("  " + LiveStyle.Render("● LIVE"))
	}
	b.WriteString("\n\n")

	if len(m.tags) == 0 {
		b.WriteString(MutedStyle.Render("No scan yet. Describe a scene on the Dashboard (1)."))
		return b.String()
	}

	if m.deps.Client != nil {
		b.WriteString(components.InfoRow("Feed", m.deps.Client.VideoFeedURL()))
		b.WriteString("\n\n")
	}

	b.WriteString(MutedStyle.Render("Scanning..."))
	b.WriteString("\n")
	b.WriteString(components.ProgressBar(m.progress(), 30))
	b.WriteString("\n\n")

	chips := make([]string, len(m.tags))
	for i, tag := range m.tags {
		chips[i] = "[" + components.SanitizeOneLine(tag) + "]"
	}
	snapshot := "none"
	if m.snapshot != nil {
		snapshot = fmt.Sprintf("%d bytes, %s", len(m.snapshot.Data), m.snapshot.ContentType)
	}
	rows := []components.TableRow{
		{Label: "Monitor", Value: fmt.Sprintf("%d  %s", m.monitor+1, components.Dots(m.monitor, monitorCount)), ValueColor: string(ColorPrimary)},
		{Label: "Confidence", Value: fmt.Sprintf("%d%%", m.confidence), ValueColor: string(ColorPrimary)},
		{Label: "Tags", Value: strings.Join(chips, " ")},
		{Label: "Snapshot", Value: snapshot},
	}
	if m.sequence != "" {
		rows = append(rows, components.TableRow{Label: "Sequence", Value: components.SanitizeOneLine(m.sequence)})
	}
	b.WriteString(components.Table("Best Match", rows, m.width))
	b.WriteString("\n")
	b.WriteString(NormalStyle.Render(fmt.Sprintf("You should shoot your scene on monitor %d!", m.monitor+1)))
	b.WriteString("\n\n")

	b.WriteString(m.renderButtons())

	if m.saved != nil {
		b.WriteString("\n\n")
		b.WriteString(SuccessStyle.Render("Saved: " + components.SanitizeOneLine(m.saved.ImageURL)))
	}
	if m.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(components.ErrorBox("Error", m.errText, m.width))
	}
	return b.String()
}

func (m ResultsModel) renderButtons() string {
	button := func(label, busy string, disabled bool) string {
		if disabled {
			return ButtonDisabledStyle.Render(busy)
		}
		return ButtonStyle.Render(label)
	}
	saveBusy := "Saving..."
	if m.saved != nil {
		saveBusy = "Saved"
	}
	return strings.Join([]string{
		button("Trigger Sequence", "Triggering...", m.triggering),
		button("Snapshot", "Loading...", m.loadingImg),
		button("Save Match", saveBusy, m.saving || m.saved != nil),
	}, " ")
}

func (m ResultsModel) hints() []components.KeyHint {
	return []components.KeyHint{
		components.Hint("t", "Trigger"),
		components.Hint("s", "Snapshot"),
		components.Hint("←/→", "Monitor"),
		components.Hint("+/-", "Confidence"),
		components.Hint("enter", "Save Match"),
	}
}
