package ui

import (
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hardwareServer(t *testing.T) (*resultsCalls, Deps) {
	t.Helper()
	calls := &resultsCalls{}
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/start-sequence":
			calls.sequence++
			writeJSON(w, map[string]any{"message": "Sequence started"})
		case "/latest-snapshot.jpg":
			calls.snapshot++
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("jpeg-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	return calls, Deps{Client: client, Docs: newMemDocs(), Objects: &memObjects{}}
}

type resultsCalls struct {
	sequence int
	snapshot int
}

func TestResultsWithoutScanPromptsForDashboard(t *testing.T) {
	m := NewResultsModel(Deps{})
	view := m.View()
	assert.Contains(t, view, "Live View")
	assert.Contains(t, view, "No scan yet")
}

func TestResultsTriggerDisabledWhilePending(t *testing.T) {
	calls, deps := hardwareServer(t)
	m := NewResultsModel(deps).WithScan([]string{"forest", "fog"})

	m, cmd := m.Update(runes("t"))
	require.NotNil(t, cmd)
	assert.True(t, m.triggering)
	assert.Contains(t, m.View(), "Triggering...")

	_, again := m.Update(runes("t"))
	assert.Nil(t, again)

	m, _ = m.Update(cmd())
	assert.False(t, m.triggering)
	assert.Equal(t, "Sequence started", m.sequence)
	assert.Equal(t, 1, calls.sequence)
	assert.Contains(t, m.View(), "Sequence started")
}

func TestResultsSequenceErrorBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"error": "serial port busy"})
	})
	m := NewResultsModel(Deps{Client: client}).WithScan([]string{"forest"})

	m, cmd := m.Update(runes("t"))
	m, _ = m.Update(cmd())
	assert.Equal(t, "serial port busy", m.errText)
	assert.Contains(t, m.View(), "serial port busy")
}

func TestResultsMonitorCarouselWraps(t *testing.T) {
	m := NewResultsModel(Deps{}).WithScan([]string{"forest"})
	assert.Equal(t, 0, m.monitor)

	m, _ = m.Update(keyMsg(tea.KeyLeft))
	assert.Equal(t, 2, m.monitor)
	m, _ = m.Update(keyMsg(tea.KeyRight))
	m, _ = m.Update(keyMsg(tea.KeyRight))
	assert.Equal(t, 1, m.monitor)
	assert.Contains(t, m.View(), "monitor 2!")
}

func TestResultsConfidenceClamps(t *testing.T) {
	m := NewResultsModel(Deps{}).WithScan([]string{"forest"})
	for range 5 {
		m, _ = m.Update(runes("+"))
	}
	assert.Equal(t, 100, m.confidence)
	for range 30 {
		m, _ = m.Update(runes("-"))
	}
	assert.Equal(t, 0, m.confidence)
}

func TestResultsSaveRequiresSnapshot(t *testing.T) {
	_, deps := hardwareServer(t)
	m := NewResultsModel(deps).WithScan([]string{"forest"})

	m, cmd := m.Update(keyMsg(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Contains(t, m.errText, "Fetch a snapshot")
}

func TestResultsSnapshotThenSaveRecordsMatch(t *testing.T) {
	calls, deps := hardwareServer(t)
	docs := deps.Docs.(*memDocs)
	objects := deps.Objects.(*memObjects)
	m := NewResultsModel(deps).WithScan([]string{"misty", "ruins"})

	m, cmd := m.Update(runes("s"))
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	require.NotNil(t, m.snapshot)
	assert.Equal(t, 1, calls.snapshot)
	assert.Contains(t, m.View(), "10 bytes, image/jpeg")
	m.snapshotAt = time.UnixMilli(1714237680000)

	m, _ = m.Update(keyMsg(tea.KeyRight))
	m, cmd = m.Update(keyMsg(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, m.saving)
	assert.Contains(t, m.View(), "Saving...")

	m, toast := m.Update(cmd())
	require.NotNil(t, toast)
	assert.Equal(t, toastMsg{level: "success", text: "Match saved to logs."}, toast())
	require.NotNil(t, m.saved)
	assert.InDelta(t, 1.0, m.progress(), 0.001)

	require.Len(t, docs.matches, 1)
	saved := docs.matches[0]
	assert.Equal(t, "misty ruins", saved.ItemName)
	assert.Equal(t, 2, saved.Monitor)
	assert.Equal(t, defaultConfidence, saved.Confidence)
	assert.Equal(t, []string{"misty", "ruins"}, saved.UserTags)
	assert.Equal(t, "mem://matches/1714237680000_misty_ruins.jpg", saved.ImageURL)
	assert.Equal(t, []byte("jpeg-bytes"), objects.puts["matches/1714237680000_misty_ruins.jpg"])
}

func TestResultsSaveOncePerSnapshot(t *testing.T) {
	_, deps := hardwareServer(t)
	docs := deps.Docs.(*memDocs)
	m := NewResultsModel(deps).WithScan([]string{"forest"})

	m, cmd := m.Update(runes("s"))
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	m, cmd = m.Update(keyMsg(tea.KeyEnter))
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	require.NotNil(t, m.saved)

	m, again := m.Update(keyMsg(tea.KeyEnter))
	assert.Nil(t, again)
	assert.False(t, m.saving)
	assert.Len(t, docs.matches, 1)
	assert.Contains(t, m.View(), "Saved")

	// A fresh snapshot allows another save.
	m, cmd = m.Update(runes("s"))
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.Nil(t, m.saved)
	m, cmd = m.Update(keyMsg(tea.KeyEnter))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Len(t, docs.matches, 2)
}

func TestResultsWithScanResetsState(t *testing.T) {
	m := NewResultsModel(Deps{}).WithScan([]string{"a"})
	m.monitor = 2
	m.sequence = "done"
	m.errText = "boom"

	m = m.WithScan([]string{"b"})
	assert.Equal(t, []string{"b"}, m.tags)
	assert.Zero(t, m.monitor)
	assert.Empty(t, m.sequence)
	assert.Empty(t, m.errText)
	assert.Equal(t, defaultConfidence, m.confidence)
}
