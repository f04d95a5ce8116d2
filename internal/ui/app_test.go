package ui

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenetic/cli/internal/auth"
	"github.com/scenetic/cli/internal/config"
	"github.com/scenetic/cli/internal/scan"
)

func signedInSession() *auth.Session {
	return &auth.Session{UID: "uid-1", Email: "dir@example.com", IDToken: "tok", EmailVerified: true}
}

func testApp(t *testing.T, session *auth.Session) (App, *fakeProvider) {
	t.Helper()
	client, _ := presetServer(t, []string{"Dawn", "Fog"}, http.StatusOK)
	p := newFakeProvider(session)
	app := NewApp(Deps{
		Client:            client,
		Auth:              p,
		Docs:              newMemDocs(),
		Objects:           &memObjects{},
		FetchOptions:      fastFetch(),
		SkipStartupChecks: true,
	})
	t.Cleanup(app.Close)
	return app, p
}

func update(app App, msg tea.Msg) (App, tea.Cmd) {
	model, cmd := app.Update(msg)
	return model.(App), cmd
}

func TestAppStartsOnHome(t *testing.T) {
	app, _ := testApp(t, nil)
	assert.Equal(t, routeHome, app.route)
	assert.Contains(t, app.View(), "press enter to get started")
	assert.NotContains(t, app.View(), "Live View")
}

func TestHomeEnterRoutesToLoginWhenSignedOut(t *testing.T) {
	app, _ := testApp(t, nil)
	app, cmd := update(app, keyMsg(tea.KeyEnter))
	require.NotNil(t, cmd)
	app, _ = update(app, cmd())
	assert.Equal(t, routeLogin, app.route)
}

func TestHomeEnterRoutesToDashboardWithRestoredSession(t *testing.T) {
	app, _ := testApp(t, signedInSession())
	app, cmd := update(app, keyMsg(tea.KeyEnter))
	app, fetch := update(app, cmd())

	assert.Equal(t, routeDashboard, app.route)
	require.NotNil(t, fetch)
	app, _ = update(app, fetch())
	assert.Equal(t, []string{"Dawn", "Fog"}, app.dashboard.session.Presets())
	assert.Contains(t, app.View(), "1 Dashboard")
}

func TestPostAuthRoutesRequireSession(t *testing.T) {
	app, _ := testApp(t, nil)
	app, _ = update(app, navigateMsg{to: routeLogs})
	assert.Equal(t, routeLogin, app.route)
}

func TestNavKeysSwitchScreens(t *testing.T) {
	app, _ := testApp(t, signedInSession())
	app, _ = update(app, navigateMsg{to: routeDashboard})
	app, _ = update(app, keyMsg(tea.KeyEsc)) // leave the text field

	app, _ = update(app, runes("3"))
	assert.Equal(t, routeLogs, app.route)
	app, _ = update(app, runes("4"))
	assert.Equal(t, routeProfile, app.route)
	app, _ = update(app, runes("2"))
	assert.Equal(t, routeResults, app.route)
	assert.Contains(t, app.View(), "No scan yet")
}

func TestNavKeysTypedIntoDashboardField(t *testing.T) {
	app, _ := testApp(t, signedInSession())
	app, _ = update(app, navigateMsg{to: routeDashboard})

	app, _ = update(app, runes("3"))
	assert.Equal(t, routeDashboard, app.route)
	assert.Equal(t, "3", app.dashboard.session.Selection().FreeText())

	app, _ = update(app, runes("q"))
	assert.Equal(t, "3q", app.dashboard.session.Selection().FreeText())
}

func TestNavKeysIgnoredBeforeLogin(t *testing.T) {
	app, _ := testApp(t, nil)
	app, _ = update(app, runes("3"))
	assert.Equal(t, routeHome, app.route)
}

func TestLeavingDashboardClosesSession(t *testing.T) {
	app, _ := testApp(t, signedInSession())
	app, _ = update(app, navigateMsg{to: routeDashboard})
	first := app.dashboard.session
	app, _ = update(app, keyMsg(tea.KeyEsc))

	app, _ = update(app, runes("3"))
	assert.True(t, first.Closed())
	assert.ErrorIs(t, first.Context().Err(), context.Canceled)

	app, _ = update(app, runes("1"))
	require.Equal(t, routeDashboard, app.route)
	assert.NotSame(t, first, app.dashboard.session)
	assert.True(t, app.dashboard.session.Selection().Empty())

	// A late reply for the old mount does not touch the new one.
	app, _ = update(app, presetsFetchedMsg{session: first, res: scan.FetchResult{Presets: []string{"Stale"}}})
	assert.Empty(t, app.dashboard.session.Presets())
}

func TestSubmitNavigatesToLiveView(t *testing.T) {
	app, _ := testApp(t, signedInSession())
	app, fetch := update(app, navigateMsg{to: routeDashboard})
	app, _ = update(app, fetch())

	for _, r := range "misty" {
		app, _ = update(app, runes(string(r)))
	}
	app, submit := update(app, keyMsg(tea.KeyCtrlS))
	require.NotNil(t, submit)
	app, nav := update(app, submit())
	require.NotNil(t, nav)
	app, _ = update(app, nav())

	assert.Equal(t, routeResults, app.route)
	assert.Equal(t, []string{"misty"}, app.results.tags)
	assert.Contains(t, app.View(), "[misty]")
}

func TestAuthBridgeRoutesOnSignInAndSignOut(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	app, p := testApp(t, nil)
	app.deps.Config = &config.Config{}
	app, _ = update(app, navigateMsg{to: routeLogin})

	// The subscription delivers the initial state first.
	first := waitForAuth(app.authCh)().(authChangedMsg)
	assert.Nil(t, first.session)

	_, err := p.SignIn(app.deps.Context, "dir@example.com", "pw")
	require.NoError(t, err)
	msg := waitForAuth(app.authCh)()
	app, _ = update(app, msg)
	assert.Equal(t, routeDashboard, app.route)
	require.NotNil(t, app.deps.Config.Session)
	assert.Equal(t, "dir@example.com", app.deps.Config.Session.Email)

	loaded, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded.Session)
	assert.Equal(t, "uid-1", loaded.Session.UID)

	require.NoError(t, p.SignOut(app.deps.Context))
	app, _ = update(app, waitForAuth(app.authCh)())
	assert.Equal(t, routeHome, app.route)
	assert.Nil(t, app.deps.Config.Session)
	require.NotNil(t, app.toast)
	assert.Equal(t, "Logged out.", app.toast.text)
}

func TestCloseUnsubscribes(t *testing.T) {
	p := newFakeProvider(nil)
	app := NewApp(Deps{Auth: p, SkipStartupChecks: true})
	assert.Equal(t, 1, p.subscribers())
	app.Close()
	assert.Equal(t, 0, p.subscribers())
}

func TestQuitConfirmWithUnsavedDescription(t *testing.T) {
	app, _ := testApp(t, signedInSession())
	app, _ = update(app, navigateMsg{to: routeDashboard})
	app, _ = update(app, runes("x"))
	app, _ = update(app, keyMsg(tea.KeyEsc))

	app, cmd := update(app, runes("q"))
	assert.Nil(t, cmd)
	assert.True(t, app.quitConfirm)
	assert.Contains(t, app.View(), "Quit anyway?")

	app, _ = update(app, runes("n"))
	assert.False(t, app.quitConfirm)

	_, cmd = update(app, keyMsg(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestErrMsgRendersAndClearsOnKey(t *testing.T) {
	app, _ := testApp(t, nil)
	app, _ = update(app, errMsg{errors.New("boom")})
	assert.Contains(t, app.View(), "boom")

	app, _ = update(app, runes("?"))
	assert.Empty(t, app.err)
	assert.True(t, app.helpOpen)
	app, _ = update(app, keyMsg(tea.KeyEsc))
	assert.False(t, app.helpOpen)
}

func TestToastSanitizesTextAndRendersBranches(t *testing.T) {
	app, _ := testApp(t, nil)
	app.width = 80

	_ = app.setToast("success", "\x1b[2Jok")
	require.NotNil(t, app.toast)
	assert.False(t, strings.Contains(app.toast.text, "\x1b"))
	assert.NotEmpty(t, app.renderToast())

	for _, level := range []string{"warning", "error", "info"} {
		_ = app.setToast(level, level)
		assert.NotEmpty(t, app.renderToast())
	}

	app, _ = update(app, clearToastMsg{})
	assert.Nil(t, app.toast)
}

func TestStartupChecksCoverBothServices(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/generate-tags" {
			writeJSON(w, map[string]any{"tags": []string{"Dawn"}})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	app := NewApp(Deps{Client: client})
	require.True(t, app.startupChecking)

	msg, ok := app.runStartupCheckCmd()().(startupCheckedMsg)
	require.True(t, ok)
	assert.Empty(t, msg.tagErr)
	assert.Empty(t, msg.hardwareErr)

	app, _ = update(app, msg)
	assert.False(t, app.startupChecking)
	assert.Equal(t, "ok", app.startup.Tags)
	assert.Equal(t, "ok", app.startup.Hardware)
	assert.Equal(t, "signed out", app.startup.Auth)
	require.NotNil(t, app.toast)
	assert.Equal(t, "success", app.toast.level)
	assert.Contains(t, app.View(), "Startup Checks")
}

func TestStartupChecksReportUnreachableTagService(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	app := NewApp(Deps{Client: client})
	app, _ = update(app, app.runStartupCheckCmd()())

	assert.Equal(t, "unreachable", app.startup.Tags)
	assert.Equal(t, "ok", app.startup.Hardware)
	assert.Equal(t, "warning", app.toast.level)
	assert.Contains(t, app.toast.text, "fall back")
}

func TestClassifyStartupHelpers(t *testing.T) {
	assert.Equal(t, "ok", classifyStartupCheck(""))
	assert.Equal(t, "timeout", classifyStartupCheck("context deadline exceeded"))
	assert.Equal(t, "unreachable", classifyStartupCheck("connection refused"))

	now := time.Now()
	assert.Equal(t, "signed out", classifyStartupAuth(nil, now))
	assert.Equal(t, "expired", classifyStartupAuth(&auth.Session{ExpiresAt: now.Add(-time.Minute)}, now))
	assert.Equal(t, "signed in", classifyStartupAuth(&auth.Session{}, now))
}
