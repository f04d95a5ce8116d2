package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scenetic/cli/internal/api"
	"github.com/scenetic/cli/internal/auth"
	"github.com/scenetic/cli/internal/config"
	"github.com/scenetic/cli/internal/scan"
	"github.com/scenetic/cli/internal/store"
	"github.com/scenetic/cli/internal/ui/components"
)

// --- Routes ---

type route int

const (
	routeHome route = iota
	routeLogin
	routeDashboard
	routeResults
	routeLogs
	routeProfile
)

// postAuth routes need a session and show the nav bar.
func (r route) postAuth() bool { return r >= routeDashboard }

var navRoutes = []route{routeDashboard, routeResults, routeLogs, routeProfile}

var navNames = []string{"Dashboard", "Live View", "Logs", "Profile"}

// --- Messages ---

type errMsg struct{ err error }
type clearToastMsg struct{}
type authChangedMsg struct{ session *auth.Session }
type navigateMsg struct {
	to   route
	tags []string
}
type toastMsg struct {
	level string
	text  string
}
type startupCheckedMsg struct {
	tagErr      string
	hardwareErr string
}

type startupSummary struct {
	Tags     string
	Hardware string
	Auth     string
	Done     bool
}

type appToast struct {
	level string
	text  string
}

// Deps are the collaborators the screens run against.
type Deps struct {
	Context context.Context
	Client  *api.Client
	Auth    auth.Provider
	Docs    store.DocumentStore
	Objects store.ObjectStore
	Config  *config.Config
	Logger  *zap.Logger
	// FetchOptions tune the preset retry loop.
	FetchOptions []scan.FetcherOption
	// SkipStartupChecks disables the service health checks on launch.
	SkipStartupChecks bool
}

func (d Deps) withDefaults() Deps {
	if d.Context == nil {
		d.Context = context.Background()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return d
}

// --- App Model ---

// App is the root TUI model that routes between screens.
type App struct {
	deps        Deps
	route       route
	session     *auth.Session
	width       int
	height      int
	err         string
	helpOpen    bool
	quitConfirm bool

	startupChecking bool
	startup         startupSummary
	toast           *appToast

	authCh      chan *auth.Session
	unsubscribe func()

	home      HomeModel
	login     LoginModel
	dashboard DashboardModel
	results   ResultsModel
	logs      LogsModel
	profile   ProfileModel
}

// NewApp creates the root application model and subscribes to auth changes.
func NewApp(deps Deps) App {
	deps = deps.withDefaults()
	a := App{
		deps:            deps,
		route:           routeHome,
		startupChecking: !deps.SkipStartupChecks && deps.Client != nil,
		startup: startupSummary{
			Tags:     "checking",
			Hardware: "checking",
			Auth:     "signed out",
		},
		home:    NewHomeModel(),
		login:   NewLoginModel(deps.Context, deps.Auth),
		results: NewResultsModel(deps),
		logs:    NewLogsModel(deps),
	}
	if deps.Auth != nil {
		a.session = deps.Auth.Current()
		ch := make(chan *auth.Session, 8)
		a.authCh = ch
		a.unsubscribe = deps.Auth.Subscribe(func(s *auth.Session) {
			select {
			case ch <- s:
			default:
				deps.Logger.Warn("auth change dropped, channel full")
			}
		})
	}
	a.startup.Auth = classifyStartupAuth(a.session, time.Now())
	a.home.signedIn = a.session != nil
	a.profile = NewProfileModel(deps, a.session)
	return a
}

// Close releases the auth subscription and tears down the dashboard.
func (a App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.dashboard.Close()
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.home.Init()}
	if a.authCh != nil {
		cmds = append(cmds, waitForAuth(a.authCh))
	}
	if a.startupChecking {
		cmds = append(cmds, a.runStartupCheckCmd())
	}
	return tea.Batch(cmds...)
}

func waitForAuth(ch <-chan *auth.Session) tea.Cmd {
	return func() tea.Msg {
		return authChangedMsg{session: <-ch}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeScreens()
		return a, nil

	case errMsg:
		a.err = msg.err.Error()
		a.deps.Logger.Error("ui error", zap.Error(msg.err))
		return a, nil
	case clearToastMsg:
		a.toast = nil
		return a, nil
	case toastMsg:
		return a, a.setToast(msg.level, msg.text)
	case startupCheckedMsg:
		a.startupChecking = false
		a.startup.Done = true
		a.startup.Tags = classifyStartupCheck(msg.tagErr)
		a.startup.Hardware = classifyStartupCheck(msg.hardwareErr)
		level, text := startupToastCopy(a.startup)
		return a, a.setToast(level, text)
	case authChangedMsg:
		return a.applyAuthChange(msg.session)
	case navigateMsg:
		if msg.tags != nil {
			a.results = a.results.WithScan(msg.tags)
		}
		return a.navigate(msg.to)

	// Screen results go to their owner even when another screen is showing.
	case presetsFetchedMsg, scanSubmittedMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd
	case sequenceStartedMsg, snapshotLoadedMsg, matchSavedMsg:
		var cmd tea.Cmd
		a.results, cmd = a.results.Update(msg)
		return a, cmd
	case matchesLoadedMsg, matchRemovedMsg:
		var cmd tea.Cmd
		a.logs, cmd = a.logs.Update(msg)
		return a, cmd
	case profileLoadedMsg, profileSavedMsg, accountUpdatedMsg:
		var cmd tea.Cmd
		a.profile, cmd = a.profile.Update(msg)
		return a, cmd
	case loginDoneMsg, registerDoneMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if isKey(msg, "ctrl+c") {
			return a, tea.Quit
		}
		if a.quitConfirm {
			switch {
			case isKey(msg, "y"):
				return a, tea.Quit
			case isKey(msg, "n"), isBack(msg):
				a.quitConfirm = false
			}
			return a, nil
		}
		if a.helpOpen {
			if isBack(msg) || isKey(msg, "?") {
				a.helpOpen = false
			}
			return a, nil
		}
		if a.err != "" {
			a.err = ""
		}

		if !a.capturingText() {
			if isKey(msg, "?") {
				a.helpOpen = true
				return a, nil
			}
			if isQuit(msg) {
				if a.hasUnsaved() {
					a.quitConfirm = true
					return a, nil
				}
				return a, tea.Quit
			}
			if a.route.postAuth() {
				if idx, ok := navIndexForKey(msg); ok {
					return a.navigate(navRoutes[idx])
				}
			}
		}
	}

	// Delegate to the active screen
	var cmd tea.Cmd
	switch a.route {
	case routeHome:
		a.home, cmd = a.home.Update(msg)
	case routeLogin:
		a.login, cmd = a.login.Update(msg)
	case routeDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case routeResults:
		a.results, cmd = a.results.Update(msg)
	case routeLogs:
		a.logs, cmd = a.logs.Update(msg)
	case routeProfile:
		a.profile, cmd = a.profile.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	var header string
	if a.route == routeHome {
		header = centerBlockUniform(RenderBanner(), a.width)
	} else {
		header = centerBlock(RenderLogo(), a.width)
	}

	startupPanel := ""
	if a.route == routeHome && (a.startupChecking || a.startup.Done) {
		startupPanel = "\n\n" + centerBlockUniform(a.renderStartupPanel(), a.width)
	}

	var content string
	switch a.route {
	case routeHome:
		content = a.home.View()
	case routeLogin:
		content = a.login.View()
	case routeDashboard:
		content = a.dashboard.View()
	case routeResults:
		content = a.results.View()
	case routeLogs:
		content = a.logs.View()
	case routeProfile:
		content = a.profile.View()
	}
	if a.quitConfirm {
		content = a.renderQuitConfirm()
	} else if a.helpOpen {
		content = a.renderHelp()
	}
	content = centerBlockUniform(content, a.width)

	nav := ""
	if a.route.postAuth() {
		nav = "\n\n" + centerBlockUniform(a.renderNavBar(), a.width)
	}

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if a.err != "" {
		feedback = "\n\n" + centerBlockUniform(components.ErrorBox("Error", a.err, a.width), a.width)
	} else if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s%s\n\n%s%s\n\n%s%s", header, startupPanel, content, nav, hints, feedback)
}

// --- Routing ---

func (a *App) navigate(to route) (App, tea.Cmd) {
	if to.postAuth() && a.session == nil {
		to = routeLogin
	}
	if to == routeLogin && a.session != nil {
		to = routeDashboard
	}
	from := a.route
	if from == to {
		return *a, nil
	}
	if from == routeDashboard {
		a.dashboard.Close()
	}
	a.route = to
	a.helpOpen = false
	a.deps.Logger.Debug("navigate", zap.Int("from", int(from)), zap.Int("to", int(to)))
	return *a, a.enter(to)
}

// enter mounts a screen. The dashboard and the forms are rebuilt on every
// visit so they start from a clean state.
func (a *App) enter(r route) tea.Cmd {
	var cmd tea.Cmd
	switch r {
	case routeHome:
		a.home = NewHomeModel()
		a.home.signedIn = a.session != nil
		cmd = a.home.Init()
	case routeLogin:
		a.login = NewLoginModel(a.deps.Context, a.deps.Auth)
		cmd = a.login.Init()
	case routeDashboard:
		a.dashboard = NewDashboardModel(a.deps)
		cmd = a.dashboard.Init()
	case routeResults:
		cmd = a.results.Init()
	case routeLogs:
		a.logs.loading = true
		cmd = a.logs.Init()
	case routeProfile:
		a.profile = NewProfileModel(a.deps, a.session)
		cmd = a.profile.Init()
	}
	a.resizeScreens()
	return cmd
}

func (a *App) resizeScreens() {
	a.home.width, a.home.height = a.width, a.height
	a.login.width, a.login.height = a.width, a.height
	a.dashboard.width, a.dashboard.height = a.width, a.height
	a.results.width, a.results.height = a.width, a.height
	a.logs.width, a.logs.height = a.width, a.height
	a.profile.width, a.profile.height = a.width, a.height
}

func (a App) applyAuthChange(s *auth.Session) (App, tea.Cmd) {
	cmds := []tea.Cmd{waitForAuth(a.authCh)}
	prev := a.session
	a.session = s
	a.startup.Auth = classifyStartupAuth(s, time.Now())
	a.home.signedIn = s != nil

	if a.deps.Config != nil && !sameSession(a.deps.Config.Session, s) {
		if err := a.deps.Config.SetSession(s); err != nil {
			a.err = fmt.Sprintf("save session: %v", err)
		}
	}

	switch {
	case s == nil && a.route.postAuth():
		app, cmd := a.navigate(routeHome)
		toast := app.setToast("info", "Logged out.")
		return app, tea.Batch(append(cmds, cmd, toast)...)
	case s != nil && a.route == routeLogin:
		app, cmd := a.navigate(routeDashboard)
		return app, tea.Batch(append(cmds, cmd)...)
	case s != nil && prev != nil && s.UID == prev.UID:
		a.profile = a.profile.WithSession(s)
	}
	return a, tea.Batch(cmds...)
}

func sameSession(a, b *auth.Session) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.IDToken == b.IDToken && a.Email == b.Email
}

// capturingText reports whether the active screen wants raw keystrokes.
func (a App) capturingText() bool {
	switch a.route {
	case routeLogin:
		return true
	case routeDashboard:
		return a.dashboard.focus == dashFocusText
	case routeProfile:
		return a.profile.editing != profileFieldNone
	}
	return false
}

func (a App) hasUnsaved() bool {
	switch a.route {
	case routeDashboard:
		return a.dashboard.session != nil && !a.dashboard.session.Selection().Empty()
	case routeResults:
		return a.results.saving
	}
	return false
}

// --- Rendering ---

func (a App) renderNavBar() string {
	segments := make([]string, 0, len(navNames))
	for i, name := range navNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if navRoutes[i] == a.route {
			segments = append(segments, TabActiveStyle.Render(label))
		} else {
			segments = append(segments, TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func (a App) statusHints() []components.KeyHint {
	if a.quitConfirm {
		return []components.KeyHint{
			components.Hint("y", "Confirm"),
			components.Hint("n", "Cancel"),
		}
	}
	if a.helpOpen {
		return []components.KeyHint{components.Hint("esc", "Back")}
	}
	hints := a.screenHints()
	if a.capturingText() {
		return append(hints, components.Hint("ctrl+c", "Quit"))
	}
	if a.route.postAuth() {
		hints = append(hints, components.Hint("1-4", "Screens"))
	}
	return append(hints,
		components.Hint("?", "Help"),
		components.Hint("q", "Quit"),
	)
}

func (a App) screenHints() []components.KeyHint {
	switch a.route {
	case routeHome:
		return []components.KeyHint{components.Hint("enter", "Get started")}
	case routeLogin:
		return a.login.hints()
	case routeDashboard:
		return a.dashboard.hints()
	case routeResults:
		return a.results.hints()
	case routeLogs:
		return a.logs.hints()
	case routeProfile:
		return a.profile.hints()
	}
	return nil
}

func (a App) renderHelp() string {
	hints := a.screenHints()
	lines := make([]string, 0, len(hints)+2)
	lines = append(lines, MutedStyle.Render("esc to close"), "")
	for _, hint := range hints {
		lines = append(lines, "  "+hint.String())
	}
	return components.Indent(components.TitledBox("Help", strings.Join(lines, "\n"), a.width), 1)
}

func (a App) renderQuitConfirm() string {
	body := "Your scene description will be lost. Quit anyway?"
	if a.route == routeResults {
		body = "A match is still being saved. Quit anyway?"
	}
	return components.Indent(components.ConfirmDialog("Quit", body), 1)
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	title := "Info"
	switch a.toast.level {
	case "success":
		title = "Success"
	case "warning":
		title = "Warning"
	case "error":
		return components.ErrorBox("Error", a.toast.text, a.width)
	}
	return components.TitledBox(title, a.toast.text, a.width)
}

func (a App) renderStartupPanel() string {
	rows := []components.TableRow{
		{Label: "Tag service", Value: a.startup.Tags, ValueColor: startupStatusColor(a.startup.Tags)},
		{Label: "Hardware", Value: a.startup.Hardware, ValueColor: startupStatusColor(a.startup.Hardware)},
		{Label: "Account", Value: a.startup.Auth, ValueColor: startupStatusColor(a.startup.Auth)},
	}
	return components.Table("Startup Checks", rows, a.width)
}

// --- Startup Checks ---

func (a App) runStartupCheckCmd() tea.Cmd {
	client := a.deps.Client.WithTimeout(700 * time.Millisecond)
	parent := a.deps.Context
	return func() tea.Msg {
		var (
			msg startupCheckedMsg
			g   errgroup.Group
		)
		// Each check records its own outcome so one failure never hides the other.
		g.Go(func() error {
			if err := client.Health(parent); err != nil {
				msg.tagErr = err.Error()
			}
			return nil
		})
		g.Go(func() error {
			if err := client.HardwareHealth(parent); err != nil {
				msg.hardwareErr = err.Error()
			}
			return nil
		})
		_ = g.Wait()
		return msg
	}
}

func classifyStartupCheck(errText string) string {
	if errText == "" {
		return "ok"
	}
	lower := strings.ToLower(errText)
	if strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline") {
		return "timeout"
	}
	return "unreachable"
}

func classifyStartupAuth(s *auth.Session, now time.Time) string {
	switch {
	case s == nil:
		return "signed out"
	case s.Expired(now):
		return "expired"
	}
	return "signed in"
}

func startupToastCopy(summary startupSummary) (string, string) {
	switch {
	case summary.Tags == "ok" && summary.Hardware == "ok":
		return "success", "Services ready."
	case summary.Tags != "ok" && summary.Hardware != "ok":
		return "warning", "Tag and hardware services unreachable. Presets will fall back to defaults."
	case summary.Tags != "ok":
		return "warning", "Tag service unreachable. Presets will fall back to defaults."
	}
	return "warning", "Hardware service unreachable. Live view is unavailable."
}

func startupStatusColor(status string) string {
	switch status {
	case "ok", "signed in":
		return string(ColorSuccess)
	case "checking", "signed out":
		return string(ColorMuted)
	case "timeout", "expired":
		return string(ColorSecondary)
	}
	return string(ColorError)
}

// --- Layout ---

func centerBlock(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lineWidth := lipgloss.Width(line)
		if lineWidth >= width {
			continue
		}
		lines[i] = strings.Repeat(" ", (width-lineWidth)/2) + line
	}
	return strings.Join(lines, "\n")
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
