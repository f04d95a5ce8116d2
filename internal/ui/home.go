package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// HomeModel is the landing screen.
type HomeModel struct {
	signedIn bool
	width    int
	height   int
}

func NewHomeModel() HomeModel {
	return HomeModel{}
}

func (m HomeModel) Init() tea.Cmd { return nil }

func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !isEnter(key) {
		return m, nil
	}
	to := routeLogin
	if m.signedIn {
		to = routeDashboard
	}
	return m, func() tea.Msg { return navigateMsg{to: to} }
}

func (m HomeModel) View() string {
	var b strings.Builder
	if m.signedIn {
		b.WriteString(MutedStyle.Render("Welcome back."))
		b.WriteString("\n\n")
	}
	b.WriteString(AccentStyle.Render("press enter to get started"))
	return b.String()
}
