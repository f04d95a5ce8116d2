package ui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scenetic/cli/internal/auth"
	"github.com/scenetic/cli/internal/ui/components"
)

type loginMode int

const (
	modeLogin loginMode = iota
	modeRegister
)

type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
)

type loginDoneMsg struct {
	session *auth.Session
	err     error
}

type registerDoneMsg struct {
	email string
	err   error
}

var errAccountsDisabled = errors.New("accounts are not configured, set SCENETIC_API_KEY")

// LoginModel is the Register/Login screen.
type LoginModel struct {
	ctx      context.Context
	provider auth.Provider

	mode         loginMode
	field        loginField
	email        string
	password     string
	showPassword bool
	submitting   bool
	errText      string
	notice       string

	width  int
	height int
}

func NewLoginModel(ctx context.Context, provider auth.Provider) LoginModel {
	if ctx == nil {
		ctx = context.Background()
	}
	return LoginModel{ctx: ctx, provider: provider}
}

func (m LoginModel) Init() tea.Cmd { return nil }

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.password = ""
		return m, nil

	case registerDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.mode = modeLogin
		m.field = fieldPassword
		m.password = ""
		m.notice = "Verification email sent to " + msg.email + ". Verify it, then log in."
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m LoginModel) handleKeys(msg tea.KeyMsg) (LoginModel, tea.Cmd) {
	switch {
	case isBack(msg):
		return m, func() tea.Msg { return navigateMsg{to: routeHome} }
	case m.submitting:
		return m, nil
	case isKey(msg, "ctrl+t"):
		if m.mode == modeLogin {
			m.mode = modeRegister
		} else {
			m.mode = modeLogin
		}
		m.errText = ""
		m.notice = ""
	case isKey(msg, "ctrl+v"):
		m.showPassword = !m.showPassword
	case isKey(msg, "tab", "shift+tab"), isUp(msg), isDown(msg):
		if m.field == fieldEmail {
			m.field = fieldPassword
		} else {
			m.field = fieldEmail
		}
	case isEnter(msg):
		if m.field == fieldEmail && m.password == "" {
			m.field = fieldPassword
			return m, nil
		}
		return m.submit()
	case isBackspace(msg):
		m.setValue(dropLastRune(m.value()))
	default:
		if text := typedText(msg); text != "" {
			m.setValue(m.value() + text)
		}
	}
	return m, nil
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	email := strings.TrimSpace(m.email)
	if email == "" || m.password == "" {
		m.errText = "Please fill in all fields"
		return m, nil
	}
	if m.provider == nil {
		m.errText = errAccountsDisabled.Error()
		return m, nil
	}
	m.errText = ""
	m.notice = ""
	m.submitting = true

	ctx, provider, password := m.ctx, m.provider, m.password
	if m.mode == modeRegister {
		return m, func() tea.Msg {
			err := provider.SignUp(ctx, email, password)
			return registerDoneMsg{email: email, err: err}
		}
	}
	return m, func() tea.Msg {
		session, err := provider.SignIn(ctx, email, password)
		return loginDoneMsg{session: session, err: err}
	}
}

func (m LoginModel) value() string {
	if m.field == fieldEmail {
		return m.email
	}
	return m.password
}

func (m *LoginModel) setValue(v string) {
	if m.field == fieldEmail {
		m.email = v
	} else {
		m.password = v
	}
	m.errText = ""
}

func (m LoginModel) View() string {
	tabs := []string{"Login", "Register"}
	segments := make([]string, len(tabs))
	for i, name := range tabs {
		if loginMode(i) == m.mode {
			segments[i] = TabActiveStyle.Render(name)
		} else {
			segments[i] = TabInactiveStyle.Render(name)
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, segments...)

	password := components.Mask(m.password)
	if m.showPassword {
		password = m.password
	}
	rows := []string{
		m.renderField("Email", m.email, m.field == fieldEmail),
		m.renderField("Password", password, m.field == fieldPassword),
	}

	action := "Log In"
	if m.mode == modeRegister {
		action = "Create Account"
	}
	button := ButtonStyle.Render(action)
	if m.submitting {
		button = ButtonDisabledStyle.Render("Working...")
	}

	body := header + "\n\n" + strings.Join(rows, "\n\n") + "\n\n" + button
	if m.notice != "" {
		body += "\n\n" + SuccessStyle.Render(components.SanitizeOneLine(m.notice))
	}
	if m.errText != "" {
		body += "\n\n" + ErrorStyle.Render(components.SanitizeOneLine(m.errText))
	}
	return components.Indent(components.Box(body, m.width), 1)
}

func (m LoginModel) renderField(label, value string, active bool) string {
	cursor := ""
	style := NormalStyle
	if active {
		cursor = "█"
		style = SelectedStyle
	}
	return MutedStyle.Render(label) + "\n" + style.Render("> "+components.SanitizeOneLine(value)+cursor)
}

func (m LoginModel) hints() []components.KeyHint {
	return []components.KeyHint{
		components.Hint("tab", "Field"),
		components.Hint("enter", "Submit"),
		components.Hint("ctrl+t", "Login/Register"),
		components.Hint("ctrl+v", "Show Password"),
		components.Hint("esc", "Back"),
	}
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
