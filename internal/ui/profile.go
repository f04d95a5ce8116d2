package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/scenetic/cli/internal/auth"
	"github.com/scenetic/cli/internal/store"
	"github.com/scenetic/cli/internal/ui/components"
)

// --- Messages ---

type profileLoadedMsg struct {
	profile *store.Profile
	err     error
}

type profileSavedMsg struct {
	profile store.Profile
	err     error
}

type accountUpdatedMsg struct {
	field profileField
	err   error
}

type profileField int

const (
	profileFieldNone profileField = iota
	profileFieldFirst
	profileFieldLast
	profileFieldEmail
	profileFieldPassword
)

var profileActions = []string{
	"Edit first name",
	"Edit last name",
	"Update email",
	"Update password",
	"Sign out",
}

const actionSignOut = 4

// --- Profile Model ---

type ProfileModel struct {
	ctx      context.Context
	provider auth.Provider
	docs     store.DocumentStore
	logger   *zap.Logger
	session  *auth.Session

	profile store.Profile
	actions *components.List

	loading        bool
	editing        profileField
	buf            string
	showSecret     bool
	saving         bool
	confirmSignOut bool
	errText        string
	notice         string

	width  int
	height int
}

// NewProfileModel builds the profile UI model for the signed-in account.
func NewProfileModel(deps Deps, session *auth.Session) ProfileModel {
	deps = deps.withDefaults()
	actions := components.NewList()
	actions.SetItems(profileActions)
	m := ProfileModel{
		ctx:      deps.Context,
		provider: deps.Auth,
		docs:     deps.Docs,
		logger:   deps.Logger.Named("profile"),
		actions:  actions,
	}
	return m.WithSession(session)
}

// WithSession refreshes the account shown on the screen.
func (m ProfileModel) WithSession(s *auth.Session) ProfileModel {
	m.session = s
	if s != nil {
		m.profile.UID = s.UID
		m.profile.Email = s.Email
	}
	return m
}

func (m ProfileModel) Init() tea.Cmd {
	if m.docs == nil || m.session == nil {
		return nil
	}
	ctx, docs, uid := m.ctx, m.docs, m.session.UID
	return func() tea.Msg {
		p, err := docs.GetProfile(ctx, uid)
		return profileLoadedMsg{profile: p, err: err}
	}
}

func (m ProfileModel) Update(msg tea.Msg) (ProfileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.loading = false
		switch {
		case errors.Is(msg.err, store.ErrNotFound):
		case msg.err != nil:
			m.errText = msg.err.Error()
		case msg.profile != nil:
			email := m.profile.Email
			m.profile = *msg.profile
			if email != "" {
				m.profile.Email = email
			}
		}
		return m, nil

	case profileSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.profile = msg.profile
		m.notice = "Profile updated."
		return m, nil

	case accountUpdatedMsg:
		m.saving = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		if msg.field == profileFieldEmail {
			m.notice = "Email updated."
		} else {
			m.notice = "Password updated."
		}
		return m, nil

	case tea.KeyMsg:
		if m.confirmSignOut {
			return m.handleSignOutConfirm(msg)
		}
		if m.editing != profileFieldNone {
			return m.handleInput(msg)
		}
		switch {
		case isDown(msg):
			m.actions.Down()
		case isUp(msg):
			m.actions.Up()
		case isEnter(msg):
			return m.openAction(m.actions.Selected())
		}
	}
	return m, nil
}

func (m ProfileModel) openAction(idx int) (ProfileModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	m.errText = ""
	m.notice = ""
	m.showSecret = false
	switch idx {
	case 0:
		m.editing = profileFieldFirst
		m.buf = m.profile.FirstName
	case 1:
		m.editing = profileFieldLast
		m.buf = m.profile.LastName
	case 2:
		m.editing = profileFieldEmail
		m.buf = m.profile.Email
	case 3:
		m.editing = profileFieldPassword
		m.buf = ""
	case actionSignOut:
		m.confirmSignOut = true
	}
	return m, nil
}

func (m ProfileModel) handleInput(msg tea.KeyMsg) (ProfileModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.editing = profileFieldNone
		m.buf = ""
	case isKey(msg, "ctrl+v") && m.editing == profileFieldPassword:
		m.showSecret = !m.showSecret
	case isEnter(msg):
		return m.commitInput()
	case isBackspace(msg):
		m.buf = dropLastRune(m.buf)
	default:
		m.buf += typedText(msg)
	}
	return m, nil
}

func (m ProfileModel) commitInput() (ProfileModel, tea.Cmd) {
	field := m.editing
	value := m.buf
	if field != profileFieldPassword {
		value = strings.TrimSpace(value)
	}
	if value == "" {
		m.errText = "Please fill in all fields"
		return m, nil
	}
	m.editing = profileFieldNone
	m.buf = ""
	m.saving = true

	ctx, provider, docs := m.ctx, m.provider, m.docs
	switch field {
	case profileFieldFirst, profileFieldLast:
		next := m.profile
		if field == profileFieldFirst {
			next.FirstName = value
		} else {
			next.LastName = value
		}
		return m, saveProfileCmd(ctx, docs, next)
	case profileFieldEmail:
		next := m.profile
		next.Email = value
		return m, func() tea.Msg {
			if provider == nil {
				return accountUpdatedMsg{field: field, err: errAccountsDisabled}
			}
			if err := provider.UpdateEmail(ctx, value); err != nil {
				return accountUpdatedMsg{field: field, err: err}
			}
			if docs != nil {
				next.UpdatedAt = time.Now().UTC()
				if err := docs.PutProfile(ctx, next); err != nil {
					return accountUpdatedMsg{field: field, err: fmt.Errorf("email updated, profile not saved: %w", err)}
				}
			}
			return accountUpdatedMsg{field: field}
		}
	}
	return m, func() tea.Msg {
		if provider == nil {
			return accountUpdatedMsg{field: field, err: errAccountsDisabled}
		}
		return accountUpdatedMsg{field: field, err: provider.UpdatePassword(ctx, value)}
	}
}

func saveProfileCmd(ctx context.Context, docs store.DocumentStore, p store.Profile) tea.Cmd {
	return func() tea.Msg {
		if docs == nil {
			return profileSavedMsg{err: errors.New("profile storage is not configured")}
		}
		p.UpdatedAt = time.Now().UTC()
		if err := docs.PutProfile(ctx, p); err != nil {
			return profileSavedMsg{err: err}
		}
		return profileSavedMsg{profile: p}
	}
}

func (m ProfileModel) handleSignOutConfirm(msg tea.KeyMsg) (ProfileModel, tea.Cmd) {
	switch {
	case isKey(msg, "y"):
		m.confirmSignOut = false
		ctx, provider := m.ctx, m.provider
		if provider == nil {
			return m, nil
		}
		m.logger.Info("signing out")
		return m, func() tea.Msg {
			if err := provider.SignOut(ctx); err != nil {
				return errMsg{err}
			}
			return nil
		}
	case isKey(msg, "n"), isBack(msg):
		m.confirmSignOut = false
	}
	return m, nil
}

func (m ProfileModel) View() string {
	switch {
	case m.confirmSignOut:
		return components.Indent(components.ConfirmDialog("Sign Out", "Sign out of Scenetic?"), 1)
	case m.editing == profileFieldPassword:
		return components.Indent(components.SecretInputDialog("New Password", m.buf, !m.showSecret), 1)
	case m.editing != profileFieldNone:
		return components.Indent(components.InputDialog(m.editTitle(), components.SanitizeOneLine(m.buf)), 1)
	}

	name := strings.TrimSpace(m.profile.FirstName + " " + m.profile.LastName)
	if name == "" {
		name = "-"
	}
	email := m.profile.Email
	if email == "" {
		email = "-"
	}
	rows := []components.TableRow{
		{Label: "Name", Value: name},
		{Label: "Email", Value: email},
	}
	if m.session != nil && m.session.EmailVerified {
		rows = append(rows, components.TableRow{Label: "Status", Value: "verified", ValueColor: string(ColorSuccess)})
	}

	var b strings.Builder
	b.WriteString(components.Table("Profile", rows, m.width))
	b.WriteString("\n")
	for i, action := range profileActions {
		if m.actions.IsSelected(i) {
			b.WriteString(SelectedStyle.Render("  > " + action))
		} else {
			b.WriteString(NormalStyle.Render("    " + action))
		}
		if i < len(profileActions)-1 {
			b.WriteString("\n")
		}
	}
	if m.saving {
		b.WriteString("\n\n" + MutedStyle.Render("Saving..."))
	}
	if m.notice != "" {
		b.WriteString("\n\n" + SuccessStyle.Render(m.notice))
	}
	if m.errText != "" {
		b.WriteString("\n\n" + components.ErrorBox("Error", m.errText, m.width))
	}
	return components.Indent(b.String(), 1)
}

func (m ProfileModel) editTitle() string {
	switch m.editing {
	case profileFieldFirst:
		return "First Name"
	case profileFieldLast:
		return "Last Name"
	}
	return "New Email"
}

func (m ProfileModel) hints() []components.KeyHint {
	switch {
	case m.confirmSignOut:
		return []components.KeyHint{components.Hint("y", "Sign Out"), components.Hint("n", "Cancel")}
	case m.editing == profileFieldPassword:
		return []components.KeyHint{
			components.Hint("enter", "Save"),
			components.Hint("ctrl+v", "Show"),
			components.Hint("esc", "Cancel"),
		}
	case m.editing != profileFieldNone:
		return []components.KeyHint{components.Hint("enter", "Save"), components.Hint("esc", "Cancel")}
	}
	return []components.KeyHint{components.Hint("↑/↓", "Select"), components.Hint("enter", "Open")}
}
