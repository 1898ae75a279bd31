package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-vault-client/internal/app"
	"github.com/MKhiriev/go-vault-client/internal/service"
	"github.com/MKhiriev/go-vault-client/internal/validators"
	"github.com/MKhiriev/go-vault-client/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type authMode int

const (
	authModeLogin authMode = iota
	authModeRegister
)

type authModel struct {
	mode   authMode
	inputs inputGroup
	err    string
	busy   bool
}

func newAuthModel(mode authMode) authModel {
	var fields []field
	switch mode {
	case authModeRegister:
		fields = []field{
			newField(validators.FieldUsername, "Username", false),
			newField(validators.FieldEmail, "Email", false),
			newField(validators.FieldFullName, "Full name", false),
			newField(validators.FieldPassword, "Password", true),
			newField(validators.FieldConfirmPassword, "Confirm password", true),
		}
	default:
		fields = []field{
			newField(validators.FieldLogin, "Username or email", false),
			newField(validators.FieldPassword, "Password", true),
		}
	}

	a := authModel{mode: mode, inputs: inputGroup{fields: fields}}
	a.inputs.focusAt(0)
	return a
}

func (a authModel) credentials() models.Credentials {
	return models.Credentials{
		Login:    strings.TrimSpace(a.inputs.value(validators.FieldLogin)),
		Password: a.inputs.value(validators.FieldPassword),
	}
}

func (a authModel) profile() models.Profile {
	return models.Profile{
		Username:        strings.TrimSpace(a.inputs.value(validators.FieldUsername)),
		Email:           strings.TrimSpace(a.inputs.value(validators.FieldEmail)),
		FullName:        strings.TrimSpace(a.inputs.value(validators.FieldFullName)),
		Password:        a.inputs.value(validators.FieldPassword),
		ConfirmPassword: a.inputs.value(validators.FieldConfirmPassword),
	}
}

func (a *authModel) setError(err error) {
	a.inputs.errors = nil
	var fe *service.FieldError
	if errors.As(err, &fe) && len(fe.Fields) > 0 && errors.Is(err, service.ErrValidation) {
		a.inputs.errors = fe.Fields
		a.err = ""
		return
	}
	if a.mode == authModeLogin {
		a.err = app.SignInMessage(err)
		return
	}
	a.err = app.UserMessage(err)
}

func (a authModel) view(spin string) string {
	title := "SIGN IN"
	hint := "enter: next / submit  tab: next field  ctrl+r: create an account"
	if a.mode == authModeRegister {
		title = "CREATE ACCOUNT"
		hint = "enter: next / submit  tab: next field  ctrl+r: back to sign in"
	}

	var b strings.Builder
	b.WriteString(a.inputs.view())
	if a.err != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(a.err))
	}
	if a.busy {
		b.WriteString("\n\n")
		b.WriteString(spin)
		b.WriteString(" Signing in...")
	}
	return renderPage(title, b.String(), hint)
}

func (m appModel) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.auth.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.switchMode):
		next := authModeRegister
		if m.auth.mode == authModeRegister {
			next = authModeLogin
		}
		m.auth = newAuthModel(next)
		return m, nil
	case key.Matches(msg, keys.tab):
		return m, m.auth.inputs.next()
	case key.Matches(msg, keys.backtab):
		return m, m.auth.inputs.prev()
	case key.Matches(msg, keys.enter):
		if !m.auth.inputs.last() {
			return m, m.auth.inputs.next()
		}
		return m.submitAuth()
	}
	return m, m.auth.inputs.update(msg)
}

func (m appModel) submitAuth() (tea.Model, tea.Cmd) {
	m.auth.busy = true
	m.auth.err = ""
	m.auth.inputs.errors = nil

	session := m.session
	ctx := m.ctx
	var run func() error
	if m.auth.mode == authModeRegister {
		profile := m.auth.profile()
		run = func() error {
			_, err := session.Register(ctx, profile)
			return err
		}
	} else {
		creds := m.auth.credentials()
		run = func() error {
			_, err := session.Login(ctx, creds)
			return err
		}
	}

	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return authDoneMsg{err: run()}
	})
}
