package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginForm holds the email/password input state
type loginForm struct {
	email    textinput.Model
	password textinput.Model
	focus    int
	err      string
}

// newLoginForm creates a fresh login form with the email field focused
func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email    > "
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password > "
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginForm{email: email, password: password}
}

func (f loginForm) focusCmd() tea.Cmd {
	return textinput.Blink
}

// updateLogin handles keys on the login screen
func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = ScreenMenu
		return m, nil

	case "tab", "shift+tab", "up", "down":
		m.login.focus = (m.login.focus + 1) % 2
		if m.login.focus == 0 {
			m.login.email.Focus()
			m.login.password.Blur()
		} else {
			m.login.email.Blur()
			m.login.password.Focus()
		}
		return m, textinput.Blink

	case "enter":
		if m.login.focus == 0 {
			m.login.focus = 1
			m.login.email.Blur()
			m.login.password.Focus()
			return m, textinput.Blink
		}

		email := strings.TrimSpace(m.login.email.Value())
		password := m.login.password.Value()
		if email == "" || password == "" {
			m.login.err = "Email and password are required."
			return m, nil
		}

		m.login.err = ""
		m.loading = true
		return m, m.loginCmd(email, password)
	}

	var cmd tea.Cmd
	if m.login.focus == 0 {
		m.login.email, cmd = m.login.email.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return m, cmd
}
