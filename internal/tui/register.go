package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opsdesk/deskctl/internal/api"
)

// registerForm holds the new-account input state
type registerForm struct {
	fields []textinput.Model
	focus  int
	err    string
}

// Field order in the register form
const (
	regFieldEmail = iota
	regFieldPassword
	regFieldConfirm
	regFieldFirstName
	regFieldLastName
	regFieldCount
)

// newRegisterForm creates a fresh registration form
func newRegisterForm() registerForm {
	prompts := []struct {
		prompt      string
		placeholder string
		secret      bool
	}{
		{"Email      > ", "you@example.com", false},
		{"Password   > ", "password", true},
		{"Confirm    > ", "repeat password", true},
		{"First name > ", "Ada", false},
		{"Last name  > ", "Lovelace", false},
	}

	fields := make([]textinput.Model, regFieldCount)
	for i, p := range prompts {
		field := textinput.New()
		field.Prompt = p.prompt
		field.Placeholder = p.placeholder
		field.CharLimit = 128
		if p.secret {
			field.EchoMode = textinput.EchoPassword
			field.EchoCharacter = '•'
		}
		fields[i] = field
	}
	fields[regFieldEmail].Focus()

	return registerForm{fields: fields}
}

func (f registerForm) focusCmd() tea.Cmd {
	return textinput.Blink
}

// setFocus moves focus to the given field index
func (f *registerForm) setFocus(idx int) {
	f.focus = (idx + regFieldCount) % regFieldCount
	for i := range f.fields {
		if i == f.focus {
			f.fields[i].Focus()
		} else {
			f.fields[i].Blur()
		}
	}
}

// updateRegister handles keys on the registration screen
func (m Model) updateRegister(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = ScreenMenu
		return m, nil

	case "tab", "down":
		m.register.setFocus(m.register.focus + 1)
		return m, textinput.Blink

	case "shift+tab", "up":
		m.register.setFocus(m.register.focus - 1)
		return m, textinput.Blink

	case "enter":
		if m.register.focus < regFieldCount-1 {
			m.register.setFocus(m.register.focus + 1)
			return m, textinput.Blink
		}

		input := api.RegisterInput{
			Email:           strings.TrimSpace(m.register.fields[regFieldEmail].Value()),
			Password:        m.register.fields[regFieldPassword].Value(),
			PasswordConfirm: m.register.fields[regFieldConfirm].Value(),
			FirstName:       strings.TrimSpace(m.register.fields[regFieldFirstName].Value()),
			LastName:        strings.TrimSpace(m.register.fields[regFieldLastName].Value()),
		}

		if input.Email == "" || input.Password == "" {
			m.register.err = "Email and password are required."
			return m, nil
		}
		if input.Password != input.PasswordConfirm {
			m.register.err = "Passwords do not match."
			return m, nil
		}

		m.register.err = ""
		m.loading = true
		return m, m.registerCmd(input)
	}

	var cmd tea.Cmd
	m.register.fields[m.register.focus], cmd = m.register.fields[m.register.focus].Update(msg)
	return m, cmd
}
