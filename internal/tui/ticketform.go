package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opsdesk/deskctl/internal/api"
)

// ticketForm holds the new-ticket input state
type ticketForm struct {
	fields []textinput.Model
	focus  int
	err    string
}

// Field order in the ticket form
const (
	ticketFieldTitle = iota
	ticketFieldDescription
	ticketFieldPriority
	ticketFieldCount
)

// newTicketForm creates a fresh ticket submission form
func newTicketForm() ticketForm {
	title := textinput.New()
	title.Prompt = "Title       > "
	title.Placeholder = "Printer on floor 3 jams"
	title.CharLimit = 200
	title.Focus()

	description := textinput.New()
	description.Prompt = "Description > "
	description.Placeholder = "What happened, and what did you expect?"
	description.CharLimit = 2000

	priority := textinput.New()
	priority.Prompt = "Priority    > "
	priority.Placeholder = "low | medium | high"
	priority.CharLimit = 16

	return ticketForm{fields: []textinput.Model{title, description, priority}}
}

func (f ticketForm) focusCmd() tea.Cmd {
	return textinput.Blink
}

// setFocus moves focus to the given field index
func (f *ticketForm) setFocus(idx int) {
	f.focus = (idx + ticketFieldCount) % ticketFieldCount
	for i := range f.fields {
		if i == f.focus {
			f.fields[i].Focus()
		} else {
			f.fields[i].Blur()
		}
	}
}

// updateTicketForm handles keys on the new-ticket screen
func (m Model) updateTicketForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = ScreenMenu
		return m, nil

	case "tab", "down":
		m.ticketForm.setFocus(m.ticketForm.focus + 1)
		return m, textinput.Blink

	case "shift+tab", "up":
		m.ticketForm.setFocus(m.ticketForm.focus - 1)
		return m, textinput.Blink

	case "enter":
		if m.ticketForm.focus < ticketFieldCount-1 {
			m.ticketForm.setFocus(m.ticketForm.focus + 1)
			return m, textinput.Blink
		}

		input := api.CreateTicketInput{
			Title:       strings.TrimSpace(m.ticketForm.fields[ticketFieldTitle].Value()),
			Description: strings.TrimSpace(m.ticketForm.fields[ticketFieldDescription].Value()),
			Priority:    strings.ToLower(strings.TrimSpace(m.ticketForm.fields[ticketFieldPriority].Value())),
		}
		if input.Title == "" {
			m.ticketForm.err = "A title is required."
			return m, nil
		}
		if input.Priority == "" {
			input.Priority = "medium"
		}

		m.ticketForm.err = ""
		m.loading = true
		return m, m.createTicketCmd(input)
	}

	var cmd tea.Cmd
	m.ticketForm.fields[m.ticketForm.focus], cmd = m.ticketForm.fields[m.ticketForm.focus].Update(msg)
	return m, cmd
}
