package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the active screen
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.quitting {
		return "Goodbye.\n"
	}
	if m.loading {
		return m.renderLoading()
	}

	switch m.screen {
	case ScreenBootstrap:
		return m.renderLoading()
	case ScreenMenu:
		return m.renderMenu()
	case ScreenLogin:
		return m.renderLogin()
	case ScreenRegister:
		return m.renderRegister()
	case ScreenTickets:
		return m.renderTickets()
	case ScreenTicketDetail:
		return m.renderTicketDetail()
	case ScreenNewTicket:
		return m.renderTicketForm()
	case ScreenUsers:
		return m.renderUsers()
	case ScreenDepartments:
		return m.renderDepartments()
	case ScreenEquipment:
		return m.renderEquipment()
	case ScreenProfile:
		return m.renderProfile()
	default:
		return "Unknown screen"
	}
}

// renderLoading shows the spinner while a request is in flight
func (m Model) renderLoading() string {
	return fmt.Sprintf("\n  %s Loading...\n", m.spin.View())
}

// renderMenu shows the role-gated navigation entries
func (m Model) renderMenu() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("deskctl — support desk"))
	b.WriteString("\n")

	if m.snapshot.Authenticated() {
		user := m.snapshot.User
		b.WriteString(m.styles.Subtitle.Render(
			fmt.Sprintf("%s · %s · %s", user.FullName(), user.Role, user.DepartmentName)))
		b.WriteString("\n")
	} else {
		b.WriteString(m.styles.Subtitle.Render("Not signed in"))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(m.styles.Notice.Render(m.notice))
		b.WriteString("\n\n")
	}
	if m.errText != "" {
		b.WriteString(m.styles.Error.Render(m.errText))
		b.WriteString("\n\n")
	}

	for i, entry := range m.entries {
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("› " + entry.Title))
		} else {
			b.WriteString("  " + entry.Title)
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelpLine("↑/↓ move", "enter select", "q quit"))
	return b.String()
}

// renderLogin shows the email/password form
func (m Model) renderLogin() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Log in"))
	b.WriteString("\n")

	if m.login.err != "" {
		errBox := m.styles.Border.
			BorderForeground(lipgloss.Color("196")).
			Render(m.styles.Error.Render(m.login.err))
		b.WriteString(errBox)
		b.WriteString("\n\n")
	}

	b.WriteString(m.login.email.View())
	b.WriteString("\n")
	b.WriteString(m.login.password.View())
	b.WriteString("\n")

	b.WriteString(m.renderHelpLine("tab next field", "enter submit", "esc back"))
	return b.String()
}

// renderRegister shows the new-account form
func (m Model) renderRegister() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Create an account"))
	b.WriteString("\n")

	if m.register.err != "" {
		b.WriteString(m.styles.Error.Render(m.register.err))
		b.WriteString("\n\n")
	}

	for _, field := range m.register.fields {
		b.WriteString(field.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelpLine("tab next field", "enter submit", "esc back"))
	return b.String()
}

// renderTickets shows a ticket listing
func (m Model) renderTickets() string {
	var b strings.Builder

	title := m.listTitle
	if title == "" {
		title = "Tickets"
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")

	if m.errText != "" {
		b.WriteString(m.styles.Error.Render(m.errText))
		b.WriteString("\n\n")
	}

	if len(m.ticketList.Tickets) == 0 {
		b.WriteString(m.styles.Muted.Render("No tickets."))
		b.WriteString("\n")
	} else {
		header := fmt.Sprintf("%-6s %-40s %-12s %-8s", "ID", "TITLE", "STATUS", "PRIORITY")
		b.WriteString(m.styles.Header.Render(header))
		b.WriteString("\n")
		for i, ticket := range m.ticketList.Tickets {
			row := fmt.Sprintf("%-6d %-40s %-12s %-8s",
				ticket.ID, truncate(ticket.Title, 40), ticket.Status, ticket.Priority)
			if i == m.listCursor {
				b.WriteString(m.styles.Selected.Render(row))
			} else {
				b.WriteString(row)
			}
			b.WriteString("\n")
		}
		if m.ticketList.TotalCount > len(m.ticketList.Tickets) {
			b.WriteString(m.styles.Muted.Render(
				fmt.Sprintf("showing %d of %d", len(m.ticketList.Tickets), m.ticketList.TotalCount)))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.renderHelpLine("↑/↓ move", "enter open", "esc back"))
	return b.String()
}

// renderTicketDetail shows one ticket and its comment thread
func (m Model) renderTicketDetail() string {
	var b strings.Builder

	ticket := m.ticket
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("#%d %s", ticket.ID, ticket.Title)))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render(
		fmt.Sprintf("%s · %s · %s", ticket.Status, ticket.Priority, ticket.DepartmentName)))
	b.WriteString("\n\n")

	b.WriteString(ticket.Description)
	b.WriteString("\n\n")

	meta := fmt.Sprintf("requested by %s", ticket.RequesterName)
	if ticket.AssigneeName != "" {
		meta += fmt.Sprintf(", assigned to %s", ticket.AssigneeName)
	}
	b.WriteString(m.styles.Muted.Render(meta))
	b.WriteString("\n")

	if len(m.comments) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Header.Render("Comments"))
		b.WriteString("\n")
		for _, comment := range m.comments {
			b.WriteString(fmt.Sprintf("  %s: %s\n",
				m.styles.Header.Render(comment.AuthorName), comment.Body))
		}
	}

	b.WriteString(m.renderHelpLine("esc back"))
	return b.String()
}

// renderTicketForm shows the new-ticket form
func (m Model) renderTicketForm() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("New ticket"))
	b.WriteString("\n")

	if m.ticketForm.err != "" {
		b.WriteString(m.styles.Error.Render(m.ticketForm.err))
		b.WriteString("\n\n")
	}

	for _, field := range m.ticketForm.fields {
		b.WriteString(field.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelpLine("tab next field", "enter submit", "esc back"))
	return b.String()
}

// renderUsers shows the user management table
func (m Model) renderUsers() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Users"))
	b.WriteString("\n")

	header := fmt.Sprintf("%-6s %-28s %-20s %-18s", "ID", "EMAIL", "NAME", "ROLE")
	b.WriteString(m.styles.Header.Render(header))
	b.WriteString("\n")
	for i, user := range m.userList.Users {
		row := fmt.Sprintf("%-6d %-28s %-20s %-18s",
			user.ID, truncate(user.Email, 28), truncate(user.FullName(), 20), user.Role)
		if i == m.listCursor {
			b.WriteString(m.styles.Selected.Render(row))
		} else {
			b.WriteString(row)
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelpLine("↑/↓ move", "esc back"))
	return b.String()
}

// renderDepartments shows the department management table
func (m Model) renderDepartments() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Departments"))
	b.WriteString("\n")

	header := fmt.Sprintf("%-6s %-28s %-20s %-8s", "ID", "NAME", "MANAGER", "MEMBERS")
	b.WriteString(m.styles.Header.Render(header))
	b.WriteString("\n")
	for i, dept := range m.deptList {
		row := fmt.Sprintf("%-6d %-28s %-20s %-8d",
			dept.ID, truncate(dept.Name, 28), truncate(dept.ManagerName, 20), dept.MemberCount)
		if i == m.listCursor {
			b.WriteString(m.styles.Selected.Render(row))
		} else {
			b.WriteString(row)
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelpLine("↑/↓ move", "esc back"))
	return b.String()
}

// renderEquipment shows the equipment management table
func (m Model) renderEquipment() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Equipment"))
	b.WriteString("\n")

	header := fmt.Sprintf("%-6s %-26s %-16s %-12s", "ID", "NAME", "SERIAL", "STATUS")
	b.WriteString(m.styles.Header.Render(header))
	b.WriteString("\n")
	for i, item := range m.equipList.Equipment {
		row := fmt.Sprintf("%-6d %-26s %-16s %-12s",
			item.ID, truncate(item.Name, 26), truncate(item.SerialNumber, 16), item.Status)
		if i == m.listCursor {
			b.WriteString(m.styles.Selected.Render(row))
		} else {
			b.WriteString(row)
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelpLine("↑/↓ move", "esc back"))
	return b.String()
}

// renderProfile shows the current user's profile
func (m Model) renderProfile() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Profile"))
	b.WriteString("\n")

	user := m.snapshot.User
	if user == nil {
		b.WriteString(m.styles.Muted.Render("Not signed in."))
		b.WriteString("\n")
	} else {
		b.WriteString(renderField("Name", user.FullName()))
		b.WriteString(renderField("Email", user.Email))
		b.WriteString(renderField("Role", user.Role))
		b.WriteString(renderField("Department", user.DepartmentName))
	}

	b.WriteString(m.renderHelpLine("esc back"))
	return b.String()
}

// renderHelpLine joins key hints into a single muted line
func (m Model) renderHelpLine(hints ...string) string {
	return m.styles.Help.Render(strings.Join(hints, " · "))
}

func renderField(label, value string) string {
	return fmt.Sprintf("%-12s %s\n", label+":", value)
}

// truncate shortens a string to at most n runes with an ellipsis
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}
