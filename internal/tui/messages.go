package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opsdesk/deskctl/internal/api"
	"github.com/opsdesk/deskctl/internal/session"
)

// Messages emitted by background commands

// bootstrapDoneMsg carries the settled session state after startup
type bootstrapDoneMsg struct {
	Snapshot session.Snapshot
}

// sessionChangedMsg is delivered whenever the session context settles a new
// state, including the forced teardown after a 401
type sessionChangedMsg struct {
	Snapshot session.Snapshot
}

// loginResultMsg carries the outcome of a login attempt
type loginResultMsg struct {
	Snapshot session.Snapshot
}

// registerResultMsg carries the outcome of a registration attempt
type registerResultMsg struct {
	Result api.Result[api.User]
}

// ticketsLoadedMsg carries a ticket listing
type ticketsLoadedMsg struct {
	Result api.Result[api.TicketList]
}

// ticketLoadedMsg carries one ticket plus its comment thread
type ticketLoadedMsg struct {
	Ticket   api.Result[api.Ticket]
	Comments api.Result[[]api.TicketComment]
}

// ticketCreatedMsg carries the outcome of a ticket submission
type ticketCreatedMsg struct {
	Result api.Result[api.Ticket]
}

// usersLoadedMsg carries a user listing
type usersLoadedMsg struct {
	Result api.Result[api.UserList]
}

// departmentsLoadedMsg carries the department listing
type departmentsLoadedMsg struct {
	Result api.Result[[]api.Department]
}

// equipmentLoadedMsg carries an equipment listing
type equipmentLoadedMsg struct {
	Result api.Result[api.EquipmentList]
}

// Commands

// bootstrapCmd resolves the stored token into a settled session state
func (m Model) bootstrapCmd() tea.Cmd {
	return func() tea.Msg {
		return bootstrapDoneMsg{Snapshot: m.sess.Bootstrap(m.ctx)}
	}
}

// waitSessionCmd blocks on the session-change channel. The session context
// subscription pushes snapshots from arbitrary goroutines; this command is
// how they re-enter the event loop. It re-arms itself after every receive.
func waitSessionCmd(ch <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return sessionChangedMsg{Snapshot: snap}
	}
}

// loginCmd runs the two-step login (credential exchange then profile fetch)
func (m Model) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		return loginResultMsg{Snapshot: m.sess.Login(m.ctx, email, password)}
	}
}

// logoutCmd clears credentials and resets the session
func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return sessionChangedMsg{Snapshot: m.sess.Logout(m.ctx)}
	}
}

// registerCmd submits a new account
func (m Model) registerCmd(input api.RegisterInput) tea.Cmd {
	return func() tea.Msg {
		return registerResultMsg{Result: m.auth.Register(m.ctx, input)}
	}
}

// loadTicketsCmd fetches a ticket listing
func (m Model) loadTicketsCmd(filter api.TicketFilter) tea.Cmd {
	return func() tea.Msg {
		return ticketsLoadedMsg{Result: m.tickets.List(m.ctx, filter)}
	}
}

// loadTicketCmd fetches one ticket and its comments
func (m Model) loadTicketCmd(id int) tea.Cmd {
	return func() tea.Msg {
		return ticketLoadedMsg{
			Ticket:   m.tickets.Get(m.ctx, id),
			Comments: m.tickets.Comments(m.ctx, id),
		}
	}
}

// createTicketCmd submits a new ticket
func (m Model) createTicketCmd(input api.CreateTicketInput) tea.Cmd {
	return func() tea.Msg {
		return ticketCreatedMsg{Result: m.tickets.Create(m.ctx, input)}
	}
}

// loadUsersCmd fetches a user listing, scoped to a department for managers
func (m Model) loadUsersCmd(departmentID int) tea.Cmd {
	return func() tea.Msg {
		return usersLoadedMsg{Result: m.users.List(m.ctx, departmentID, 1)}
	}
}

// loadDepartmentsCmd fetches the department listing
func (m Model) loadDepartmentsCmd() tea.Cmd {
	return func() tea.Msg {
		return departmentsLoadedMsg{Result: m.departments.List(m.ctx)}
	}
}

// loadEquipmentCmd fetches an equipment listing
func (m Model) loadEquipmentCmd(departmentID int) tea.Cmd {
	return func() tea.Msg {
		return equipmentLoadedMsg{Result: m.equipment.List(m.ctx, departmentID, 1)}
	}
}

// subscribeSession wires the session context into the returned channel.
// Buffered so a settle never blocks on a slow UI.
func subscribeSession(sess *session.Context) chan session.Snapshot {
	ch := make(chan session.Snapshot, 8)
	sess.Subscribe(func(snap session.Snapshot) {
		select {
		case ch <- snap:
		default:
		}
	})
	return ch
}
