// Package tui is the interactive terminal UI for deskctl.
//
// A single root Model owns navigation: it renders the role-gated menu,
// swaps the active screen, and resets to the login screen when the session
// context reports a forced teardown. Screens never talk to the session
// context directly; they emit messages and the root model reacts.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opsdesk/deskctl/internal/api"
	"github.com/opsdesk/deskctl/internal/menu"
	"github.com/opsdesk/deskctl/internal/session"
)

// Screen identifies the active screen
type Screen int

// Screen constants
const (
	// ScreenBootstrap is shown while the stored token is validated
	ScreenBootstrap Screen = iota
	// ScreenMenu is the navigation menu
	ScreenMenu
	// ScreenLogin is the email/password form
	ScreenLogin
	// ScreenRegister is the new-account form
	ScreenRegister
	// ScreenDashboard is the landing screen after login
	ScreenDashboard
	// ScreenTickets is a ticket listing
	ScreenTickets
	// ScreenTicketDetail shows one ticket with its comments
	ScreenTicketDetail
	// ScreenNewTicket is the ticket submission form
	ScreenNewTicket
	// ScreenUsers is the user management table
	ScreenUsers
	// ScreenDepartments is the department management table
	ScreenDepartments
	// ScreenEquipment is the equipment management table
	ScreenEquipment
	// ScreenProfile shows the current user's profile
	ScreenProfile
)

// Model is the root TUI model
type Model struct {
	ctx context.Context

	// Session and services
	sess        *session.Context
	auth        *api.Auth
	tickets     *api.Tickets
	users       *api.Users
	departments *api.Departments
	equipment   *api.Equipment

	// Session state mirrored from the session context
	snapshot  session.Snapshot
	sessionCh chan session.Snapshot

	// Navigation state
	screen  Screen
	entries []menu.Entry
	cursor  int
	notice  string
	errText string
	loading bool

	// Screen state
	login      loginForm
	register   registerForm
	ticketForm ticketForm
	ticketList api.TicketList
	listCursor int
	listTitle  string
	ticket     api.Ticket
	comments   []api.TicketComment
	userList   api.UserList
	deptList   []api.Department
	equipList  api.EquipmentList

	// UI chrome
	spin     spinner.Model
	styles   Styles
	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates the root model over an already-configured API client
func New(ctx context.Context, client *api.Client, sess *session.Context) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:         ctx,
		sess:        sess,
		auth:        api.NewAuth(client),
		tickets:     api.NewTickets(client),
		users:       api.NewUsers(client),
		departments: api.NewDepartments(client),
		equipment:   api.NewEquipment(client),
		sessionCh:   subscribeSession(sess),
		screen:      ScreenBootstrap,
		login:       newLoginForm(),
		register:    newRegisterForm(),
		ticketForm:  newTicketForm(),
		spin:        sp,
		styles:      DefaultStyles(),
	}
}

// Init starts the bootstrap sequence and the session-change listener
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.bootstrapCmd(), waitSessionCmd(m.sessionCh), m.spin.Tick)
}

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case bootstrapDoneMsg:
		m.snapshot = msg.Snapshot
		m.recomposeMenu()
		m.screen = ScreenMenu
		if msg.Snapshot.Authenticated() {
			m.notice = "Welcome back, " + msg.Snapshot.User.FullName()
		}
		return m, nil

	case sessionChangedMsg:
		return m.handleSessionChange(msg.Snapshot)

	case loginResultMsg:
		m.loading = false
		m.snapshot = msg.Snapshot
		m.recomposeMenu()
		if !msg.Snapshot.Authenticated() {
			m.login.err = msg.Snapshot.Err
			return m, nil
		}
		m.login = newLoginForm()
		m.screen = ScreenMenu
		m.cursor = 0
		m.notice = "Logged in as " + msg.Snapshot.User.FullName()
		return m, nil

	case registerResultMsg:
		m.loading = false
		if !msg.Result.OK {
			m.register.err = msg.Result.Message
			return m, nil
		}
		// Registration does not authenticate the new account
		m.register = newRegisterForm()
		m.screen = ScreenLogin
		m.notice = "Account created. Please log in."
		return m, nil

	case ticketsLoadedMsg:
		m.loading = false
		if !msg.Result.OK {
			m.errText = msg.Result.Message
			return m, nil
		}
		m.errText = ""
		m.ticketList = msg.Result.Data
		m.listCursor = 0
		m.screen = ScreenTickets
		return m, nil

	case ticketLoadedMsg:
		m.loading = false
		if !msg.Ticket.OK {
			m.errText = msg.Ticket.Message
			return m, nil
		}
		m.errText = ""
		m.ticket = msg.Ticket.Data
		if msg.Comments.OK {
			m.comments = msg.Comments.Data
		} else {
			m.comments = nil
		}
		m.screen = ScreenTicketDetail
		return m, nil

	case ticketCreatedMsg:
		m.loading = false
		if !msg.Result.OK {
			m.ticketForm.err = msg.Result.Message
			return m, nil
		}
		m.ticketForm = newTicketForm()
		m.notice = "Ticket created."
		m.screen = ScreenMenu
		return m, nil

	case usersLoadedMsg:
		m.loading = false
		if !msg.Result.OK {
			m.errText = msg.Result.Message
			return m, nil
		}
		m.errText = ""
		m.userList = msg.Result.Data
		m.listCursor = 0
		m.screen = ScreenUsers
		return m, nil

	case departmentsLoadedMsg:
		m.loading = false
		if !msg.Result.OK {
			m.errText = msg.Result.Message
			return m, nil
		}
		m.errText = ""
		m.deptList = msg.Result.Data
		m.listCursor = 0
		m.screen = ScreenDepartments
		return m, nil

	case equipmentLoadedMsg:
		m.loading = false
		if !msg.Result.OK {
			m.errText = msg.Result.Message
			return m, nil
		}
		m.errText = ""
		m.equipList = msg.Result.Data
		m.listCursor = 0
		m.screen = ScreenEquipment
		return m, nil
	}

	return m, nil
}

// handleSessionChange reacts to session context settles, including the
// forced teardown published by the API client after a 401
func (m Model) handleSessionChange(snap session.Snapshot) (tea.Model, tea.Cmd) {
	wasAuthed := m.snapshot.Authenticated()
	m.snapshot = snap
	m.recomposeMenu()

	// Forced expiry: reset navigation to the login screen, discarding
	// whatever screen was active, and surface the blocking notice.
	if wasAuthed && !snap.Authenticated() && snap.Err == session.SessionExpiredMessage {
		m.screen = ScreenLogin
		m.login = newLoginForm()
		m.login.err = snap.Err
		m.cursor = 0
		m.notice = ""
		return m, waitSessionCmd(m.sessionCh)
	}

	if !snap.Authenticated() && m.screenRequiresAuth() {
		m.screen = ScreenMenu
		m.cursor = 0
	}
	return m, waitSessionCmd(m.sessionCh)
}

// screenRequiresAuth reports whether the active screen shows
// authenticated-only data
func (m Model) screenRequiresAuth() bool {
	switch m.screen {
	case ScreenBootstrap, ScreenMenu, ScreenLogin, ScreenRegister:
		return false
	default:
		return true
	}
}

// recomposeMenu rebuilds the visible entries from the current session user.
// Runs on every session change so role edits take effect immediately.
func (m *Model) recomposeMenu() {
	role := menu.RoleUser
	if m.snapshot.User != nil {
		role = menu.ParseRole(m.snapshot.User.Role)
	}
	m.entries = menu.Compose(role, m.snapshot.Authenticated())
	if m.cursor >= len(m.entries) {
		m.cursor = 0
	}
}

// handleKey routes keyboard input to the active screen
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenLogin:
		return m.updateLogin(msg)
	case ScreenRegister:
		return m.updateRegister(msg)
	case ScreenNewTicket:
		return m.updateTicketForm(msg)
	case ScreenMenu:
		return m.updateMenu(msg)
	default:
		return m.updateListScreens(msg)
	}
}

// updateMenu handles navigation within the menu
func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(m.entries) {
			return m.openEntry(m.entries[m.cursor].ID)
		}
	}
	return m, nil
}

// openEntry activates a navigation entry
func (m Model) openEntry(id menu.EntryID) (tea.Model, tea.Cmd) {
	m.notice = ""
	m.errText = ""

	switch id {
	case menu.EntryLogin:
		m.screen = ScreenLogin
		m.login = newLoginForm()
		return m, m.login.focusCmd()

	case menu.EntryRegister:
		m.screen = ScreenRegister
		m.register = newRegisterForm()
		return m, m.register.focusCmd()

	case menu.EntryDashboard:
		m.loading = true
		m.listTitle = "Recent tickets"
		return m, m.loadTicketsCmd(api.TicketFilter{Mine: true})

	case menu.EntryMyTickets:
		m.loading = true
		m.listTitle = "My tickets"
		return m, m.loadTicketsCmd(api.TicketFilter{Mine: true})

	case menu.EntryNewTicket:
		m.screen = ScreenNewTicket
		m.ticketForm = newTicketForm()
		return m, m.ticketForm.focusCmd()

	case menu.EntryAllTickets:
		m.loading = true
		m.listTitle = "All tickets"
		return m, m.loadTicketsCmd(api.TicketFilter{})

	case menu.EntryActiveTickets:
		m.loading = true
		m.listTitle = "Active tickets"
		return m, m.loadTicketsCmd(api.TicketFilter{Status: TicketFilterActive})

	case menu.EntryDepartmentTickets:
		m.loading = true
		m.listTitle = "Department tickets"
		return m, m.loadTicketsCmd(api.TicketFilter{DepartmentID: m.departmentScope()})

	case menu.EntryUserManagement:
		m.loading = true
		return m, m.loadUsersCmd(m.managementScope())

	case menu.EntryDepartmentManagement:
		m.loading = true
		return m, m.loadDepartmentsCmd()

	case menu.EntryEquipmentManagement:
		m.loading = true
		return m, m.loadEquipmentCmd(m.managementScope())

	case menu.EntryProfile:
		m.screen = ScreenProfile
		return m, nil

	case menu.EntryLogout:
		return m, m.logoutCmd()
	}

	return m, nil
}

// TicketFilterActive is the virtual status covering open and in-progress
// tickets
const TicketFilterActive = "active"

// departmentScope returns the current user's department ID
func (m Model) departmentScope() int {
	if m.snapshot.User == nil {
		return 0
	}
	return m.snapshot.User.DepartmentID
}

// managementScope returns the department restriction for management
// screens: admins see everything, department managers only their own
func (m Model) managementScope() int {
	if m.snapshot.User == nil {
		return 0
	}
	if menu.ParseRole(m.snapshot.User.Role) == menu.RoleDepartmentManager {
		return m.snapshot.User.DepartmentID
	}
	return 0
}

// updateListScreens handles keys on listing and detail screens
func (m Model) updateListScreens(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.screen = ScreenMenu
		m.errText = ""
		return m, nil
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.listCursor > 0 {
			m.listCursor--
		}
	case "down", "j":
		if m.listCursor < m.listLen()-1 {
			m.listCursor++
		}
	case "enter":
		if m.screen == ScreenTickets && m.listCursor < len(m.ticketList.Tickets) {
			m.loading = true
			return m, m.loadTicketCmd(m.ticketList.Tickets[m.listCursor].ID)
		}
	}
	return m, nil
}

// listLen returns the row count of the active listing
func (m Model) listLen() int {
	switch m.screen {
	case ScreenTickets:
		return len(m.ticketList.Tickets)
	case ScreenUsers:
		return len(m.userList.Users)
	case ScreenDepartments:
		return len(m.deptList)
	case ScreenEquipment:
		return len(m.equipList.Equipment)
	default:
		return 0
	}
}
