package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/deskctl/internal/api"
	"github.com/opsdesk/deskctl/internal/menu"
	"github.com/opsdesk/deskctl/internal/session"
	"github.com/opsdesk/deskctl/internal/token"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, time.Second, token.NewMemStore())
	sess := session.NewContext(client, nil)
	return New(context.Background(), client, sess)
}

func authedSnapshot(role string) session.Snapshot {
	return session.Snapshot{
		State: session.StateAuthenticated,
		User: &api.User{
			ID:        7,
			Email:     "a@b.com",
			Role:      role,
			FirstName: "Ada",
			LastName:  "Byron",
		},
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestBootstrapDone_ShowsMenuForRole(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(bootstrapDoneMsg{Snapshot: authedSnapshot("admin")})
	m = updated.(Model)

	assert.Equal(t, ScreenMenu, m.screen)
	assert.True(t, menu.Contains(m.entries, menu.EntryUserManagement))
	assert.True(t, menu.Contains(m.entries, menu.EntryDepartmentManagement))
	assert.Contains(t, m.notice, "Ada Byron")
}

func TestBootstrapDone_UnauthenticatedMenu(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(bootstrapDoneMsg{Snapshot: session.Snapshot{State: session.StateUnauthenticated}})
	m = updated.(Model)

	assert.Equal(t, ScreenMenu, m.screen)
	assert.True(t, menu.Contains(m.entries, menu.EntryLogin))
	assert.True(t, menu.Contains(m.entries, menu.EntryRegister))
	assert.False(t, menu.Contains(m.entries, menu.EntryMyTickets))
}

func TestSessionChange_RecomposesMenuOnRoleChange(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(bootstrapDoneMsg{Snapshot: authedSnapshot("user")})
	m = updated.(Model)
	require.False(t, menu.Contains(m.entries, menu.EntryAllTickets))

	updated, _ = m.Update(sessionChangedMsg{Snapshot: authedSnapshot("support")})
	m = updated.(Model)

	assert.True(t, menu.Contains(m.entries, menu.EntryAllTickets))
	assert.True(t, menu.Contains(m.entries, menu.EntryActiveTickets))
}

func TestSessionChange_ForcedExpiryResetsToLogin(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(bootstrapDoneMsg{Snapshot: authedSnapshot("support")})
	m = updated.(Model)

	// Navigate somewhere deep first
	m.screen = ScreenTicketDetail

	expired := session.Snapshot{
		State: session.StateUnauthenticated,
		Err:   session.SessionExpiredMessage,
	}
	updated, cmd := m.Update(sessionChangedMsg{Snapshot: expired})
	m = updated.(Model)

	assert.Equal(t, ScreenLogin, m.screen)
	assert.Equal(t, session.SessionExpiredMessage, m.login.err)
	assert.False(t, menu.Contains(m.entries, menu.EntryMyTickets))
	require.NotNil(t, cmd, "session listener must be re-armed")
}

func TestSessionChange_VoluntaryLogoutReturnsToMenu(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(bootstrapDoneMsg{Snapshot: authedSnapshot("user")})
	m = updated.(Model)
	m.screen = ScreenTickets

	updated, _ = m.Update(sessionChangedMsg{Snapshot: session.Snapshot{State: session.StateUnauthenticated}})
	m = updated.(Model)

	// A plain logout is not the expiry path: no blocking notice, back to
	// the (now unauthenticated) menu
	assert.Equal(t, ScreenMenu, m.screen)
	assert.Empty(t, m.login.err)
	assert.True(t, menu.Contains(m.entries, menu.EntryLogin))
}

func TestMenuNavigation(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(bootstrapDoneMsg{Snapshot: session.Snapshot{State: session.StateUnauthenticated}})
	m = updated.(Model)
	require.Equal(t, 0, m.cursor)

	updated, _ = m.Update(keyRune('j'))
	m = updated.(Model)
	assert.Equal(t, 1, m.cursor)

	// Cursor clamps at the last entry
	updated, _ = m.Update(keyRune('j'))
	m = updated.(Model)
	assert.Equal(t, 1, m.cursor)

	updated, _ = m.Update(keyRune('k'))
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)
}

func TestMenuEnter_OpensLogin(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(bootstrapDoneMsg{Snapshot: session.Snapshot{State: session.StateUnauthenticated}})
	m = updated.(Model)
	require.Equal(t, menu.EntryLogin, m.entries[0].ID)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Equal(t, ScreenLogin, m.screen)
}

func TestLoginResult_FailureStaysOnForm(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenLogin

	failed := session.Snapshot{
		State: session.StateUnauthenticated,
		Err:   "Invalid email or password.",
	}
	updated, _ := m.Update(loginResultMsg{Snapshot: failed})
	m = updated.(Model)

	assert.Equal(t, ScreenLogin, m.screen)
	assert.Equal(t, "Invalid email or password.", m.login.err)
}

func TestLoginResult_SuccessShowsMenu(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenLogin

	updated, _ := m.Update(loginResultMsg{Snapshot: authedSnapshot("user")})
	m = updated.(Model)

	assert.Equal(t, ScreenMenu, m.screen)
	assert.True(t, menu.Contains(m.entries, menu.EntryMyTickets))
	assert.Contains(t, m.notice, "Ada Byron")
}

func TestManagementScope(t *testing.T) {
	m := newTestModel(t)

	snap := authedSnapshot("department_manager")
	snap.User.DepartmentID = 3
	m.snapshot = snap
	assert.Equal(t, 3, m.managementScope())

	snap = authedSnapshot("admin")
	snap.User.DepartmentID = 3
	m.snapshot = snap
	assert.Equal(t, 0, m.managementScope(), "admins are not department-scoped")
}

func TestEscReturnsToMenuFromList(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(bootstrapDoneMsg{Snapshot: authedSnapshot("user")})
	m = updated.(Model)
	m.screen = ScreenTickets
	m.errText = "stale"

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)

	assert.Equal(t, ScreenMenu, m.screen)
	assert.Empty(t, m.errText)
}
