// Package menu composes the navigation entries visible to the current user.
//
// Composition is a pure function of role and authentication state: no
// session access, no I/O. The navigator re-runs it whenever the session
// user changes, so a role reassignment mid-session immediately changes the
// available entries.
package menu

import "strings"

// Role is the canonical, lower-case user role.
//
// The platform has been observed sending role strings in mixed casing, so
// every comparison goes through ParseRole and nothing else.
type Role string

const (
	// RoleUser is the baseline role with no extra entries
	RoleUser Role = "user"
	// RoleAdmin manages users, departments, and equipment
	RoleAdmin Role = "admin"
	// RoleDepartmentManager manages a single department's users, tickets,
	// and equipment
	RoleDepartmentManager Role = "department_manager"
	// RoleSupport works the global ticket queues
	RoleSupport Role = "support"
)

// ParseRole normalizes a wire role string to its canonical Role.
// Unknown or empty strings degrade to RoleUser, never to an error.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin
	case "department_manager", "manager":
		return RoleDepartmentManager
	case "support":
		return RoleSupport
	default:
		return RoleUser
	}
}

// EntryID identifies a navigation entry
type EntryID string

// Navigation entry identifiers
const (
	EntryLogin               EntryID = "login"
	EntryRegister            EntryID = "register"
	EntryDashboard           EntryID = "dashboard"
	EntryMyTickets           EntryID = "my_tickets"
	EntryNewTicket           EntryID = "new_ticket"
	EntryAllTickets          EntryID = "all_tickets"
	EntryActiveTickets       EntryID = "active_tickets"
	EntryDepartmentTickets   EntryID = "department_tickets"
	EntryUserManagement      EntryID = "user_management"
	EntryDepartmentManagement EntryID = "department_management"
	EntryEquipmentManagement EntryID = "equipment_management"
	EntryProfile             EntryID = "profile"
	EntryLogout              EntryID = "logout"
)

// Entry is a single navigation item
type Entry struct {
	ID    EntryID
	Title string
}

// Compose returns the ordered navigation entries visible for the given role
// and authentication state. An unknown role yields the baseline entries, so
// a misbehaving backend can degrade the menu but never empty it.
func Compose(role Role, authenticated bool) []Entry {
	if !authenticated {
		return []Entry{
			{ID: EntryLogin, Title: "Log in"},
			{ID: EntryRegister, Title: "Register"},
		}
	}

	entries := []Entry{
		{ID: EntryDashboard, Title: "Dashboard"},
		{ID: EntryMyTickets, Title: "My tickets"},
		{ID: EntryNewTicket, Title: "New ticket"},
	}

	switch role {
	case RoleAdmin:
		entries = append(entries,
			Entry{ID: EntryUserManagement, Title: "Users"},
			Entry{ID: EntryDepartmentManagement, Title: "Departments"},
			Entry{ID: EntryEquipmentManagement, Title: "Equipment"},
		)
	case RoleDepartmentManager:
		entries = append(entries,
			Entry{ID: EntryDepartmentTickets, Title: "Department tickets"},
			Entry{ID: EntryUserManagement, Title: "Department users"},
			Entry{ID: EntryEquipmentManagement, Title: "Department equipment"},
		)
	case RoleSupport:
		entries = append(entries,
			Entry{ID: EntryAllTickets, Title: "All tickets"},
			Entry{ID: EntryActiveTickets, Title: "Active tickets"},
		)
	}

	entries = append(entries,
		Entry{ID: EntryProfile, Title: "Profile"},
		Entry{ID: EntryLogout, Title: "Log out"},
	)
	return entries
}

// Contains reports whether the entry list includes the given ID
func Contains(entries []Entry, id EntryID) bool {
	for _, e := range entries {
		if e.ID == id {
			return true
		}
	}
	return false
}
