package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Ticket statuses used by the platform
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// Ticket represents a support ticket
type Ticket struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	RequesterID    int       `json:"requester_id"`
	RequesterName  string    `json:"requester_name"`
	AssigneeID     int       `json:"assignee_id"`
	AssigneeName   string    `json:"assignee_name"`
	DepartmentID   int       `json:"department_id"`
	DepartmentName string    `json:"department_name"`
	EquipmentID    int       `json:"equipment_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TicketComment represents a comment on a ticket
type TicketComment struct {
	ID         int       `json:"id"`
	TicketID   int       `json:"ticket_id"`
	AuthorID   int       `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateTicketInput holds the new-ticket fields
type CreateTicketInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
	DepartmentID int    `json:"department_id,omitempty"`
	EquipmentID  int    `json:"equipment_id,omitempty"`
}

// TicketList is the paginated ticket list response
type TicketList struct {
	Tickets    []Ticket `json:"tickets"`
	TotalCount int      `json:"total_count"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
}

// TicketFilter narrows a ticket listing
type TicketFilter struct {
	// Status filters by ticket status, empty for all
	Status string
	// Mine restricts the listing to tickets the caller requested
	Mine bool
	// DepartmentID restricts the listing to one department, 0 for all
	DepartmentID int
	// Page selects the result page, 1-based
	Page int
}

// Tickets wraps the ticket endpoints
type Tickets struct {
	client *Client
}

// NewTickets creates the ticket service over a configured client
func NewTickets(client *Client) *Tickets {
	return &Tickets{client: client}
}

// List fetches tickets matching the filter
func (t *Tickets) List(ctx context.Context, filter TicketFilter) Result[TicketList] {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.Mine {
		query.Set("mine", "true")
	}
	if filter.DepartmentID > 0 {
		query.Set("department_id", strconv.Itoa(filter.DepartmentID))
	}
	if filter.Page > 1 {
		query.Set("page", strconv.Itoa(filter.Page))
	}

	path := "/tickets"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var list TicketList
	if err := t.client.get(ctx, path, &list); err != nil {
		return Err[TicketList](err)
	}
	return Ok(list)
}

// Get fetches a single ticket by ID
func (t *Tickets) Get(ctx context.Context, id int) Result[Ticket] {
	var ticket Ticket
	if err := t.client.get(ctx, fmt.Sprintf("/tickets/%d", id), &ticket); err != nil {
		return Err[Ticket](err)
	}
	return Ok(ticket)
}

// Create submits a new ticket
func (t *Tickets) Create(ctx context.Context, input CreateTicketInput) Result[Ticket] {
	var ticket Ticket
	if err := t.client.postJSON(ctx, "/tickets", input, &ticket); err != nil {
		return Err[Ticket](err)
	}
	return Ok(ticket)
}

// UpdateStatus moves a ticket to a new status
func (t *Tickets) UpdateStatus(ctx context.Context, id int, status string) Result[Ticket] {
	body := map[string]string{"status": status}
	var ticket Ticket
	if err := t.client.patchJSON(ctx, fmt.Sprintf("/tickets/%d", id), body, &ticket); err != nil {
		return Err[Ticket](err)
	}
	return Ok(ticket)
}

// Comments fetches the comment thread for a ticket
func (t *Tickets) Comments(ctx context.Context, id int) Result[[]TicketComment] {
	var comments []TicketComment
	if err := t.client.get(ctx, fmt.Sprintf("/tickets/%d/comments", id), &comments); err != nil {
		return Err[[]TicketComment](err)
	}
	return Ok(comments)
}

// AddComment appends a comment to a ticket
func (t *Tickets) AddComment(ctx context.Context, id int, body string) Result[TicketComment] {
	payload := map[string]string{"body": body}
	var comment TicketComment
	if err := t.client.postJSON(ctx, fmt.Sprintf("/tickets/%d/comments", id), payload, &comment); err != nil {
		return Err[TicketComment](err)
	}
	return Ok(comment)
}
