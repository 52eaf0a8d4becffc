package api

import (
	"context"
	"fmt"
)

// Department represents an organizational department
type Department struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ManagerID   int    `json:"manager_id"`
	ManagerName string `json:"manager_name"`
	MemberCount int    `json:"member_count"`
}

// Departments wraps the department endpoints
type Departments struct {
	client *Client
}

// NewDepartments creates the department service over a configured client
func NewDepartments(client *Client) *Departments {
	return &Departments{client: client}
}

// List fetches all departments
func (d *Departments) List(ctx context.Context) Result[[]Department] {
	var departments []Department
	if err := d.client.get(ctx, "/departments", &departments); err != nil {
		return Err[[]Department](err)
	}
	return Ok(departments)
}

// Get fetches a single department by ID
func (d *Departments) Get(ctx context.Context, id int) Result[Department] {
	var department Department
	if err := d.client.get(ctx, fmt.Sprintf("/departments/%d", id), &department); err != nil {
		return Err[Department](err)
	}
	return Ok(department)
}

// Create adds a new department
func (d *Departments) Create(ctx context.Context, name string) Result[Department] {
	body := map[string]string{"name": name}
	var department Department
	if err := d.client.postJSON(ctx, "/departments", body, &department); err != nil {
		return Err[Department](err)
	}
	return Ok(department)
}
