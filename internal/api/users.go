package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// UserList is the paginated user list response
type UserList struct {
	Users      []User `json:"users"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
}

// Users wraps the user-management endpoints (admin and department-manager
// surfaces)
type Users struct {
	client *Client
}

// NewUsers creates the user service over a configured client
func NewUsers(client *Client) *Users {
	return &Users{client: client}
}

// List fetches users, optionally scoped to one department
func (u *Users) List(ctx context.Context, departmentID, page int) Result[UserList] {
	query := url.Values{}
	if departmentID > 0 {
		query.Set("department_id", strconv.Itoa(departmentID))
	}
	if page > 1 {
		query.Set("page", strconv.Itoa(page))
	}

	path := "/users"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var list UserList
	if err := u.client.get(ctx, path, &list); err != nil {
		return Err[UserList](err)
	}
	return Ok(list)
}

// Get fetches a single user by ID
func (u *Users) Get(ctx context.Context, id int) Result[User] {
	var user User
	if err := u.client.get(ctx, fmt.Sprintf("/users/%d", id), &user); err != nil {
		return Err[User](err)
	}
	return Ok(user)
}

// UpdateRole reassigns a user's role
func (u *Users) UpdateRole(ctx context.Context, id int, role string) Result[User] {
	body := map[string]string{"role": role}
	var user User
	if err := u.client.patchJSON(ctx, fmt.Sprintf("/users/%d", id), body, &user); err != nil {
		return Err[User](err)
	}
	return Ok(user)
}
