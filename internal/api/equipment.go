package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// EquipmentItem represents a tracked piece of equipment
type EquipmentItem struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	SerialNumber   string `json:"serial_number"`
	Status         string `json:"status"`
	DepartmentID   int    `json:"department_id"`
	DepartmentName string `json:"department_name"`
	AssignedUserID int    `json:"assigned_user_id"`
}

// EquipmentList is the paginated equipment list response
type EquipmentList struct {
	Equipment  []EquipmentItem `json:"equipment"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}

// Equipment wraps the equipment endpoints
type Equipment struct {
	client *Client
}

// NewEquipment creates the equipment service over a configured client
func NewEquipment(client *Client) *Equipment {
	return &Equipment{client: client}
}

// List fetches equipment, optionally scoped to one department
func (e *Equipment) List(ctx context.Context, departmentID, page int) Result[EquipmentList] {
	query := url.Values{}
	if departmentID > 0 {
		query.Set("department_id", strconv.Itoa(departmentID))
	}
	if page > 1 {
		query.Set("page", strconv.Itoa(page))
	}

	path := "/equipment"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var list EquipmentList
	if err := e.client.get(ctx, path, &list); err != nil {
		return Err[EquipmentList](err)
	}
	return Ok(list)
}

// Get fetches a single equipment item by ID
func (e *Equipment) Get(ctx context.Context, id int) Result[EquipmentItem] {
	var item EquipmentItem
	if err := e.client.get(ctx, fmt.Sprintf("/equipment/%d", id), &item); err != nil {
		return Err[EquipmentItem](err)
	}
	return Ok(item)
}
