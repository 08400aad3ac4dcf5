package dto

import (
	"time"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

// CreateWorkOrderRequest opens a work order for a triaged issue.
type CreateWorkOrderRequest struct {
	AssigneeID   *string    `json:"assignee_id,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// CompleteWorkOrderRequest closes a work order.
type CompleteWorkOrderRequest struct {
	LaborHours *float64 `json:"labor_hours,omitempty"`
	PartsCost  *float64 `json:"parts_cost,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// FlagPartsRequest escalates a parts shortage.
type FlagPartsRequest struct {
	EstimatedCost float64 `json:"estimated_cost"`
	LeadTimeDays  int     `json:"lead_time_days"`
}

// WorkOrderResponse is the serialized work order.
type WorkOrderResponse struct {
	ID           string     `json:"id"`
	IssueID      string     `json:"issue_id"`
	AssigneeID   *string    `json:"assignee_id,omitempty"`
	Status       string     `json:"status"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	LaborHours   *float64   `json:"labor_hours,omitempty"`
	PartsCost    *float64   `json:"parts_cost,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FromWorkOrder maps the domain work order.
func FromWorkOrder(order *domain.WorkOrder) WorkOrderResponse {
	return WorkOrderResponse{
		ID:           order.ID,
		IssueID:      order.IssueID,
		AssigneeID:   order.AssigneeID,
		Status:       string(order.Status),
		ScheduledFor: order.ScheduledFor,
		LaborHours:   order.LaborHours,
		PartsCost:    order.PartsCost,
		Notes:        order.Notes,
		CompletedAt:  order.CompletedAt,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

// FromWorkOrders maps a list.
func FromWorkOrders(orders []domain.WorkOrder) []WorkOrderResponse {
	out := make([]WorkOrderResponse, len(orders))
	for i := range orders {
		out[i] = FromWorkOrder(&orders[i])
	}
	return out
}
