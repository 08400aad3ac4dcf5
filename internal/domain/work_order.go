package domain

import "time"

// WorkOrderStatus enumerates repair scheduling states.
type WorkOrderStatus string

const (
	WorkOrderStatusOpen       WorkOrderStatus = "OPEN"
	WorkOrderStatusInProgress WorkOrderStatus = "IN_PROGRESS"
	WorkOrderStatusCompleted  WorkOrderStatus = "COMPLETED"
	WorkOrderStatusCancelled  WorkOrderStatus = "CANCELLED"
)

// WorkOrder is the scheduled repair derived from a triaged issue.
type WorkOrder struct {
	ID           string
	IssueID      string
	AssigneeID   *string
	Status       WorkOrderStatus
	ScheduledFor *time.Time
	LaborHours   *float64
	PartsCost    *float64
	Notes        string
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
