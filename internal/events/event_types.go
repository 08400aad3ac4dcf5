package events

import (
	"time"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated    EventType = "issue_created"
	EventIssueUpdated    EventType = "issue_updated"
	EventIssueCritical   EventType = "critical_issue"
	EventRepairCompleted EventType = "repair_completed"
	EventPartsNeeded     EventType = "parts_needed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type     domain.SubjectType `json:"type"`
	DriverID *string            `json:"driver_id,omitempty"`
	StaffID  *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueID   string      `json:"issue_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueCreatedPayload payload.
type IssueCreatedPayload struct {
	Issue      domain.Issue `json:"issue"`
	DriverName string       `json:"driver_name"`
}

// IssueUpdatedPayload payload.
type IssueUpdatedPayload struct {
	Issue     domain.Issue       `json:"issue"`
	OldStatus domain.IssueStatus `json:"old_status"`
	Message   string             `json:"message,omitempty"`
}

// RepairCompletedPayload payload.
type RepairCompletedPayload struct {
	Issue     domain.Issue     `json:"issue"`
	WorkOrder domain.WorkOrder `json:"work_order"`
	Notes     string           `json:"notes,omitempty"`
}

// PartsNeededPayload payload.
type PartsNeededPayload struct {
	Issue         domain.Issue `json:"issue"`
	EstimatedCost float64      `json:"estimated_cost"`
	LeadTimeDays  int          `json:"lead_time_days"`
}
