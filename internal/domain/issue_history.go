package domain

import "time"

// ActorType identifies who performed a recorded change.
type ActorType string

const (
	ActorTypeDriver ActorType = "DRIVER"
	ActorTypeStaff  ActorType = "STAFF"
	ActorTypeSystem ActorType = "SYSTEM"
)

// ChangeType categorizes issue history entries.
type ChangeType string

const (
	ChangeTypeStatus   ChangeType = "STATUS"
	ChangeTypeSeverity ChangeType = "SEVERITY"
	ChangeTypeSchedule ChangeType = "SCHEDULE"
)

// IssueHistory records an audited change applied to an issue.
type IssueHistory struct {
	ID          string
	IssueID     string
	ChangedBy   *string
	ChangedType ActorType
	ChangeType  ChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}
