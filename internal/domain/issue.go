package domain

import "time"

// IssueStatus enumerates lifecycle states for reported issues.
type IssueStatus string

const (
	IssueStatusReported  IssueStatus = "REPORTED"
	IssueStatusTriaged   IssueStatus = "TRIAGED"
	IssueStatusScheduled IssueStatus = "SCHEDULED"
	IssueStatusInRepair  IssueStatus = "IN_REPAIR"
	IssueStatusCompleted IssueStatus = "COMPLETED"
	IssueStatusCancelled IssueStatus = "CANCELLED"
)

// IssueSeverity enumerates reported problem severity.
type IssueSeverity string

const (
	SeverityLow      IssueSeverity = "LOW"
	SeverityMedium   IssueSeverity = "MEDIUM"
	SeverityHigh     IssueSeverity = "HIGH"
	SeverityCritical IssueSeverity = "CRITICAL"
)

// IssueCategory groups issues by affected vehicle system.
type IssueCategory string

const (
	CategoryEngine       IssueCategory = "ENGINE"
	CategoryBrakes       IssueCategory = "BRAKES"
	CategoryTires        IssueCategory = "TIRES"
	CategoryElectrical   IssueCategory = "ELECTRICAL"
	CategoryTransmission IssueCategory = "TRANSMISSION"
	CategoryBody         IssueCategory = "BODY"
	CategoryOther        IssueCategory = "OTHER"
)

// Issue is the aggregate for vehicle problem reports.
type Issue struct {
	ID            string
	ExternalKey   string
	DriverID      string
	FleetNumber   string
	Category      IssueCategory
	Severity      IssueSeverity
	Status        IssueStatus
	Title         string
	Description   string
	Location      string
	EstimatedCost *float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ResolvedAt    *time.Time
}
