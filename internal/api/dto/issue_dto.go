package dto

import (
	"time"

	"github.com/fleet-kit/maintenance-service/internal/domain"
	"github.com/fleet-kit/maintenance-service/internal/service"
	"github.com/fleet-kit/maintenance-service/internal/triage"
)

// CreateIssueRequest is the driver-facing report payload.
type CreateIssueRequest struct {
	FleetNumber   string   `json:"fleet_number"`
	Category      string   `json:"category"`
	Severity      string   `json:"severity"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Location      string   `json:"location"`
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
}

// UpdateIssueStatusRequest transitions an issue.
type UpdateIssueStatusRequest struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// UpdateIssueSeverityRequest adjusts severity after review.
type UpdateIssueSeverityRequest struct {
	Severity string `json:"severity"`
}

// IssueResponse is the serialized issue.
type IssueResponse struct {
	ID            string     `json:"id"`
	ExternalKey   string     `json:"external_key"`
	DriverID      string     `json:"driver_id"`
	FleetNumber   string     `json:"fleet_number"`
	Category      string     `json:"category"`
	Severity      string     `json:"severity"`
	Status        string     `json:"status"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Location      string     `json:"location,omitempty"`
	EstimatedCost *float64   `json:"estimated_cost,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

// PriorityResponse is the serialized triage verdict.
type PriorityResponse struct {
	Score             int      `json:"score"`
	Tier              string   `json:"tier"`
	Reasoning         []string `json:"reasoning"`
	RecommendedAction string   `json:"recommended_action"`
	EstimatedImpact   string   `json:"estimated_impact"`
}

// RankedIssueResponse pairs an issue with its priority.
type RankedIssueResponse struct {
	Issue    IssueResponse    `json:"issue"`
	Priority PriorityResponse `json:"priority"`
}

// IssueHistoryResponse is one audit entry.
type IssueHistoryResponse struct {
	ID          string         `json:"id"`
	ChangedBy   *string        `json:"changed_by,omitempty"`
	ChangedType string         `json:"changed_by_type"`
	ChangeType  string         `json:"change_type"`
	OldValue    map[string]any `json:"old_value,omitempty"`
	NewValue    map[string]any `json:"new_value,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// FromIssue maps the domain issue.
func FromIssue(issue *domain.Issue) IssueResponse {
	return IssueResponse{
		ID:            issue.ID,
		ExternalKey:   issue.ExternalKey,
		DriverID:      issue.DriverID,
		FleetNumber:   issue.FleetNumber,
		Category:      string(issue.Category),
		Severity:      string(issue.Severity),
		Status:        string(issue.Status),
		Title:         issue.Title,
		Description:   issue.Description,
		Location:      issue.Location,
		EstimatedCost: issue.EstimatedCost,
		CreatedAt:     issue.CreatedAt,
		UpdatedAt:     issue.UpdatedAt,
		ResolvedAt:    issue.ResolvedAt,
	}
}

// FromIssues maps a list of domain issues.
func FromIssues(issues []domain.Issue) []IssueResponse {
	out := make([]IssueResponse, len(issues))
	for i := range issues {
		out[i] = FromIssue(&issues[i])
	}
	return out
}

// FromPriority maps a computed priority.
func FromPriority(priority triage.PriorityScore) PriorityResponse {
	return PriorityResponse{
		Score:             priority.Score,
		Tier:              string(priority.Tier),
		Reasoning:         priority.Reasoning,
		RecommendedAction: priority.RecommendedAction,
		EstimatedImpact:   priority.EstimatedImpact,
	}
}

// FromRankedIssues maps a triage ranking.
func FromRankedIssues(ranked []service.RankedIssue) []RankedIssueResponse {
	out := make([]RankedIssueResponse, len(ranked))
	for i := range ranked {
		out[i] = RankedIssueResponse{
			Issue:    FromIssue(&ranked[i].Issue),
			Priority: FromPriority(ranked[i].Priority),
		}
	}
	return out
}

// FromHistory maps audit entries.
func FromHistory(entries []domain.IssueHistory) []IssueHistoryResponse {
	out := make([]IssueHistoryResponse, len(entries))
	for i, entry := range entries {
		out[i] = IssueHistoryResponse{
			ID:          entry.ID,
			ChangedBy:   entry.ChangedBy,
			ChangedType: string(entry.ChangedType),
			ChangeType:  string(entry.ChangeType),
			OldValue:    entry.OldValue,
			NewValue:    entry.NewValue,
			CreatedAt:   entry.CreatedAt,
		}
	}
	return out
}
