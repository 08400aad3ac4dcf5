package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/fleet-kit/maintenance-service/internal/domain"
	"github.com/fleet-kit/maintenance-service/internal/events"
	"github.com/fleet-kit/maintenance-service/internal/repository"
	apperrors "github.com/fleet-kit/maintenance-service/pkg/util"
)

// allowedTransitions encodes the issue lifecycle state machine.
var allowedTransitions = map[domain.IssueStatus][]domain.IssueStatus{
	domain.IssueStatusReported:  {domain.IssueStatusTriaged, domain.IssueStatusCancelled},
	domain.IssueStatusTriaged:   {domain.IssueStatusScheduled, domain.IssueStatusCancelled},
	domain.IssueStatusScheduled: {domain.IssueStatusInRepair, domain.IssueStatusCancelled},
	domain.IssueStatusInRepair:  {domain.IssueStatusCompleted, domain.IssueStatusCancelled},
	domain.IssueStatusCompleted: {},
	domain.IssueStatusCancelled: {},
}

// IssueService implements issue intake and lifecycle management.
type IssueService struct {
	issues     repository.IssueRepository
	vehicles   repository.VehicleRepository
	drivers    repository.DriverRepository
	history    repository.IssueHistoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// IssueServiceDeps lists dependencies for the issue service.
type IssueServiceDeps struct {
	Issues     repository.IssueRepository
	Vehicles   repository.VehicleRepository
	Drivers    repository.DriverRepository
	History    repository.IssueHistoryRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueServiceDeps) *IssueService {
	return &IssueService{
		issues:     deps.Issues,
		vehicles:   deps.Vehicles,
		drivers:    deps.Drivers,
		history:    deps.History,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// CreateIssueInput is the payload for reporting a new issue.
type CreateIssueInput struct {
	DriverID      string
	FleetNumber   string
	Category      domain.IssueCategory
	Severity      domain.IssueSeverity
	Title         string
	Description   string
	Location      string
	EstimatedCost *float64
}

// CreateIssue validates the report, persists it and publishes lifecycle
// events. CRITICAL severity additionally raises a critical_issue event.
func (s *IssueService) CreateIssue(ctx context.Context, input CreateIssueInput) (*domain.Issue, error) {
	if input.Title == "" || input.FleetNumber == "" {
		return nil, apperrors.NewValidationError("title and fleet number are required", nil)
	}
	if _, ok := severityRank[input.Severity]; !ok {
		return nil, apperrors.NewValidationError("unknown severity", map[string]any{"severity": input.Severity})
	}
	if !validCategory(input.Category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}

	vehicle, err := s.vehicles.GetByFleetNumber(ctx, input.FleetNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("vehicle", map[string]any{"fleet_number": input.FleetNumber})
		}
		return nil, apperrors.MapError(err)
	}
	if !vehicle.Active {
		return nil, apperrors.NewValidationError("vehicle is not in active service", map[string]any{"fleet_number": input.FleetNumber})
	}

	driver, err := s.drivers.GetByID(ctx, input.DriverID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	issue := &domain.Issue{
		ExternalKey:   generateIssueKey(),
		DriverID:      input.DriverID,
		FleetNumber:   input.FleetNumber,
		Category:      input.Category,
		Severity:      input.Severity,
		Status:        domain.IssueStatusReported,
		Title:         input.Title,
		Description:   input.Description,
		Location:      input.Location,
		EstimatedCost: input.EstimatedCost,
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordHistory(ctx, issue.ID, domain.ActorTypeDriver, &input.DriverID, domain.ChangeTypeStatus,
		nil, map[string]any{"status": issue.Status})

	actor := events.Actor{Type: domain.SubjectTypeDriver, DriverID: &input.DriverID}
	s.publish(ctx, events.EventIssueCreated, issue.ID, actor, events.IssueCreatedPayload{Issue: *issue, DriverName: driver.Name})
	if issue.Severity == domain.SeverityCritical {
		s.publish(ctx, events.EventIssueCritical, issue.ID, actor, events.IssueCreatedPayload{Issue: *issue, DriverName: driver.Name})
	}

	s.logger.Info("issue created",
		zap.String("issue_id", issue.ID),
		zap.String("fleet_number", issue.FleetNumber),
		zap.String("severity", string(issue.Severity)))
	return issue, nil
}

// GetIssue loads an issue and enforces driver ownership. Staff principals may
// read any issue.
func (s *IssueService) GetIssue(ctx context.Context, issueID string, requester Requester) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"id": issueID})
		}
		return nil, apperrors.MapError(err)
	}
	if err := requester.canAccess(issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// ListIssues applies the filter, scoping drivers to their own reports.
func (s *IssueService) ListIssues(ctx context.Context, filter repository.IssueFilter, requester Requester) ([]domain.Issue, error) {
	if requester.DriverID != nil {
		filter.DriverID = requester.DriverID
	}
	issues, err := s.issues.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// UpdateStatus transitions an issue through its lifecycle. Completion stamps
// resolved_at; every change is audited and published.
func (s *IssueService) UpdateStatus(ctx context.Context, issueID string, next domain.IssueStatus, actor events.Actor, message string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"id": issueID})
		}
		return nil, apperrors.MapError(err)
	}

	if !transitionAllowed(issue.Status, next) {
		return nil, apperrors.NewConflict("status transition not allowed", map[string]any{
			"from": issue.Status,
			"to":   next,
		})
	}

	oldStatus := issue.Status
	issue.Status = next
	if next == domain.IssueStatusCompleted {
		now := time.Now()
		issue.ResolvedAt = &now
	}
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordHistory(ctx, issue.ID, actorType(actor), actorID(actor), domain.ChangeTypeStatus,
		map[string]any{"status": oldStatus}, map[string]any{"status": next})

	s.publish(ctx, events.EventIssueUpdated, issue.ID, actor, events.IssueUpdatedPayload{
		Issue:     *issue,
		OldStatus: oldStatus,
		Message:   message,
	})
	return issue, nil
}

// UpdateSeverity adjusts severity after staff review. Raising to CRITICAL
// publishes a critical_issue event.
func (s *IssueService) UpdateSeverity(ctx context.Context, issueID string, next domain.IssueSeverity, actor events.Actor) (*domain.Issue, error) {
	if _, ok := severityRank[next]; !ok {
		return nil, apperrors.NewValidationError("unknown severity", map[string]any{"severity": next})
	}

	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"id": issueID})
		}
		return nil, apperrors.MapError(err)
	}
	if issue.Status == domain.IssueStatusCompleted || issue.Status == domain.IssueStatusCancelled {
		return nil, apperrors.NewConflict("issue is closed", map[string]any{"status": issue.Status})
	}
	if issue.Severity == next {
		return issue, nil
	}

	oldSeverity := issue.Severity
	issue.Severity = next
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordHistory(ctx, issue.ID, actorType(actor), actorID(actor), domain.ChangeTypeSeverity,
		map[string]any{"severity": oldSeverity}, map[string]any{"severity": next})

	if next == domain.SeverityCritical {
		s.publish(ctx, events.EventIssueCritical, issue.ID, actor, events.IssueCreatedPayload{Issue: *issue})
	}
	return issue, nil
}

// ListHistory returns the audit trail for an issue.
func (s *IssueService) ListHistory(ctx context.Context, issueID string, requester Requester) ([]domain.IssueHistory, error) {
	issue, err := s.GetIssue(ctx, issueID, requester)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.ListByIssue(ctx, issue.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// Requester scopes read access: drivers see their own issues, staff see all.
type Requester struct {
	DriverID *string
	IsStaff  bool
}

func (r Requester) canAccess(issue *domain.Issue) error {
	if r.IsStaff {
		return nil
	}
	if r.DriverID != nil && *r.DriverID == issue.DriverID {
		return nil
	}
	return apperrors.NewForbidden("issue belongs to another driver")
}

var severityRank = map[domain.IssueSeverity]int{
	domain.SeverityLow:      0,
	domain.SeverityMedium:   1,
	domain.SeverityHigh:     2,
	domain.SeverityCritical: 3,
}

func validCategory(category domain.IssueCategory) bool {
	switch category {
	case domain.CategoryEngine, domain.CategoryBrakes, domain.CategoryTires,
		domain.CategoryElectrical, domain.CategoryTransmission, domain.CategoryBody, domain.CategoryOther:
		return true
	default:
		return false
	}
}

func transitionAllowed(from, to domain.IssueStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func generateIssueKey() string {
	return "ISS-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *IssueService) recordHistory(ctx context.Context, issueID string, actor domain.ActorType, actorRef *string, change domain.ChangeType, oldValue, newValue map[string]any) {
	entry := &domain.IssueHistory{
		IssueID:     issueID,
		ChangedBy:   actorRef,
		ChangedType: actor,
		ChangeType:  change,
		OldValue:    oldValue,
		NewValue:    newValue,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		// the audit trail is best effort, the primary write already landed
		s.logger.Warn("history record failed", zap.String("issue_id", issueID), zap.Error(err))
	}
}

func (s *IssueService) publish(ctx context.Context, eventType events.EventType, issueID string, actor events.Actor, payload any) {
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		IssueID:   issueID,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

func actorType(actor events.Actor) domain.ActorType {
	switch actor.Type {
	case domain.SubjectTypeDriver:
		return domain.ActorTypeDriver
	case domain.SubjectTypeStaff:
		return domain.ActorTypeStaff
	default:
		return domain.ActorTypeSystem
	}
}

func actorID(actor events.Actor) *string {
	if actor.DriverID != nil {
		return actor.DriverID
	}
	return actor.StaffID
}
