package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/fleet-kit/maintenance-service/internal/domain"
	"github.com/fleet-kit/maintenance-service/internal/events"
	"github.com/fleet-kit/maintenance-service/internal/repository"
	apperrors "github.com/fleet-kit/maintenance-service/pkg/util"
)

// WorkOrderService manages scheduled repairs for triaged issues.
type WorkOrderService struct {
	orders     repository.WorkOrderRepository
	issues     repository.IssueRepository
	staff      repository.StaffRepository
	history    repository.IssueHistoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// WorkOrderServiceDeps lists dependencies for the work order service.
type WorkOrderServiceDeps struct {
	Orders     repository.WorkOrderRepository
	Issues     repository.IssueRepository
	Staff      repository.StaffRepository
	History    repository.IssueHistoryRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewWorkOrderService constructs the service.
func NewWorkOrderService(deps WorkOrderServiceDeps) *WorkOrderService {
	return &WorkOrderService{
		orders:     deps.Orders,
		issues:     deps.Issues,
		staff:      deps.Staff,
		history:    deps.History,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// CreateWorkOrderInput is the payload for opening a work order.
type CreateWorkOrderInput struct {
	IssueID      string
	AssigneeID   *string
	ScheduledFor *time.Time
	Notes        string
}

// CreateWorkOrder opens a work order against a triaged issue and moves the
// issue to SCHEDULED.
func (s *WorkOrderService) CreateWorkOrder(ctx context.Context, input CreateWorkOrderInput, actor events.Actor) (*domain.WorkOrder, error) {
	issue, err := s.loadIssue(ctx, input.IssueID)
	if err != nil {
		return nil, err
	}
	if issue.Status != domain.IssueStatusTriaged {
		return nil, apperrors.NewConflict("issue must be triaged before scheduling", map[string]any{"status": issue.Status})
	}
	if input.AssigneeID != nil {
		if err := s.verifyAssignee(ctx, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	order := &domain.WorkOrder{
		IssueID:      issue.ID,
		AssigneeID:   input.AssigneeID,
		Status:       domain.WorkOrderStatusOpen,
		ScheduledFor: input.ScheduledFor,
		Notes:        input.Notes,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.MapError(err)
	}

	oldStatus := issue.Status
	issue.Status = domain.IssueStatusScheduled
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordScheduleHistory(ctx, issue.ID, actor, map[string]any{"status": oldStatus},
		map[string]any{"status": issue.Status, "work_order_id": order.ID})

	s.logger.Info("work order created",
		zap.String("work_order_id", order.ID),
		zap.String("issue_id", issue.ID))
	return order, nil
}

// StartWorkOrder moves an open order to IN_PROGRESS and the issue to IN_REPAIR.
func (s *WorkOrderService) StartWorkOrder(ctx context.Context, orderID string, actor events.Actor) (*domain.WorkOrder, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.WorkOrderStatusOpen {
		return nil, apperrors.NewConflict("work order is not open", map[string]any{"status": order.Status})
	}

	issue, err := s.loadIssue(ctx, order.IssueID)
	if err != nil {
		return nil, err
	}

	order.Status = domain.WorkOrderStatusInProgress
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, apperrors.MapError(err)
	}

	oldStatus := issue.Status
	issue.Status = domain.IssueStatusInRepair
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordScheduleHistory(ctx, issue.ID, actor, map[string]any{"status": oldStatus},
		map[string]any{"status": issue.Status, "work_order_id": order.ID})
	return order, nil
}

// CompleteWorkOrderInput captures completion details.
type CompleteWorkOrderInput struct {
	OrderID    string
	LaborHours *float64
	PartsCost  *float64
	Notes      string
}

// CompleteWorkOrder closes the order, resolves the issue and publishes a
// repair_completed event.
func (s *WorkOrderService) CompleteWorkOrder(ctx context.Context, input CompleteWorkOrderInput, actor events.Actor) (*domain.WorkOrder, error) {
	order, err := s.loadOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.WorkOrderStatusInProgress && order.Status != domain.WorkOrderStatusOpen {
		return nil, apperrors.NewConflict("work order already closed", map[string]any{"status": order.Status})
	}

	issue, err := s.loadIssue(ctx, order.IssueID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order.Status = domain.WorkOrderStatusCompleted
	order.LaborHours = input.LaborHours
	order.PartsCost = input.PartsCost
	if input.Notes != "" {
		order.Notes = input.Notes
	}
	order.CompletedAt = &now
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, apperrors.MapError(err)
	}

	oldStatus := issue.Status
	issue.Status = domain.IssueStatusCompleted
	issue.ResolvedAt = &now
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordScheduleHistory(ctx, issue.ID, actor, map[string]any{"status": oldStatus},
		map[string]any{"status": issue.Status, "work_order_id": order.ID})

	s.publish(ctx, events.EventRepairCompleted, issue.ID, actor, events.RepairCompletedPayload{
		Issue:     *issue,
		WorkOrder: *order,
		Notes:     order.Notes,
	})

	s.logger.Info("work order completed",
		zap.String("work_order_id", order.ID),
		zap.String("issue_id", issue.ID))
	return order, nil
}

// FlagPartsNeededInput captures a parts escalation.
type FlagPartsNeededInput struct {
	IssueID       string
	EstimatedCost float64
	LeadTimeDays  int
}

// FlagPartsNeeded publishes a parts_needed event for an open issue and stamps
// the estimated cost onto it.
func (s *WorkOrderService) FlagPartsNeeded(ctx context.Context, input FlagPartsNeededInput, actor events.Actor) error {
	issue, err := s.loadIssue(ctx, input.IssueID)
	if err != nil {
		return err
	}
	if issue.Status == domain.IssueStatusCompleted || issue.Status == domain.IssueStatusCancelled {
		return apperrors.NewConflict("issue is closed", map[string]any{"status": issue.Status})
	}

	if input.EstimatedCost > 0 {
		cost := input.EstimatedCost
		issue.EstimatedCost = &cost
		if err := s.issues.Update(ctx, issue); err != nil {
			return apperrors.MapError(err)
		}
	}

	s.publish(ctx, events.EventPartsNeeded, issue.ID, actor, events.PartsNeededPayload{
		Issue:         *issue,
		EstimatedCost: input.EstimatedCost,
		LeadTimeDays:  input.LeadTimeDays,
	})
	return nil
}

// ListByIssue returns the work orders attached to an issue.
func (s *WorkOrderService) ListByIssue(ctx context.Context, issueID string) ([]domain.WorkOrder, error) {
	orders, err := s.orders.ListByIssue(ctx, issueID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return orders, nil
}

func (s *WorkOrderService) loadIssue(ctx context.Context, issueID string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"id": issueID})
		}
		return nil, apperrors.MapError(err)
	}
	return issue, nil
}

func (s *WorkOrderService) loadOrder(ctx context.Context, orderID string) (*domain.WorkOrder, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("work order", map[string]any{"id": orderID})
		}
		return nil, apperrors.MapError(err)
	}
	return order, nil
}

func (s *WorkOrderService) verifyAssignee(ctx context.Context, staffID string) error {
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("staff member", map[string]any{"id": staffID})
		}
		return apperrors.MapError(err)
	}
	if !staff.Active {
		return apperrors.NewValidationError("assignee is deactivated", map[string]any{"id": staffID})
	}
	if staff.Role != domain.StaffRoleMechanic {
		return apperrors.NewValidationError("assignee must be a mechanic", map[string]any{"role": staff.Role})
	}
	return nil
}

func (s *WorkOrderService) recordScheduleHistory(ctx context.Context, issueID string, actor events.Actor, oldValue, newValue map[string]any) {
	entry := &domain.IssueHistory{
		IssueID:     issueID,
		ChangedBy:   actorID(actor),
		ChangedType: actorType(actor),
		ChangeType:  domain.ChangeTypeSchedule,
		OldValue:    oldValue,
		NewValue:    newValue,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Warn("history record failed", zap.String("issue_id", issueID), zap.Error(err))
	}
}

func (s *WorkOrderService) publish(ctx context.Context, eventType events.EventType, issueID string, actor events.Actor, payload any) {
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
