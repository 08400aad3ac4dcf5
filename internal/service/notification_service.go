package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fleet-kit/maintenance-service/internal/domain"
	"github.com/fleet-kit/maintenance-service/internal/events"
	"github.com/fleet-kit/maintenance-service/internal/notify"
	"github.com/fleet-kit/maintenance-service/internal/observability"
	"github.com/fleet-kit/maintenance-service/internal/repository"
)

// triggerForEvent maps domain event types onto notification triggers.
var triggerForEvent = map[events.EventType]notify.Trigger{
	events.EventIssueCreated:    notify.TriggerIssueCreated,
	events.EventIssueUpdated:    notify.TriggerIssueUpdated,
	events.EventIssueCritical:   notify.TriggerCriticalIssue,
	events.EventRepairCompleted: notify.TriggerRepairCompleted,
	events.EventPartsNeeded:     notify.TriggerPartsNeeded,
}

// NotificationService translates domain events into rule-driven notification
// dispatch. It never fails the publishing operation: delivery problems are
// logged and counted, not propagated.
type NotificationService struct {
	dispatcher *notify.Dispatcher
	drivers    repository.DriverRepository
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NotificationServiceDeps lists dependencies for the notification service.
type NotificationServiceDeps struct {
	Dispatcher *notify.Dispatcher
	Drivers    repository.DriverRepository
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(deps NotificationServiceDeps) *NotificationService {
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		drivers:    deps.Drivers,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// HandleEvent is the event bus entry point for every subscribed event type.
func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	trigger, ok := triggerForEvent[event.Type]
	if !ok {
		return nil
	}

	data := s.eventData(ctx, event)
	results := s.dispatcher.Dispatch(ctx, trigger, data)
	for _, result := range results {
		s.metrics.RecordDispatch(string(trigger), string(result.Channel), result.Err != nil)
	}

	s.logger.Debug("notifications dispatched",
		zap.String("event_type", string(event.Type)),
		zap.String("issue_id", event.IssueID),
		zap.Int("attempts", len(results)))
	return nil
}

// eventData flattens an event payload into the key set rule templates render.
func (s *NotificationService) eventData(ctx context.Context, event events.Event) notify.EventData {
	data := notify.EventData{"issueId": event.IssueID}

	switch payload := event.Payload.(type) {
	case events.IssueCreatedPayload:
		s.putIssue(data, payload.Issue)
		if payload.DriverName != "" {
			data["driverName"] = payload.DriverName
		} else {
			s.putDriverName(ctx, data, payload.Issue.DriverID)
		}
	case events.IssueUpdatedPayload:
		s.putIssue(data, payload.Issue)
		data["updateMessage"] = payload.Message
		data["oldStatus"] = string(payload.OldStatus)
		s.putDriverName(ctx, data, payload.Issue.DriverID)
	case events.RepairCompletedPayload:
		s.putIssue(data, payload.Issue)
		data["updateMessage"] = payload.Notes
		if payload.WorkOrder.LaborHours != nil {
			data["laborHours"] = fmt.Sprintf("%.1f", *payload.WorkOrder.LaborHours)
		}
		s.putDriverName(ctx, data, payload.Issue.DriverID)
	case events.PartsNeededPayload:
		s.putIssue(data, payload.Issue)
		data["estimatedCost"] = fmt.Sprintf("%.2f", payload.EstimatedCost)
		data["leadTime"] = fmt.Sprintf("%d", payload.LeadTimeDays)
	}
	return data
}

func (s *NotificationService) putIssue(data notify.EventData, issue domain.Issue) {
	data["fleetNumber"] = issue.FleetNumber
	data["category"] = string(issue.Category)
	data["severity"] = string(issue.Severity)
	data["status"] = string(issue.Status)
	data["location"] = issue.Location
	data["title"] = issue.Title
	data["createdAt"] = issue.CreatedAt
	if issue.EstimatedCost != nil {
		data["estimatedCost"] = fmt.Sprintf("%.2f", *issue.EstimatedCost)
	}
}

func (s *NotificationService) putDriverName(ctx context.Context, data notify.EventData, driverID string) {
	if driverID == "" {
		return
	}
	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		s.logger.Warn("driver lookup for notification failed", zap.String("driver_id", driverID), zap.Error(err))
		return
	}
	data["driverName"] = driver.Name
}

// StaffRoleResolver adapts the staff repository to recipient resolution.
type StaffRoleResolver struct {
	staff repository.StaffRepository
}

// NewStaffRoleResolver constructs the resolver.
func NewStaffRoleResolver(staff repository.StaffRepository) *StaffRoleResolver {
	return &StaffRoleResolver{staff: staff}
}

// ResolveRoles returns contact addresses for active staff in the given roles.
func (r *StaffRoleResolver) ResolveRoles(ctx context.Context, roles []domain.StaffRole) ([]string, error) {
	return r.staff.ListContactsByRoles(ctx, roles)
}
