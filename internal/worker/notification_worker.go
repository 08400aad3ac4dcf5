package worker

import (
	"github.com/fleet-kit/maintenance-service/internal/events"
	"github.com/fleet-kit/maintenance-service/internal/service"
)

// RegisterNotificationHandlers wires the notification service into the event
// bus for every trigger-bearing event type.
func RegisterNotificationHandlers(bus events.Dispatcher, notifications *service.NotificationService) {
	for _, eventType := range []events.EventType{
		events.EventIssueCreated,
		events.EventIssueUpdated,
		events.EventIssueCritical,
		events.EventRepairCompleted,
		events.EventPartsNeeded,
	} {
		bus.Subscribe(eventType, notifications.HandleEvent)
	}
}
