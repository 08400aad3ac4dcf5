package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleet-kit/maintenance-service/internal/domain"
	"github.com/fleet-kit/maintenance-service/internal/events"
	"github.com/fleet-kit/maintenance-service/internal/notify"
	"github.com/fleet-kit/maintenance-service/internal/observability"
)

type capturingSender struct {
	payloads []notify.Payload
}

func (s *capturingSender) Send(_ context.Context, payload notify.Payload) error {
	s.payloads = append(s.payloads, payload)
	return nil
}

type stubDriverRepo struct {
	drivers map[string]*domain.Driver
}

func (r *stubDriverRepo) Create(context.Context, *domain.Driver) error { return nil }
func (r *stubDriverRepo) Update(context.Context, *domain.Driver) error { return nil }
func (r *stubDriverRepo) GetByID(_ context.Context, id string) (*domain.Driver, error) {
	if driver, ok := r.drivers[id]; ok {
		return driver, nil
	}
	return nil, pgx.ErrNoRows
}
func (r *stubDriverRepo) GetByEmail(_ context.Context, email string) (*domain.Driver, error) {
	for _, driver := range r.drivers {
		if driver.Email == email {
			return driver, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newTestNotificationService(t *testing.T, rules []notify.Rule) (*NotificationService, *capturingSender) {
	t.Helper()
	sender := &capturingSender{}
	dispatcher := notify.NewDispatcher(
		notify.NewRuleSet(rules),
		map[notify.Channel]notify.ChannelSender{notify.ChannelEmail: sender},
		nil,
		zap.NewNop(),
	)
	svc := NewNotificationService(NotificationServiceDeps{
		Dispatcher: dispatcher,
		Drivers: &stubDriverRepo{drivers: map[string]*domain.Driver{
			"driver-1": {ID: "driver-1", Name: "Dana Reyes", Email: "dana@example.com"},
		}},
		Metrics: observability.NewMetrics(),
		Logger:  zap.NewNop(),
	})
	return svc, sender
}

func sampleIssue() domain.Issue {
	return domain.Issue{
		ID:          "issue-1",
		ExternalKey: "ISS-AB12CD34",
		DriverID:    "driver-1",
		FleetNumber: "412",
		Category:    domain.CategoryBrakes,
		Severity:    domain.SeverityCritical,
		Status:      domain.IssueStatusReported,
		Title:       "Brakes grinding",
		Location:    "Depot 4",
		CreatedAt:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestHandleEventIssueCreatedRendersIssueFields(t *testing.T) {
	rules := []notify.Rule{{
		ID:       "r1",
		Name:     "Issue Reported",
		Trigger:  notify.TriggerIssueCreated,
		Channels: []notify.Channel{notify.ChannelEmail},
		Template: "New {category} issue on vehicle {fleetNumber}, reported by {driverName} at {location}",
		Enabled:  true,
	}}
	svc, sender := newTestNotificationService(t, rules)

	issue := sampleIssue()
	err := svc.HandleEvent(context.Background(), events.Event{
		Type:    events.EventIssueCreated,
		IssueID: issue.ID,
		Payload: events.IssueCreatedPayload{Issue: issue, DriverName: "Dana Reyes"},
	})
	require.NoError(t, err)

	require.Len(t, sender.payloads, 1)
	assert.Equal(t, "New BRAKES issue on vehicle 412, reported by Dana Reyes at Depot 4", sender.payloads[0].Message)
	assert.Equal(t, issue.CreatedAt, sender.payloads[0].Data["createdAt"])
}

func TestHandleEventUpdateCarriesMessageAndOldStatus(t *testing.T) {
	rules := []notify.Rule{{
		ID:       "r1",
		Name:     "Status Update",
		Trigger:  notify.TriggerIssueUpdated,
		Channels: []notify.Channel{notify.ChannelEmail},
		Template: "Vehicle {fleetNumber} issue is now {status}: {updateMessage}",
		Enabled:  true,
	}}
	svc, sender := newTestNotificationService(t, rules)

	issue := sampleIssue()
	issue.Status = domain.IssueStatusTriaged
	err := svc.HandleEvent(context.Background(), events.Event{
		Type:    events.EventIssueUpdated,
		IssueID: issue.ID,
		Payload: events.IssueUpdatedPayload{
			Issue:     issue,
			OldStatus: domain.IssueStatusReported,
			Message:   "assigned to workshop",
		},
	})
	require.NoError(t, err)

	require.Len(t, sender.payloads, 1)
	assert.Equal(t, "Vehicle 412 issue is now TRIAGED: assigned to workshop", sender.payloads[0].Message)
	assert.Equal(t, "REPORTED", sender.payloads[0].Data["oldStatus"])
}

func TestHandleEventPartsNeededFormatsCostAndLeadTime(t *testing.T) {
	rules := []notify.Rule{{
		ID:       "r1",
		Name:     "Parts Required",
		Trigger:  notify.TriggerPartsNeeded,
		Channels: []notify.Channel{notify.ChannelEmail},
		Template: "Estimated cost {estimatedCost}, lead time {leadTime} days",
		Enabled:  true,
	}}
	svc, sender := newTestNotificationService(t, rules)

	err := svc.HandleEvent(context.Background(), events.Event{
		Type:    events.EventPartsNeeded,
		IssueID: "issue-1",
		Payload: events.PartsNeededPayload{
			Issue:         sampleIssue(),
			EstimatedCost: 1249.5,
			LeadTimeDays:  3,
		},
	})
	require.NoError(t, err)

	require.Len(t, sender.payloads, 1)
	assert.Equal(t, "Estimated cost 1249.50, lead time 3 days", sender.payloads[0].Message)
}

func TestHandleEventUnknownTypeIsIgnored(t *testing.T) {
	svc, sender := newTestNotificationService(t, notify.DefaultRules())

	err := svc.HandleEvent(context.Background(), events.Event{Type: events.EventType("unrelated")})
	require.NoError(t, err)
	assert.Empty(t, sender.payloads)
}
