package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleet-kit/maintenance-service/internal/domain"
	"github.com/fleet-kit/maintenance-service/internal/events"
	"github.com/fleet-kit/maintenance-service/internal/repository"
)

type memIssueRepo struct {
	mu     sync.Mutex
	seq    int
	issues map[string]*domain.Issue
}

func newMemIssueRepo() *memIssueRepo {
	return &memIssueRepo{issues: map[string]*domain.Issue{}}
}

func (r *memIssueRepo) Create(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	issue.ID = fmt.Sprintf("issue-%d", r.seq)
	stored := *issue
	r.issues[issue.ID] = &stored
	return nil
}

func (r *memIssueRepo) Update(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.issues[issue.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *issue
	r.issues[issue.ID] = &stored
	return nil
}

func (r *memIssueRepo) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *issue
	return &copied, nil
}

func (r *memIssueRepo) GetByExternalKey(_ context.Context, key string) (*domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, issue := range r.issues {
		if issue.ExternalKey == key {
			copied := *issue
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memIssueRepo) ListWithFilter(_ context.Context, filter repository.IssueFilter) ([]domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Issue
	for _, issue := range r.issues {
		if filter.DriverID != nil && issue.DriverID != *filter.DriverID {
			continue
		}
		if len(filter.Statuses) > 0 && !statusIn(issue.Status, filter.Statuses) {
			continue
		}
		out = append(out, *issue)
	}
	return out, nil
}

func statusIn(status domain.IssueStatus, list []domain.IssueStatus) bool {
	for _, candidate := range list {
		if candidate == status {
			return true
		}
	}
	return false
}

type stubVehicleRepo struct {
	vehicles map[string]*domain.Vehicle
}

func (r *stubVehicleRepo) Create(context.Context, *domain.Vehicle) error { return nil }
func (r *stubVehicleRepo) Update(context.Context, *domain.Vehicle) error { return nil }
func (r *stubVehicleRepo) GetByID(context.Context, string) (*domain.Vehicle, error) {
	return nil, pgx.ErrNoRows
}
func (r *stubVehicleRepo) GetByFleetNumber(_ context.Context, fleetNumber string) (*domain.Vehicle, error) {
	if vehicle, ok := r.vehicles[fleetNumber]; ok {
		return vehicle, nil
	}
	return nil, pgx.ErrNoRows
}
func (r *stubVehicleRepo) List(context.Context, bool) ([]domain.Vehicle, error) { return nil, nil }

type memHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.IssueHistory
}

func (r *memHistoryRepo) Create(_ context.Context, history *domain.IssueHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *history)
	return nil
}

func (r *memHistoryRepo) ListByIssue(_ context.Context, issueID string) ([]domain.IssueHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.IssueHistory
	for _, entry := range r.entries {
		if entry.IssueID == issueID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type captureBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *captureBus) Publish(_ context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *captureBus) Subscribe(events.EventType, events.EventHandler) {}

func (b *captureBus) typesSeen() []events.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]events.EventType, len(b.events))
	for i, event := range b.events {
		out[i] = event.Type
	}
	return out
}

func newTestIssueService(t *testing.T) (*IssueService, *memIssueRepo, *captureBus) {
	t.Helper()
	issues := newMemIssueRepo()
	bus := &captureBus{}
	svc := NewIssueService(IssueServiceDeps{
		Issues: issues,
		Vehicles: &stubVehicleRepo{vehicles: map[string]*domain.Vehicle{
			"412": {ID: "veh-1", FleetNumber: "412", Active: true},
			"118": {ID: "veh-2", FleetNumber: "118", Active: false},
		}},
		Drivers: &stubDriverRepo{drivers: map[string]*domain.Driver{
			"driver-1": {ID: "driver-1", Name: "Dana Reyes", Email: "dana@example.com"},
		}},
		History:    &memHistoryRepo{},
		Dispatcher: bus,
		Logger:     zap.NewNop(),
	})
	return svc, issues, bus
}

func createInput(severity domain.IssueSeverity) CreateIssueInput {
	return CreateIssueInput{
		DriverID:    "driver-1",
		FleetNumber: "412",
		Category:    domain.CategoryBrakes,
		Severity:    severity,
		Title:       "Brakes grinding",
		Description: "Loud grinding when stopping",
		Location:    "Depot 4",
	}
}

func TestCreateIssuePublishesCreatedEvent(t *testing.T) {
	svc, _, bus := newTestIssueService(t)

	issue, err := svc.CreateIssue(context.Background(), createInput(domain.SeverityHigh))
	require.NoError(t, err)

	assert.Equal(t, domain.IssueStatusReported, issue.Status)
	assert.Contains(t, issue.ExternalKey, "ISS-")
	assert.Equal(t, []events.EventType{events.EventIssueCreated}, bus.typesSeen())
}

func TestCreateIssueCriticalAlsoRaisesCriticalEvent(t *testing.T) {
	svc, _, bus := newTestIssueService(t)

	_, err := svc.CreateIssue(context.Background(), createInput(domain.SeverityCritical))
	require.NoError(t, err)

	assert.Equal(t, []events.EventType{events.EventIssueCreated, events.EventIssueCritical}, bus.typesSeen())
}

func TestCreateIssueRejectsInactiveVehicle(t *testing.T) {
	svc, _, _ := newTestIssueService(t)

	input := createInput(domain.SeverityLow)
	input.FleetNumber = "118"
	_, err := svc.CreateIssue(context.Background(), input)
	assert.Error(t, err)
}

func TestCreateIssueRejectsUnknownVehicle(t *testing.T) {
	svc, _, _ := newTestIssueService(t)

	input := createInput(domain.SeverityLow)
	input.FleetNumber = "999"
	_, err := svc.CreateIssue(context.Background(), input)
	assert.Error(t, err)
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	svc, _, bus := newTestIssueService(t)
	issue, err := svc.CreateIssue(context.Background(), createInput(domain.SeverityMedium))
	require.NoError(t, err)

	actor := events.Actor{Type: domain.SubjectTypeStaff}
	updated, err := svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusTriaged, actor, "reviewed")
	require.NoError(t, err)
	assert.Equal(t, domain.IssueStatusTriaged, updated.Status)

	// skipping straight to COMPLETED is not a legal transition
	_, err = svc.UpdateStatus(context.Background(), issue.ID, domain.IssueStatusCompleted, actor, "")
	assert.Error(t, err)

	assert.Contains(t, bus.typesSeen(), events.EventIssueUpdated)
}

func TestUpdateStatusCompletionStampsResolvedAt(t *testing.T) {
	svc, _, _ := newTestIssueService(t)
	issue, err := svc.CreateIssue(context.Background(), createInput(domain.SeverityMedium))
	require.NoError(t, err)

	actor := events.Actor{Type: domain.SubjectTypeStaff}
	for _, status := range []domain.IssueStatus{
		domain.IssueStatusTriaged,
		domain.IssueStatusScheduled,
		domain.IssueStatusInRepair,
		domain.IssueStatusCompleted,
	} {
		issueAfter, err := svc.UpdateStatus(context.Background(), issue.ID, status, actor, "")
		require.NoError(t, err)
		issue = issueAfter
	}
	require.NotNil(t, issue.ResolvedAt)
}

func TestUpdateSeverityToCriticalRaisesEvent(t *testing.T) {
	svc, _, bus := newTestIssueService(t)
	issue, err := svc.CreateIssue(context.Background(), createInput(domain.SeverityMedium))
	require.NoError(t, err)

	actor := events.Actor{Type: domain.SubjectTypeStaff}
	updated, err := svc.UpdateSeverity(context.Background(), issue.ID, domain.SeverityCritical, actor)
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityCritical, updated.Severity)
	assert.Contains(t, bus.typesSeen(), events.EventIssueCritical)
}

func TestGetIssueEnforcesDriverOwnership(t *testing.T) {
	svc, _, _ := newTestIssueService(t)
	issue, err := svc.CreateIssue(context.Background(), createInput(domain.SeverityLow))
	require.NoError(t, err)

	other := "driver-2"
	_, err = svc.GetIssue(context.Background(), issue.ID, Requester{DriverID: &other})
	assert.Error(t, err)

	owner := "driver-1"
	got, err := svc.GetIssue(context.Background(), issue.ID, Requester{DriverID: &owner})
	require.NoError(t, err)
	assert.Equal(t, issue.ID, got.ID)

	_, err = svc.GetIssue(context.Background(), issue.ID, Requester{IsStaff: true})
	assert.NoError(t, err)
}
