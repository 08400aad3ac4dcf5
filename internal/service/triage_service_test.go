package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleet-kit/maintenance-service/internal/domain"
	"github.com/fleet-kit/maintenance-service/internal/fleet"
)

// Lookups built without redis or postgres fall back to their documented
// defaults, which keeps the ranking deterministic for tests.
func newTestTriageService(t *testing.T, issues *memIssueRepo) *TriageService {
	t.Helper()
	svc := NewTriageService(TriageServiceDeps{
		Issues: issues,
		Drivers: &stubDriverRepo{drivers: map[string]*domain.Driver{
			"driver-1": {ID: "driver-1", Experience: domain.ExperienceExperienced},
		}},
		Lookups: fleet.NewLookups(nil, nil, zap.NewNop()),
		Logger:  zap.NewNop(),
	})
	svc.now = func() time.Time {
		// Tuesday 12:00, business hours
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func seedIssue(t *testing.T, issues *memIssueRepo, severity domain.IssueSeverity, status domain.IssueStatus) *domain.Issue {
	t.Helper()
	issue := &domain.Issue{
		DriverID:    "driver-1",
		FleetNumber: "112",
		Category:    domain.CategoryEngine,
		Severity:    severity,
		Status:      status,
	}
	require.NoError(t, issues.Create(context.Background(), issue))
	return issue
}

func TestRankOpenIssuesOrdersBySeverity(t *testing.T) {
	issues := newMemIssueRepo()
	seedIssue(t, issues, domain.SeverityLow, domain.IssueStatusReported)
	seedIssue(t, issues, domain.SeverityCritical, domain.IssueStatusReported)
	seedIssue(t, issues, domain.SeverityMedium, domain.IssueStatusTriaged)

	svc := newTestTriageService(t, issues)
	ranked, err := svc.RankOpenIssues(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, domain.SeverityCritical, ranked[0].Issue.Severity)
	assert.Equal(t, domain.SeverityLow, ranked[2].Issue.Severity)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Priority.Score, ranked[i].Priority.Score)
	}
}

func TestRankOpenIssuesSkipsClosedStatuses(t *testing.T) {
	issues := newMemIssueRepo()
	seedIssue(t, issues, domain.SeverityHigh, domain.IssueStatusCompleted)
	seedIssue(t, issues, domain.SeverityHigh, domain.IssueStatusCancelled)
	open := seedIssue(t, issues, domain.SeverityHigh, domain.IssueStatusReported)

	svc := newTestTriageService(t, issues)
	ranked, err := svc.RankOpenIssues(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, open.ID, ranked[0].Issue.ID)
}

func TestScoreIssueProducesReasoningAndAction(t *testing.T) {
	issues := newMemIssueRepo()
	issue := seedIssue(t, issues, domain.SeverityCritical, domain.IssueStatusReported)

	svc := newTestTriageService(t, issues)
	ranked, err := svc.ScoreIssue(context.Background(), issue.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, ranked.Priority.Reasoning)
	assert.NotEmpty(t, ranked.Priority.RecommendedAction)
	assert.NotEmpty(t, ranked.Priority.EstimatedImpact)
}

func TestScoreIssueUnknownIDReturnsNotFound(t *testing.T) {
	svc := newTestTriageService(t, newMemIssueRepo())
	_, err := svc.ScoreIssue(context.Background(), "missing")
	assert.Error(t, err)
}
