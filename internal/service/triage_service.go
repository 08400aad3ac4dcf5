package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/fleet-kit/maintenance-service/internal/domain"
	"github.com/fleet-kit/maintenance-service/internal/fleet"
	"github.com/fleet-kit/maintenance-service/internal/repository"
	"github.com/fleet-kit/maintenance-service/internal/triage"
	apperrors "github.com/fleet-kit/maintenance-service/pkg/util"
)

// TriageService assembles scoring factors for issues and ranks the open
// backlog by priority.
type TriageService struct {
	issues  repository.IssueRepository
	drivers repository.DriverRepository
	lookups *fleet.Lookups
	logger  *zap.Logger
	now     func() time.Time
}

// TriageServiceDeps lists dependencies for the triage service.
type TriageServiceDeps struct {
	Issues  repository.IssueRepository
	Drivers repository.DriverRepository
	Lookups *fleet.Lookups
	Logger  *zap.Logger
}

// NewTriageService constructs the service.
func NewTriageService(deps TriageServiceDeps) *TriageService {
	return &TriageService{
		issues:  deps.Issues,
		drivers: deps.Drivers,
		lookups: deps.Lookups,
		logger:  deps.Logger,
		now:     time.Now,
	}
}

// RankedIssue pairs an issue with its computed priority.
type RankedIssue struct {
	Issue    domain.Issue
	Priority triage.PriorityScore
}

// ScoreIssue computes the priority for a single issue.
func (s *TriageService) ScoreIssue(ctx context.Context, issueID string) (*RankedIssue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"id": issueID})
		}
		return nil, apperrors.MapError(err)
	}
	ranked := s.score(ctx, *issue)
	return &ranked, nil
}

// RankOpenIssues scores the open backlog and returns it ordered by descending
// priority. Ties keep the repository ordering.
func (s *TriageService) RankOpenIssues(ctx context.Context, limit int) ([]RankedIssue, error) {
	if limit <= 0 {
		limit = 50
	}
	issues, err := s.issues.ListWithFilter(ctx, repository.IssueFilter{
		Statuses: []domain.IssueStatus{
			domain.IssueStatusReported,
			domain.IssueStatusTriaged,
			domain.IssueStatusScheduled,
		},
		Limit: limit,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ranked := make([]RankedIssue, 0, len(issues))
	for _, issue := range issues {
		ranked = append(ranked, s.score(ctx, issue))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority.Score > ranked[j].Priority.Score
	})
	return ranked, nil
}

// score gathers best-effort factors and runs the pure scorer. Lookup failures
// fall back to documented defaults inside the lookups themselves; a missing
// driver degrades to EXPERIENCED.
func (s *TriageService) score(ctx context.Context, issue domain.Issue) RankedIssue {
	experience := domain.ExperienceExperienced
	if driver, err := s.drivers.GetByID(ctx, issue.DriverID); err == nil {
		experience = driver.Experience
	} else {
		s.logger.Warn("driver lookup failed during triage",
			zap.String("issue_id", issue.ID),
			zap.String("driver_id", issue.DriverID),
			zap.Error(err))
	}

	now := s.now()
	factors := triage.TriageFactors{
		Severity:              issue.Severity,
		FleetUtilization:      s.lookups.FleetUtilization(ctx, issue.FleetNumber),
		RouteCriticality:      fleet.RouteCriticality(issue.FleetNumber),
		HistoricalRepairHours: s.lookups.HistoricalRepairHours(ctx, issue.Category, issue.Severity),
		PartsAvailable:        s.lookups.PartsAvailable(ctx, issue.Category),
		DriverExperience:      experience,
		HourOfDay:             now.Hour(),
		DayOfWeek:             int(now.Weekday()),
	}
	return RankedIssue{Issue: issue, Priority: triage.Score(factors)}
}
