package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

func TestScorePeakWeekdayCriticalFixture(t *testing.T) {
	// 80*0.4 + 90*0.2 + 35*0.15 + 2 - 10 = 47.25, then ×1.3 peak ≈ 61.4
	factors := TriageFactors{
		Severity:              domain.SeverityCritical,
		FleetUtilization:      90,
		RouteCriticality:      domain.SeverityCritical,
		HistoricalRepairHours: 10,
		PartsAvailable:        false,
		DriverExperience:      domain.ExperienceExperienced,
		HourOfDay:             8,
		DayOfWeek:             2,
	}

	result := Score(factors)
	assert.Equal(t, 61, result.Score)
	assert.Equal(t, TierHigh, result.Tier)
	assert.Equal(t, "schedule within 4 hours", result.RecommendedAction)
	assert.Contains(t, result.EstimatedImpact, "fleet capacity is strained")
	assert.Contains(t, result.EstimatedImpact, "critical route is affected")
}

func TestScoreWeekendOffHoursLowFixture(t *testing.T) {
	// 10*0.4 = 4, ×0.9 expert = 3.6, ×0.7 weekend = 2.52, rounds to 3
	factors := TriageFactors{
		Severity:              domain.SeverityLow,
		FleetUtilization:      0,
		RouteCriticality:      domain.SeverityLow,
		HistoricalRepairHours: 0,
		PartsAvailable:        true,
		DriverExperience:      domain.ExperienceExpert,
		HourOfDay:             2,
		DayOfWeek:             0,
	}

	result := Score(factors)
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, TierLow, result.Tier)
	assert.Equal(t, "schedule at convenience", result.RecommendedAction)
}

func TestScoreSeverityMonotonicity(t *testing.T) {
	base := TriageFactors{
		FleetUtilization:      50,
		RouteCriticality:      domain.SeverityMedium,
		HistoricalRepairHours: 4,
		PartsAvailable:        true,
		DriverExperience:      domain.ExperienceExperienced,
		HourOfDay:             11,
		DayOfWeek:             3,
	}
	order := []domain.IssueSeverity{
		domain.SeverityLow,
		domain.SeverityMedium,
		domain.SeverityHigh,
		domain.SeverityCritical,
	}

	prev := -1 << 30
	for _, severity := range order {
		factors := base
		factors.Severity = severity
		result := Score(factors)
		require.GreaterOrEqual(t, result.Score, prev, "score must not decrease with severity %s", severity)
		prev = result.Score
	}
}

func TestScoreTierIsAlwaysKnown(t *testing.T) {
	known := map[Tier]bool{
		TierLow: true, TierMedium: true, TierHigh: true, TierCritical: true, TierEmergency: true,
	}
	for _, severity := range []domain.IssueSeverity{domain.SeverityLow, domain.SeverityMedium, domain.SeverityHigh, domain.SeverityCritical} {
		for hour := 0; hour < 24; hour++ {
			result := Score(TriageFactors{
				Severity:         severity,
				FleetUtilization: 100,
				RouteCriticality: domain.SeverityCritical,
				PartsAvailable:   false,
				DriverExperience: domain.ExperienceNovice,
				HourOfDay:        hour,
				DayOfWeek:        hour % 7,
			})
			assert.True(t, known[result.Tier], "unexpected tier %s", result.Tier)
		}
	}
}

func TestScoreIdempotence(t *testing.T) {
	factors := TriageFactors{
		Severity:              domain.SeverityHigh,
		FleetUtilization:      88,
		RouteCriticality:      domain.SeverityHigh,
		HistoricalRepairHours: 12.5,
		PartsAvailable:        false,
		DriverExperience:      domain.ExperienceNovice,
		HourOfDay:             17,
		DayOfWeek:             5,
	}

	first := Score(factors)
	second := Score(factors)
	assert.Equal(t, first, second)
}

func TestScoreRepairComplexityTruncatesAndCaps(t *testing.T) {
	base := TriageFactors{
		Severity:         domain.SeverityLow,
		RouteCriticality: domain.SeverityLow,
		PartsAvailable:   true,
		DriverExperience: domain.ExperienceExperienced,
		HourOfDay:        12,
		DayOfWeek:        3,
	}

	// 4 + 0.75 + trunc(10.9-8)=2 → 6.75, ×1.1 business = 7.425 → 7
	withComplexity := base
	withComplexity.HistoricalRepairHours = 10.9
	assert.Equal(t, 7, Score(withComplexity).Score)

	// contribution caps at 15: 4 + 0.75 + 15 = 19.75, ×1.1 = 21.725 → 22
	capped := base
	capped.HistoricalRepairHours = 40
	assert.Equal(t, 22, Score(capped).Score)
}

func TestScoreWeekendPrecedesPeak(t *testing.T) {
	factors := TriageFactors{
		Severity:         domain.SeverityMedium,
		RouteCriticality: domain.SeverityLow,
		PartsAvailable:   true,
		DriverExperience: domain.ExperienceExperienced,
		HourOfDay:        8, // peak hour, but on a Saturday
		DayOfWeek:        6,
	}

	// 25*0.4 + 5*0.15 = 10.75, ×0.7 weekend = 7.525 → 8
	result := Score(factors)
	assert.Equal(t, 8, result.Score)
}
