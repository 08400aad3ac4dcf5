package triage

import (
	"fmt"
	"math"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

// Tier is the discrete priority classification derived from a numeric score.
type Tier string

const (
	TierLow       Tier = "LOW"
	TierMedium    Tier = "MEDIUM"
	TierHigh      Tier = "HIGH"
	TierCritical  Tier = "CRITICAL"
	TierEmergency Tier = "EMERGENCY"
)

// TriageFactors is the snapshot of inputs scored for one issue. All fields
// are required; callers supply best-effort values from the fleet lookups.
type TriageFactors struct {
	Severity              domain.IssueSeverity
	FleetUtilization      float64
	RouteCriticality      domain.IssueSeverity
	HistoricalRepairHours float64
	PartsAvailable        bool
	DriverExperience      domain.DriverExperience
	HourOfDay             int
	DayOfWeek             int
}

// PriorityScore is the immutable result of scoring one issue.
type PriorityScore struct {
	Score             int
	Tier              Tier
	Reasoning         []string
	RecommendedAction string
	EstimatedImpact   string
}

var severityWeights = map[domain.IssueSeverity]float64{
	domain.SeverityLow:      10,
	domain.SeverityMedium:   25,
	domain.SeverityHigh:     50,
	domain.SeverityCritical: 80,
}

var routeWeights = map[domain.IssueSeverity]float64{
	domain.SeverityLow:      5,
	domain.SeverityMedium:   15,
	domain.SeverityHigh:     25,
	domain.SeverityCritical: 35,
}

var driverMultipliers = map[domain.DriverExperience]float64{
	domain.ExperienceNovice:      1.2,
	domain.ExperienceExperienced: 1.0,
	domain.ExperienceExpert:      0.9,
}

var recommendedActions = map[Tier]string{
	TierEmergency: "dispatch immediately, notify manager",
	TierCritical:  "schedule within 2 hours",
	TierHigh:      "schedule within 4 hours",
	TierMedium:    "schedule within 24 hours",
	TierLow:       "schedule at convenience",
}

// Score computes the weighted priority for the given factors. Pure and
// deterministic; the score is left unclamped so extreme inputs remain visible.
func Score(f TriageFactors) PriorityScore {
	score := 0.0
	reasoning := []string{}

	severityPoints := severityWeights[f.Severity] * 0.4
	score += severityPoints
	reasoning = append(reasoning, fmt.Sprintf("%s severity adds %.1f points", f.Severity, severityPoints))

	score += f.FleetUtilization * 0.2
	if f.FleetUtilization > 85 {
		reasoning = append(reasoning, fmt.Sprintf("fleet utilization at %.0f%% adds %.1f points", f.FleetUtilization, f.FleetUtilization*0.2))
	}

	routePoints := routeWeights[f.RouteCriticality] * 0.15
	score += routePoints
	if f.RouteCriticality != domain.SeverityLow {
		reasoning = append(reasoning, fmt.Sprintf("%s route criticality adds %.1f points", f.RouteCriticality, routePoints))
	}

	if f.HistoricalRepairHours > 8 {
		// truncated before capping, matching the historical behavior
		complexity := math.Min(15, math.Trunc(f.HistoricalRepairHours-8))
		score += complexity
		reasoning = append(reasoning, fmt.Sprintf("avg repair time %.1fh adds %.0f points for complexity", f.HistoricalRepairHours, complexity))
	}

	if !f.PartsAvailable {
		score -= 10
		reasoning = append(reasoning, "parts unavailable, -10 points")
	}

	if mult := driverMultipliers[f.DriverExperience]; mult != 0 && mult != 1.0 {
		delta := score*mult - score
		score *= mult
		reasoning = append(reasoning, fmt.Sprintf("%s driver adjusts score by %+.1f", f.DriverExperience, delta))
	}

	if mult := timeMultiplier(f.HourOfDay, f.DayOfWeek); mult != 1.0 {
		delta := score*mult - score
		score *= mult
		reasoning = append(reasoning, fmt.Sprintf("reported %s, adjusts score by %+.1f", timeWindowLabel(f.HourOfDay, f.DayOfWeek), delta))
	}

	rounded := int(math.Round(score))
	tier := tierForScore(rounded)

	return PriorityScore{
		Score:             rounded,
		Tier:              tier,
		Reasoning:         reasoning,
		RecommendedAction: recommendedActions[tier],
		EstimatedImpact:   estimatedImpact(tier, f),
	}
}

// timeMultiplier scales the running total by reporting window. Weekends take
// precedence over hour-of-day windows.
func timeMultiplier(hour, day int) float64 {
	if day == 0 || day == 6 {
		return 0.7
	}
	switch {
	case (hour >= 6 && hour < 9) || (hour >= 16 && hour < 19):
		return 1.3
	case hour >= 9 && hour < 16:
		return 1.1
	default:
		return 0.8
	}
}

func timeWindowLabel(hour, day int) string {
	if day == 0 || day == 6 {
		return "on a weekend"
	}
	switch {
	case (hour >= 6 && hour < 9) || (hour >= 16 && hour < 19):
		return "during peak hours"
	case hour >= 9 && hour < 16:
		return "during business hours"
	default:
		return "during off-hours"
	}
}

func tierForScore(score int) Tier {
	switch {
	case score >= 90:
		return TierEmergency
	case score >= 70:
		return TierCritical
	case score >= 50:
		return TierHigh
	case score >= 30:
		return TierMedium
	default:
		return TierLow
	}
}

func estimatedImpact(tier Tier, f TriageFactors) string {
	impact := map[Tier]string{
		TierEmergency: "vehicle out of service, severe operational impact",
		TierCritical:  "vehicle likely out of service soon",
		TierHigh:      "degraded vehicle availability expected",
		TierMedium:    "limited operational impact",
		TierLow:       "minimal operational impact",
	}[tier]
	if f.FleetUtilization > 85 {
		impact += "; fleet capacity is strained"
	}
	if f.RouteCriticality == domain.SeverityCritical {
		impact += "; a critical route is affected"
	}
	return impact
}
