package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

func TestRuleWithoutConditionsMatchesEveryEvent(t *testing.T) {
	rule := Rule{ID: "r1", Trigger: TriggerIssueCreated, Enabled: true}
	now := time.Now()

	assert.True(t, rule.Matches(TriggerIssueCreated, EventData{}, now))
	assert.True(t, rule.Matches(TriggerIssueCreated, EventData{"severity": "LOW"}, now))
	assert.False(t, rule.Matches(TriggerIssueUpdated, EventData{}, now), "trigger mismatch must not fire")
}

func TestDisabledRuleNeverMatches(t *testing.T) {
	rule := Rule{ID: "r1", Trigger: TriggerIssueCreated, Enabled: false}
	assert.False(t, rule.Matches(TriggerIssueCreated, EventData{}, time.Now()))
}

func TestSeverityConditionGatesRule(t *testing.T) {
	rule := Rule{
		ID:      "r1",
		Trigger: TriggerIssueCreated,
		Enabled: true,
		Conditions: RuleConditions{
			Severities: []domain.IssueSeverity{domain.SeverityHigh, domain.SeverityCritical},
		},
	}
	now := time.Now()

	assert.True(t, rule.Matches(TriggerIssueCreated, EventData{"severity": "CRITICAL"}, now))
	assert.False(t, rule.Matches(TriggerIssueCreated, EventData{"severity": "LOW"}, now))
	assert.False(t, rule.Matches(TriggerIssueCreated, EventData{}, now), "absent severity is not a member of the list")
}

func TestStatusCategoryAndFleetConditions(t *testing.T) {
	rule := Rule{
		ID:      "r1",
		Trigger: TriggerIssueUpdated,
		Enabled: true,
		Conditions: RuleConditions{
			Statuses:     []domain.IssueStatus{domain.IssueStatusTriaged},
			Categories:   []domain.IssueCategory{domain.CategoryBrakes},
			FleetNumbers: []string{"412"},
		},
	}
	now := time.Now()

	matching := EventData{"status": "TRIAGED", "category": "BRAKES", "fleetNumber": "412"}
	assert.True(t, rule.Matches(TriggerIssueUpdated, matching, now))

	wrongFleet := EventData{"status": "TRIAGED", "category": "BRAKES", "fleetNumber": "101"}
	assert.False(t, rule.Matches(TriggerIssueUpdated, wrongFleet, now))
}

func TestAgeThresholdCondition(t *testing.T) {
	rule := Rule{
		ID:         "r1",
		Trigger:    TriggerIssueUpdated,
		Enabled:    true,
		Conditions: RuleConditions{MinAgeMinutes: intPtr(60)},
	}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	old := EventData{"createdAt": now.Add(-90 * time.Minute)}
	assert.True(t, rule.Matches(TriggerIssueUpdated, old, now))

	exact := EventData{"createdAt": now.Add(-60 * time.Minute)}
	assert.True(t, rule.Matches(TriggerIssueUpdated, exact, now), "age equal to threshold matches")

	fresh := EventData{"createdAt": now.Add(-30 * time.Minute)}
	assert.False(t, rule.Matches(TriggerIssueUpdated, fresh, now))

	noCreatedAt := EventData{}
	assert.True(t, rule.Matches(TriggerIssueUpdated, noCreatedAt, now), "missing createdAt disables the age filter")
}

func TestRuleSetIsASnapshot(t *testing.T) {
	source := []Rule{{ID: "r1", Trigger: TriggerIssueCreated, Enabled: true}}
	rs := NewRuleSet(source)

	source[0].Enabled = false
	assert.True(t, rs.Rules()[0].Enabled, "mutating the source slice must not affect the snapshot")

	rs.Rules()[0].ID = "mutated"
	assert.Equal(t, "r1", rs.Rules()[0].ID, "mutating a returned copy must not affect the snapshot")
}

func TestDefaultRulesAreWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, rule := range DefaultRules() {
		assert.NotEmpty(t, rule.ID)
		assert.NotEmpty(t, rule.Name)
		assert.NotEmpty(t, rule.Channels)
		assert.NotEmpty(t, rule.Template)
		assert.False(t, seen[rule.ID], "duplicate rule id %s", rule.ID)
		seen[rule.ID] = true
	}
}
