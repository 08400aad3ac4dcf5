package notify

import (
	"fmt"
	"time"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

// Trigger is the named lifecycle event a rule is keyed to.
type Trigger string

const (
	TriggerIssueCreated    Trigger = "issue_created"
	TriggerIssueUpdated    Trigger = "issue_updated"
	TriggerCriticalIssue   Trigger = "critical_issue"
	TriggerRepairCompleted Trigger = "repair_completed"
	TriggerPartsNeeded     Trigger = "parts_needed"
)

// Channel is a delivery medium for a rendered notification.
type Channel string

const (
	ChannelEmail     Channel = "email"
	ChannelSMS       Channel = "sms"
	ChannelPush      Channel = "push"
	ChannelDashboard Channel = "dashboard"
)

// RuleConditions gate a rule. Nil/empty fields always match.
type RuleConditions struct {
	Severities    []domain.IssueSeverity
	Statuses      []domain.IssueStatus
	Categories    []domain.IssueCategory
	FleetNumbers  []string
	MinAgeMinutes *int
}

// RuleRecipients declare who a rule targets. Roles are carried through to the
// payload and resolved outside the rule table.
type RuleRecipients struct {
	Roles  []domain.StaffRole
	Emails []string
	Phones []string
}

// Rule is one declarative notification rule.
type Rule struct {
	ID         string
	Name       string
	Trigger    Trigger
	Conditions RuleConditions
	Recipients RuleRecipients
	Channels   []Channel
	Template   string
	Enabled    bool
	Priority   string
}

// EventData is the payload an issue lifecycle event carries into dispatch.
// Values are coerced to strings during template rendering.
type EventData map[string]any

// RuleSet is an immutable, ordered snapshot of the rule table. Reloading is
// whole-snapshot replacement, never in-place mutation.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet copies the given rules into an immutable snapshot.
func NewRuleSet(rules []Rule) *RuleSet {
	snapshot := make([]Rule, len(rules))
	copy(snapshot, rules)
	return &RuleSet{rules: snapshot}
}

// Rules returns the table in evaluation order.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Matches reports whether the rule fires for the given trigger and event.
// Disabled rules and trigger mismatches never fire; every present condition
// must pass.
func (r Rule) Matches(trigger Trigger, data EventData, now time.Time) bool {
	if !r.Enabled || r.Trigger != trigger {
		return false
	}
	if len(r.Conditions.Severities) > 0 {
		severity := domain.IssueSeverity(stringField(data, "severity"))
		if !contains(r.Conditions.Severities, severity) {
			return false
		}
	}
	if len(r.Conditions.Statuses) > 0 {
		status := domain.IssueStatus(stringField(data, "status"))
		if !contains(r.Conditions.Statuses, status) {
			return false
		}
	}
	if len(r.Conditions.Categories) > 0 {
		category := domain.IssueCategory(stringField(data, "category"))
		if !contains(r.Conditions.Categories, category) {
			return false
		}
	}
	if len(r.Conditions.FleetNumbers) > 0 {
		if !contains(r.Conditions.FleetNumbers, stringField(data, "fleetNumber")) {
			return false
		}
	}
	if r.Conditions.MinAgeMinutes != nil {
		// a missing createdAt disables the age filter rather than failing
		if createdAt, ok := data["createdAt"].(time.Time); ok {
			age := now.Sub(createdAt).Minutes()
			if age < float64(*r.Conditions.MinAgeMinutes) {
				return false
			}
		}
	}
	return true
}

func contains[T comparable](list []T, value T) bool {
	for _, candidate := range list {
		if candidate == value {
			return true
		}
	}
	return false
}

func stringField(data EventData, key string) string {
	raw, ok := data[key]
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}
