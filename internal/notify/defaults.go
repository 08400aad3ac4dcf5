package notify

import "github.com/fleet-kit/maintenance-service/internal/domain"

func intPtr(v int) *int { return &v }

// DefaultRules returns the built-in rule table. Rules fire in table order;
// one event may match several rules.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:      "new-issue",
			Name:    "New Issue Reported",
			Trigger: TriggerIssueCreated,
			Recipients: RuleRecipients{
				Roles: []domain.StaffRole{domain.StaffRoleOperations},
			},
			Channels: []Channel{ChannelDashboard, ChannelEmail},
			Template: "New {category} issue on vehicle {fleetNumber}, reported by {driverName} at {location}",
			Enabled:  true,
			Priority: "normal",
		},
		{
			ID:      "high-severity-issue",
			Name:    "High Severity Issue",
			Trigger: TriggerIssueCreated,
			Conditions: RuleConditions{
				Severities: []domain.IssueSeverity{domain.SeverityHigh, domain.SeverityCritical},
			},
			Recipients: RuleRecipients{
				Roles: []domain.StaffRole{domain.StaffRoleOperations, domain.StaffRoleMechanic},
			},
			Channels: []Channel{ChannelEmail, ChannelPush},
			Template: "High severity {category} issue on vehicle {fleetNumber} at {location}",
			Enabled:  true,
			Priority: "high",
		},
		{
			ID:      "critical-issue-alert",
			Name:    "Critical Issue Alert",
			Trigger: TriggerCriticalIssue,
			Conditions: RuleConditions{
				Severities: []domain.IssueSeverity{domain.SeverityCritical},
			},
			Recipients: RuleRecipients{
				Roles: []domain.StaffRole{domain.StaffRoleOperations, domain.StaffRoleAdmin},
			},
			Channels: []Channel{ChannelEmail, ChannelSMS, ChannelPush, ChannelDashboard},
			Template: "CRITICAL: vehicle {fleetNumber} reported a {category} failure at {location}. Immediate attention required.",
			Enabled:  true,
			Priority: "urgent",
		},
		{
			ID:      "issue-status-update",
			Name:    "Issue Status Update",
			Trigger: TriggerIssueUpdated,
			Recipients: RuleRecipients{
				Roles: []domain.StaffRole{domain.StaffRoleOperations},
			},
			Channels: []Channel{ChannelDashboard},
			Template: "Vehicle {fleetNumber} issue is now {status}: {updateMessage}",
			Enabled:  true,
			Priority: "normal",
		},
		{
			ID:      "issue-aging",
			Name:    "Unresolved Issue Aging",
			Trigger: TriggerIssueUpdated,
			Conditions: RuleConditions{
				Statuses:      []domain.IssueStatus{domain.IssueStatusReported, domain.IssueStatusTriaged},
				MinAgeMinutes: intPtr(240),
			},
			Recipients: RuleRecipients{
				Roles: []domain.StaffRole{domain.StaffRoleOperations, domain.StaffRoleAdmin},
			},
			Channels: []Channel{ChannelEmail, ChannelDashboard},
			Template: "Vehicle {fleetNumber} has an unresolved {category} issue still {status}",
			Enabled:  true,
			Priority: "high",
		},
		{
			ID:      "repair-completed",
			Name:    "Repair Completed",
			Trigger: TriggerRepairCompleted,
			Recipients: RuleRecipients{
				Roles: []domain.StaffRole{domain.StaffRoleOperations},
			},
			Channels: []Channel{ChannelEmail, ChannelDashboard},
			Template: "Repair completed for vehicle {fleetNumber}: {updateMessage}. Final cost {estimatedCost}",
			Enabled:  true,
			Priority: "normal",
		},
		{
			ID:      "parts-needed",
			Name:    "Parts Required",
			Trigger: TriggerPartsNeeded,
			Recipients: RuleRecipients{
				Roles: []domain.StaffRole{domain.StaffRoleOperations},
			},
			Channels: []Channel{ChannelEmail},
			Template: "Parts needed for {category} repair on vehicle {fleetNumber}. Estimated cost {estimatedCost}, lead time {leadTime} days",
			Enabled:  true,
			Priority: "high",
		},
	}
}
