package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

type recordingSender struct {
	mu       sync.Mutex
	payloads []Payload
	err      error
}

func (s *recordingSender) Send(_ context.Context, payload Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

type staticResolver struct {
	addresses []string
	err       error
}

func (r *staticResolver) ResolveRoles(_ context.Context, _ []domain.StaffRole) ([]string, error) {
	return r.addresses, r.err
}

func newTestDispatcher(rules []Rule, senders map[Channel]ChannelSender, resolver RoleResolver) *Dispatcher {
	d := NewDispatcher(NewRuleSet(rules), senders, resolver, zap.NewNop())
	d.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return d
}

func TestDispatchFansOutAcrossChannels(t *testing.T) {
	email := &recordingSender{}
	dashboard := &recordingSender{}
	rules := []Rule{{
		ID:       "r1",
		Name:     "New Issue Reported",
		Trigger:  TriggerIssueCreated,
		Channels: []Channel{ChannelEmail, ChannelDashboard},
		Template: "Vehicle {fleetNumber}",
		Enabled:  true,
		Priority: "normal",
	}}

	d := newTestDispatcher(rules, map[Channel]ChannelSender{
		ChannelEmail:     email,
		ChannelDashboard: dashboard,
	}, nil)

	results := d.Dispatch(context.Background(), TriggerIssueCreated, EventData{"fleetNumber": "412"})

	require.Len(t, results, 2)
	for _, result := range results {
		assert.NoError(t, result.Err)
		assert.Equal(t, "r1", result.RuleID)
	}
	require.Equal(t, 1, email.count())
	assert.Equal(t, "Vehicle 412", email.payloads[0].Message)
	assert.Equal(t, "New Issue Reported", email.payloads[0].Title)
	assert.Equal(t, 1, dashboard.count())
}

func TestDispatchFailureIsolation(t *testing.T) {
	failing := &recordingSender{err: errors.New("smtp relay down")}
	sms := &recordingSender{}
	dashboard := &recordingSender{}

	rules := []Rule{
		{
			ID:       "r1",
			Trigger:  TriggerCriticalIssue,
			Channels: []Channel{ChannelEmail, ChannelSMS},
			Template: "first",
			Enabled:  true,
		},
		{
			ID:       "r2",
			Trigger:  TriggerCriticalIssue,
			Channels: []Channel{ChannelDashboard},
			Template: "second",
			Enabled:  true,
		},
	}

	d := newTestDispatcher(rules, map[Channel]ChannelSender{
		ChannelEmail:     failing,
		ChannelSMS:       sms,
		ChannelDashboard: dashboard,
	}, nil)

	results := d.Dispatch(context.Background(), TriggerCriticalIssue, EventData{})

	require.Len(t, results, 3, "every rule/channel combination must be attempted")
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 1, sms.count(), "sms attempted despite email failure")
	assert.Equal(t, 1, dashboard.count(), "second rule attempted despite first rule failure")
}

func TestDispatchMultipleMatchingRules(t *testing.T) {
	email := &recordingSender{}
	rules := []Rule{
		{ID: "r1", Trigger: TriggerIssueCreated, Channels: []Channel{ChannelEmail}, Template: "a", Enabled: true},
		{ID: "r2", Trigger: TriggerIssueCreated, Channels: []Channel{ChannelEmail}, Template: "b", Enabled: true},
		{ID: "r3", Trigger: TriggerIssueUpdated, Channels: []Channel{ChannelEmail}, Template: "c", Enabled: true},
	}

	d := newTestDispatcher(rules, map[Channel]ChannelSender{ChannelEmail: email}, nil)
	results := d.Dispatch(context.Background(), TriggerIssueCreated, EventData{})

	require.Len(t, results, 2)
	assert.Equal(t, "r1", results[0].RuleID, "rules fire in table order")
	assert.Equal(t, "r2", results[1].RuleID)
}

func TestDispatchUnknownChannelReported(t *testing.T) {
	rules := []Rule{{ID: "r1", Trigger: TriggerIssueCreated, Channels: []Channel{ChannelPush}, Template: "x", Enabled: true}}
	d := newTestDispatcher(rules, map[Channel]ChannelSender{}, nil)

	results := d.Dispatch(context.Background(), TriggerIssueCreated, EventData{})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, ErrUnknownChannel)
}

func TestDispatchResolvesRolesAndMergesRecipients(t *testing.T) {
	email := &recordingSender{}
	rules := []Rule{{
		ID:      "r1",
		Trigger: TriggerIssueCreated,
		Recipients: RuleRecipients{
			Roles:  []domain.StaffRole{domain.StaffRoleOperations},
			Emails: []string{"ops@example.com"},
			Phones: []string{"+15550100"},
		},
		Channels: []Channel{ChannelEmail},
		Template: "x",
		Enabled:  true,
	}}

	resolver := &staticResolver{addresses: []string{"lead@example.com"}}
	d := newTestDispatcher(rules, map[Channel]ChannelSender{ChannelEmail: email}, resolver)

	d.Dispatch(context.Background(), TriggerIssueCreated, EventData{})

	require.Equal(t, 1, email.count())
	payload := email.payloads[0]
	assert.Equal(t, []string{"ops@example.com", "+15550100", "lead@example.com"}, payload.Recipients)
	assert.Equal(t, []domain.StaffRole{domain.StaffRoleOperations}, payload.Roles, "roles travel in the payload")
}

func TestDispatchResolverFailureDegradesToExplicitRecipients(t *testing.T) {
	email := &recordingSender{}
	rules := []Rule{{
		ID:      "r1",
		Trigger: TriggerIssueCreated,
		Recipients: RuleRecipients{
			Roles:  []domain.StaffRole{domain.StaffRoleAdmin},
			Emails: []string{"ops@example.com"},
		},
		Channels: []Channel{ChannelEmail},
		Template: "x",
		Enabled:  true,
	}}

	resolver := &staticResolver{err: errors.New("directory unavailable")}
	d := newTestDispatcher(rules, map[Channel]ChannelSender{ChannelEmail: email}, resolver)

	results := d.Dispatch(context.Background(), TriggerIssueCreated, EventData{})
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, []string{"ops@example.com"}, email.payloads[0].Recipients)
}

func TestDispatchRetainsOriginalEventData(t *testing.T) {
	email := &recordingSender{}
	rules := []Rule{{ID: "r1", Trigger: TriggerIssueCreated, Channels: []Channel{ChannelEmail}, Template: "x", Enabled: true}}
	d := newTestDispatcher(rules, map[Channel]ChannelSender{ChannelEmail: email}, nil)

	data := EventData{"fleetNumber": "412", "issueId": "abc"}
	d.Dispatch(context.Background(), TriggerIssueCreated, data)

	require.Equal(t, 1, email.count())
	assert.Equal(t, data, email.payloads[0].Data)
	assert.Equal(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), email.payloads[0].CreatedAt)
}
