package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

// Payload is one rendered notification handed to channel senders. Ephemeral:
// built, dispatched and discarded.
type Payload struct {
	Trigger    Trigger
	Title      string
	Message    string
	Data       EventData
	Recipients []string
	Roles      []domain.StaffRole
	Channels   []Channel
	Priority   string
	CreatedAt  time.Time
}

// ChannelSender delivers a payload over one medium. Implementations are
// external transports and independently fallible.
type ChannelSender interface {
	Send(ctx context.Context, payload Payload) error
}

// RoleResolver maps staff roles to concrete addresses. Supplied by the
// caller so the dispatcher stays free of data-access dependencies.
type RoleResolver interface {
	ResolveRoles(ctx context.Context, roles []domain.StaffRole) ([]string, error)
}

// DeliveryResult reports one channel attempt of one matched rule. A nil Err
// means the sender accepted the payload, not that delivery is confirmed.
type DeliveryResult struct {
	RuleID  string
	Channel Channel
	Err     error
}

// Dispatcher matches lifecycle events against an immutable rule table and
// fans rendered notifications out across channel senders.
type Dispatcher struct {
	rules    *RuleSet
	senders  map[Channel]ChannelSender
	resolver RoleResolver
	logger   *zap.Logger
	now      func() time.Time
}

// NewDispatcher builds a dispatcher over the given rule snapshot and senders.
// The resolver may be nil, in which case roles are carried through unresolved.
func NewDispatcher(rules *RuleSet, senders map[Channel]ChannelSender, resolver RoleResolver, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		rules:    rules,
		senders:  senders,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

// Dispatch evaluates rules in table order and attempts every channel of every
// matched rule. A failing channel never suppresses other channels or later
// rules; failures are logged and reported back per attempt.
func (d *Dispatcher) Dispatch(ctx context.Context, trigger Trigger, data EventData) []DeliveryResult {
	now := d.now()
	results := []DeliveryResult{}

	for _, rule := range d.rules.Rules() {
		if !rule.Matches(trigger, data, now) {
			continue
		}

		payload := Payload{
			Trigger:    trigger,
			Title:      rule.Name,
			Message:    RenderTemplate(rule.Template, data),
			Data:       data,
			Recipients: d.resolveRecipients(ctx, rule),
			Roles:      rule.Recipients.Roles,
			Channels:   rule.Channels,
			Priority:   rule.Priority,
			CreatedAt:  now,
		}

		for _, channel := range rule.Channels {
			err := d.send(ctx, channel, payload)
			if err != nil {
				d.logger.Warn("notification send failed",
					zap.String("rule_id", rule.ID),
					zap.String("channel", string(channel)),
					zap.String("trigger", string(trigger)),
					zap.Error(err))
			}
			results = append(results, DeliveryResult{RuleID: rule.ID, Channel: channel, Err: err})
		}
	}
	return results
}

func (d *Dispatcher) send(ctx context.Context, channel Channel, payload Payload) error {
	sender, ok := d.senders[channel]
	if !ok {
		return ErrUnknownChannel
	}
	return sender.Send(ctx, payload)
}

func (d *Dispatcher) resolveRecipients(ctx context.Context, rule Rule) []string {
	recipients := append([]string{}, rule.Recipients.Emails...)
	recipients = append(recipients, rule.Recipients.Phones...)
	if d.resolver == nil || len(rule.Recipients.Roles) == 0 {
		return recipients
	}
	resolved, err := d.resolver.ResolveRoles(ctx, rule.Recipients.Roles)
	if err != nil {
		// roles still travel in the payload for downstream resolution
		d.logger.Warn("role resolution failed", zap.String("rule_id", rule.ID), zap.Error(err))
		return recipients
	}
	return append(recipients, resolved...)
}
