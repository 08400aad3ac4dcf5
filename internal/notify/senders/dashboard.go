package senders

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fleet-kit/maintenance-service/internal/notify"
)

// DashboardChannel is the Redis pub/sub channel dashboards subscribe to.
const DashboardChannel = "fleet:notifications:dashboard"

// DashboardSender publishes rendered notifications over Redis pub/sub so
// connected dashboard sessions pick them up live.
type DashboardSender struct {
	client *redis.Client
}

// NewDashboardSender builds a sender over the shared Redis client.
func NewDashboardSender(client *redis.Client) *DashboardSender {
	return &DashboardSender{client: client}
}

type dashboardMessage struct {
	Trigger   string    `json:"trigger"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// Send implements notify.ChannelSender.
func (s *DashboardSender) Send(ctx context.Context, payload notify.Payload) error {
	if s.client == nil {
		return errors.New("redis client not configured")
	}
	body, err := json.Marshal(dashboardMessage{
		Trigger:   string(payload.Trigger),
		Title:     payload.Title,
		Message:   payload.Message,
		Priority:  payload.Priority,
		CreatedAt: payload.CreatedAt,
	})
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, DashboardChannel, body).Err()
}
