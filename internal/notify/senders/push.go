package senders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fleet-kit/maintenance-service/internal/notify"
)

// PushSender posts rendered notifications to the push gateway endpoint.
type PushSender struct {
	endpoint string
	client   *http.Client
}

// NewPushSender builds a sender for the given gateway endpoint.
func NewPushSender(endpoint string) *PushSender {
	return &PushSender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type pushRequest struct {
	Recipients []string `json:"recipients"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Priority   string   `json:"priority"`
	Trigger    string   `json:"trigger"`
}

// Send implements notify.ChannelSender.
func (s *PushSender) Send(ctx context.Context, payload notify.Payload) error {
	if s.endpoint == "" {
		return fmt.Errorf("push gateway endpoint not configured")
	}
	body, err := json.Marshal(pushRequest{
		Recipients: payload.Recipients,
		Title:      payload.Title,
		Body:       payload.Message,
		Priority:   payload.Priority,
		Trigger:    string(payload.Trigger),
	})
	if err != nil {
		return err
	}
	return postJSON(ctx, s.client, s.endpoint, body)
}
