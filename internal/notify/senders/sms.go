package senders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fleet-kit/maintenance-service/internal/notify"
)

// SMSSender posts rendered notifications to the SMS gateway endpoint.
type SMSSender struct {
	endpoint string
	client   *http.Client
}

// NewSMSSender builds a sender for the given gateway endpoint.
func NewSMSSender(endpoint string) *SMSSender {
	return &SMSSender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type smsRequest struct {
	Recipients []string `json:"recipients"`
	Message    string   `json:"message"`
	Priority   string   `json:"priority"`
}

// Send implements notify.ChannelSender.
func (s *SMSSender) Send(ctx context.Context, payload notify.Payload) error {
	if s.endpoint == "" {
		return fmt.Errorf("sms gateway endpoint not configured")
	}
	body, err := json.Marshal(smsRequest{
		Recipients: payload.Recipients,
		Message:    payload.Message,
		Priority:   payload.Priority,
	})
	if err != nil {
		return err
	}
	return postJSON(ctx, s.client, s.endpoint, body)
}
