package senders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fleet-kit/maintenance-service/internal/notify"
)

// EmailSender posts rendered notifications to the mail gateway endpoint.
// Delivery beyond the gateway is the provider's concern.
type EmailSender struct {
	endpoint string
	from     string
	client   *http.Client
}

// NewEmailSender builds a sender for the given gateway endpoint.
func NewEmailSender(endpoint, from string) *EmailSender {
	return &EmailSender{
		endpoint: endpoint,
		from:     from,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type emailRequest struct {
	From       string   `json:"from"`
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Priority   string   `json:"priority"`
}

// Send implements notify.ChannelSender.
func (s *EmailSender) Send(ctx context.Context, payload notify.Payload) error {
	if s.endpoint == "" {
		return fmt.Errorf("email gateway endpoint not configured")
	}
	body, err := json.Marshal(emailRequest{
		From:       s.from,
		Recipients: payload.Recipients,
		Subject:    payload.Title,
		Body:       payload.Message,
		Priority:   payload.Priority,
	})
	if err != nil {
		return err
	}
	return postJSON(ctx, s.client, s.endpoint, body)
}

func postJSON(ctx context.Context, client *http.Client, endpoint string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return nil
}
