// Package notify posts operational messages to a Slack webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Slack sends text messages to a channel via an incoming webhook. A
// Slack with an empty webhook URL is disabled and drops messages
// silently, so callers don't need to special-case missing configuration.
type Slack struct {
	webhookURL string
	httpc      *http.Client
}

type slackMessage struct {
	Text string `json:"text"`
}

// NewSlack builds a notifier for the given webhook URL (empty = disabled).
func NewSlack(webhookURL string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		httpc:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a webhook is configured.
func (s *Slack) Enabled() bool {
	return s.webhookURL != ""
}

// Send posts a message. No-op when disabled.
func (s *Slack) Send(ctx context.Context, text string) error {
	if !s.Enabled() {
		return nil
	}

	payload, err := json.Marshal(slackMessage{Text: text})
	if err != nil {
		return errors.Wrap(err, "marshaling Slack message")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "creating Slack request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending message to Slack")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("Slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}
