package notify

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// WebhookSink posts events as JSON to a configured webhook URL.
type WebhookSink struct {
	url    string
	client *resty.Client
}

// Ensure WebhookSink implements Sink
var _ Sink = (*WebhookSink)(nil)

type webhookEvent struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// NewWebhookSink creates a webhook sink. An empty URL yields a sink
// whose Publish is a no-op.
func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{
		url:    url,
		client: resty.New().SetTimeout(10 * time.Second),
	}
}

// Publish posts the event. Non-2xx responses are errors so the caller
// can log them, but they carry no further consequence.
func (w *WebhookSink) Publish(event string, payload any) error {
	if w.url == "" {
		return nil
	}

	resp, err := w.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(webhookEvent{Event: event, Payload: payload}).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}

	logrus.Debugf("Published %s event to webhook", event)
	return nil
}
