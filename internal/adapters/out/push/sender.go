// Package push delivers push notifications through an HTTP webhook.
// The webhook sits in front of the actual mobile push provider; this
// adapter only speaks JSON over HTTP and retries transient failures.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/pkg/errs"
)

// message is the webhook wire format.
type message struct {
	Target string            `json:"target"`
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

// WebhookPushSender implements PushSender over a retrying HTTP client.
type WebhookPushSender struct {
	url    string
	client *retryablehttp.Client
}

// NewWebhookPushSender creates a push sender posting to the given webhook
// URL. Transient failures are retried with backoff; the per-send deadline
// comes from the caller's context.
func NewWebhookPushSender(url string, logger *slog.Logger) (*WebhookPushSender, error) {
	if url == "" {
		return nil, errs.NewValueIsRequiredError("url")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = time.Second
	client.Logger = slog.NewLogLogger(logger.With("component", "push_sender").Handler(), slog.LevelDebug)

	return &WebhookPushSender{url: url, client: client}, nil
}

// SendPush posts one rendered notification to the webhook.
func (s *WebhookPushSender) SendPush(ctx context.Context, target string, payload notification.Payload) error {
	if target == "" {
		return errs.NewValueIsRequiredError("target")
	}
	if payload == nil {
		return errs.NewValueIsRequiredError("payload")
	}

	body, err := json.Marshal(message{
		Target: target,
		Type:   payload.Type().String(),
		Title:  payload.PushTitle(),
		Body:   payload.PushBody(),
		Data:   payload.PushData(),
	})
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("push webhook returned %s", resp.Status)
	}

	return nil
}
