package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nugget/eventbridge/internal/config"
	"github.com/nugget/eventbridge/internal/event"
	"github.com/nugget/eventbridge/internal/httpkit"
)

// Webhook delivers events as an HTTP POST with a JSON body.
type Webhook struct {
	cfg    config.WebhookConfig
	client *http.Client
}

// NewWebhook builds a Webhook adapter from cfg, using httpkit's shared
// transport with the configured per-request timeout.
func NewWebhook(cfg config.WebhookConfig) *Webhook {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{
		cfg:    cfg,
		client: httpkit.NewClient(httpkit.WithTimeout(timeout)),
	}
}

// Name implements ChannelAdapter.
func (w *Webhook) Name() string { return "webhook" }

// Send implements ChannelAdapter, retrying the POST per the uniform
// backoff policy until it succeeds or the configured retries are
// exhausted.
func (w *Webhook) Send(ctx context.Context, ev *event.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	return Retry(ctx, RetryConfig{MaxRetries: w.cfg.MaxRetries}, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.Endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("webhook: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if w.cfg.AuthToken != "" {
			req.Header.Set("Authorization", "Bearer "+w.cfg.AuthToken)
		}
		for k, v := range w.cfg.CustomHeaders {
			req.Header.Set(k, v)
		}

		resp, err := w.client.Do(req)
		if err != nil {
			return fmt.Errorf("webhook: request: %w", err)
		}
		defer httpkit.DrainAndClose(resp.Body, 4096)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("webhook: unexpected status %s", resp.Status)
		}
		return nil
	})
}
