// Package adapter defines the channel adapter contract and the shared
// retry policy every concrete adapter (webhook, kafka, mqtt) uses to
// deliver an event.
package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/nugget/eventbridge/internal/event"
)

// ChannelAdapter delivers events to one external channel. Name must be
// stable and match the channel string producers put in Event.Channels.
// Implementations must be safe for concurrent use, since the bus fans
// out to all matching adapters concurrently per event.
type ChannelAdapter interface {
	Name() string
	Send(ctx context.Context, ev *event.Event) error
}

// RetryConfig controls the exponential backoff every adapter uses
// around its own transport call.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	// A value of 0 means a single attempt with no retry.
	MaxRetries int
}

// FeatureDisabledError is returned by an adapter constructor when the
// build was compiled without support for that transport.
type FeatureDisabledError struct {
	Feature string
}

func (e *FeatureDisabledError) Error() string {
	return fmt.Sprintf("adapter: feature disabled: %s", e.Feature)
}

// Retry calls do up to cfg.MaxRetries+1 times, sleeping 2^attempt
// seconds between attempts. It stops early and returns ctx.Err() if
// ctx is cancelled while waiting. The final attempt's error, if any,
// is wrapped with the configured retry count.
func Retry(ctx context.Context, cfg RetryConfig, do func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		lastErr = do(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxRetries {
			break
		}

		delay := time.Duration(1<<uint(attempt+1)) * time.Second
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("failed after %d retries: %w", cfg.MaxRetries, lastErr)
}
